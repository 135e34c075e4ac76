// Package cli implements the command-line interface for Scribe.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/scribe-labs/scribe-cli/internal/core/ports/driven"
	"github.com/scribe-labs/scribe-cli/internal/core/ports/driving"
	"github.com/scribe-labs/scribe-cli/internal/logger"
)

// version is set via Setup from the main package.
var version = "dev"

// Services injected by the composition root before Execute.
var (
	retrievalService driving.RetrievalService
	indexer          driving.IndexOrchestrator
	vectorStore      driven.VectorStore
	embeddingService driven.EmbeddingService
	contentSource    driven.ContentSource
	configStore      driven.ConfigStore
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "scribe",
	Short: "RAG content pipeline for a personal blog",
	Long: `Scribe indexes long-form blog articles into a vector store and
retrieves the most relevant chunks for a query, producing the context
and citations that ground the blog's chat assistant.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Config carries the dependencies the commands need.
type Config struct {
	Version          string
	RetrievalService driving.RetrievalService
	Indexer          driving.IndexOrchestrator
	VectorStore      driven.VectorStore
	EmbeddingService driven.EmbeddingService
	ContentSource    driven.ContentSource
	ConfigStore      driven.ConfigStore
}

// Setup injects the services the commands depend on.
func Setup(cfg Config) {
	if cfg.Version != "" {
		version = cfg.Version
	}
	retrievalService = cfg.RetrievalService
	indexer = cfg.Indexer
	vectorStore = cfg.VectorStore
	embeddingService = cfg.EmbeddingService
	contentSource = cfg.ContentSource
	configStore = cfg.ConfigStore
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
