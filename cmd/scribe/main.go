// Command scribe is the RAG content pipeline for a personal blog:
// it indexes long-form articles into a vector store and retrieves
// relevant chunks to ground the blog's chat assistant.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	filecfg "github.com/scribe-labs/scribe-cli/internal/adapters/driven/config/file"
	"github.com/scribe-labs/scribe-cli/internal/adapters/driven/embedding/ollama"
	"github.com/scribe-labs/scribe-cli/internal/adapters/driven/embedding/openai"
	"github.com/scribe-labs/scribe-cli/internal/adapters/driven/storage/memory"
	"github.com/scribe-labs/scribe-cli/internal/adapters/driven/storage/pgvector"
	"github.com/scribe-labs/scribe-cli/internal/adapters/driven/storage/sqlite"
	"github.com/scribe-labs/scribe-cli/internal/adapters/driving/cli"
	"github.com/scribe-labs/scribe-cli/internal/connectors/filesystem"
	"github.com/scribe-labs/scribe-cli/internal/core/ports/driven"
	"github.com/scribe-labs/scribe-cli/internal/core/services"
	"github.com/scribe-labs/scribe-cli/internal/logger"
	"github.com/scribe-labs/scribe-cli/internal/normalisers/markdown"
	"github.com/scribe-labs/scribe-cli/internal/postprocessors"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := filecfg.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	embedder, err := buildEmbeddingService(configStore)
	if err != nil {
		return err
	}
	defer embedder.Close()

	store, err := buildVectorStore(configStore, embedder.Dimensions())
	if err != nil {
		return err
	}
	defer store.Close()

	contentDir := configStore.GetString("content.dir")
	if contentDir == "" {
		contentDir = "content"
	}
	source := filesystem.New(contentDir)
	defer source.Close()

	pipeline := postprocessors.NewDefaultPipeline(postprocessors.Config{
		ChunkSize:        configStore.GetInt("chunking.size"),
		Overlap:          configStore.GetInt("chunking.overlap"),
		PreserveHeadings: configStore.GetBool("chunking.preserve_headings"),
		BaseURL:          configStore.GetString("site.base_url"),
	})

	var indexerOpts []services.IndexerOption
	if ms := configStore.GetInt("index.interval_ms"); ms > 0 {
		indexerOpts = append(indexerOpts, services.WithIndexInterval(time.Duration(ms)*time.Millisecond))
	}

	indexer := services.NewIndexer(source, markdown.New(), pipeline, embedder, store, indexerOpts...)
	retrieval := services.NewRetrievalService(embedder, store)

	cli.Setup(cli.Config{
		Version:          version,
		RetrievalService: retrieval,
		Indexer:          indexer,
		VectorStore:      store,
		EmbeddingService: embedder,
		ContentSource:    source,
		ConfigStore:      configStore,
	})

	return cli.Execute()
}

// buildEmbeddingService selects the embedding provider from config.
// OpenAI is the default; Ollama serves local development.
func buildEmbeddingService(cfg driven.ConfigStore) (driven.EmbeddingService, error) {
	provider := cfg.GetString("embedding.provider")

	switch provider {
	case "ollama":
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:    cfg.GetString("embedding.base_url"),
			Model:      cfg.GetString("embedding.model"),
			Dimensions: cfg.GetInt("embedding.dimensions"),
		}), nil

	case "openai", "":
		apiKey := cfg.GetString("embedding.api_key")
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		return openai.NewEmbeddingService(openai.Config{
			APIKey:     apiKey,
			Model:      cfg.GetString("embedding.model"),
			Dimensions: cfg.GetInt("embedding.dimensions"),
		})

	default:
		return nil, fmt.Errorf("unknown embedding provider %q", provider)
	}
}

// buildVectorStore selects the storage backend from config. SQLite is
// the default; Postgres/pgvector serves larger corpora and the memory
// store supports ephemeral runs.
func buildVectorStore(cfg driven.ConfigStore, dimensions int) (driven.VectorStore, error) {
	backend := cfg.GetString("store.backend")

	switch backend {
	case "postgres":
		connString := cfg.GetString("store.postgres_url")
		if connString == "" {
			connString = os.Getenv("DATABASE_URL")
		}
		store, err := pgvector.NewStore(context.Background(), connString, dimensions)
		if err != nil {
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}
		return store, nil

	case "memory":
		logger.Warn("Using in-memory store: the index will not persist")
		return memory.NewStore(), nil

	case "sqlite", "":
		store, err := sqlite.NewStore(cfg.GetString("store.data_dir"))
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
