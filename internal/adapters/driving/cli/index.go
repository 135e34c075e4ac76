package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/scribe-labs/scribe-cli/internal/logger"
)

var (
	indexSlug  string
	indexWatch bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index blog articles into the vector store",
	Long: `Parses, chunks and embeds blog articles, then stores them in the
vector store. Without flags the whole corpus is indexed; --slug indexes
a single article and --watch keeps running, re-indexing articles as
their files change.`,
	RunE: runIndex,
}

var reindexCmd = &cobra.Command{
	Use:   "reindex [slug]",
	Short: "Delete and re-index one article",
	Args:  cobra.ExactArgs(1),
	RunE:  runReindex,
}

func init() {
	indexCmd.Flags().StringVar(&indexSlug, "slug", "", "index a single article by slug")
	indexCmd.Flags().BoolVar(&indexWatch, "watch", false, "watch the content tree and re-index on change")
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(reindexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if indexer == nil {
		return errors.New("indexer not configured")
	}

	ctx := cmd.Context()

	if indexSlug != "" {
		if err := indexer.IndexSlug(ctx, indexSlug); err != nil {
			return fmt.Errorf("indexing %s: %w", indexSlug, err)
		}
		cmd.Printf("Indexed %s\n", indexSlug)
		return nil
	}

	stats, err := indexer.IndexAll(ctx)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	cmd.Printf("Indexed %d articles (%d failed)\n", stats.DocumentsIndexed, stats.DocumentsFailed)
	cmd.Printf("  Chunks: %d\n", stats.TotalChunks)
	cmd.Printf("  Tokens: %d (~$%.4f)\n", stats.TotalTokens, stats.EstimatedCost)

	if indexWatch {
		return watchAndReindex(ctx, cmd)
	}
	return nil
}

// watchAndReindex re-indexes articles as their files change, until
// interrupted.
func watchAndReindex(ctx context.Context, cmd *cobra.Command) error {
	if contentSource == nil {
		return errors.New("content source not configured")
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	changes, err := contentSource.Watch(ctx)
	if err != nil {
		return fmt.Errorf("starting watch: %w", err)
	}

	cmd.Println("Watching for changes (Ctrl-C to stop)...")
	for slug := range changes {
		logger.Info("Change detected: %s", slug)
		if err := indexer.Reindex(ctx, slug); err != nil {
			logger.Warn("Re-index of %s failed: %v", slug, err)
			continue
		}
		cmd.Printf("Re-indexed %s\n", slug)
	}
	return nil
}

func runReindex(cmd *cobra.Command, args []string) error {
	if indexer == nil {
		return errors.New("indexer not configured")
	}

	slug := args[0]
	if err := indexer.Reindex(cmd.Context(), slug); err != nil {
		return fmt.Errorf("re-indexing %s: %w", slug, err)
	}
	cmd.Printf("Re-indexed %s\n", slug)
	return nil
}
