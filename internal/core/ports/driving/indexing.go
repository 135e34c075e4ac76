package driving

import (
	"context"

	"github.com/scribe-labs/scribe-cli/internal/core/domain"
)

// IndexOrchestrator coordinates parsing, chunking, embedding and
// storage for the article corpus.
type IndexOrchestrator interface {
	// IndexDocument indexes one already-parsed article.
	// Returns the chunk and token counts for the article.
	IndexDocument(ctx context.Context, doc *domain.Document) (chunks, tokens int, err error)

	// IndexSlug loads, parses and indexes one article by slug.
	IndexSlug(ctx context.Context, slug string) error

	// IndexAll indexes the whole corpus sequentially, throttled
	// between articles, continuing past individual failures.
	IndexAll(ctx context.Context) (*domain.EmbeddingStats, error)

	// Reindex deletes an article's chunks and indexes it afresh.
	Reindex(ctx context.Context, slug string) error
}
