package driven

import (
	"context"

	"github.com/scribe-labs/scribe-cli/internal/core/domain"
)

// VectorStore persists chunks with their embeddings and answers
// threshold-scoped nearest-neighbour queries by cosine similarity.
//
// Writes are idempotent upserts keyed by (slug, position), so retried
// or concurrent indexing of the same article is safe.
type VectorStore interface {
	// Upsert writes chunks, overwriting any existing chunk with the
	// same (slug, position) key.
	Upsert(ctx context.Context, chunks []domain.Chunk) error

	// Search returns up to limit chunks whose cosine similarity to the
	// query vector is >= threshold, ordered by similarity descending.
	Search(ctx context.Context, query []float32, limit int, threshold float64) ([]domain.SearchResult, error)

	// DeleteBySlug removes all chunks of one article, used before
	// re-indexing.
	DeleteBySlug(ctx context.Context, slug string) error

	// Stats reports aggregate counts over the stored corpus.
	Stats(ctx context.Context) (*domain.StoreStats, error)

	// Close releases resources.
	Close() error
}
