// Package memory provides an in-memory vector store, used for tests
// and for running the pipeline without persistence.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/scribe-labs/scribe-cli/internal/core/domain"
	"github.com/scribe-labs/scribe-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// chunkKey identifies a chunk within a document.
type chunkKey struct {
	slug     string
	position int
}

// Store is an in-memory vector store. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	chunks  map[chunkKey]domain.Chunk
	updated time.Time
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		chunks: make(map[chunkKey]domain.Chunk),
	}
}

// Upsert inserts or replaces chunks keyed by (slug, position).
func (s *Store) Upsert(_ context.Context, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, chunk := range chunks {
		s.chunks[chunkKey{slug: chunk.Slug, position: chunk.Position}] = chunk
	}
	if len(chunks) > 0 {
		s.updated = time.Now()
	}
	return nil
}

// Search returns up to limit chunks whose cosine similarity to the
// query meets the threshold, ordered by descending similarity.
func (s *Store) Search(_ context.Context, query []float32, limit int, threshold float64) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]domain.SearchResult, 0, len(s.chunks))
	for _, chunk := range s.chunks {
		similarity := domain.CosineSimilarity(query, chunk.Embedding)
		if similarity < threshold {
			continue
		}
		results = append(results, domain.SearchResult{
			Chunk:      chunk,
			Similarity: similarity,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// DeleteBySlug removes all chunks belonging to the given document.
func (s *Store) DeleteBySlug(_ context.Context, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.chunks {
		if key.slug == slug {
			delete(s.chunks, key)
		}
	}
	return nil
}

// Stats reports chunk and document counts.
func (s *Store) Stats(_ context.Context) (*domain.StoreStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slugs := make(map[string]struct{})
	for key := range s.chunks {
		slugs[key.slug] = struct{}{}
	}

	return &domain.StoreStats{
		TotalChunks:   len(s.chunks),
		DocumentCount: len(slugs),
		LastUpdated:   s.updated,
	}, nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}
