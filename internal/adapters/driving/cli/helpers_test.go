package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	filecfg "github.com/scribe-labs/scribe-cli/internal/adapters/driven/config/file"
	"github.com/scribe-labs/scribe-cli/internal/adapters/driven/storage/memory"
	"github.com/scribe-labs/scribe-cli/internal/core/domain"
)

// stubRetrievalService implements driving.RetrievalService with canned results.
type stubRetrievalService struct {
	results []domain.SearchResult
}

func (s *stubRetrievalService) Retrieve(_ context.Context, query string, history []domain.ChatMessage, _ domain.RetrieveOptions) *domain.RAGContext {
	return &domain.RAGContext{Query: query, Results: s.results, History: history}
}

func (s *stubRetrievalService) BuildSources(results []domain.SearchResult) []domain.BlogSource {
	var sources []domain.BlogSource
	seen := map[string]bool{}
	for _, r := range results {
		if seen[r.Chunk.Slug] {
			continue
		}
		seen[r.Chunk.Slug] = true
		sources = append(sources, domain.BlogSource{
			Slug:       r.Chunk.Slug,
			Title:      r.Chunk.Metadata.Title,
			URL:        r.Chunk.Metadata.URL,
			Similarity: r.Similarity,
		})
	}
	return sources
}

func (s *stubRetrievalService) FormatContext(results []domain.SearchResult) string {
	if len(results) == 0 {
		return "No relevant content found in the blog for this query."
	}
	return "Relevant blog content:"
}

// stubIndexer implements driving.IndexOrchestrator.
type stubIndexer struct {
	indexedSlugs  []string
	reindexed     []string
	indexAllStats *domain.EmbeddingStats
}

func (s *stubIndexer) IndexDocument(_ context.Context, _ *domain.Document) (int, int, error) {
	return 3, 120, nil
}

func (s *stubIndexer) IndexSlug(_ context.Context, slug string) error {
	s.indexedSlugs = append(s.indexedSlugs, slug)
	return nil
}

func (s *stubIndexer) IndexAll(_ context.Context) (*domain.EmbeddingStats, error) {
	if s.indexAllStats != nil {
		return s.indexAllStats, nil
	}
	return &domain.EmbeddingStats{
		DocumentsIndexed: 2,
		TotalChunks:      7,
		TotalTokens:      1234,
		EstimatedCost:    0.0001,
		CompletedAt:      time.Now(),
	}, nil
}

func (s *stubIndexer) Reindex(_ context.Context, slug string) error {
	s.reindexed = append(s.reindexed, slug)
	return nil
}

func sampleResults() []domain.SearchResult {
	return []domain.SearchResult{
		{
			Chunk: domain.Chunk{
				ID:       "c1",
				Slug:     "css-grid",
				Position: 0,
				Content:  "Grid template areas make layout declarative.",
				Metadata: domain.ChunkMetadata{
					Title:   "CSS Grid Guide",
					Section: "Template Areas",
					URL:     "https://example.com/blog/css-grid",
				},
			},
			Similarity: 0.91,
		},
	}
}

// setupTestServices wires stub services into the command tree and
// returns a cleanup that removes them again.
func setupTestServices(t *testing.T) func() {
	t.Helper()

	cfgStore, err := filecfg.NewConfigStore(t.TempDir())
	require.NoError(t, err)

	Setup(Config{
		Version:          "test",
		RetrievalService: &stubRetrievalService{results: sampleResults()},
		Indexer:          &stubIndexer{},
		VectorStore:      memory.NewStore(),
		ConfigStore:      cfgStore,
	})

	return func() {
		Setup(Config{})
	}
}
