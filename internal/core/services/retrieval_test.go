package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribe-labs/scribe-cli/internal/adapters/driven/storage/memory"
	"github.com/scribe-labs/scribe-cli/internal/core/domain"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	embedding  []float32
	embedErr   error
	lastInput  string
	embedCalls int
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, int, error) {
	m.embedCalls++
	m.lastInput = text
	if m.embedErr != nil {
		return nil, 0, m.embedErr
	}
	return m.embedding, len(text) / 4, nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, int, error) {
	m.embedCalls++
	if m.embedErr != nil {
		return nil, 0, m.embedErr
	}
	result := make([][]float32, len(texts))
	tokens := 0
	for i, text := range texts {
		result[i] = m.embedding
		tokens += len(text) / 4
	}
	return result, tokens, nil
}

func (m *mockEmbeddingService) Dimensions() int     { return len(m.embedding) }
func (m *mockEmbeddingService) ModelName() string   { return "mock-embed" }
func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error        { return nil }

// mockVectorStore implements driven.VectorStore for testing.
type mockVectorStore struct {
	results   []domain.SearchResult
	searchErr error
	lastLimit int
}

func (m *mockVectorStore) Upsert(_ context.Context, _ []domain.Chunk) error { return nil }

func (m *mockVectorStore) Search(_ context.Context, _ []float32, limit int, threshold float64) ([]domain.SearchResult, error) {
	m.lastLimit = limit
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	var hits []domain.SearchResult
	for _, r := range m.results {
		if r.Similarity >= threshold {
			hits = append(hits, r)
		}
	}
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (m *mockVectorStore) DeleteBySlug(_ context.Context, _ string) error { return nil }
func (m *mockVectorStore) Stats(_ context.Context) (*domain.StoreStats, error) {
	return &domain.StoreStats{}, nil
}
func (m *mockVectorStore) Close() error { return nil }

func result(slug string, position int, similarity float64) domain.SearchResult {
	return domain.SearchResult{
		Chunk: domain.Chunk{
			ID:       slug + "-chunk",
			Slug:     slug,
			Position: position,
			Content:  "content of " + slug,
			Metadata: domain.ChunkMetadata{
				Title: "Title " + slug,
				URL:   "https://example.com/blog/" + slug,
			},
		},
		Similarity: similarity,
	}
}

// --- Retrieve ---

func TestRetrieve_HappyPath(t *testing.T) {
	embedder := &mockEmbeddingService{embedding: []float32{1, 0}}
	store := &mockVectorStore{results: []domain.SearchResult{
		result("css-grid", 0, 0.9),
		result("css-flexbox", 0, 0.8),
	}}

	svc := NewRetrievalService(embedder, store)
	rag := svc.Retrieve(context.Background(), "How to use CSS grid?", nil, domain.RetrieveOptions{})

	require.NotNil(t, rag)
	assert.Equal(t, "How to use CSS grid?", rag.Query)
	require.Len(t, rag.Results, 2)
	assert.Equal(t, "css-grid", rag.Results[0].Chunk.Slug)
}

func TestRetrieve_PreprocessesQuery(t *testing.T) {
	embedder := &mockEmbeddingService{embedding: []float32{1, 0}}
	store := &mockVectorStore{}

	svc := NewRetrievalService(embedder, store)
	svc.Retrieve(context.Background(), "Please explain CSS animations", nil, domain.RetrieveOptions{})

	assert.Equal(t, "css animations", embedder.lastInput)
}

func TestRetrieve_OverFetchesCandidates(t *testing.T) {
	embedder := &mockEmbeddingService{embedding: []float32{1, 0}}
	store := &mockVectorStore{}
	svc := NewRetrievalService(embedder, store)

	// Small maxResults still requests the candidate minimum.
	svc.Retrieve(context.Background(), "css grid", nil, domain.RetrieveOptions{MaxResults: 3})
	assert.Equal(t, 10, store.lastLimit)

	// Larger maxResults requests double.
	svc.Retrieve(context.Background(), "css grid", nil, domain.RetrieveOptions{MaxResults: 8})
	assert.Equal(t, 16, store.lastLimit)
}

func TestRetrieve_TruncatesToMaxResults(t *testing.T) {
	embedder := &mockEmbeddingService{embedding: []float32{1, 0}}
	store := &mockVectorStore{results: []domain.SearchResult{
		result("a", 0, 0.9), result("b", 0, 0.8), result("c", 0, 0.7),
	}}

	svc := NewRetrievalService(embedder, store)
	rag := svc.Retrieve(context.Background(), "css grid", nil, domain.RetrieveOptions{MaxResults: 2})

	assert.Len(t, rag.Results, 2)
}

func TestRetrieve_EmbeddingFailureDegrades(t *testing.T) {
	embedder := &mockEmbeddingService{embedErr: errors.New("quota exceeded")}
	store := &mockVectorStore{results: []domain.SearchResult{result("a", 0, 0.9)}}

	svc := NewRetrievalService(embedder, store)
	rag := svc.Retrieve(context.Background(), "css grid", nil, domain.RetrieveOptions{})

	require.NotNil(t, rag)
	assert.Empty(t, rag.Results)
	assert.Equal(t, "css grid", rag.Query)
}

func TestRetrieve_StoreFailureDegrades(t *testing.T) {
	embedder := &mockEmbeddingService{embedding: []float32{1, 0}}
	store := &mockVectorStore{searchErr: errors.New("store unreachable")}

	svc := NewRetrievalService(embedder, store)
	rag := svc.Retrieve(context.Background(), "css grid", nil, domain.RetrieveOptions{})

	require.NotNil(t, rag)
	assert.Empty(t, rag.Results)
}

func TestRetrieve_EmptyQuerySkipsEmbedding(t *testing.T) {
	embedder := &mockEmbeddingService{embedding: []float32{1, 0}}
	store := &mockVectorStore{}

	svc := NewRetrievalService(embedder, store)
	rag := svc.Retrieve(context.Background(), "   ", nil, domain.RetrieveOptions{})

	require.NotNil(t, rag)
	assert.Empty(t, rag.Results)
	assert.Zero(t, embedder.embedCalls)
}

func TestRetrieve_HistoryWindow(t *testing.T) {
	embedder := &mockEmbeddingService{embedding: []float32{1, 0}}
	store := &mockVectorStore{}
	svc := NewRetrievalService(embedder, store)

	history := make([]domain.ChatMessage, 10)
	for i := range history {
		history[i] = domain.ChatMessage{Role: "user", Content: string(rune('a' + i))}
	}

	rag := svc.Retrieve(context.Background(), "css grid", history, domain.RetrieveOptions{})

	require.Len(t, rag.History, domain.HistoryWindow)
	assert.Equal(t, "e", rag.History[0].Content, "window keeps the trailing turns")
	assert.Equal(t, "j", rag.History[len(rag.History)-1].Content)
}

// --- Diversity re-ranking ---

func TestRetrieve_DiversityRerank(t *testing.T) {
	embedder := &mockEmbeddingService{embedding: []float32{1, 0}}
	store := &mockVectorStore{results: []domain.SearchResult{
		result("long-article", 0, 0.95),
		result("long-article", 1, 0.90),
		result("long-article", 2, 0.85),
		result("other-article", 0, 0.70),
	}}

	svc := NewRetrievalService(embedder, store)
	rag := svc.Retrieve(context.Background(), "css grid", nil, domain.RetrieveOptions{
		MaxResults:     5,
		DiversityBoost: 0.3,
	})

	// First long-article chunk keeps 0.95. Second is adjusted to 0.60,
	// third to 0.25 which falls below the floor and is dropped.
	require.Len(t, rag.Results, 3)
	assert.Equal(t, "long-article", rag.Results[0].Chunk.Slug)
	assert.InDelta(t, 0.95, rag.Results[0].Similarity, 1e-9)
	assert.Equal(t, "other-article", rag.Results[1].Chunk.Slug)
	assert.InDelta(t, 0.70, rag.Results[1].Similarity, 1e-9)
	assert.Equal(t, "long-article", rag.Results[2].Chunk.Slug)
	assert.InDelta(t, 0.60, rag.Results[2].Similarity, 1e-9)
}

func TestRetrieve_DiversityDisabledByDefault(t *testing.T) {
	embedder := &mockEmbeddingService{embedding: []float32{1, 0}}
	store := &mockVectorStore{results: []domain.SearchResult{
		result("same", 0, 0.9),
		result("same", 1, 0.8),
		result("same", 2, 0.7),
	}}

	svc := NewRetrievalService(embedder, store)
	rag := svc.Retrieve(context.Background(), "css grid", nil, domain.RetrieveOptions{})

	assert.Len(t, rag.Results, 3, "no re-ranking without a boost")
}

// --- BuildSources ---

func TestBuildSources(t *testing.T) {
	svc := NewRetrievalService(nil, nil)

	sources := svc.BuildSources([]domain.SearchResult{
		result("css-grid", 0, 0.7),
		result("css-grid", 1, 0.9),
		result("flexbox", 0, 0.8),
	})

	require.Len(t, sources, 2)
	assert.Equal(t, "css-grid", sources[0].Slug)
	assert.InDelta(t, 0.9, sources[0].Similarity, 1e-9, "keeps best occurrence per article")
	assert.Equal(t, "https://example.com/blog/css-grid", sources[0].URL)
	assert.Equal(t, "flexbox", sources[1].Slug)
}

func TestBuildSources_Empty(t *testing.T) {
	svc := NewRetrievalService(nil, nil)
	assert.Empty(t, svc.BuildSources(nil))
}

// --- FormatContext ---

func TestFormatContext(t *testing.T) {
	svc := NewRetrievalService(nil, nil)

	r := result("css-grid", 0, 0.87)
	r.Chunk.Metadata.Section = "Layout"

	formatted := svc.FormatContext([]domain.SearchResult{r})

	assert.Contains(t, formatted, "Title css-grid")
	assert.Contains(t, formatted, "Layout")
	assert.Contains(t, formatted, "87% match")
	assert.Contains(t, formatted, "content of css-grid")
}

func TestFormatContext_EmptyReturnsSentinel(t *testing.T) {
	svc := NewRetrievalService(nil, nil)

	formatted := svc.FormatContext(nil)

	assert.Equal(t, NoContextSentinel, formatted)
	assert.False(t, strings.Contains(formatted, "["), "sentinel is not a result block")
}

// --- End-to-end against the memory store ---

func TestRetrieve_EndToEnd(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	// A chunk about CSS animations sits near the query vector; an
	// unrelated chunk is orthogonal.
	require.NoError(t, store.Upsert(ctx, []domain.Chunk{
		{ID: "c1", Slug: "css-animations", Position: 0, Content: "CSS animation keyframes", Embedding: []float32{0.9, 0.1}},
		{ID: "c2", Slug: "go-profiling", Position: 0, Content: "pprof flame graphs", Embedding: []float32{0, 1}},
	}))

	embedder := &mockEmbeddingService{embedding: []float32{1, 0}}
	svc := NewRetrievalService(embedder, store)

	rag := svc.Retrieve(ctx, "How to create CSS animations?", nil, domain.RetrieveOptions{})
	require.Len(t, rag.Results, 1)
	assert.Equal(t, "css-animations", rag.Results[0].Chunk.Slug)
	assert.GreaterOrEqual(t, rag.Results[0].Similarity, domain.DefaultSimilarityThreshold)
}

func TestRetrieve_HighThresholdReturnsNothing(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	require.NoError(t, store.Upsert(ctx, []domain.Chunk{
		{ID: "c1", Slug: "css-animations", Position: 0, Content: "CSS animation keyframes", Embedding: []float32{0.5, 0.86}},
	}))

	embedder := &mockEmbeddingService{embedding: []float32{1, 0}}
	svc := NewRetrievalService(embedder, store)

	rag := svc.Retrieve(ctx, "nonexistent topic xyz123abc", nil, domain.RetrieveOptions{
		SimilarityThreshold: 0.7,
	})

	assert.Empty(t, rag.Results)
	assert.Equal(t, NoContextSentinel, svc.FormatContext(rag.Results))
}
