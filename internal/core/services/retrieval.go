package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/scribe-labs/scribe-cli/internal/core/domain"
	"github.com/scribe-labs/scribe-cli/internal/core/ports/driven"
	"github.com/scribe-labs/scribe-cli/internal/core/ports/driving"
	"github.com/scribe-labs/scribe-cli/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// NoContextSentinel is returned by FormatContext when retrieval found
// nothing relevant, so the chat model can say so instead of guessing.
const NoContextSentinel = "No relevant content found in the blog for this query."

// minCandidates is the smallest over-fetch size requested from the
// store, leaving room for diversity filtering to discard candidates.
const minCandidates = 10

// RetrievalService is the query-time entry point of the pipeline.
type RetrievalService struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
}

// NewRetrievalService creates a retrieval service over the given
// embedding service and vector store.
func NewRetrievalService(embedder driven.EmbeddingService, store driven.VectorStore) *RetrievalService {
	return &RetrievalService{
		embedder: embedder,
		store:    store,
	}
}

// Retrieve runs the full query path and never fails: any stage error is
// logged and degrades to a RAGContext with no results, so the chat flow
// always receives a usable object.
func (s *RetrievalService) Retrieve(
	ctx context.Context, query string, history []domain.ChatMessage, opts domain.RetrieveOptions,
) *domain.RAGContext {
	logger.Section("Retrieval")
	logger.Debug("Query: %q", query)

	rag := &domain.RAGContext{
		Query:   query,
		Results: []domain.SearchResult{},
		History: trailingWindow(history, domain.HistoryWindow),
	}

	if strings.TrimSpace(query) == "" {
		logger.Debug("Empty query, returning no results")
		return rag
	}

	processed := PreprocessQuery(query)
	logger.Debug("Preprocessed query: %q", processed)

	queryVector, _, err := s.embedder.Embed(ctx, processed)
	if err != nil {
		logger.Warn("Query embedding failed: %v", err)
		return rag
	}

	maxResults := opts.MaxResultsOrDefault()
	threshold := opts.ThresholdOrDefault()

	// Over-fetch so diversity filtering still has enough candidates.
	candidateLimit := maxResults * 2
	if candidateLimit < minCandidates {
		candidateLimit = minCandidates
	}
	logger.Debug("Searching: limit=%d, threshold=%.2f", candidateLimit, threshold)

	candidates, err := s.store.Search(ctx, queryVector, candidateLimit, threshold)
	if err != nil {
		logger.Warn("Vector search failed: %v", err)
		return rag
	}
	logger.Debug("Candidates: %d", len(candidates))

	if opts.DiversityBoost > 0 {
		candidates = diversityRerank(candidates, opts.DiversityBoost)
		logger.Debug("After diversity re-ranking: %d", len(candidates))
	}

	if len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}

	rag.Results = candidates
	logger.Info("Retrieved %d chunks", len(rag.Results))
	return rag
}

// diversityRerank penalises repeated results from the same article.
// Candidates are walked best first; each one's similarity is reduced by
// boost per prior kept chunk of the same article, and candidates whose
// adjusted similarity falls below the floor are dropped. This stops one
// long article from monopolising every result slot.
func diversityRerank(candidates []domain.SearchResult, boost float64) []domain.SearchResult {
	sorted := make([]domain.SearchResult, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Similarity > sorted[j].Similarity
	})

	occurrences := make(map[string]int)
	kept := make([]domain.SearchResult, 0, len(sorted))

	for _, candidate := range sorted {
		adjusted := candidate.Similarity - float64(occurrences[candidate.Chunk.Slug])*boost
		if adjusted < domain.DiversityFloor {
			continue
		}
		candidate.Similarity = adjusted
		kept = append(kept, candidate)
		occurrences[candidate.Chunk.Slug]++
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Similarity > kept[j].Similarity
	})
	return kept
}

// BuildSources deduplicates results into one citation per article,
// keeping the highest-similarity occurrence, sorted best first.
func (s *RetrievalService) BuildSources(results []domain.SearchResult) []domain.BlogSource {
	best := make(map[string]domain.BlogSource)
	for _, result := range results {
		slug := result.Chunk.Slug
		if existing, ok := best[slug]; ok && existing.Similarity >= result.Similarity {
			continue
		}
		best[slug] = domain.BlogSource{
			Slug:       slug,
			Title:      result.Chunk.Metadata.Title,
			URL:        result.Chunk.Metadata.URL,
			Similarity: result.Similarity,
		}
	}

	sources := make([]domain.BlogSource, 0, len(best))
	for _, source := range best {
		sources = append(sources, source)
	}
	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Similarity > sources[j].Similarity
	})
	return sources
}

// FormatContext renders results as a system-prompt-ready block listing
// each result's source, section, similarity percentage and content.
func (s *RetrievalService) FormatContext(results []domain.SearchResult) string {
	if len(results) == 0 {
		return NoContextSentinel
	}

	var b strings.Builder
	b.WriteString("Relevant blog content:\n")
	for i, result := range results {
		heading := result.Chunk.Metadata.Title
		if heading == "" {
			heading = result.Chunk.Slug
		}
		if section := result.Chunk.Metadata.Section; section != "" {
			heading += " > " + section
		}
		fmt.Fprintf(&b, "\n[%d] %s (%.0f%% match)\n%s\n", i+1, heading, result.Similarity*100, result.Chunk.Content)
	}
	return b.String()
}

// trailingWindow returns at most the last n entries of history.
func trailingWindow(history []domain.ChatMessage, n int) []domain.ChatMessage {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
