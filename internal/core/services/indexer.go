package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/scribe-labs/scribe-cli/internal/core/domain"
	"github.com/scribe-labs/scribe-cli/internal/core/ports/driven"
	"github.com/scribe-labs/scribe-cli/internal/core/ports/driving"
	"github.com/scribe-labs/scribe-cli/internal/logger"
)

// Ensure Indexer implements the interface.
var _ driving.IndexOrchestrator = (*Indexer)(nil)

// DefaultIndexInterval spaces out documents during a full corpus run as
// a courtesy throttle on the embedding service.
const DefaultIndexInterval = 200 * time.Millisecond

// Indexer coordinates the write path: content source -> parser ->
// chunking pipeline -> embedder -> vector store.
type Indexer struct {
	source   driven.ContentSource
	parser   driven.Parser
	pipeline driven.PostProcessorPipeline
	embedder driven.EmbeddingService
	store    driven.VectorStore
	limiter  *rate.Limiter
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithIndexInterval sets the minimum spacing between documents during
// IndexAll. Zero or negative disables throttling.
func WithIndexInterval(interval time.Duration) IndexerOption {
	return func(i *Indexer) {
		if interval <= 0 {
			i.limiter = nil
			return
		}
		i.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
}

// NewIndexer creates an indexing orchestrator.
func NewIndexer(
	source driven.ContentSource,
	parser driven.Parser,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	opts ...IndexerOption,
) *Indexer {
	i := &Indexer{
		source:   source,
		parser:   parser,
		pipeline: pipeline,
		embedder: embedder,
		store:    store,
		limiter:  rate.NewLimiter(rate.Every(DefaultIndexInterval), 1),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// IndexDocument chunks, embeds and stores one parsed article. The batch
// embed issues a single network call for all chunks. Returns the chunk
// and token counts for cost accounting.
func (i *Indexer) IndexDocument(ctx context.Context, doc *domain.Document) (int, int, error) {
	chunks, err := i.pipeline.Process(ctx, doc)
	if err != nil {
		return 0, 0, fmt.Errorf("chunking %s: %w", doc.Slug, err)
	}
	if len(chunks) == 0 {
		logger.Debug("No chunks for %s, skipping", doc.Slug)
		return 0, 0, nil
	}

	texts := make([]string, len(chunks))
	for idx, chunk := range chunks {
		texts[idx] = chunk.Content
	}

	vectors, tokens, err := i.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, 0, fmt.Errorf("embedding %s: %w", doc.Slug, err)
	}
	for idx := range chunks {
		chunks[idx].Embedding = vectors[idx]
	}

	if err := i.store.Upsert(ctx, chunks); err != nil {
		return 0, 0, fmt.Errorf("storing %s: %w", doc.Slug, err)
	}

	logger.Info("Indexed %s: %d chunks, %d tokens", doc.Slug, len(chunks), tokens)
	return len(chunks), tokens, nil
}

// IndexSlug loads, parses and indexes one article by slug.
func (i *Indexer) IndexSlug(ctx context.Context, slug string) error {
	raw, err := i.source.Load(ctx, slug)
	if err != nil {
		return fmt.Errorf("loading %s: %w", slug, err)
	}

	parsed, err := i.parser.Parse(ctx, raw)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", slug, err)
	}

	_, _, err = i.IndexDocument(ctx, &parsed.Document)
	return err
}

// IndexAll indexes the whole corpus sequentially, pacing documents with
// the rate limiter. Failures are per-document: the run continues and
// reports counts instead of aborting on the first error.
func (i *Indexer) IndexAll(ctx context.Context) (*domain.EmbeddingStats, error) {
	logger.Section("Full Index")

	slugs, err := i.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	logger.Info("Indexing %d articles", len(slugs))

	stats := &domain.EmbeddingStats{}
	for _, slug := range slugs {
		if i.limiter != nil {
			if err := i.limiter.Wait(ctx); err != nil {
				return stats, fmt.Errorf("rate limiter: %w", err)
			}
		}

		raw, err := i.source.Load(ctx, slug)
		if err != nil {
			logger.Warn("Skipping %s: %v", slug, err)
			stats.DocumentsFailed++
			continue
		}

		parsed, err := i.parser.Parse(ctx, raw)
		if err != nil {
			logger.Warn("Skipping %s: %v", slug, err)
			stats.DocumentsFailed++
			continue
		}

		chunks, tokens, err := i.IndexDocument(ctx, &parsed.Document)
		if err != nil {
			logger.Warn("Skipping %s: %v", slug, err)
			stats.DocumentsFailed++
			continue
		}

		stats.DocumentsIndexed++
		stats.TotalChunks += chunks
		stats.TotalTokens += tokens
	}

	stats.EstimatedCost = domain.EstimateEmbeddingCost(i.embedder.ModelName(), stats.TotalTokens)
	stats.CompletedAt = time.Now().UTC()

	logger.Info("Indexed %d articles (%d failed): %d chunks, %d tokens, ~$%.4f",
		stats.DocumentsIndexed, stats.DocumentsFailed,
		stats.TotalChunks, stats.TotalTokens, stats.EstimatedCost)
	return stats, nil
}

// Reindex deletes an article's chunks and indexes it afresh. Upserts
// are keyed by (slug, position), so surviving positions are replaced in
// place; the delete clears positions the new version no longer has.
func (i *Indexer) Reindex(ctx context.Context, slug string) error {
	if err := i.store.DeleteBySlug(ctx, slug); err != nil {
		return fmt.Errorf("clearing %s: %w", slug, err)
	}
	return i.IndexSlug(ctx, slug)
}
