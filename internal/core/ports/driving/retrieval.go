package driving

import (
	"context"

	"github.com/scribe-labs/scribe-cli/internal/core/domain"
)

// RetrievalService is the single query-time entry point. The chat layer
// calls Retrieve once per turn and feeds FormatContext output into its
// system prompt.
type RetrievalService interface {
	// Retrieve runs preprocess -> embed -> search -> diversity
	// re-ranking and packages the results with the trailing
	// conversation window. It never fails: any stage error degrades to
	// a RAGContext with empty results.
	Retrieve(ctx context.Context, query string, history []domain.ChatMessage, opts domain.RetrieveOptions) *domain.RAGContext

	// BuildSources deduplicates results into one citation per article,
	// keeping the highest-similarity occurrence, sorted best first.
	BuildSources(results []domain.SearchResult) []domain.BlogSource

	// FormatContext renders results as a system-prompt-ready block.
	// Empty input yields an explicit no-content sentinel string.
	FormatContext(results []domain.SearchResult) string
}
