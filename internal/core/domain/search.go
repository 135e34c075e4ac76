package domain

// Default retrieval parameters.
const (
	// DefaultMaxResults is the number of chunks handed to the chat layer.
	DefaultMaxResults = 5

	// DefaultSimilarityThreshold is the minimum cosine similarity for a
	// chunk to count as relevant.
	DefaultSimilarityThreshold = 0.3

	// DiversityFloor is the adjusted-similarity cutoff below which a
	// repeated-source candidate is dropped during diversity re-ranking.
	DiversityFloor = 0.5

	// HistoryWindow is the number of trailing conversation turns kept
	// in a RAGContext.
	HistoryWindow = 6
)

// RetrieveOptions configures a retrieval call.
type RetrieveOptions struct {
	// MaxResults is the maximum number of chunks returned.
	// Zero means DefaultMaxResults.
	MaxResults int

	// SimilarityThreshold is the minimum cosine similarity.
	// Zero means DefaultSimilarityThreshold.
	SimilarityThreshold float64

	// DiversityBoost penalises repeated results from the same article.
	// Zero disables diversity re-ranking.
	DiversityBoost float64
}

// MaxResultsOrDefault returns MaxResults or the default when unset.
func (o RetrieveOptions) MaxResultsOrDefault() int {
	if o.MaxResults <= 0 {
		return DefaultMaxResults
	}
	return o.MaxResults
}

// ThresholdOrDefault returns SimilarityThreshold or the default when unset.
func (o RetrieveOptions) ThresholdOrDefault() float64 {
	if o.SimilarityThreshold <= 0 {
		return DefaultSimilarityThreshold
	}
	return o.SimilarityThreshold
}

// SearchResult pairs a chunk with the cosine similarity (0-1) it scored
// against a single query. Transient; never persisted.
type SearchResult struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Similarity is the cosine similarity to the query vector.
	Similarity float64
}

// ChatMessage is one turn of the conversation with the chat assistant.
type ChatMessage struct {
	// Role is "user" or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// RAGContext bundles everything the chat layer needs to ground one
// answer. Built fresh per chat turn; never persisted.
type RAGContext struct {
	// Query is the original, unprocessed user query.
	Query string

	// Results are the retrieved chunks, best first. Empty when
	// retrieval degraded or found nothing relevant.
	Results []SearchResult

	// History is the bounded trailing window of prior conversation
	// turns, at most HistoryWindow entries.
	History []ChatMessage
}

// BlogSource is a deduplicated citation derived from search results,
// one per distinct article, keeping the highest-similarity occurrence.
type BlogSource struct {
	// Slug identifies the article.
	Slug string

	// Title is the article title.
	Title string

	// URL is the canonical article URL.
	URL string

	// Similarity is the best similarity any chunk of the article scored.
	Similarity float64
}
