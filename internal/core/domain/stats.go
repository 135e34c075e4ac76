package domain

import "time"

// StoreStats summarises the persisted chunk corpus.
type StoreStats struct {
	// TotalChunks is the number of stored chunks.
	TotalChunks int

	// DocumentCount is the number of distinct article slugs.
	DocumentCount int

	// LastUpdated is the most recent chunk write time.
	LastUpdated time.Time
}

// EmbeddingStats summarises one full indexing run.
type EmbeddingStats struct {
	// DocumentsIndexed is the number of articles indexed successfully.
	DocumentsIndexed int

	// DocumentsFailed is the number of articles that aborted.
	DocumentsFailed int

	// TotalChunks is the number of chunks written across all articles.
	TotalChunks int

	// TotalTokens is the embedding token usage across all articles.
	TotalTokens int

	// EstimatedCost is the approximate embedding spend in USD.
	EstimatedCost float64

	// CompletedAt is when the run finished.
	CompletedAt time.Time
}

// costPerMillionTokens maps embedding models to USD per 1M input tokens.
// Unknown models estimate at the text-embedding-3-small rate.
var costPerMillionTokens = map[string]float64{
	"text-embedding-3-small": 0.02,
	"text-embedding-3-large": 0.13,
	"text-embedding-ada-002": 0.10,
}

// EstimateEmbeddingCost returns the approximate USD cost of embedding
// tokens with the given model.
func EstimateEmbeddingCost(model string, tokens int) float64 {
	rate, ok := costPerMillionTokens[model]
	if !ok {
		rate = costPerMillionTokens["text-embedding-3-small"]
	}
	return float64(tokens) / 1_000_000 * rate
}
