package driven

import "context"

// EmbeddingService generates vector embeddings from text and tracks
// token usage for cost accounting.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
//   - Local models via inference servers
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text and
	// returns the token count consumed.
	Embed(ctx context.Context, text string) ([]float32, int, error)

	// EmbedBatch generates embeddings for multiple texts in a single
	// upstream call and returns the total token count. One network
	// round trip regardless of batch size.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, int, error)

	// Dimensions returns the embedding vector size (e.g., 768, 1536).
	// This must match the VectorStore configuration.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight
	// request, used at startup before committing to semantic indexing.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
