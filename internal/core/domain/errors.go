package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrParse indicates a source article could not be parsed.
	// Indexing of that single article is aborted.
	ErrParse = errors.New("document parse failed")

	// ErrEmbedding indicates the embedding service failed or returned
	// a mismatched result count. The caller does not retry.
	ErrEmbedding = errors.New("embedding service failed")

	// ErrStoreUnavailable indicates the vector store is not configured
	// or unreachable. Retrieval degrades to an empty context.
	ErrStoreUnavailable = errors.New("vector store unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Indexing and semantic retrieval are disabled.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrContentUnavailable indicates the article content source is not
	// configured or the content root does not exist.
	ErrContentUnavailable = errors.New("content source unavailable")
)
