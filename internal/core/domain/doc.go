// Package domain defines the core business entities for Scribe.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A parsed blog article
//   - Chunk: The unit of embedding and retrieval within an article
//   - SearchResult: A chunk paired with a similarity score
//   - RAGContext: Retrieval output handed to the chat layer
//   - BlogSource: A deduplicated citation for a generated answer
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
