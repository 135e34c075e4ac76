package domain

import "time"

// Document represents one source article after front-matter parsing.
// It is immutable during a single indexing run and superseded wholesale
// on re-index.
type Document struct {
	// Slug is the unique identifier, taken from the article's
	// directory name rather than its content.
	Slug string

	// Title is the human-readable title from front matter.
	Title string

	// Date is the publication date.
	Date time.Time

	// Content is the article body with front matter stripped.
	// Markdown structure is preserved for the chunker.
	Content string

	// Keywords are optional front-matter tags.
	Keywords []string

	// Author is the article author, if declared.
	Author string
}

// ChunkMetadata carries the document-level context stored with every
// chunk. It is a closed struct rather than an open map so the data
// model's invariants stay checkable.
type ChunkMetadata struct {
	// Title is the owning article's title.
	Title string

	// Section is the nearest preceding heading within the article,
	// empty when the chunk precedes any heading.
	Section string

	// Tags are the article keywords.
	Tags []string

	// URL is the canonical article URL used for citations.
	URL string

	// Date is the article publication date.
	Date time.Time

	// Author is the article author.
	Author string
}

// Chunk is a contiguous slice of a Document's content, the unit of
// embedding and retrieval.
//
// Invariant: (Slug, Position) is unique. Re-indexing a document
// replaces its prior chunks rather than duplicating them.
type Chunk struct {
	// ID is the generated unique identifier for the chunk.
	ID string

	// Slug links to the owning Document.
	Slug string

	// Position is the zero-based ordinal within the document.
	Position int

	// Content is the chunk text, 50-1000 characters after filtering
	// except for single oversized sections.
	Content string

	// Metadata is the document-level context for this chunk.
	Metadata ChunkMetadata

	// Embedding is the vector representation. Its length matches the
	// embedding model's output dimension (e.g. 1536). Nil before the
	// embedding generator has run.
	Embedding []float32

	// CreatedAt is when the chunk was produced.
	CreatedAt time.Time
}
