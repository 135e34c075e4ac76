package driven

import (
	"context"

	"github.com/scribe-labs/scribe-cli/internal/core/domain"
)

// RawArticle is an unparsed article as read from the content tree.
type RawArticle struct {
	// Slug is derived from the article's enclosing directory.
	Slug string

	// Path is the file the content was read from.
	Path string

	// Content is the raw file content, front matter included.
	Content []byte
}

// ContentSource lists and loads raw articles from the content tree.
type ContentSource interface {
	// List returns the slugs of all available articles.
	List(ctx context.Context) ([]string, error)

	// Load reads the raw article for a slug.
	// Returns domain.ErrNotFound when the slug has no article.
	Load(ctx context.Context, slug string) (*RawArticle, error)

	// Watch emits the slug of any article whose file changes until the
	// context is cancelled. Used for incremental re-indexing.
	Watch(ctx context.Context) (<-chan string, error)

	// Close releases resources.
	Close() error
}

// Parser transforms a raw article into a Document.
type Parser interface {
	// Parse extracts front matter and body. Fails with an error
	// wrapping domain.ErrParse when the front-matter block is
	// malformed. Missing optional fields default to zero values.
	Parse(ctx context.Context, raw *RawArticle) (*ParseResult, error)
}

// ParseResult is the outcome of parsing one raw article.
type ParseResult struct {
	// Document is the parsed article.
	Document domain.Document
}
