// Package metadata provides a processor that stamps document-level
// metadata onto every chunk.
package metadata

import (
	"context"
	"strings"

	"github.com/scribe-labs/scribe-cli/internal/core/domain"
)

// Processor copies article metadata (title, tags, canonical URL, date,
// author) onto each chunk, leaving chunk-level fields such as Section
// untouched. It implements the PostProcessor interface and runs after
// the chunker.
type Processor struct {
	baseURL string
}

// Option configures the metadata processor.
type Option func(*Processor)

// WithBaseURL sets the site base URL used to build canonical article
// URLs. Trailing slashes are trimmed.
func WithBaseURL(url string) Option {
	return func(p *Processor) {
		p.baseURL = strings.TrimRight(url, "/")
	}
}

// New creates a new metadata processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "metadata"
}

// Process enriches the chunks produced by earlier processors.
func (p *Processor) Process(_ context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}

	url := ""
	if p.baseURL != "" {
		url = p.baseURL + "/blog/" + doc.Slug
	}

	for i := range chunks {
		chunks[i].Metadata.Title = doc.Title
		chunks[i].Metadata.Tags = doc.Keywords
		chunks[i].Metadata.URL = url
		chunks[i].Metadata.Date = doc.Date
		chunks[i].Metadata.Author = doc.Author
	}

	return chunks, nil
}
