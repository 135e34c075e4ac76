// Package chunker provides a section-aware text chunking processor.
package chunker

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/scribe-labs/scribe-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// MinChunkSize is the floor below which a chunk carries too little
// retrievable meaning and is discarded.
const MinChunkSize = 50

// Processor splits article content into semantically bounded chunks.
// Sections (paragraphs, headings, fenced code blocks) are accumulated
// greedily up to the chunk size; prose chunks overlap at the boundary
// while headings and code blocks start a fresh chunk.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize          int
	overlap            int
	preserveCodeBlocks bool
	preserveHeadings   bool
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between prose chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithPreserveCodeBlocks controls whether a chunk boundary at a code
// block starts fresh instead of carrying prose overlap.
func WithPreserveCodeBlocks(preserve bool) Option {
	return func(p *Processor) {
		p.preserveCodeBlocks = preserve
	}
}

// WithPreserveHeadings forces every boundary section to start its chunk
// fresh, never seeded with overlap.
func WithPreserveHeadings(preserve bool) Option {
	return func(p *Processor) {
		p.preserveHeadings = preserve
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize:          DefaultChunkSize,
		overlap:            DefaultChunkOverlap,
		preserveCodeBlocks: true,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// section is one blank-line-delimited unit of the article body.
type section struct {
	text      string
	isHeading bool
	isCode    bool
}

// pendingChunk is an accumulated buffer waiting for the size filter.
type pendingChunk struct {
	text    string
	heading string
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from
// document content.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}
	if strings.TrimSpace(doc.Content) == "" {
		// Empty content produces no chunks
		return nil, nil
	}

	sections := splitSections(doc.Content)
	pending := p.accumulate(sections)

	now := time.Now()
	chunks := make([]domain.Chunk, 0, len(pending))
	for _, pc := range pending {
		text := strings.TrimSpace(pc.text)
		if utf8.RuneCountInString(text) < MinChunkSize {
			continue
		}
		chunks = append(chunks, domain.Chunk{
			ID:       uuid.New().String(),
			Slug:     doc.Slug,
			Position: len(chunks),
			Content:  text,
			Metadata: domain.ChunkMetadata{
				Section: pc.heading,
			},
			CreatedAt: now,
		})
	}

	return chunks, nil
}

// accumulate runs the greedy buffer over the sections.
func (p *Processor) accumulate(sections []section) []pendingChunk {
	var (
		out            []pendingChunk
		buffer         string
		bufferHeading  string
		currentHeading string
	)

	for _, sec := range sections {
		if sec.isHeading {
			currentHeading = headingText(sec.text)
		}

		if buffer == "" {
			buffer = sec.text
			bufferHeading = sectionHeading(sec, currentHeading)
			continue
		}

		if len(buffer)+len(sec.text) <= p.chunkSize {
			buffer += "\n\n" + sec.text
			continue
		}

		// Flush the buffer and decide how the next chunk starts.
		out = append(out, pendingChunk{text: buffer, heading: bufferHeading})

		startFresh := sec.isHeading ||
			(sec.isCode && p.preserveCodeBlocks) ||
			p.preserveHeadings ||
			p.overlap <= 0

		if startFresh {
			buffer = sec.text
		} else {
			buffer = overlapTail(buffer, p.overlap) + "\n\n" + sec.text
		}
		bufferHeading = sectionHeading(sec, currentHeading)
	}

	if buffer != "" {
		out = append(out, pendingChunk{text: buffer, heading: bufferHeading})
	}

	return out
}

// sectionHeading resolves the heading a chunk starting at sec belongs to.
// A heading section names itself; anything else keeps the heading in
// effect.
func sectionHeading(sec section, current string) string {
	if sec.isHeading {
		return headingText(sec.text)
	}
	return current
}

// headingText strips the marker from a heading line.
func headingText(text string) string {
	line := text
	if nl := strings.Index(line, "\n"); nl >= 0 {
		line = line[:nl]
	}
	return strings.TrimSpace(strings.TrimLeft(line, "#"))
}

// overlapTail returns the trailing n characters of text, adjusted to a
// rune boundary.
func overlapTail(text string, n int) string {
	if len(text) <= n {
		return text
	}
	start := len(text) - n
	for start < len(text) && !utf8.RuneStart(text[start]) {
		start++
	}
	return text[start:]
}

// splitSections splits the body on blank-line boundaries into sections,
// keeping fenced code blocks intact even when they contain blank lines.
// MDX import/export directive lines outside fences are dropped as
// non-semantic boilerplate.
func splitSections(content string) []section {
	var (
		out     []section
		current []string
		inFence bool
	)

	flush := func() {
		if len(current) == 0 {
			return
		}
		text := strings.TrimRight(strings.Join(current, "\n"), "\n")
		current = nil
		if strings.TrimSpace(text) == "" {
			return
		}
		trimmed := strings.TrimSpace(text)
		out = append(out, section{
			text:      text,
			isHeading: strings.HasPrefix(trimmed, "#"),
			isCode:    isFenceLine(trimmed),
		})
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)

		if isFenceLine(trimmed) {
			inFence = !inFence
			current = append(current, line)
			if !inFence {
				// Closing fence completes the block as its own section
				flush()
			}
			continue
		}

		if inFence {
			current = append(current, line)
			continue
		}

		if isDirectiveLine(trimmed) {
			continue
		}

		if trimmed == "" {
			flush()
			continue
		}

		current = append(current, line)
	}

	flush()
	return out
}

// isFenceLine reports whether a line opens or closes a code fence.
func isFenceLine(line string) bool {
	return strings.HasPrefix(line, "```") || strings.HasPrefix(line, "~~~")
}

// isDirectiveLine reports whether a line is an MDX import/export
// directive.
func isDirectiveLine(line string) bool {
	return strings.HasPrefix(line, "import ") || strings.HasPrefix(line, "export ")
}
