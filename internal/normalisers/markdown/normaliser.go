// Package markdown parses blog articles: a YAML front-matter block
// followed by a markdown body.
package markdown

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/scribe-labs/scribe-cli/internal/core/domain"
	"github.com/scribe-labs/scribe-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Parser = (*Normaliser)(nil)

// frontMatterDelimiter marks the start and end of the metadata block.
const frontMatterDelimiter = "---"

// dateLayouts are the accepted front-matter date formats.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"January 2, 2006",
}

// frontMatter is the YAML metadata block at the top of an article.
type frontMatter struct {
	Title    string   `yaml:"title"`
	Date     string   `yaml:"date"`
	Keywords []string `yaml:"keywords"`
	Tags     []string `yaml:"tags"`
	Author   string   `yaml:"author"`
}

// Normaliser handles markdown articles with YAML front matter.
type Normaliser struct{}

// New creates a new markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Parse extracts front matter and body from a raw article. The slug
// comes from the article's directory, never from content. The body
// keeps its markdown structure so the chunker can honour headings and
// code fences.
func (n *Normaliser) Parse(_ context.Context, raw *driven.RawArticle) (*driven.ParseResult, error) {
	if raw == nil || raw.Slug == "" {
		return nil, domain.ErrInvalidInput
	}

	fm, body, err := splitFrontMatter(string(raw.Content))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrParse, raw.Slug, err)
	}

	var meta frontMatter
	if fm != "" {
		if err := yaml.Unmarshal([]byte(fm), &meta); err != nil {
			return nil, fmt.Errorf("%w: %s: front matter: %v", domain.ErrParse, raw.Slug, err)
		}
	}

	keywords := meta.Keywords
	if len(keywords) == 0 {
		keywords = meta.Tags
	}

	doc := domain.Document{
		Slug:     raw.Slug,
		Title:    strings.TrimSpace(meta.Title),
		Date:     parseDate(meta.Date),
		Content:  strings.TrimSpace(body),
		Keywords: keywords,
		Author:   strings.TrimSpace(meta.Author),
	}

	if doc.Title == "" {
		doc.Title = titleFromContent(doc.Content, raw.Slug)
	}

	return &driven.ParseResult{Document: doc}, nil
}

// splitFrontMatter separates the YAML block from the body. Content
// without a leading delimiter is treated as all body. An opening
// delimiter without a closing one is a structural error.
func splitFrontMatter(content string) (fm, body string, err error) {
	trimmed := strings.TrimLeft(content, "\uFEFF\n\r\t ")
	if !strings.HasPrefix(trimmed, frontMatterDelimiter+"\n") &&
		trimmed != frontMatterDelimiter {
		return "", content, nil
	}

	rest := strings.TrimPrefix(trimmed, frontMatterDelimiter)
	rest = strings.TrimPrefix(rest, "\n")

	end := indexDelimiterLine(rest)
	if end < 0 {
		return "", "", fmt.Errorf("unterminated front matter block")
	}

	fm = rest[:end]
	body = rest[end:]
	// Skip the closing delimiter line itself
	if nl := strings.Index(body, "\n"); nl >= 0 {
		body = body[nl+1:]
	} else {
		body = ""
	}

	return fm, body, nil
}

// indexDelimiterLine finds the byte offset of the closing "---" line.
func indexDelimiterLine(s string) int {
	offset := 0
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == frontMatterDelimiter {
			return offset
		}
		offset += len(line) + 1
	}
	return -1
}

// parseDate tries the accepted layouts, returning the zero time when
// no layout matches.
func parseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// titleFromContent falls back to the first H1 heading, then the slug.
func titleFromContent(content, slug string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}

	title := strings.ReplaceAll(slug, "-", " ")
	return strings.ReplaceAll(title, "_", " ")
}
