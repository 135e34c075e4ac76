package markdown

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribe-labs/scribe-cli/internal/core/domain"
	"github.com/scribe-labs/scribe-cli/internal/core/ports/driven"
)

func TestNew(t *testing.T) {
	normaliser := New()
	require.NotNil(t, normaliser)
	assert.IsType(t, &Normaliser{}, normaliser)
}

func TestParse_Success(t *testing.T) {
	normaliser := New()
	ctx := context.Background()

	raw := &driven.RawArticle{
		Slug: "css-carousel",
		Path: "/content/css-carousel/index.md",
		Content: []byte(`---
title: Building a CSS Carousel
date: 2025-04-12
keywords:
  - css
  - carousel
author: Jane Doe
---

# Intro

Scroll snapping makes carousels possible without JavaScript.
`),
	}

	result, err := normaliser.Parse(ctx, raw)
	require.NoError(t, err)
	require.NotNil(t, result)

	doc := result.Document
	assert.Equal(t, "css-carousel", doc.Slug)
	assert.Equal(t, "Building a CSS Carousel", doc.Title)
	assert.Equal(t, time.Date(2025, 4, 12, 0, 0, 0, 0, time.UTC), doc.Date)
	assert.Equal(t, []string{"css", "carousel"}, doc.Keywords)
	assert.Equal(t, "Jane Doe", doc.Author)
	assert.Contains(t, doc.Content, "# Intro")
	assert.NotContains(t, doc.Content, "title:")
}

func TestParse_NilArticle(t *testing.T) {
	normaliser := New()

	result, err := normaliser.Parse(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestParse_MissingSlug(t *testing.T) {
	normaliser := New()

	result, err := normaliser.Parse(context.Background(), &driven.RawArticle{
		Content: []byte("# Hello"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestParse_NoFrontMatter(t *testing.T) {
	normaliser := New()

	result, err := normaliser.Parse(context.Background(), &driven.RawArticle{
		Slug:    "plain-article",
		Content: []byte("# Plain Article\n\nNo metadata block at all."),
	})
	require.NoError(t, err)

	doc := result.Document
	assert.Equal(t, "Plain Article", doc.Title) // Title from first H1
	assert.True(t, doc.Date.IsZero())
	assert.Empty(t, doc.Keywords)
	assert.Empty(t, doc.Author)
}

func TestParse_UnterminatedFrontMatter(t *testing.T) {
	normaliser := New()

	result, err := normaliser.Parse(context.Background(), &driven.RawArticle{
		Slug:    "broken",
		Content: []byte("---\ntitle: Broken\n\n# Body without closing delimiter"),
	})
	assert.ErrorIs(t, err, domain.ErrParse)
	assert.Nil(t, result)
}

func TestParse_InvalidYAML(t *testing.T) {
	normaliser := New()

	result, err := normaliser.Parse(context.Background(), &driven.RawArticle{
		Slug:    "bad-yaml",
		Content: []byte("---\ntitle: [unclosed\n---\n\nBody"),
	})
	assert.ErrorIs(t, err, domain.ErrParse)
	assert.Nil(t, result)
}

func TestParse_MissingOptionalFields(t *testing.T) {
	normaliser := New()

	result, err := normaliser.Parse(context.Background(), &driven.RawArticle{
		Slug:    "minimal",
		Content: []byte("---\ntitle: Minimal\n---\n\nJust a body."),
	})
	require.NoError(t, err)

	doc := result.Document
	assert.Equal(t, "Minimal", doc.Title)
	assert.True(t, doc.Date.IsZero())
	assert.Empty(t, doc.Keywords)
	assert.Empty(t, doc.Author)
	assert.Equal(t, "Just a body.", doc.Content)
}

func TestParse_TagsAliasForKeywords(t *testing.T) {
	normaliser := New()

	result, err := normaliser.Parse(context.Background(), &driven.RawArticle{
		Slug:    "tagged",
		Content: []byte("---\ntitle: Tagged\ntags:\n  - go\n  - testing\n---\n\nBody."),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "testing"}, result.Document.Keywords)
}

func TestParse_TitleFallsBackToSlug(t *testing.T) {
	normaliser := New()

	result, err := normaliser.Parse(context.Background(), &driven.RawArticle{
		Slug:    "view-transitions-deep-dive",
		Content: []byte("No headings here, just prose."),
	})
	require.NoError(t, err)
	assert.Equal(t, "view transitions deep dive", result.Document.Title)
}

func TestParse_DateLayouts(t *testing.T) {
	tests := []struct {
		name string
		date string
		want time.Time
	}{
		{"ISO date", "2025-01-15", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"RFC3339", "2025-01-15T10:30:00Z", time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"long form", "January 15, 2025", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"unparseable", "next tuesday", time.Time{}},
		{"empty", "", time.Time{}},
	}

	normaliser := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := &driven.RawArticle{
				Slug:    "dated",
				Content: []byte("---\ntitle: Dated\ndate: \"" + tt.date + "\"\n---\n\nBody."),
			}
			result, err := normaliser.Parse(context.Background(), raw)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(result.Document.Date),
				"want %v, got %v", tt.want, result.Document.Date)
		})
	}
}
