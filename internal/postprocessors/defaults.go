package postprocessors

import (
	"github.com/scribe-labs/scribe-cli/internal/core/ports/driven"
	"github.com/scribe-labs/scribe-cli/internal/postprocessors/chunker"
	"github.com/scribe-labs/scribe-cli/internal/postprocessors/metadata"
)

// Config holds the settings for the default processing pipeline,
// typically read from the application config store.
type Config struct {
	// ChunkSize is the characters per chunk (default: 1000).
	ChunkSize int

	// Overlap is the overlapping characters between prose chunks
	// (default: 200).
	Overlap int

	// PreserveHeadings forces every boundary section to start its
	// chunk fresh.
	PreserveHeadings bool

	// BaseURL is the site base URL for canonical article links.
	BaseURL string
}

// NewDefaultPipeline builds the standard article pipeline:
// section-aware chunking followed by metadata enrichment.
func NewDefaultPipeline(cfg Config) driven.PostProcessorPipeline {
	var chunkerOpts []chunker.Option
	if cfg.ChunkSize > 0 {
		chunkerOpts = append(chunkerOpts, chunker.WithChunkSize(cfg.ChunkSize))
	}
	if cfg.Overlap > 0 {
		chunkerOpts = append(chunkerOpts, chunker.WithOverlap(cfg.Overlap))
	}
	if cfg.PreserveHeadings {
		chunkerOpts = append(chunkerOpts, chunker.WithPreserveHeadings(true))
	}

	return NewPipeline(
		chunker.New(chunkerOpts...),
		metadata.New(metadata.WithBaseURL(cfg.BaseURL)),
	)
}
