package postprocessors

import (
	"fmt"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/postprocessors/chunker"
)

// ChunkerName is the stage name of the chunker.
const ChunkerName = "chunker"

// DefaultStages returns the built-in stages.
func DefaultStages() *Stages {
	s := NewStages()
	_ = s.Add(ChunkerName, buildChunker)
	return s
}

// NewDefaultPipeline builds the chunking pipeline used for uploaded documents.
func NewDefaultPipeline(settings domain.ChunkingSettings) (*Pipeline, error) {
	return DefaultStages().Pipeline(settings, ChunkerName)
}

func buildChunker(settings domain.ChunkingSettings) (driven.PostProcessor, error) {
	if settings.Size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", settings.Size)
	}
	if settings.Overlap < 0 {
		return nil, fmt.Errorf("overlap must not be negative, got %d", settings.Overlap)
	}
	return chunker.New(chunker.WithChunkSize(settings.Size), chunker.WithOverlap(settings.Overlap)), nil
}
