package driven

import (
	"context"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// PostProcessor is one stage of turning a stored document into chunks.
type PostProcessor interface {
	// Name identifies the stage in errors and logs.
	Name() string

	// Process receives the previous stage's chunks, nil for the first
	// stage, and returns the chunks for the next one.
	Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline runs every stage in order over a document.
type PostProcessorPipeline interface {
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
