// Package postprocessors turns stored documents into chunks.
package postprocessors

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
)

var _ driven.PostProcessorPipeline = (*Pipeline)(nil)

// Pipeline runs PostProcessors in order, feeding each the previous output.
type Pipeline struct {
	processors []driven.PostProcessor
}

// NewPipeline creates a pipeline from processors in execution order.
func NewPipeline(processors ...driven.PostProcessor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Process runs the document through all processors.
// The first processor receives nil chunks and creates them.
func (p *Pipeline) Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, errors.New("document is nil")
	}

	var chunks []domain.Chunk
	for _, processor := range p.processors {
		var err error
		chunks, err = processor.Process(ctx, doc, chunks)
		if err != nil {
			return nil, fmt.Errorf("processor %s: %w", processor.Name(), err)
		}
	}

	return chunks, nil
}

// Add appends a processor to the pipeline.
func (p *Pipeline) Add(processor driven.PostProcessor) {
	p.processors = append(p.processors, processor)
}

// Len returns the number of processors in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.processors)
}
