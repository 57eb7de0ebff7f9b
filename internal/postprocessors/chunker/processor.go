// Package chunker provides an overlapping, word-boundary aware text chunker.
package chunker

import (
	"context"
	"unicode"

	"github.com/google/uuid"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// Span is a half-open character range [Start, End) of the input text.
type Span struct {
	Start int
	End   int
}

// Processor splits document content into overlapping windows.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
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

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Overlap must leave room for the window to advance.
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured chunk size.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Spans computes chunk boundaries over text measured in runes.
//
// Each window ends at the last whitespace inside it unless it reaches the end
// of the text or contains no whitespace after its first character, in which
// case it is cut at the size limit. The next window starts chunkSize-overlap
// characters later but never after the previous window's end, so every
// character is covered.
func (p *Processor) Spans(runes []rune) []Span {
	n := len(runes)
	if n == 0 {
		return nil
	}

	step := p.chunkSize - p.overlap
	spans := make([]Span, 0, n/step+1)

	start := 0
	for {
		end := start + p.chunkSize
		if end > n {
			end = n
		}
		if end < n {
			if ws := lastSpace(runes, start, end); ws > start {
				end = ws
			}
		}

		spans = append(spans, Span{Start: start, End: end})
		if end >= n {
			break
		}

		next := start + step
		if next > end {
			next = end
		}
		start = next
	}

	return spans
}

// Split returns the chunk texts of s.
func (p *Processor) Split(s string) []string {
	runes := []rune(s)
	spans := p.Spans(runes)
	out := make([]string, len(spans))
	for i, sp := range spans {
		out[i] = string(runes[sp.Start:sp.End])
	}
	return out
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc.Content == "" {
		return nil, nil
	}

	runes := []rune(doc.Content)
	spans := p.Spans(runes)
	chunks := make([]domain.Chunk, 0, len(spans))

	for i, sp := range spans {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Content:    string(runes[sp.Start:sp.End]),
			Position:   i,
			Start:      sp.Start,
			End:        sp.End,
			Metadata:   make(map[string]any),
		})
	}

	return chunks, nil
}

// lastSpace returns the index of the last whitespace rune in runes[from:to),
// or -1 if there is none.
func lastSpace(runes []rune, from, to int) int {
	for i := to - 1; i >= from; i-- {
		if unicode.IsSpace(runes[i]) {
			return i
		}
	}
	return -1
}
