package driven

import "context"

// Extraction is the text recovered from an uploaded file.
type Extraction struct {
	// Text is the page texts joined by a blank line.
	Text string

	// Pages is the number of pages read.
	Pages int
}

// TextExtractor pulls plain text out of uploaded files.
type TextExtractor interface {
	// Supports reports whether the file looks like a type this extractor reads.
	Supports(filename string, data []byte) bool

	// Extract returns the text of the file.
	Extract(ctx context.Context, filename string, data []byte) (*Extraction, error)
}
