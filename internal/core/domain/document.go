package domain

import "time"

// Metadata keys set on every stored document.
const (
	// MetaDocID mirrors Document.ID inside the metadata map.
	MetaDocID = "doc_id"

	// MetaFilename is the name of the uploaded file.
	MetaFilename = "filename"

	// MetaSizeBytes is the size of the uploaded file.
	MetaSizeBytes = "size_bytes"

	// MetaPages is the number of pages extracted from a PDF.
	MetaPages = "pages"
)

// Document represents the extracted text of an uploaded file.
// Documents are immutable once stored and are removed only by ID.
type Document struct {
	// ID is a random UUID assigned when the document is stored.
	ID string

	// Title is the human-readable name, usually the uploaded filename.
	Title string

	// Content is the full extracted text.
	Content string

	// Metadata contains arbitrary key-value pairs.
	// It always carries MetaDocID.
	Metadata map[string]any

	// CreatedAt is when the document was stored.
	CreatedAt time.Time
}

// Filename returns the filename recorded in metadata, falling back to the title.
func (d Document) Filename() string {
	if name, ok := d.Metadata[MetaFilename].(string); ok && name != "" {
		return name
	}
	return d.Title
}

// Chunk is a contiguous window of a document's text.
// Chunks are derived on demand and are never persisted.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text of this window.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Start is the character offset of the first rune of Content.
	Start int

	// End is the character offset one past the last rune of Content.
	End int

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}

// Len returns the number of characters in the chunk.
func (c Chunk) Len() int {
	return c.End - c.Start
}
