package driving

import (
	"context"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// DocumentService manages uploaded documents.
type DocumentService interface {
	// Upload validates a PDF, extracts its text, and stores it.
	Upload(ctx context.Context, filename string, data []byte) (*domain.Document, error)

	// Add stores already extracted text as a document.
	Add(ctx context.Context, title, content string, metadata map[string]any) (*domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// List returns all documents in upload order.
	List(ctx context.Context) ([]domain.Document, error)

	// GetContent returns the full text of a document.
	GetContent(ctx context.Context, documentID string) (string, error)

	// Chunks splits a document into overlapping chunks.
	Chunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// Delete removes a document.
	Delete(ctx context.Context, documentID string) error
}
