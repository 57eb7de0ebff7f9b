package driven

import (
	"context"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// DocumentStore persists uploaded documents.
// Implementations must list documents in insertion order so that
// search ties and the no-match fallback are deterministic.
type DocumentStore interface {
	// SaveDocument stores a document. The ID must already be set.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// DeleteDocument removes a document.
	// Returns domain.ErrNotFound if it does not exist.
	DeleteDocument(ctx context.Context, id string) error

	// ListDocuments returns all documents in insertion order.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// CountDocuments returns the number of stored documents.
	CountDocuments(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
