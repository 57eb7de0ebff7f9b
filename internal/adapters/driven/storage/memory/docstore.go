package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
// It keeps the order documents were saved in.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	order     []string
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
	}
}

// SaveDocument stores a document. Stored documents are never replaced.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" {
		return fmt.Errorf("save document: %w", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[doc.ID]; ok {
		return fmt.Errorf("save document %s: %w", doc.ID, domain.ErrAlreadyExists)
	}
	s.documents[doc.ID] = copyDocument(*doc)
	s.order = append(s.order, doc.ID)
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	doc = copyDocument(doc)
	return &doc, nil
}

// DeleteDocument removes a document.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.documents, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// ListDocuments returns all documents in insertion order.
func (s *DocumentStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Document, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, copyDocument(s.documents[id]))
	}
	return result, nil
}

// CountDocuments returns the number of stored documents.
func (s *DocumentStore) CountDocuments(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents), nil
}

// Close is a no-op.
func (s *DocumentStore) Close() error {
	return nil
}

// copyDocument detaches the metadata map so callers cannot mutate stored state.
func copyDocument(doc domain.Document) domain.Document {
	if doc.Metadata != nil {
		doc.Metadata = maps.Clone(doc.Metadata)
	}
	return doc
}
