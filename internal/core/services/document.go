package services

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService ingests uploads and serves stored documents.
type DocumentService struct {
	docStore  driven.DocumentStore
	extractor driven.TextExtractor
	pipeline  driven.PostProcessorPipeline
	maxBytes  int64
}

// NewDocumentService creates a new document service.
// The extractor is required for Upload; the pipeline for Chunks.
func NewDocumentService(
	docStore driven.DocumentStore,
	extractor driven.TextExtractor,
	pipeline driven.PostProcessorPipeline,
) *DocumentService {
	return &DocumentService{
		docStore:  docStore,
		extractor: extractor,
		pipeline:  pipeline,
	}
}

// SetMaxUploadBytes caps upload size. Zero disables the check.
func (s *DocumentService) SetMaxUploadBytes(n int64) {
	s.maxBytes = n
}

// Upload validates a PDF, extracts its text, and stores it.
func (s *DocumentService) Upload(ctx context.Context, filename string, data []byte) (*domain.Document, error) {
	logger.Section("Upload")
	logger.Debug("File %q, %d bytes", filename, len(data))

	if len(data) == 0 {
		return nil, fmt.Errorf("upload %s: empty file: %w", filename, domain.ErrInvalidInput)
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("upload %s: %d bytes exceeds %d: %w", filename, len(data), s.maxBytes, domain.ErrTooLarge)
	}
	if s.extractor == nil {
		return nil, fmt.Errorf("upload %s: no text extractor configured: %w", filename, domain.ErrExtractionFailed)
	}
	if !s.extractor.Supports(filename, data) {
		return nil, fmt.Errorf("upload %s: %w", filename, domain.ErrNotPDF)
	}

	extracted, err := s.extractor.Extract(ctx, filename, data)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", filename, err)
	}
	logger.Debug("Extracted %d characters from %d pages", len(extracted.Text), extracted.Pages)

	return s.Add(ctx, filename, extracted.Text, map[string]any{
		domain.MetaFilename:  filename,
		domain.MetaSizeBytes: int64(len(data)),
		domain.MetaPages:     extracted.Pages,
	})
}

// Add stores already extracted text as a document with a new random ID.
func (s *DocumentService) Add(
	ctx context.Context, title, content string, metadata map[string]any,
) (*domain.Document, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("add %s: %w", title, domain.ErrEmptyDocument)
	}

	id := uuid.NewString()
	meta := make(map[string]any, len(metadata)+1)
	maps.Copy(meta, metadata)
	meta[domain.MetaDocID] = id

	doc := &domain.Document{
		ID:        id,
		Title:     title,
		Content:   content,
		Metadata:  meta,
		CreatedAt: time.Now(),
	}
	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	logger.Info("Stored document %s (%s)", id, title)
	return doc, nil
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", documentID, err)
	}
	return doc, nil
}

// List returns all documents in upload order.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	docs, err := s.docStore.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// GetContent returns the full text of a document.
func (s *DocumentService) GetContent(ctx context.Context, documentID string) (string, error) {
	doc, err := s.Get(ctx, documentID)
	if err != nil {
		return "", err
	}
	return doc.Content, nil
}

// Chunks splits a document into overlapping chunks.
func (s *DocumentService) Chunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	if s.pipeline == nil {
		return nil, fmt.Errorf("chunk document %s: no pipeline configured", documentID)
	}
	doc, err := s.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}
	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("chunk document %s: %w", documentID, err)
	}
	return chunks, nil
}

// Delete removes a document.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	if err := s.docStore.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete document %s: %w", documentID, err)
	}
	logger.Info("Deleted document %s", documentID)
	return nil
}

// DistinctFilenames returns the filenames of stored documents with
// duplicates removed, in upload order.
func DistinctFilenames(docs []domain.Document) []string {
	seen := make(map[string]struct{}, len(docs))
	names := make([]string, 0, len(docs))
	for _, d := range docs {
		name := d.Filename()
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
