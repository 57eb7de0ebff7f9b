package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/services"
)

// multipartOverhead allows for form boundaries around the file part.
const multipartOverhead = 1 << 20

type documentResponse struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Filename   string         `json:"filename"`
	Characters int            `json:"characters"`
	CreatedAt  time.Time      `json:"created_at"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

type documentListResponse struct {
	Documents []documentResponse `json:"documents"`
	Filenames []string           `json:"filenames"`
	Count     int                `json:"count"`
}

type chunkResponse struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Content  string `json:"content"`
}

func toDocumentResponse(doc *domain.Document, withMetadata bool) documentResponse {
	resp := documentResponse{
		ID:         doc.ID,
		Title:      doc.Title,
		Filename:   doc.Filename(),
		Characters: len([]rune(doc.Content)),
		CreatedAt:  doc.CreatedAt,
	}
	if withMetadata {
		resp.Metadata = doc.Metadata
	}
	return resp
}

// handleUpload accepts a multipart form with a "file" part holding a PDF.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, fmt.Errorf("upload exceeds %d bytes: %w", s.cfg.MaxUploadBytes, domain.ErrTooLarge))
			return
		}
		writeError(w, fmt.Errorf("parse form: %v: %w", err, domain.ErrInvalidInput))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, fmt.Errorf("form field \"file\": %v: %w", err, domain.ErrInvalidInput))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, fmt.Errorf("read upload: %w", err))
		return
	}

	doc, err := s.ports.Document.Upload(r.Context(), header.Filename, data)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toDocumentResponse(doc, true))
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.ports.Document.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := documentListResponse{
		Documents: make([]documentResponse, len(docs)),
		Filenames: services.DistinctFilenames(docs),
		Count:     len(docs),
	}
	for i := range docs {
		resp.Documents[i] = toDocumentResponse(&docs[i], false)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.ports.Document.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDocumentResponse(doc, true))
}

func (s *Server) handleDocumentContent(w http.ResponseWriter, r *http.Request) {
	content, err := s.ports.Document.GetContent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, content)
}

func (s *Server) handleDocumentChunks(w http.ResponseWriter, r *http.Request) {
	chunks, err := s.ports.Document.Chunks(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]chunkResponse, len(chunks))
	for i, c := range chunks {
		resp[i] = chunkResponse{
			ID:       c.ID,
			Position: c.Position,
			Start:    c.Start,
			End:      c.End,
			Content:  c.Content,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"chunks": resp})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.ports.Document.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
