package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

type searchResultResponse struct {
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
	Filename   string `json:"filename"`
	Score      int    `json:"score"`
	Fallback   bool   `json:"fallback"`
}

func toSearchResults(results []domain.SearchResult) []searchResultResponse {
	out := make([]searchResultResponse, len(results))
	for i, res := range results {
		out[i] = searchResultResponse{
			DocumentID: res.Document.ID,
			Title:      res.Document.Title,
			Filename:   res.Document.Filename(),
			Score:      res.Score,
			Fallback:   res.Fallback,
		}
	}
	return out
}

// handleSearch serves GET /search?q=&limit=.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, fmt.Errorf("query parameter q is required: %w", domain.ErrInvalidInput))
		return
	}

	var opts domain.SearchOptions
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, fmt.Errorf("limit %q must be a non-negative integer: %w", raw, domain.ErrInvalidInput))
			return
		}
		opts.Limit = limit
	}

	results, err := s.ports.Search.Search(r.Context(), query, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"query":   query,
		"results": toSearchResults(results),
	})
}
