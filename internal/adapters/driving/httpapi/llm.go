package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// pingTimeout bounds the model server check.
const pingTimeout = 5 * time.Second

type pingResponse struct {
	OK        bool   `json:"ok"`
	Mode      string `json:"mode"`
	Model     string `json:"model,omitempty"`
	Reachable bool   `json:"reachable"`
	Note      string `json:"note,omitempty"`
}

type modelResponse struct {
	Name       string `json:"name"`
	Size       int64  `json:"size,omitempty"`
	ModifiedAt string `json:"modified_at,omitempty"`
}

// handleLLMPing reports whether the model server answers. It always
// returns 200 so it can be polled by health checks.
func (s *Server) handleLLMPing(w http.ResponseWriter, r *http.Request) {
	resp := pingResponse{OK: true, Mode: s.cfg.LLMMode.String()}
	if s.ports.Model == nil {
		resp.Note = "model client disabled, answers are extracted from documents"
		writeJSON(w, http.StatusOK, resp)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	resp.Model = s.ports.Model.ModelName()
	if err := s.ports.Model.Ping(ctx); err != nil {
		resp.Note = err.Error()
	} else {
		resp.Reachable = true
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLLMModels(w http.ResponseWriter, r *http.Request) {
	if s.ports.Model == nil {
		writeError(w, fmt.Errorf("model client disabled: %w", domain.ErrLLMUnavailable))
		return
	}

	models, err := s.ports.Model.ListModels(r.Context())
	if err != nil {
		writeError(w, fmt.Errorf("list models: %w: %w", domain.ErrLLMUnavailable, err))
		return
	}

	out := make([]modelResponse, len(models))
	for i, m := range models {
		out[i] = modelResponse{Name: m.Name, Size: m.Size, ModifiedAt: m.ModifiedAt}
	}
	writeJSON(w, http.StatusOK, map[string]any{"models": out})
}
