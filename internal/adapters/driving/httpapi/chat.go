package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// maxChatBody caps the JSON body of a chat request.
const maxChatBody = 64 << 10

type chatRequest struct {
	Question string `json:"question"`
}

type chatResponse struct {
	SessionID      string                 `json:"session_id"`
	Answer         string                 `json:"answer"`
	Generated      bool                   `json:"generated"`
	Matched        bool                   `json:"matched"`
	ParagraphScore int                    `json:"paragraph_score,omitempty"`
	Sources        []searchResultResponse `json:"sources"`
}

type turnResponse struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	session := sessionID(w, r)

	var req chatRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBody))
	if err := dec.Decode(&req); err != nil {
		writeError(w, fmt.Errorf("decode chat request: %v: %w", err, domain.ErrInvalidInput))
		return
	}

	reply, err := s.ports.Chat.Ask(r.Context(), session, req.Question)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := chatResponse{
		SessionID: reply.SessionID,
		Answer:    reply.Answer.Text,
		Generated: reply.Answer.Generated,
		Matched:   reply.Answer.Matched(),
		Sources:   toSearchResults(reply.Sources),
	}
	if reply.Answer.Paragraph != nil {
		resp.ParagraphScore = reply.Answer.Paragraph.Score
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	session := sessionID(w, r)

	turns, err := s.ports.Chat.History(r.Context(), session)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]turnResponse, len(turns))
	for i, t := range turns {
		out[i] = turnResponse{Role: t.Role.String(), Content: t.Content, CreatedAt: t.CreatedAt}
	}
	writeJSON(w, http.StatusOK, map[string]any{"session_id": session, "turns": out})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	session := sessionID(w, r)

	if err := s.ports.Chat.Clear(r.Context(), session); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
