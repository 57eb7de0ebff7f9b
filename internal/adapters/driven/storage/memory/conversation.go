package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
)

// Ensure ConversationStore implements the interface.
var _ driven.ConversationStore = (*ConversationStore)(nil)

// ConversationStore keeps chat history per session in memory.
// It holds at most MaxSessions sessions, dropping the least recently used
// one when full, and forgets a session once it has been idle for the TTL.
type ConversationStore struct {
	// mu makes the read-append-write in Append atomic; the LRU locks itself.
	mu       sync.Mutex
	sessions *expirable.LRU[string, []domain.ConversationTurn]
}

type conversationConfig struct {
	maxSessions int
	ttl         time.Duration
}

// ConversationOption configures a ConversationStore.
type ConversationOption func(*conversationConfig)

// WithMaxSessions caps the number of sessions kept. Zero means no cap.
func WithMaxSessions(n int) ConversationOption {
	return func(c *conversationConfig) {
		if n >= 0 {
			c.maxSessions = n
		}
	}
}

// WithSessionTTL sets how long an idle session is kept. Zero means forever.
func WithSessionTTL(ttl time.Duration) ConversationOption {
	return func(c *conversationConfig) {
		if ttl >= 0 {
			c.ttl = ttl
		}
	}
}

// NewConversationStore creates an empty conversation store.
func NewConversationStore(opts ...ConversationOption) *ConversationStore {
	cfg := conversationConfig{
		maxSessions: domain.DefaultMaxSessions,
		ttl:         domain.DefaultSessionTTL,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &ConversationStore{
		sessions: expirable.NewLRU[string, []domain.ConversationTurn](cfg.maxSessions, nil, cfg.ttl),
	}
}

// Append adds a turn to the end of the session's history.
func (s *ConversationStore) Append(_ context.Context, sessionID string, turn domain.ConversationTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns, _ := s.sessions.Get(sessionID)
	s.sessions.Add(sessionID, append(turns, turn))
	return nil
}

// History returns a copy of the session's turns.
func (s *ConversationStore) History(_ context.Context, sessionID string) ([]domain.ConversationTurn, error) {
	turns, _ := s.sessions.Peek(sessionID)
	return slices.Clone(turns), nil
}

// Clear removes all turns of the session.
func (s *ConversationStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions.Remove(sessionID)
	return nil
}
