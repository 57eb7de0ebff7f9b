package driven

import (
	"context"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// ConversationStore holds chat history per session.
// History is append-only until cleared.
type ConversationStore interface {
	// Append adds a turn to the end of a session's history.
	Append(ctx context.Context, sessionID string, turn domain.ConversationTurn) error

	// History returns a copy of a session's turns in order.
	// Unknown sessions have an empty history.
	History(ctx context.Context, sessionID string) ([]domain.ConversationTurn, error)

	// Clear removes all turns of a session.
	Clear(ctx context.Context, sessionID string) error
}
