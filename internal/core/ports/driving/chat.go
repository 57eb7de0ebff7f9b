package driving

import (
	"context"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// ChatService answers questions about uploaded documents within a session.
type ChatService interface {
	// Ask answers a question and records both turns in the session history.
	Ask(ctx context.Context, sessionID, question string) (*domain.Reply, error)

	// History returns the turns of a session.
	History(ctx context.Context, sessionID string) ([]domain.ConversationTurn, error)

	// Clear empties a session's history.
	Clear(ctx context.Context, sessionID string) error
}
