package domain

import "time"

// Role identifies the author of a conversation turn.
type Role string

// Conversation roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// ConversationTurn is a single message in a chat session.
// Turns are append-only and live as long as the session.
type ConversationTurn struct {
	Role      Role
	Content   string
	CreatedAt time.Time
}

// Reply is the outcome of asking a question in a session.
type Reply struct {
	// SessionID is the session the turns were recorded in.
	SessionID string

	// Answer is the selected or generated answer.
	Answer Answer

	// Sources are the documents the answer was drawn from.
	Sources []SearchResult

	// Recorded is false when the question was not added to history,
	// which happens when no documents have been uploaded.
	Recorded bool
}
