// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewChat is the question input and conversation view.
	ViewChat
	// ViewDocuments lists uploaded documents.
	ViewDocuments
	// ViewDocContent shows the extracted text of a document.
	ViewDocContent
	// ViewDocDetails shows document metadata.
	ViewDocDetails
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewChat:
		return "chat"
	case ViewDocuments:
		return "documents"
	case ViewDocContent:
		return "doc_content"
	case ViewDocDetails:
		return "doc_details"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// QuestionAsked is sent when the user submits a question.
type QuestionAsked struct {
	Question string
}

// AnswerReceived carries the reply to a question.
type AnswerReceived struct {
	Question string
	Reply    *domain.Reply
	Err      error
}

// HistoryCleared signals the session history was emptied.
type HistoryCleared struct {
	Err error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// DocumentsLoaded carries the list of uploaded documents.
type DocumentsLoaded struct {
	Documents []domain.Document
	Err       error
}

// DocumentSelected signals a document was selected.
type DocumentSelected struct {
	Document domain.Document
}

// DocumentDetailsRequested signals the metadata of a document should be shown.
type DocumentDetailsRequested struct {
	Document domain.Document
}

// DocumentContentLoaded carries the content of a document.
type DocumentContentLoaded struct {
	DocumentID string
	Content    string
	Err        error
}

// DocumentDeleted signals a document was removed.
type DocumentDeleted struct {
	DocumentID string
	Err        error
}
