// Package tui provides an interactive terminal chat over uploaded PDFs.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the TUI.
type Ports struct {
	// Chat answers questions within the TUI session.
	Chat driving.ChatService

	// Document lists, shows and deletes uploaded documents.
	Document driving.DocumentService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(chat driving.ChatService, document driving.DocumentService) *Ports {
	return &Ports{
		Chat:     chat,
		Document: document,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	return nil
}
