package mcp

import (
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Search scores documents against a query.
	Search driving.SearchService

	// Chat answers questions with session history.
	Chat driving.ChatService

	// Document serves stored documents. Optional; without it the
	// document resources report not found.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Chat == nil {
		return ErrMissingChatService
	}
	return nil
}
