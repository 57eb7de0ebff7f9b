// Package mcp provides an MCP (Model Context Protocol) server adapter for pdfchat.
// It lets AI assistants search uploaded PDFs and ask questions about them.
package mcp

import "errors"

// Errors returned for missing ports.
var (
	ErrMissingSearchService = errors.New("mcp: search service is required")
	ErrMissingChatService   = errors.New("mcp: chat service is required")
)
