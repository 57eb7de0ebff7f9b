package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// DefaultSession is used by the ask tool when no session is given.
const DefaultSession = "mcp"

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"words to look for in the uploaded documents"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 5)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
	Filename   string `json:"filename"`
	Score      int    `json:"score"`
	Fallback   bool   `json:"fallback,omitempty"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question  string `json:"question" jsonschema:"the question to answer from the uploaded documents"`
	SessionID string `json:"session_id,omitempty" jsonschema:"conversation to continue (default mcp)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer    string   `json:"answer"`
	SessionID string   `json:"session_id"`
	Matched   bool     `json:"matched"`
	Generated bool     `json:"generated"`
	Sources   []string `json:"sources,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Find uploaded PDF documents containing the query words",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question with the most relevant paragraph of the uploaded PDFs",
	}, s.handleAsk)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := domain.SearchOptions{Limit: max(input.Limit, 0)}
	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = SearchResultOutput{
			DocumentID: results[i].Document.ID,
			Title:      results[i].Document.Title,
			Filename:   results[i].Document.Filename(),
			Score:      results[i].Score,
			Fallback:   results[i].Fallback,
		}
	}

	return nil, output, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	session := input.SessionID
	if session == "" {
		session = DefaultSession
	}

	reply, err := s.ports.Chat.Ask(ctx, session, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:    reply.Answer.Text,
		SessionID: reply.SessionID,
		Matched:   reply.Answer.Matched(),
		Generated: reply.Answer.Generated,
	}
	for _, src := range reply.Sources {
		output.Sources = append(output.Sources, src.Document.Filename())
	}

	return nil, output, nil
}
