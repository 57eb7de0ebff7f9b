package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results  []domain.SearchResult
	err      error
	lastOpts domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.lastOpts = opts
	return m.results, m.err
}

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	reply       *domain.Reply
	err         error
	lastSession string
}

func (m *mockChatService) Ask(_ context.Context, sessionID, _ string) (*domain.Reply, error) {
	m.lastSession = sessionID
	if m.err != nil {
		return nil, m.err
	}
	reply := *m.reply
	reply.SessionID = sessionID
	return &reply, nil
}

func (m *mockChatService) History(_ context.Context, _ string) ([]domain.ConversationTurn, error) {
	return nil, m.err
}

func (m *mockChatService) Clear(_ context.Context, _ string) error {
	return m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	content   string
	err       error
}

func (m *mockDocumentService) Upload(_ context.Context, _ string, _ []byte) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) Add(
	_ context.Context, _, _ string, _ map[string]any,
) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) GetContent(_ context.Context, _ string) (string, error) {
	return m.content, m.err
}

func (m *mockDocumentService) Chunks(_ context.Context, _ string) ([]domain.Chunk, error) {
	return nil, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return m.err
}

func newTestServer(t testing.TB, ports *Ports) *Server {
	t.Helper()
	if ports.Search == nil {
		ports.Search = &mockSearchService{}
	}
	if ports.Chat == nil {
		ports.Chat = &mockChatService{reply: &domain.Reply{}}
	}
	s, err := NewServer(ports)
	require.NoError(t, err)
	return s
}
