package tui

import (
	"context"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// MockChatService implements driving.ChatService for testing.
type MockChatService struct {
	AskFunc   func(ctx context.Context, sessionID, question string) (*domain.Reply, error)
	ClearFunc func(ctx context.Context, sessionID string) error
}

func (m *MockChatService) Ask(ctx context.Context, sessionID, question string) (*domain.Reply, error) {
	if m.AskFunc != nil {
		return m.AskFunc(ctx, sessionID, question)
	}
	return &domain.Reply{SessionID: sessionID, Answer: domain.Answer{Text: "answer"}}, nil
}

func (m *MockChatService) History(_ context.Context, _ string) ([]domain.ConversationTurn, error) {
	return nil, nil
}

func (m *MockChatService) Clear(ctx context.Context, sessionID string) error {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx, sessionID)
	}
	return nil
}

// MockDocumentService implements driving.DocumentService for testing.
type MockDocumentService struct {
	Documents []domain.Document
	Content   string
	Err       error
	Deleted   []string
}

func (m *MockDocumentService) Upload(_ context.Context, _ string, _ []byte) (*domain.Document, error) {
	return nil, m.Err
}

func (m *MockDocumentService) Add(_ context.Context, _, _ string, _ map[string]any) (*domain.Document, error) {
	return nil, m.Err
}

func (m *MockDocumentService) Get(_ context.Context, id string) (*domain.Document, error) {
	for i := range m.Documents {
		if m.Documents[i].ID == id {
			return &m.Documents[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.Documents, m.Err
}

func (m *MockDocumentService) GetContent(_ context.Context, _ string) (string, error) {
	return m.Content, m.Err
}

func (m *MockDocumentService) Chunks(_ context.Context, _ string) ([]domain.Chunk, error) {
	return nil, m.Err
}

func (m *MockDocumentService) Delete(_ context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Deleted = append(m.Deleted, id)
	return nil
}
