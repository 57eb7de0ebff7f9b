package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
)

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	answer       string
	chatAnswer   string
	err          error
	answerCalls  int
	chatCalls    int
	lastContexts []string
	lastMessages []driven.ChatMessage
}

var _ driven.LLMService = (*mockLLMService)(nil)

func (m *mockLLMService) Generate(_ context.Context, _ string, _ driven.GenerateOptions) (string, error) {
	return m.answer, m.err
}

func (m *mockLLMService) Chat(_ context.Context, msgs []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.chatCalls++
	m.lastMessages = msgs
	if m.err != nil {
		return "", m.err
	}
	return m.chatAnswer, nil
}

func (m *mockLLMService) AnswerWithContext(_ context.Context, _ string, contexts []string) (string, error) {
	m.answerCalls++
	m.lastContexts = contexts
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

func (m *mockLLMService) ListModels(_ context.Context) ([]driven.ModelInfo, error) {
	return []driven.ModelInfo{{Name: "mock-llm"}}, nil
}

func (m *mockLLMService) ModelName() string { return "mock-llm" }

func (m *mockLLMService) Ping(_ context.Context) error { return m.err }

func (m *mockLLMService) Close() error { return nil }

// mockExtractor implements driven.TextExtractor for testing.
type mockExtractor struct {
	text  string
	pages int
	err   error
}

var _ driven.TextExtractor = (*mockExtractor)(nil)

func (m *mockExtractor) Supports(filename string, _ []byte) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".pdf")
}

func (m *mockExtractor) Extract(_ context.Context, _ string, _ []byte) (*driven.Extraction, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &driven.Extraction{Text: m.text, Pages: m.pages}, nil
}

// failingDocStore fails every call.
type failingDocStore struct{}

var errStoreDown = errors.New("store down")

func (failingDocStore) SaveDocument(context.Context, *domain.Document) error { return errStoreDown }
func (failingDocStore) GetDocument(context.Context, string) (*domain.Document, error) {
	return nil, errStoreDown
}
func (failingDocStore) DeleteDocument(context.Context, string) error { return errStoreDown }
func (failingDocStore) ListDocuments(context.Context) ([]domain.Document, error) {
	return nil, errStoreDown
}
func (failingDocStore) CountDocuments(context.Context) (int, error) { return 0, errStoreDown }
func (failingDocStore) Close() error                                 { return nil }

// seedStore saves documents with the given contents, in order, using the
// content index as ID suffix.
func seedStore(t *testing.T, contents ...string) *memory.DocumentStore {
	t.Helper()
	store := memory.NewDocumentStore()
	for i, c := range contents {
		id := "doc-" + string(rune('a'+i))
		require.NoError(t, store.SaveDocument(context.Background(), &domain.Document{
			ID:        id,
			Title:     id + ".pdf",
			Content:   c,
			Metadata:  map[string]any{domain.MetaDocID: id},
			CreatedAt: time.Now(),
		}))
	}
	return store
}
