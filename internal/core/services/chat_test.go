package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
)

func newChat(t *testing.T, store driven.DocumentStore, llm driven.LLMService) (*ChatService, *memory.ConversationStore) {
	t.Helper()
	history := memory.NewConversationStore()
	service := NewChatService(
		store,
		NewSearchService(store, 0),
		NewAnswerSelector(domain.AnswerSettings{}),
		history,
		llm,
	)
	return service, history
}

func TestChatService_Ask_Validation(t *testing.T) {
	service, _ := newChat(t, seedStore(t, "text"), nil)
	ctx := context.Background()

	_, err := service.Ask(ctx, "s", "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = service.Ask(ctx, "", "question")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChatService_Ask_NoDocuments(t *testing.T) {
	service, history := newChat(t, memory.NewDocumentStore(), nil)

	reply, err := service.Ask(context.Background(), "s", "what is this?")
	require.NoError(t, err)

	assert.Equal(t, NoDocumentsMessage, reply.Answer.Text)
	assert.False(t, reply.Recorded)
	turns, err := history.History(context.Background(), "s")
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestChatService_Ask_ExtractedAnswer(t *testing.T) {
	store := seedStore(t, "Title page\n\nThe warranty lasts two years.\n\nContact support.")
	service, history := newChat(t, store, nil)
	ctx := context.Background()

	reply, err := service.Ask(ctx, "s1", "How long is the warranty?")
	require.NoError(t, err)

	assert.True(t, reply.Recorded)
	assert.Equal(t, "s1", reply.SessionID)
	assert.Equal(t, "The warranty lasts two years.", reply.Answer.Text)
	require.Len(t, reply.Sources, 1)

	turns, err := history.History(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, domain.RoleUser, turns[0].Role)
	assert.Equal(t, "How long is the warranty?", turns[0].Content)
	assert.Equal(t, domain.RoleAssistant, turns[1].Role)
	assert.Equal(t, "The warranty lasts two years.", turns[1].Content)
}

func TestChatService_Ask_FallbackDocument(t *testing.T) {
	service, _ := newChat(t, seedStore(t, "Apples and pears."), nil)

	reply, err := service.Ask(context.Background(), "s", "zebra")
	require.NoError(t, err)

	require.Len(t, reply.Sources, 1)
	assert.True(t, reply.Sources[0].Fallback)
	assert.Contains(t, reply.Answer.Text, "I don't have specific information about that in the document.")
	assert.Contains(t, reply.Answer.Text, "Apples and pears.")
}

func TestChatService_Ask_UsesModelWithContext(t *testing.T) {
	llm := &mockLLMService{answer: "  Two years.  "}
	service, history := newChat(t, seedStore(t, "The warranty lasts two years."), llm)

	reply, err := service.Ask(context.Background(), "s", "warranty")
	require.NoError(t, err)

	assert.Equal(t, "Two years.", reply.Answer.Text)
	assert.True(t, reply.Answer.Generated)
	assert.Equal(t, 1, llm.answerCalls)
	assert.Equal(t, []string{"The warranty lasts two years."}, llm.lastContexts)

	turns, err := history.History(context.Background(), "s")
	require.NoError(t, err)
	assert.Equal(t, "Two years.", turns[1].Content)
}

func TestChatService_Ask_UsesChatWithHistory(t *testing.T) {
	llm := &mockLLMService{answer: "first", chatAnswer: "second"}
	service, _ := newChat(t, seedStore(t, "The warranty lasts two years."), llm)
	ctx := context.Background()

	_, err := service.Ask(ctx, "s", "warranty")
	require.NoError(t, err)
	reply, err := service.Ask(ctx, "s", "and the warranty terms?")
	require.NoError(t, err)

	assert.Equal(t, "second", reply.Answer.Text)
	assert.Equal(t, 1, llm.chatCalls)
	require.Len(t, llm.lastMessages, 4)
	assert.Equal(t, "system", llm.lastMessages[0].Role)
	assert.Contains(t, llm.lastMessages[0].Content, ContextSystemPrompt)
	assert.Equal(t, "user", llm.lastMessages[1].Role)
	assert.Equal(t, "assistant", llm.lastMessages[2].Role)
	assert.Equal(t, "first", llm.lastMessages[2].Content)
	assert.Equal(t, "and the warranty terms?", llm.lastMessages[3].Content)
}

func TestChatService_Ask_ModelFailureFallsBack(t *testing.T) {
	llm := &mockLLMService{err: errors.New("connection refused")}
	service, _ := newChat(t, seedStore(t, "The warranty lasts two years."), llm)

	reply, err := service.Ask(context.Background(), "s", "warranty")
	require.NoError(t, err)

	assert.Equal(t, "The warranty lasts two years.", reply.Answer.Text)
	assert.False(t, reply.Answer.Generated)
}

func TestChatService_Ask_EmptyModelAnswerFallsBack(t *testing.T) {
	service, _ := newChat(t, seedStore(t, "The warranty lasts two years."), &mockLLMService{answer: " "})

	reply, err := service.Ask(context.Background(), "s", "warranty")
	require.NoError(t, err)
	assert.Equal(t, "The warranty lasts two years.", reply.Answer.Text)
}

func TestChatService_Ask_StoreError(t *testing.T) {
	service, _ := newChat(t, failingDocStore{}, nil)

	_, err := service.Ask(context.Background(), "s", "question")
	assert.ErrorIs(t, err, errStoreDown)
}

func TestChatService_SessionsAreIsolated(t *testing.T) {
	service, _ := newChat(t, seedStore(t, "shared text"), nil)
	ctx := context.Background()

	_, err := service.Ask(ctx, "a", "shared")
	require.NoError(t, err)
	_, err = service.Ask(ctx, "b", "text")
	require.NoError(t, err)
	_, err = service.Ask(ctx, "b", "more")
	require.NoError(t, err)

	a, err := service.History(ctx, "a")
	require.NoError(t, err)
	b, err := service.History(ctx, "b")
	require.NoError(t, err)
	assert.Len(t, a, 2)
	assert.Len(t, b, 4)

	require.NoError(t, service.Clear(ctx, "b"))
	b, err = service.History(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, b)
	a, err = service.History(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, a, 2)
}
