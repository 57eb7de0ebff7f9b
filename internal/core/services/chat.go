package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// ContextSystemPrompt instructs a model to stay within the supplied context.
const ContextSystemPrompt = "You are a helpful assistant that accurately answers questions " +
	"based only on the provided context."

// ChatService answers questions and keeps per-session history.
type ChatService struct {
	docStore   driven.DocumentStore
	search     driving.SearchService
	selector   *AnswerSelector
	history    driven.ConversationStore
	llmService driven.LLMService
	llmOpts    driven.ChatOptions
	now        func() time.Time
}

// NewChatService creates a chat service.
// The llmService parameter is optional (can be nil).
func NewChatService(
	docStore driven.DocumentStore,
	search driving.SearchService,
	selector *AnswerSelector,
	history driven.ConversationStore,
	llmService driven.LLMService,
) *ChatService {
	return &ChatService{
		docStore:   docStore,
		search:     search,
		selector:   selector,
		history:    history,
		llmService: llmService,
		now:        time.Now,
	}
}

// SetChatOptions sets the generation options used for model calls.
func (s *ChatService) SetChatOptions(opts driven.ChatOptions) {
	s.llmOpts = opts
}

// Ask answers a question within a session.
//
// With no documents stored the reply is NoDocumentsMessage and nothing is
// recorded. Otherwise the user turn and the assistant turn are appended.
func (s *ChatService) Ask(ctx context.Context, sessionID, question string) (*domain.Reply, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("ask: empty question: %w", domain.ErrInvalidInput)
	}
	if sessionID == "" {
		return nil, fmt.Errorf("ask: missing session: %w", domain.ErrInvalidInput)
	}

	logger.Section("Chat")
	logger.Debug("Session %s asked %q", sessionID, question)

	count, err := s.docStore.CountDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	if count == 0 {
		logger.Debug("No documents uploaded")
		return &domain.Reply{
			SessionID: sessionID,
			Answer:    domain.Answer{Text: NoDocumentsMessage},
		}, nil
	}

	prior, err := s.history.History(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	results, err := s.search.Search(ctx, question, domain.SearchOptions{})
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	var answer domain.Answer
	if len(results) == 0 {
		answer = domain.Answer{Text: NoResultsMessage}
	} else {
		answer = s.selector.Select(question, results)
		if s.llmService != nil {
			s.generate(ctx, question, prior, &answer)
		}
	}

	if err := s.record(ctx, sessionID, question, answer.Text); err != nil {
		return nil, err
	}

	return &domain.Reply{
		SessionID: sessionID,
		Answer:    answer,
		Sources:   results,
		Recorded:  true,
	}, nil
}

// History returns the turns of a session.
func (s *ChatService) History(ctx context.Context, sessionID string) ([]domain.ConversationTurn, error) {
	return s.history.History(ctx, sessionID)
}

// Clear empties a session's history.
func (s *ChatService) Clear(ctx context.Context, sessionID string) error {
	logger.Debug("Clearing history of session %s", sessionID)
	return s.history.Clear(ctx, sessionID)
}

// generate replaces the extracted answer with model output.
// Model failures are logged and leave the extracted answer in place.
func (s *ChatService) generate(
	ctx context.Context, question string, prior []domain.ConversationTurn, answer *domain.Answer,
) {
	var (
		text string
		err  error
	)

	if len(prior) == 0 {
		logger.Debug("Answering with context via %s", s.llmService.ModelName())
		text, err = s.llmService.AnswerWithContext(ctx, question, []string{answer.Context})
	} else {
		logger.Debug("Continuing conversation of %d turns via %s", len(prior), s.llmService.ModelName())
		text, err = s.llmService.Chat(ctx, chatMessages(answer.Context, prior, question), s.llmOpts)
	}

	if err != nil {
		logger.Error("Model call failed, using extracted answer: %v", err)
		return
	}
	if strings.TrimSpace(text) == "" {
		logger.Warn("Model returned an empty answer, using extracted answer")
		return
	}

	answer.Text = strings.TrimSpace(text)
	answer.Generated = true
}

func (s *ChatService) record(ctx context.Context, sessionID, question, reply string) error {
	if err := s.history.Append(ctx, sessionID, domain.ConversationTurn{
		Role:      domain.RoleUser,
		Content:   question,
		CreatedAt: s.now(),
	}); err != nil {
		return fmt.Errorf("record question: %w", err)
	}
	if err := s.history.Append(ctx, sessionID, domain.ConversationTurn{
		Role:      domain.RoleAssistant,
		Content:   reply,
		CreatedAt: s.now(),
	}); err != nil {
		return fmt.Errorf("record answer: %w", err)
	}
	return nil
}

// chatMessages builds a model conversation from prior turns, the retrieved
// context and the new question.
func chatMessages(contextText string, prior []domain.ConversationTurn, question string) []driven.ChatMessage {
	messages := make([]driven.ChatMessage, 0, len(prior)+2)
	messages = append(messages, driven.ChatMessage{
		Role:    string(domain.RoleSystem),
		Content: ContextSystemPrompt + "\n\nContext information:\n" + contextText,
	})
	for _, turn := range prior {
		messages = append(messages, driven.ChatMessage{Role: string(turn.Role), Content: turn.Content})
	}
	messages = append(messages, driven.ChatMessage{Role: string(domain.RoleUser), Content: question})
	return messages
}
