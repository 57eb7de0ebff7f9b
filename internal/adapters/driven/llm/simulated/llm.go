// Package simulated provides an LLM service that returns canned answers
// without contacting a model server.
package simulated

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// NoContextAnswer is returned when no context passages are supplied.
const NoContextAnswer = "I couldn't find relevant information in the documents to answer your question."

const previewWords = 5

// contextMarker separates instructions from context in a system message.
const contextMarker = "Context information:\n"

// Config names the model and server a real deployment would use.
type Config struct {
	Model   string
	BaseURL string
}

// LLMService answers from the context it is given.
type LLMService struct {
	model   string
	baseURL string
}

// NewLLMService creates a simulated LLM service.
func NewLLMService(cfg Config) *LLMService {
	if cfg.Model == "" {
		cfg.Model = domain.DefaultOllamaModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = domain.DefaultOllamaURL
	}
	return &LLMService{model: cfg.Model, baseURL: cfg.BaseURL}
}

// Generate answers from the options context, or the prompt itself.
func (s *LLMService) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	source := opts.Context
	if strings.TrimSpace(source) == "" {
		source = prompt
	}
	return s.respond(prompt, source), nil
}

// Chat answers the last user message from the context carried by the
// first system message.
func (s *LLMService) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	var question, source string
	for _, msg := range messages {
		switch msg.Role {
		case string(domain.RoleSystem):
			if source != "" {
				continue
			}
			source = msg.Content
			if _, after, ok := strings.Cut(source, contextMarker); ok {
				source = after
			}
		case string(domain.RoleUser):
			question = msg.Content
		}
	}
	return s.respond(question, source), nil
}

// AnswerWithContext answers from the joined context passages.
func (s *LLMService) AnswerWithContext(_ context.Context, question string, contexts []string) (string, error) {
	return s.respond(question, strings.Join(contexts, " ")), nil
}

// ListModels returns the configured model.
func (s *LLMService) ListModels(_ context.Context) ([]driven.ModelInfo, error) {
	return []driven.ModelInfo{{Name: s.model}}, nil
}

// ModelName returns the configured model name.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping always succeeds.
func (s *LLMService) Ping(_ context.Context) error {
	return nil
}

// Close is a no-op.
func (s *LLMService) Close() error {
	return nil
}

func (s *LLMService) respond(question, source string) string {
	words := strings.Fields(source)
	if len(words) == 0 {
		return NoContextAnswer
	}
	if len(words) > previewWords {
		words = words[:previewWords]
	}
	return fmt.Sprintf("Based on the document provided, I can see information about %s...\n\n"+
		"To properly answer your question about '%s', I would need access to the Ollama API with the %s model.\n\n"+
		"In a real deployment, this would connect to Ollama running on %s.",
		strings.Join(words, " "), question, s.model, s.baseURL)
}
