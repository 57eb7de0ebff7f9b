// Package ollama provides an LLM service adapter for a local Ollama server.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL     = domain.DefaultOllamaURL
	DefaultLLMModel    = domain.DefaultOllamaModel
	DefaultLLMTimeout  = domain.DefaultLLMTimeout
	DefaultTemperature = domain.DefaultTemperature
	DefaultMaxTokens   = domain.DefaultMaxTokens
)

// Fallback templates used without a PromptStore.
const (
	defaultAnswerPrompt = "Context information:\n%s\n\n" +
		"Based on the above context, please answer the following question:\n%s\n\n" +
		"If the question cannot be answered based on the provided context, please indicate that."
	defaultSystemPrompt = "You are a helpful assistant that accurately answers questions " +
		"based only on the provided context."
)

// LLMConfig holds configuration for the Ollama LLM service.
type LLMConfig struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the LLM model to use (default: llama3.1:latest).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// Temperature is used when a call does not set one (default: 0.7).
	Temperature float64

	// MaxTokens is used when a call does not set one (default: 2048).
	MaxTokens int
}

// LLMService provides LLM operations using Ollama.
type LLMService struct {
	client      *http.Client
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	promptStore driven.PromptStore
}

// generateRequest is the Ollama /api/generate request format.
type generateRequest struct {
	Model   string   `json:"model"`
	Prompt  string   `json:"prompt"`
	System  string   `json:"system,omitempty"`
	Stream  bool     `json:"stream"`
	Options *options `json:"options,omitempty"`
}

// options holds generation parameters.
type options struct {
	NumPredict  int      `json:"num_predict,omitempty"`
	Temperature float64  `json:"temperature,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

// generateResponse is the Ollama /api/generate response format.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// chatRequest is the Ollama /api/chat request format.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *options      `json:"options,omitempty"`
}

// chatMessage is the Ollama chat message format.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the Ollama /api/chat response format.
type chatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// tagsResponse is the Ollama /api/tags response format.
type tagsResponse struct {
	Models []struct {
		Name       string `json:"name"`
		Size       int64  `json:"size"`
		ModifiedAt string `json:"modified_at"`
	} `json:"models"`
}

// NewLLMService creates a new Ollama LLM service.
func NewLLMService(cfg LLMConfig) *LLMService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	return &LLMService{
		client:      &http.Client{Timeout: cfg.Timeout},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the service uses built-in prompts.
func (s *LLMService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Generate produces text completion from a prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if opts.Context != "" {
		prompt = opts.Context + "\n\n" + prompt
	}

	reqBody := generateRequest{
		Model:   s.model,
		Prompt:  prompt,
		System:  opts.System,
		Stream:  false,
		Options: s.options(opts.MaxTokens, opts.Temperature, opts.StopWords),
	}

	var genResp generateResponse
	if err := s.post(ctx, "/api/generate", reqBody, &genResp); err != nil {
		return "", err
	}
	return genResp.Response, nil
}

// Chat conducts a multi-turn conversation.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	chatMessages := make([]chatMessage, len(messages))
	for i, msg := range messages {
		chatMessages[i] = chatMessage{Role: msg.Role, Content: msg.Content}
	}

	reqBody := chatRequest{
		Model:    s.model,
		Messages: chatMessages,
		Stream:   false,
		Options:  s.options(opts.MaxTokens, opts.Temperature, nil),
	}

	var chatResp chatResponse
	if err := s.post(ctx, "/api/chat", reqBody, &chatResp); err != nil {
		return "", err
	}
	return chatResp.Message.Content, nil
}

// AnswerWithContext answers a question from the given context passages.
func (s *LLMService) AnswerWithContext(ctx context.Context, question string, contexts []string) (string, error) {
	template := s.loadPrompt(driven.PromptAnswerWithContext, defaultAnswerPrompt)
	system := s.loadPrompt(driven.PromptSystem, defaultSystemPrompt)

	prompt := fmt.Sprintf(template, strings.Join(contexts, "\n\n"), question)

	answer, err := s.Generate(ctx, prompt, driven.GenerateOptions{System: system})
	if err != nil {
		return "", fmt.Errorf("answer with context: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

// ListModels returns the models installed on the server.
func (s *LLMService) ListModels(ctx context.Context) ([]driven.ModelInfo, error) {
	resp, err := s.get(ctx, "/api/tags")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	models := make([]driven.ModelInfo, len(tags.Models))
	for i, m := range tags.Models {
		models[i] = driven.ModelInfo{Name: m.Name, Size: m.Size, ModifiedAt: m.ModifiedAt}
	}
	return models, nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by checking the /api/tags endpoint.
// This is a lightweight check that validates connectivity without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	resp, err := s.get(ctx, "/api/tags")
	if err != nil {
		return fmt.Errorf("ollama: ping failed: %w", err)
	}
	resp.Body.Close()
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

// options fills unset generation parameters from the service defaults.
func (s *LLMService) options(maxTokens int, temperature float64, stop []string) *options {
	if maxTokens <= 0 {
		maxTokens = s.maxTokens
	}
	if temperature <= 0 {
		temperature = s.temperature
	}
	return &options{NumPredict: maxTokens, Temperature: temperature, Stop: stop}
}

// post sends a JSON request and decodes a JSON response into out.
func (s *LLMService) post(ctx context.Context, path string, body, out any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (s *LLMService) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return s.do(req)
}

// do sends req and turns transport failures and non-200 replies into errors
// wrapping domain.ErrLLMUnavailable.
func (s *LLMService) do(req *http.Request) (*http.Response, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w: %w", domain.ErrLLMUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if err != nil {
			return nil, fmt.Errorf("ollama error (status %d): failed to read response", resp.StatusCode)
		}
		return nil, fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return resp, nil
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (s *LLMService) loadPrompt(name, fallback string) string {
	if s.promptStore == nil {
		return fallback
	}
	prompt, err := s.promptStore.Load(name)
	if err != nil || prompt == "" {
		return fallback
	}
	return prompt
}
