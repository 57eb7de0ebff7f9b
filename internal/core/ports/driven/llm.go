package driven

import "context"

// LLMService provides language model operations for answering questions.
// This is an optional service - when nil, chat degrades to extracted answers.
//
// Implementations include:
//   - Ollama (local models over HTTP)
//   - Simulated (canned responses, no network)
type LLMService interface {
	// Generate produces text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// Chat conducts a multi-turn conversation.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// AnswerWithContext answers a question using only the supplied context passages.
	AnswerWithContext(ctx context.Context, question string, contexts []string) (string, error)

	// ListModels returns the models available on the server.
	ListModels(ctx context.Context) ([]ModelInfo, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// System is an optional system prompt.
	System string

	// Context is optional text prepended to the prompt.
	Context string

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}

// ModelInfo describes a model installed on the server.
type ModelInfo struct {
	Name       string
	Size       int64
	ModifiedAt string
}
