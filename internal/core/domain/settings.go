package domain

import "time"

const unknownDescription = "Unknown"

// LLMMode selects how answers are produced.
type LLMMode string

// Available LLM modes.
const (
	// LLMModeOff answers with the extracted paragraph only.
	LLMModeOff LLMMode = "off"

	// LLMModeSimulated answers with canned model text and makes no network calls.
	LLMModeSimulated LLMMode = "simulated"

	// LLMModeOllama calls a local Ollama server.
	LLMModeOllama LLMMode = "ollama"
)

// IsValid returns true if the mode is recognised.
func (m LLMMode) IsValid() bool {
	switch m {
	case LLMModeOff, LLMModeSimulated, LLMModeOllama:
		return true
	default:
		return false
	}
}

// Enabled returns true if the mode uses a model client.
func (m LLMMode) Enabled() bool {
	return m == LLMModeSimulated || m == LLMModeOllama
}

// String returns the string representation.
func (m LLMMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m LLMMode) Description() string {
	switch m {
	case LLMModeOff:
		return "Off (extracted paragraphs only)"
	case LLMModeSimulated:
		return "Simulated (canned model responses)"
	case LLMModeOllama:
		return "Ollama (local model server)"
	default:
		return unknownDescription
	}
}

// StorageBackend identifies where documents are kept.
type StorageBackend string

// Available storage backends.
const (
	StorageMemory   StorageBackend = "memory"
	StorageSQLite   StorageBackend = "sqlite"
	StoragePostgres StorageBackend = "postgres"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageMemory, StorageSQLite, StoragePostgres:
		return true
	default:
		return false
	}
}

// ChunkingSettings configures the chunker.
type ChunkingSettings struct {
	// Size is the target chunk length in characters.
	Size int

	// Overlap is the number of characters shared by consecutive chunks.
	Overlap int
}

// SearchSettings holds search behaviour configuration.
type SearchSettings struct {
	// Limit is the maximum number of documents returned.
	Limit int
}

// AnswerSettings configures the answer selector.
type AnswerSettings struct {
	// PreviewChars is how much of the document is quoted when nothing matches.
	PreviewChars int

	// ContextChars is how much of the document is used as model context
	// when nothing matches.
	ContextChars int

	// ContextParagraphs is how many top paragraphs form the model context.
	ContextParagraphs int
}

// LLMSettings holds model client configuration.
type LLMSettings struct {
	// Mode selects extraction only, simulated, or Ollama answers.
	Mode LLMMode

	// BaseURL is the Ollama API endpoint.
	BaseURL string

	// Model is the model name.
	Model string

	// Temperature controls randomness.
	Temperature float64

	// MaxTokens caps the generated length.
	MaxTokens int

	// Timeout bounds a single request.
	Timeout time.Duration
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string

	// MaxUploadBytes caps the size of an uploaded PDF.
	MaxUploadBytes int64

	// ChatRatePerSecond is the sustained chat request rate. Zero disables limiting.
	ChatRatePerSecond float64

	// ChatBurst is the number of chat requests allowed at once.
	ChatBurst int

	// MaxSessions caps the chat sessions kept in memory. Zero means no cap.
	MaxSessions int

	// SessionTTL drops a session after this long without a new turn.
	// Zero keeps sessions until evicted by MaxSessions.
	SessionTTL time.Duration
}

// StorageSettings selects the document store.
type StorageSettings struct {
	// Backend is memory, sqlite, or postgres.
	Backend StorageBackend

	// Path is the SQLite data directory. Empty means ~/.pdfchat/data.
	Path string

	// DSN is the Postgres connection string.
	DSN string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Chunking ChunkingSettings
	Search   SearchSettings
	Answer   AnswerSettings
	LLM      LLMSettings
	Server   ServerSettings
	Storage  StorageSettings
}

// Defaults used by DefaultAppSettings.
const (
	DefaultChunkSize         = 1000
	DefaultChunkOverlap      = 200
	DefaultPreviewChars      = 200
	DefaultContextChars      = 1000
	DefaultContextParagraphs = 3
	DefaultOllamaURL         = "http://localhost:11434"
	DefaultOllamaModel       = "llama3.1:latest"
	DefaultTemperature       = 0.7
	DefaultMaxTokens         = 2048
	DefaultLLMTimeout        = 120 * time.Second
	DefaultServerAddr        = ":8080"
	DefaultMaxUploadBytes    = 10 << 20
	DefaultMaxSessions       = 1000
	DefaultSessionTTL        = 24 * time.Hour
)

// DefaultAppSettings returns settings with sensible defaults.
// The model client is off and documents are kept in memory.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Chunking: ChunkingSettings{
			Size:    DefaultChunkSize,
			Overlap: DefaultChunkOverlap,
		},
		Search: SearchSettings{
			Limit: DefaultSearchLimit,
		},
		Answer: AnswerSettings{
			PreviewChars:      DefaultPreviewChars,
			ContextChars:      DefaultContextChars,
			ContextParagraphs: DefaultContextParagraphs,
		},
		LLM: LLMSettings{
			Mode:        LLMModeOff,
			BaseURL:     DefaultOllamaURL,
			Model:       DefaultOllamaModel,
			Temperature: DefaultTemperature,
			MaxTokens:   DefaultMaxTokens,
			Timeout:     DefaultLLMTimeout,
		},
		Server: ServerSettings{
			Addr:              DefaultServerAddr,
			MaxUploadBytes:    DefaultMaxUploadBytes,
			ChatRatePerSecond: 5,
			ChatBurst:         10,
			MaxSessions:       DefaultMaxSessions,
			SessionTTL:        DefaultSessionTTL,
		},
		Storage: StorageSettings{
			Backend: StorageMemory,
		},
	}
}

// AllLLMModes returns all available LLM modes.
func AllLLMModes() []LLMMode {
	return []LLMMode{LLMModeOff, LLMModeSimulated, LLMModeOllama}
}
