package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyChunkSize         = "chunking.size"
	KeyChunkOverlap      = "chunking.overlap"
	KeySearchLimit       = "search.limit"
	KeyPreviewChars      = "answer.preview_chars"
	KeyContextChars      = "answer.context_chars"
	KeyContextParagraphs = "answer.context_paragraphs"
	KeyLLMMode           = "llm.mode"
	KeyLLMBaseURL        = "llm.base_url"
	KeyLLMModel          = "llm.model"
	KeyLLMTemperature    = "llm.temperature"
	KeyLLMMaxTokens      = "llm.max_tokens"
	KeyLLMTimeout        = "llm.timeout_seconds"
	KeyServerAddr        = "server.addr"
	KeyMaxUploadMB       = "server.max_upload_mb"
	KeyChatRate          = "server.chat_rate_per_second"
	KeyChatBurst         = "server.chat_burst"
	KeyMaxSessions       = "server.max_sessions"
	KeySessionTTL        = "server.session_ttl_minutes"
	KeyStorageBackend    = "storage.backend"
	KeyStoragePath       = "storage.path"
	KeyStorageDSN        = "storage.dsn"
)

type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindFloat
)

// settingKeys lists every recognised key with its value type.
var settingKeys = map[string]keyKind{
	KeyChunkSize:         kindInt,
	KeyChunkOverlap:      kindInt,
	KeySearchLimit:       kindInt,
	KeyPreviewChars:      kindInt,
	KeyContextChars:      kindInt,
	KeyContextParagraphs: kindInt,
	KeyLLMMode:           kindString,
	KeyLLMBaseURL:        kindString,
	KeyLLMModel:          kindString,
	KeyLLMTemperature:    kindFloat,
	KeyLLMMaxTokens:      kindInt,
	KeyLLMTimeout:        kindInt,
	KeyServerAddr:        kindString,
	KeyMaxUploadMB:       kindInt,
	KeyChatRate:          kindFloat,
	KeyChatBurst:         kindInt,
	KeyMaxSessions:       kindInt,
	KeySessionTTL:        kindInt,
	KeyStorageBackend:    kindString,
	KeyStoragePath:       kindString,
	KeyStorageDSN:        kindString,
}

// SettingKeys returns every recognised config key.
func SettingKeys() []string {
	keys := make([]string, 0, len(settingKeys))
	for k := range settingKeys {
		keys = append(keys, k)
	}
	return keys
}

// SettingsService maps config keys onto domain.AppSettings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Missing keys take defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Chunking: domain.ChunkingSettings{
			Size:    s.getInt(KeyChunkSize, d.Chunking.Size),
			Overlap: s.getInt(KeyChunkOverlap, d.Chunking.Overlap),
		},
		Search: domain.SearchSettings{
			Limit: s.getInt(KeySearchLimit, d.Search.Limit),
		},
		Answer: domain.AnswerSettings{
			PreviewChars:      s.getInt(KeyPreviewChars, d.Answer.PreviewChars),
			ContextChars:      s.getInt(KeyContextChars, d.Answer.ContextChars),
			ContextParagraphs: s.getInt(KeyContextParagraphs, d.Answer.ContextParagraphs),
		},
		LLM: domain.LLMSettings{
			Mode:        s.getLLMMode(d.LLM.Mode),
			BaseURL:     s.getString(KeyLLMBaseURL, d.LLM.BaseURL),
			Model:       s.getString(KeyLLMModel, d.LLM.Model),
			Temperature: s.getFloat(KeyLLMTemperature, d.LLM.Temperature),
			MaxTokens:   s.getInt(KeyLLMMaxTokens, d.LLM.MaxTokens),
			Timeout:     time.Duration(s.getInt(KeyLLMTimeout, int(d.LLM.Timeout/time.Second))) * time.Second,
		},
		Server: domain.ServerSettings{
			Addr:              s.getString(KeyServerAddr, d.Server.Addr),
			MaxUploadBytes:    int64(s.getInt(KeyMaxUploadMB, int(d.Server.MaxUploadBytes>>20))) << 20,
			ChatRatePerSecond: s.getFloat(KeyChatRate, d.Server.ChatRatePerSecond),
			ChatBurst:         s.getInt(KeyChatBurst, d.Server.ChatBurst),
			MaxSessions:       s.getInt(KeyMaxSessions, d.Server.MaxSessions),
			SessionTTL:        time.Duration(s.getInt(KeySessionTTL, int(d.Server.SessionTTL/time.Minute))) * time.Minute,
		},
		Storage: domain.StorageSettings{
			Backend: s.getBackend(d.Storage.Backend),
			Path:    s.getString(KeyStoragePath, d.Storage.Path),
			DSN:     s.getString(KeyStorageDSN, d.Storage.DSN),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{KeyChunkSize, settings.Chunking.Size},
		{KeyChunkOverlap, settings.Chunking.Overlap},
		{KeySearchLimit, settings.Search.Limit},
		{KeyPreviewChars, settings.Answer.PreviewChars},
		{KeyContextChars, settings.Answer.ContextChars},
		{KeyContextParagraphs, settings.Answer.ContextParagraphs},
		{KeyLLMMode, settings.LLM.Mode.String()},
		{KeyLLMBaseURL, settings.LLM.BaseURL},
		{KeyLLMModel, settings.LLM.Model},
		{KeyLLMTemperature, settings.LLM.Temperature},
		{KeyLLMMaxTokens, settings.LLM.MaxTokens},
		{KeyLLMTimeout, int(settings.LLM.Timeout / time.Second)},
		{KeyServerAddr, settings.Server.Addr},
		{KeyMaxUploadMB, int(settings.Server.MaxUploadBytes >> 20)},
		{KeyChatRate, settings.Server.ChatRatePerSecond},
		{KeyChatBurst, settings.Server.ChatBurst},
		{KeyMaxSessions, settings.Server.MaxSessions},
		{KeySessionTTL, int(settings.Server.SessionTTL / time.Minute)},
		{KeyStorageBackend, string(settings.Storage.Backend)},
		{KeyStoragePath, settings.Storage.Path},
		{KeyStorageDSN, settings.Storage.DSN},
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return s.configStore.Save()
}

// Set parses value according to the key's type and stores it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKeys[key]
	if !ok {
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}

	var parsed any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("setting %s expects an integer: %w", key, domain.ErrInvalidInput)
		}
		parsed = n
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("setting %s expects a number: %w", key, domain.ErrInvalidInput)
		}
		parsed = f
	default:
		parsed = value
	}

	switch key {
	case KeyLLMMode:
		if !domain.LLMMode(value).IsValid() {
			return fmt.Errorf("invalid llm mode %q: %w", value, domain.ErrInvalidInput)
		}
	case KeyStorageBackend:
		if !domain.StorageBackend(value).IsValid() {
			return fmt.Errorf("invalid storage backend %q: %w", value, domain.ErrUnsupportedBackend)
		}
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return s.configStore.Save()
}

// Validate checks the current settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return ValidateSettings(settings)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateSettings reports every problem found in settings.
func ValidateSettings(settings *domain.AppSettings) error {
	var errs []error

	if settings.Chunking.Size <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", KeyChunkSize))
	}
	if settings.Chunking.Overlap < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", KeyChunkOverlap))
	}
	if settings.Server.MaxSessions < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", KeyMaxSessions))
	}
	if settings.Server.SessionTTL < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", KeySessionTTL))
	}
	if !settings.LLM.Mode.IsValid() {
		errs = append(errs, fmt.Errorf("%s %q is not one of off, simulated, ollama: %w",
			KeyLLMMode, settings.LLM.Mode, domain.ErrInvalidInput))
	}
	if settings.LLM.Mode == domain.LLMModeOllama && settings.LLM.BaseURL == "" {
		errs = append(errs, fmt.Errorf("%s is required in ollama mode", KeyLLMBaseURL))
	}
	switch settings.Storage.Backend {
	case domain.StorageMemory, domain.StorageSQLite:
	case domain.StoragePostgres:
		if settings.Storage.DSN == "" {
			errs = append(errs, fmt.Errorf("%s is required for the postgres backend", KeyStorageDSN))
		}
	default:
		errs = append(errs, fmt.Errorf("%s %q: %w", KeyStorageBackend, settings.Storage.Backend, domain.ErrUnsupportedBackend))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid settings: %w", errors.Join(errs...))
	}
	return nil
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

// getLLMMode keeps unrecognised values so ValidateSettings can reject them.
func (s *SettingsService) getLLMMode(defaultVal domain.LLMMode) domain.LLMMode {
	return domain.LLMMode(s.getString(KeyLLMMode, string(defaultVal)))
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	return domain.StorageBackend(s.getString(KeyStorageBackend, string(defaultVal)))
}
