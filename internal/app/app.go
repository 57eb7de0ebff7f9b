// Package app wires adapters and services into a running application.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/pdfchat/internal/adapters/driven/ai"
	"github.com/custodia-labs/pdfchat/internal/adapters/driven/config/file"
	"github.com/custodia-labs/pdfchat/internal/adapters/driven/extract/pdf"
	"github.com/custodia-labs/pdfchat/internal/adapters/driven/storage"
	"github.com/custodia-labs/pdfchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/core/services"
	"github.com/custodia-labs/pdfchat/internal/logger"
	"github.com/custodia-labs/pdfchat/internal/postprocessors"
)

// Options configures how the application is assembled.
type Options struct {
	// ConfigDir holds config.toml and prompts/. Empty means ~/.pdfchat.
	ConfigDir string

	// EnvFiles are loaded into the environment before settings are read.
	// Missing files are ignored. Nil means ".env".
	EnvFiles []string
}

// App holds the wired services and the adapters behind them.
type App struct {
	Settings domain.AppSettings

	ConfigStore *file.ConfigStore
	PromptStore *file.PromptStore
	DocStore    driven.DocumentStore
	History     driven.ConversationStore
	LLM         driven.LLMService

	Documents   *services.DocumentService
	Search      *services.SearchService
	Chat        *services.ChatService
	SettingsSvc *services.SettingsService

	// ConfigDir is the resolved configuration directory.
	ConfigDir string

	// Warnings are non-fatal setup problems, such as an unreachable model server.
	Warnings []string
}

// New assembles the application.
func New(ctx context.Context, opts Options) (*App, error) {
	if err := LoadEnv(opts.EnvFiles...); err != nil {
		return nil, err
	}

	configDir := opts.ConfigDir
	if configDir == "" {
		dir, err := file.DefaultConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		configDir = dir
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}

	settingsSvc := services.NewSettingsService(configStore)

	settings, err := settingsSvc.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if err := services.ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("config %s: %w", configDir, err)
	}

	promptStore, err := file.NewPromptStore(filepath.Join(configDir, "prompts"))
	if err != nil {
		return nil, fmt.Errorf("open prompts: %w", err)
	}

	docStore, err := storage.OpenDocumentStore(ctx, settings.Storage)
	if err != nil {
		return nil, err
	}
	logger.Debug("Document store: %s", settings.Storage.Backend)

	pipeline, err := postprocessors.NewDefaultPipeline(settings.Chunking)
	if err != nil {
		docStore.Close()
		return nil, fmt.Errorf("build chunk pipeline: %w", err)
	}

	llm := ai.Initialise(ctx, &settings.LLM, promptStore)
	for _, warning := range llm.Warnings {
		logger.Warn("%s", warning)
	}

	history := memory.NewConversationStore(
		memory.WithMaxSessions(settings.Server.MaxSessions),
		memory.WithSessionTTL(settings.Server.SessionTTL),
	)
	search := services.NewSearchService(docStore, settings.Search.Limit)
	selector := services.NewAnswerSelector(settings.Answer)

	documents := services.NewDocumentService(docStore, pdf.New(), pipeline)
	documents.SetMaxUploadBytes(settings.Server.MaxUploadBytes)

	chat := services.NewChatService(docStore, search, selector, history, llm.LLMService)
	chat.SetChatOptions(driven.ChatOptions{
		MaxTokens:   settings.LLM.MaxTokens,
		Temperature: settings.LLM.Temperature,
	})

	return &App{
		Settings:    *settings,
		ConfigStore: configStore,
		PromptStore: promptStore,
		DocStore:    docStore,
		History:     history,
		LLM:         llm.LLMService,
		Documents:   documents,
		Search:      search,
		Chat:        chat,
		SettingsSvc: settingsSvc,
		Warnings:    llm.Warnings,
		ConfigDir:   configDir,
	}, nil
}

// Close releases the model client and the document store.
func (a *App) Close() error {
	var errs []error
	if a.LLM != nil {
		errs = append(errs, a.LLM.Close())
	}
	if a.DocStore != nil {
		errs = append(errs, a.DocStore.Close())
	}
	return errors.Join(errs...)
}

// LoadEnv loads variables from .env style files without overriding the
// existing environment. Missing files are skipped.
func LoadEnv(files ...string) error {
	if files == nil {
		files = []string{".env"}
	}
	for _, name := range files {
		if err := godotenv.Load(name); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", name, err)
		}
		logger.Debug("Loaded environment from %s", name)
	}
	return nil
}
