// Package ai provides factory functions for creating model service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamallm "github.com/custodia-labs/pdfchat/internal/adapters/driven/llm/ollama"
	"github.com/custodia-labs/pdfchat/internal/adapters/driven/llm/simulated"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of model service initialisation.
type InitResult struct {
	LLMService  driven.LLMService
	PromptStore driven.PromptStore // User-customisable prompt templates.
	Warnings    []string           // Non-fatal issues that caused fallback.
	FellBack    bool               // True if fell back to extracted answers only.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Initialise creates the configured LLM service and checks it is reachable.
// An unreachable server is not fatal: the result carries a warning and
// no service, so answers fall back to extracted paragraphs.
func Initialise(ctx context.Context, settings *domain.LLMSettings, prompts driven.PromptStore) *InitResult {
	result := &InitResult{PromptStore: prompts}

	svc, err := CreateAndValidateLLMService(ctx, settings, prompts)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
		result.FellBack = true
		return result
	}

	result.LLMService = svc
	return result
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns nil without error when the mode is off.
func CreateAndValidateLLMService(
	ctx context.Context,
	settings *domain.LLMSettings,
	prompts driven.PromptStore,
) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings, prompts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'pdfchat settings set llm.mode off' to disable",
			domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Check llm.base_url or start the server",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// CreateLLMService creates the LLM service selected by the mode.
// Returns nil if the mode is off.
func CreateLLMService(settings *domain.LLMSettings, prompts driven.PromptStore) (driven.LLMService, error) {
	if settings == nil {
		return nil, nil
	}

	switch settings.Mode {
	case domain.LLMModeOff, "":
		return nil, nil

	case domain.LLMModeSimulated:
		return simulated.NewLLMService(simulated.Config{
			Model:   settings.Model,
			BaseURL: settings.BaseURL,
		}), nil

	case domain.LLMModeOllama:
		return createOllamaLLM(settings, prompts), nil

	default:
		return nil, fmt.Errorf("unsupported LLM mode: %s", settings.Mode)
	}
}

// createOllamaLLM creates an Ollama LLM service.
func createOllamaLLM(settings *domain.LLMSettings, prompts driven.PromptStore) driven.LLMService {
	svc := ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL:     settings.BaseURL,
		Model:       settings.Model,
		Timeout:     settings.Timeout,
		Temperature: settings.Temperature,
		MaxTokens:   settings.MaxTokens,
	})
	if prompts != nil {
		svc.SetPromptStore(prompts)
	}
	return svc
}
