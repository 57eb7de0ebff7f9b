package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfchat/internal/adapters/driven/llm/simulated"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
)

func TestLLMPingCmd_Disabled(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "", "llm", "ping")

	require.NoError(t, err)
	assert.Contains(t, out, "Mode:  off")
	assert.Contains(t, out, "disabled")
}

func TestLLMPingCmd_Reachable(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	appSettings.LLM.Mode = domain.LLMModeSimulated
	modelClient = simulated.NewLLMService(simulated.Config{Model: "test-model"})

	out, err := execute(t, "", "llm", "ping")

	require.NoError(t, err)
	assert.Contains(t, out, "Mode:  simulated")
	assert.Contains(t, out, "Model: test-model")
	assert.Contains(t, out, "Status: reachable")
}

func TestLLMPingCmd_Unreachable(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	appSettings.LLM.Mode = domain.LLMModeOllama
	modelClient = &stubModel{pingErr: errors.New("connection refused")}

	_, err := execute(t, "", "llm", "ping")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "model server unreachable")
}

func TestLLMModelsCmd(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	modelClient = &stubModel{models: []driven.ModelInfo{
		{Name: "stub-model", Size: 4 << 30},
		{Name: "other", Size: 512},
	}}

	out, err := execute(t, "", "llm", "models")

	require.NoError(t, err)
	assert.Contains(t, out, "* stub-model")
	assert.Contains(t, out, "4.0 GiB")
	assert.Contains(t, out, "  other")
	assert.Contains(t, out, "512 B")
}

func TestLLMModelsCmd_Empty(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	modelClient = &stubModel{}

	out, err := execute(t, "", "llm", "models")

	require.NoError(t, err)
	assert.Contains(t, out, "No models installed.")
}

func TestLLMModelsCmd_Disabled(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	_, err := execute(t, "", "llm", "models")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no model backend configured")
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "0 B", formatSize(0))
	assert.Equal(t, "1.0 KiB", formatSize(1024))
	assert.Equal(t, "1.5 MiB", formatSize(3<<19))
}
