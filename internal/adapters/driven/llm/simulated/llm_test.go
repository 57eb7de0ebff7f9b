package simulated

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
)

const preamble = "Based on the document provided, I can see information about "

func TestAnswerWithContext(t *testing.T) {
	svc := NewLLMService(Config{})

	out, err := svc.AnswerWithContext(context.Background(), "What is Go?",
		[]string{"Go is an open source programming language", "more"})
	require.NoError(t, err)

	assert.Contains(t, out, preamble+"Go is an open source...")
	assert.Contains(t, out, "your question about 'What is Go?'")
	assert.Contains(t, out, domain.DefaultOllamaModel)
	assert.Contains(t, out, domain.DefaultOllamaURL)
}

func TestAnswerWithContext_Short(t *testing.T) {
	out, err := NewLLMService(Config{}).AnswerWithContext(context.Background(), "q", []string{"tiny text"})
	require.NoError(t, err)

	assert.Contains(t, out, preamble+"tiny text...")
}

func TestAnswerWithContext_Empty(t *testing.T) {
	out, err := NewLLMService(Config{}).AnswerWithContext(context.Background(), "q", []string{" ", ""})
	require.NoError(t, err)

	assert.Equal(t, NoContextAnswer, out)
}

func TestChat_UsesSystemContextAndLastQuestion(t *testing.T) {
	out, err := NewLLMService(Config{}).Chat(context.Background(), []driven.ChatMessage{
		{Role: "system", Content: "Stay on topic.\n\nContext information:\nalpha beta"},
		{Role: "user", Content: "first"},
		{Role: "assistant", Content: "answer"},
		{Role: "user", Content: "second"},
	}, driven.ChatOptions{})
	require.NoError(t, err)

	assert.Contains(t, out, preamble+"alpha beta...")
	assert.Contains(t, out, "'second'")
}

func TestChat_NoSystemMessage(t *testing.T) {
	out, err := NewLLMService(Config{}).Chat(context.Background(),
		[]driven.ChatMessage{{Role: "user", Content: "q"}}, driven.ChatOptions{})
	require.NoError(t, err)

	assert.Equal(t, NoContextAnswer, out)
}

func TestGenerate_PrefersContext(t *testing.T) {
	out, err := NewLLMService(Config{}).Generate(context.Background(), "prompt words",
		driven.GenerateOptions{Context: "context words"})
	require.NoError(t, err)

	assert.Contains(t, out, preamble+"context words...")
}

func TestMetadata(t *testing.T) {
	svc := NewLLMService(Config{Model: "mistral", BaseURL: "http://gpu:11434"})

	models, err := svc.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []driven.ModelInfo{{Name: "mistral"}}, models)
	assert.Equal(t, "mistral", svc.ModelName())
	assert.NoError(t, svc.Ping(context.Background()))
	assert.NoError(t, svc.Close())
}
