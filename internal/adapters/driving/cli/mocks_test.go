package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfchat/internal/adapters/driven/config/file"
	"github.com/custodia-labs/pdfchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/core/services"
	"github.com/custodia-labs/pdfchat/internal/postprocessors"
)

// stubExtractor treats everything after the PDF header as page text.
type stubExtractor struct{}

func (stubExtractor) Supports(filename string, data []byte) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".pdf") && bytes.HasPrefix(data, []byte("%PDF-"))
}

func (stubExtractor) Extract(_ context.Context, _ string, data []byte) (*driven.Extraction, error) {
	return &driven.Extraction{Text: string(data[len("%PDF-"):]), Pages: 1}, nil
}

var errInitCalled = errors.New("initServices called during test")

// setupTestServices wires real services over in-memory stores and a
// config directory under t.TempDir. The returned func restores globals.
func setupTestServices(t testing.TB) func() {
	t.Helper()
	originalExtractor := textExtractor

	configStore, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)

	docStore := memory.NewDocumentStore()
	pipeline, err := postprocessors.NewDefaultPipeline(domain.ChunkingSettings{Size: 40, Overlap: 10})
	require.NoError(t, err)

	search := services.NewSearchService(docStore, domain.DefaultSearchLimit)
	selector := services.NewAnswerSelector(domain.AnswerSettings{})
	documents := services.NewDocumentService(docStore, stubExtractor{}, pipeline)

	documentService = documents
	searchService = search
	chatService = services.NewChatService(docStore, search, selector, memory.NewConversationStore(), nil)
	settingsService = services.NewSettingsService(configStore)
	modelClient = nil
	textExtractor = stubExtractor{}
	appSettings = domain.DefaultAppSettings()

	originalInit := initServices
	originalTerminal := stdinIsTerminal
	initServices = func(context.Context) error { return errInitCalled }
	stdinIsTerminal = func() bool { return false }

	return func() {
		documentService = nil
		searchService = nil
		chatService = nil
		settingsService = nil
		modelClient = nil
		appSettings = domain.DefaultAppSettings()
		textExtractor = originalExtractor
		initServices = originalInit
		stdinIsTerminal = originalTerminal
		resetFlags()
	}
}

// resetFlags restores flag variables, which persist between executions.
func resetFlags() {
	verbose = false
	searchLimit = 0
	searchJSON = false
	askSession = defaultCLISession
	askFiles = nil
	askJSON = false
	chatSession = ""
	chatLineMode = false
	chunkSize = domain.DefaultChunkSize
	chunkOverlap = domain.DefaultChunkOverlap
	chunkJSON = false
	extractStats = false
	documentChunksJSON = false
	serveAddr = ""
	serveWatch = ""
}

// execute runs the root command with args and returns what it printed.
func execute(t testing.TB, stdin string, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// writePDF writes a fake PDF whose text is body.
func writePDF(t testing.TB, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-"+body), 0o644))
	return path
}

// addDocument uploads body directly through the document service.
func addDocument(t testing.TB, name, body string) *domain.Document {
	t.Helper()
	doc, err := documentService.Upload(context.Background(), name, []byte("%PDF-"+body))
	require.NoError(t, err)
	return doc
}

// stubModel is an LLM service with canned results.
type stubModel struct {
	pingErr error
	models  []driven.ModelInfo
}

var _ driven.LLMService = (*stubModel)(nil)

func (m *stubModel) Generate(context.Context, string, driven.GenerateOptions) (string, error) {
	return "generated", nil
}

func (m *stubModel) Chat(context.Context, []driven.ChatMessage, driven.ChatOptions) (string, error) {
	return "chatted", nil
}

func (m *stubModel) AnswerWithContext(context.Context, string, []string) (string, error) {
	return "answered", nil
}

func (m *stubModel) ListModels(context.Context) ([]driven.ModelInfo, error) {
	if m.pingErr != nil {
		return nil, m.pingErr
	}
	return m.models, nil
}

func (m *stubModel) ModelName() string { return "stub-model" }

func (m *stubModel) Ping(context.Context) error { return m.pingErr }

func (m *stubModel) Close() error { return nil }
