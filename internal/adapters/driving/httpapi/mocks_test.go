package httpapi

import (
	"bytes"
	"context"
	"errors"
	"strings"

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

// stubModel is a ModelClient with canned results.
type stubModel struct {
	pingErr error
	models  []driven.ModelInfo
}

func (m *stubModel) ModelName() string { return "stub-model" }

func (m *stubModel) Ping(context.Context) error { return m.pingErr }

func (m *stubModel) ListModels(context.Context) ([]driven.ModelInfo, error) {
	if m.pingErr != nil {
		return nil, m.pingErr
	}
	return m.models, nil
}

var errModelDown = errors.New("connection refused")

// testPorts wires real services over in-memory stores.
func testPorts() Ports {
	docStore := memory.NewDocumentStore()
	history := memory.NewConversationStore()
	pipeline, err := postprocessors.NewDefaultPipeline(domain.ChunkingSettings{Size: 20, Overlap: 5})
	if err != nil {
		panic(err)
	}

	search := services.NewSearchService(docStore, domain.DefaultSearchLimit)
	selector := services.NewAnswerSelector(domain.AnswerSettings{})
	documents := services.NewDocumentService(docStore, stubExtractor{}, pipeline)
	documents.SetMaxUploadBytes(1 << 10)

	return Ports{
		Document: documents,
		Search:   search,
		Chat:     services.NewChatService(docStore, search, selector, history, nil),
	}
}
