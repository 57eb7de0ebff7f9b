package httpapi

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/core/services"
)

const sampleText = "Intro to the guide.\n\nGo has goroutines for concurrency.\n\nChannels connect goroutines."

func newTestServer(t *testing.T, ports Ports, cfg Config) *Server {
	t.Helper()
	srv, err := NewServer(ports, cfg)
	require.NoError(t, err)
	return srv
}

func do(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func uploadRequest(t *testing.T, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/documents", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func upload(t *testing.T, h http.Handler, text string) documentResponse {
	t.Helper()
	rec := do(t, h, uploadRequest(t, "guide.pdf", []byte("%PDF-"+text)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var doc documentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	return doc
}

func chatRequestFor(question, session string) *http.Request {
	body, _ := json.Marshal(chatRequest{Question: question})
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.Header.Set(SessionHeader, session)
	}
	return req
}

func TestNewServer_RequiresServices(t *testing.T) {
	_, err := NewServer(Ports{}, Config{})

	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, testPorts(), Config{}).Handler()

	rec := do(t, h, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"service":"pdfchat"}`, rec.Body.String())
}

func TestUploadAndFetchDocument(t *testing.T) {
	h := newTestServer(t, testPorts(), Config{}).Handler()

	doc := upload(t, h, sampleText)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "guide.pdf", doc.Filename)
	assert.Equal(t, doc.ID, doc.Metadata[domain.MetaDocID])

	rec := do(t, h, httptest.NewRequest(http.MethodGet, "/documents/"+doc.ID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, httptest.NewRequest(http.MethodGet, "/documents/"+doc.ID+"/content", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sampleText, rec.Body.String())

	rec = do(t, h, httptest.NewRequest(http.MethodGet, "/documents", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list documentListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)
	assert.Equal(t, []string{"guide.pdf"}, list.Filenames)
}

func TestUpload_Errors(t *testing.T) {
	h := newTestServer(t, testPorts(), Config{}).Handler()

	tests := []struct {
		name   string
		req    *http.Request
		status int
	}{
		{name: "not a pdf", req: uploadRequest(t, "notes.txt", []byte("plain")), status: http.StatusUnsupportedMediaType},
		{name: "missing header", req: uploadRequest(t, "notes.pdf", []byte("plain")), status: http.StatusUnsupportedMediaType},
		{name: "empty text", req: uploadRequest(t, "blank.pdf", []byte("%PDF-   ")), status: http.StatusUnprocessableEntity},
		{name: "too large", req: uploadRequest(t, "big.pdf", append([]byte("%PDF-"), bytes.Repeat([]byte("a"), 2<<10)...)), status: http.StatusRequestEntityTooLarge},
		{name: "no file field", req: httptest.NewRequest(http.MethodPost, "/documents", strings.NewReader("")), status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.req)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())

			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestDocumentChunks(t *testing.T) {
	h := newTestServer(t, testPorts(), Config{}).Handler()
	doc := upload(t, h, sampleText)

	rec := do(t, h, httptest.NewRequest(http.MethodGet, "/documents/"+doc.ID+"/chunks", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Chunks []chunkResponse `json:"chunks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Chunks)
	for _, c := range body.Chunks {
		assert.LessOrEqual(t, c.End-c.Start, 20)
	}
	assert.Zero(t, body.Chunks[0].Start)
}

func TestDeleteDocument(t *testing.T) {
	h := newTestServer(t, testPorts(), Config{}).Handler()
	doc := upload(t, h, sampleText)

	rec := do(t, h, httptest.NewRequest(http.MethodDelete, "/documents/"+doc.ID, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, httptest.NewRequest(http.MethodDelete, "/documents/"+doc.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, httptest.NewRequest(http.MethodGet, "/documents/"+doc.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearch(t *testing.T) {
	h := newTestServer(t, testPorts(), Config{}).Handler()
	doc := upload(t, h, sampleText)

	rec := do(t, h, httptest.NewRequest(http.MethodGet, "/search?q=goroutines+channels&limit=3", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Results []searchResultResponse `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Results, 1)
	assert.Equal(t, doc.ID, body.Results[0].DocumentID)
	assert.Equal(t, 2, body.Results[0].Score)
	assert.False(t, body.Results[0].Fallback)
}

func TestSearch_Fallback(t *testing.T) {
	h := newTestServer(t, testPorts(), Config{}).Handler()
	upload(t, h, sampleText)

	rec := do(t, h, httptest.NewRequest(http.MethodGet, "/search?q=kubernetes", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Results []searchResultResponse `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Results, 1)
	assert.True(t, body.Results[0].Fallback)
}

func TestSearch_BadInput(t *testing.T) {
	h := newTestServer(t, testPorts(), Config{}).Handler()

	assert.Equal(t, http.StatusBadRequest, do(t, h, httptest.NewRequest(http.MethodGet, "/search", nil)).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, httptest.NewRequest(http.MethodGet, "/search?q=go&limit=x", nil)).Code)
}

func TestChat_NoDocuments(t *testing.T) {
	h := newTestServer(t, testPorts(), Config{}).Handler()

	rec := do(t, h, chatRequestFor("anything", ""))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, services.NoDocumentsMessage, resp.Answer)
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, resp.SessionID, rec.Header().Get(SessionHeader))
}

func TestChat_AnswersAndRecordsHistory(t *testing.T) {
	h := newTestServer(t, testPorts(), Config{}).Handler()
	upload(t, h, sampleText)

	rec := do(t, h, chatRequestFor("goroutines concurrency", "session-1"))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "session-1", resp.SessionID)
	assert.Equal(t, "Go has goroutines for concurrency.", resp.Answer)
	assert.True(t, resp.Matched)
	assert.False(t, resp.Generated)
	assert.Len(t, resp.Sources, 1)

	req := httptest.NewRequest(http.MethodGet, "/chat/history", nil)
	req.Header.Set(SessionHeader, "session-1")
	rec = do(t, h, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var history struct {
		Turns []turnResponse `json:"turns"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history.Turns, 2)
	assert.Equal(t, "user", history.Turns[0].Role)
	assert.Equal(t, "assistant", history.Turns[1].Role)

	req = httptest.NewRequest(http.MethodDelete, "/chat/history", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "session-1"})
	assert.Equal(t, http.StatusNoContent, do(t, h, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/chat/history", nil)
	req.Header.Set(SessionHeader, "session-1")
	rec = do(t, h, req)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Empty(t, history.Turns)
}

func TestChat_SessionsAreIsolated(t *testing.T) {
	h := newTestServer(t, testPorts(), Config{}).Handler()
	upload(t, h, sampleText)

	do(t, h, chatRequestFor("goroutines", "a"))

	req := httptest.NewRequest(http.MethodGet, "/chat/history", nil)
	req.Header.Set(SessionHeader, "b")
	rec := do(t, h, req)

	var history struct {
		Turns []turnResponse `json:"turns"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Empty(t, history.Turns)
}

func TestChat_BadRequests(t *testing.T) {
	h := newTestServer(t, testPorts(), Config{}).Handler()
	upload(t, h, sampleText)

	rec := do(t, h, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("{not json")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, chatRequestFor("   ", "s"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChat_RateLimited(t *testing.T) {
	h := newTestServer(t, testPorts(), Config{ChatRatePerSecond: 0.001, ChatBurst: 1}).Handler()

	assert.Equal(t, http.StatusOK, do(t, h, chatRequestFor("one", "s")).Code)

	rec := do(t, h, chatRequestFor("two", "s"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestLLMPing(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		h := newTestServer(t, testPorts(), Config{LLMMode: domain.LLMModeOff}).Handler()

		rec := do(t, h, httptest.NewRequest(http.MethodGet, "/llm/ping", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp pingResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "off", resp.Mode)
		assert.False(t, resp.Reachable)
		assert.NotEmpty(t, resp.Note)
	})

	t.Run("reachable", func(t *testing.T) {
		ports := testPorts()
		ports.Model = &stubModel{}
		h := newTestServer(t, ports, Config{LLMMode: domain.LLMModeOllama}).Handler()

		var resp pingResponse
		rec := do(t, h, httptest.NewRequest(http.MethodGet, "/llm/ping", nil))
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Reachable)
		assert.Equal(t, "stub-model", resp.Model)
	})

	t.Run("unreachable", func(t *testing.T) {
		ports := testPorts()
		ports.Model = &stubModel{pingErr: errModelDown}
		h := newTestServer(t, ports, Config{LLMMode: domain.LLMModeOllama}).Handler()

		var resp pingResponse
		rec := do(t, h, httptest.NewRequest(http.MethodGet, "/llm/ping", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Reachable)
		assert.Contains(t, resp.Note, "connection refused")
	})
}

func TestLLMModels(t *testing.T) {
	ports := testPorts()
	ports.Model = &stubModel{models: []driven.ModelInfo{{Name: "llama3.1:latest", Size: 10}}}
	h := newTestServer(t, ports, Config{}).Handler()

	rec := do(t, h, httptest.NewRequest(http.MethodGet, "/llm/models", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "llama3.1:latest")

	h = newTestServer(t, testPorts(), Config{}).Handler()
	rec = do(t, h, httptest.NewRequest(http.MethodGet, "/llm/models", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	ports.Model = &stubModel{pingErr: errModelDown}
	h = newTestServer(t, ports, Config{}).Handler()
	rec = do(t, h, httptest.NewRequest(http.MethodGet, "/llm/models", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
