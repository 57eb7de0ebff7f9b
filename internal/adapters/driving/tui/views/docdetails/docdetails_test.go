package docdetails

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

func sampleDocument() domain.Document {
	return domain.Document{
		ID:      "doc-1",
		Title:   "Quarterly report",
		Content: "héllo",
		Metadata: map[string]any{
			domain.MetaDocID:    "doc-1",
			domain.MetaFilename: "report.pdf",
			domain.MetaPages:    int64(3),
			"notes":             strings.Repeat("x", 80),
		},
		CreatedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestView_NoDocument(t *testing.T) {
	v := NewView(nil)

	assert.Nil(t, v.Lines())
	assert.Contains(t, v.View(), "No document selected")
}

func TestView_Lines(t *testing.T) {
	v := NewView(nil)
	v.SetDocument(sampleDocument())

	lines := v.Lines()
	require.NotEmpty(t, lines)
	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, "doc-1")
	assert.Contains(t, joined, "report.pdf")
	assert.Contains(t, joined, "Characters:  5")
	assert.Contains(t, joined, "2026-03-01 09:30:00")
	assert.Contains(t, joined, "  pages: 3")
	assert.Contains(t, joined, strings.Repeat("x", 47)+"...")
}

func TestView_MetadataSorted(t *testing.T) {
	v := NewView(nil)
	v.SetDocument(sampleDocument())

	lines := v.Lines()
	var keys []string
	for _, l := range lines {
		if strings.HasPrefix(l, "  ") {
			k, _, _ := strings.Cut(strings.TrimSpace(l), ":")
			keys = append(keys, k)
		}
	}

	assert.Equal(t, []string{"doc_id", "filename", "notes", "pages"}, keys)
}

func TestView_Scroll(t *testing.T) {
	v := NewView(nil)
	v.SetDimensions(80, 8)
	v.SetDocument(sampleDocument())

	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, v.scrollOffset)

	for range 20 {
		v.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, v.maxScrollOffset(), v.scrollOffset)
}

func TestView_EscReturnsToDocuments(t *testing.T) {
	v := NewView(nil)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	assert.Equal(t, messages.ViewChanged{View: messages.ViewDocuments}, cmd())
}
