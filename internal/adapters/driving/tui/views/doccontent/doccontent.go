// Package doccontent provides the extracted text view for the TUI.
package doccontent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

// ErrNoDocumentService indicates that no document service was provided.
var ErrNoDocumentService = errors.New("document service not available")

// View shows the extracted text of one document.
type View struct {
	styles          *styles.Styles
	documentService driving.DocumentService
	ctx             context.Context

	document     *domain.Document
	content      string
	lines        []string
	scrollOffset int
	width        int
	height       int
	err          error
	loading      bool
}

// NewView creates a new document content view.
func NewView(s *styles.Styles, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:          s,
		documentService: documentService,
		ctx:             context.Background(),
		width:           80,
		height:          24,
	}
}

// WithContext sets the context used for document calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetDocument sets the document and loads its content.
func (v *View) SetDocument(doc *domain.Document) tea.Cmd {
	v.document = doc
	v.content = ""
	v.lines = nil
	v.scrollOffset = 0
	v.err = nil
	v.loading = true
	return v.loadContent()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

func (v *View) loadContent() tea.Cmd {
	doc := v.document
	return func() tea.Msg {
		if doc == nil || v.documentService == nil {
			return messages.DocumentContentLoaded{Err: ErrNoDocumentService}
		}
		content, err := v.documentService.GetContent(v.ctx, doc.ID)
		return messages.DocumentContentLoaded{DocumentID: doc.ID, Content: content, Err: err}
	}
}

// Update handles messages for the document content view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DocumentContentLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.content = msg.Content
			v.wrapContent()
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		v.scrollOffset = max(v.scrollOffset-1, 0)
	case "down", "j":
		v.scrollOffset = min(v.scrollOffset+1, v.maxScrollOffset())
	case "pgup", "ctrl+u":
		v.scrollOffset = max(v.scrollOffset-v.visibleLines(), 0)
	case "pgdown", "ctrl+d":
		v.scrollOffset = min(v.scrollOffset+v.visibleLines(), v.maxScrollOffset())
	case "home", "g":
		v.scrollOffset = 0
	case "end", "G":
		v.scrollOffset = v.maxScrollOffset()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewDocuments}
		}
	}

	return v, nil
}

// wrapContent splits the content into lines no wider than the view.
func (v *View) wrapContent() {
	if v.content == "" {
		v.lines = nil
		return
	}

	width := max(v.width-4, 20)
	raw := strings.Split(v.content, "\n")
	v.lines = make([]string, 0, len(raw))
	for _, line := range raw {
		r := []rune(line)
		for len(r) > width {
			v.lines = append(v.lines, string(r[:width]))
			r = r[width:]
		}
		v.lines = append(v.lines, string(r))
	}
	v.scrollOffset = min(v.scrollOffset, v.maxScrollOffset())
}

func (v *View) visibleLines() int {
	return max(v.height-6, 1)
}

func (v *View) maxScrollOffset() int {
	return max(len(v.lines)-v.visibleLines(), 0)
}

// View renders the document content view.
func (v *View) View() string {
	var b strings.Builder

	title := "Document Content"
	if v.document != nil {
		title = v.document.Filename()
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", max(min(v.width-4, 60), 0)))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading content..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.lines) == 0:
		b.WriteString(v.styles.Muted.Render("(No content)"))
	default:
		visible := v.visibleLines()
		end := min(v.scrollOffset+visible, len(v.lines))
		for i := v.scrollOffset; i < end; i++ {
			b.WriteString(v.styles.Normal.Render(v.lines[i]))
			b.WriteString("\n")
		}
		if len(v.lines) > visible {
			percentage := v.scrollOffset * 100 / max(v.maxScrollOffset(), 1)
			b.WriteString("\n")
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d%%] Line %d-%d of %d",
				percentage, v.scrollOffset+1, end, len(v.lines))))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓/PgUp/PgDn] scroll  [g/G] top/bottom  [esc] back"))
	return b.String()
}

// SetDimensions sets the view dimensions and rewraps the content.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.wrapContent()
}

// Document returns the current document.
func (v *View) Document() *domain.Document {
	return v.document
}

// Content returns the document content.
func (v *View) Content() string {
	return v.content
}

// ScrollOffset returns the first visible line.
func (v *View) ScrollOffset() int {
	return v.scrollOffset
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
