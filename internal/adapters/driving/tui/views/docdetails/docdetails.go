// Package docdetails provides the document metadata view for the TUI.
package docdetails

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// View shows the stored fields and metadata of a document.
type View struct {
	styles *styles.Styles

	document     *domain.Document
	scrollOffset int
	width        int
	height       int
}

// NewView creates a new document details view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{styles: s, width: 80, height: 24}
}

// SetDocument sets the document to display.
func (v *View) SetDocument(doc domain.Document) {
	v.document = &doc
	v.scrollOffset = 0
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the document details view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			v.scrollOffset = max(v.scrollOffset-1, 0)
		case "down", "j":
			v.scrollOffset = min(v.scrollOffset+1, v.maxScrollOffset())
		case "esc":
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewDocuments}
			}
		}
	}
	return v, nil
}

// Lines returns the field lines shown for the document.
func (v *View) Lines() []string {
	if v.document == nil {
		return nil
	}
	doc := v.document

	lines := []string{
		field("ID", doc.ID),
		field("Title", doc.Title),
		field("Filename", doc.Filename()),
		field("Characters", fmt.Sprintf("%d", utf8.RuneCountInString(doc.Content))),
	}
	if !doc.CreatedAt.IsZero() {
		lines = append(lines, field("Uploaded", doc.CreatedAt.Format("2006-01-02 15:04:05")))
	}

	if len(doc.Metadata) > 0 {
		lines = append(lines, "", "Metadata:")
		keys := make([]string, 0, len(doc.Metadata))
		for k := range doc.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			value := fmt.Sprint(doc.Metadata[k])
			if utf8.RuneCountInString(value) > 50 {
				value = string([]rune(value)[:47]) + "..."
			}
			lines = append(lines, fmt.Sprintf("  %s: %s", k, value))
		}
	}
	return lines
}

func field(label, value string) string {
	return fmt.Sprintf("%-12s %s", label+":", value)
}

func (v *View) visibleLines() int {
	return max(v.height-6, 1)
}

func (v *View) maxScrollOffset() int {
	return max(len(v.Lines())-v.visibleLines(), 0)
}

// View renders the document details view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Document Details"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", max(min(v.width-4, 60), 0)))
	b.WriteString("\n\n")

	lines := v.Lines()
	if len(lines) == 0 {
		b.WriteString(v.styles.Muted.Render("No document selected"))
	}

	end := min(v.scrollOffset+v.visibleLines(), len(lines))
	for i := v.scrollOffset; i < end; i++ {
		line := lines[i]
		switch {
		case line == "Metadata:":
			b.WriteString(v.styles.Subtitle.Render(line))
		case strings.HasPrefix(line, "  "):
			b.WriteString(v.styles.Muted.Render(line))
		default:
			label, value, _ := strings.Cut(line, ":")
			if value == "" {
				b.WriteString(v.styles.Normal.Render(line))
				break
			}
			b.WriteString(v.styles.Subtitle.Render(label + ":"))
			b.WriteString(v.styles.Normal.Render(value))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] scroll  [esc] back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Document returns the displayed document.
func (v *View) Document() *domain.Document {
	return v.document
}
