// Package menu provides the main navigation menu view for the TUI.
package menu

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/styles"
)

// Item represents a single menu option.
type Item struct {
	Label string
	View  messages.ViewType
	Quit  bool
}

var (
	upKey     = key.NewBinding(key.WithKeys("up", "k"))
	downKey   = key.NewBinding(key.WithKeys("down", "j"))
	selectKey = key.NewBinding(key.WithKeys("enter"))
	quitKey   = key.NewBinding(key.WithKeys("q"))
)

// View represents the main menu view.
type View struct {
	styles   *styles.Styles
	items    []Item
	selected int
	subtitle string
	width    int
	height   int
	ready    bool
}

// NewView creates a new menu view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles: s,
		items: []Item{
			{Label: "Chat", View: messages.ViewChat},
			{Label: "Documents", View: messages.ViewDocuments},
			{Label: "Help", View: messages.ViewHelp},
			{Label: "Quit", Quit: true},
		},
		subtitle: "Chat with your PDFs",
		width:    80,
		height:   24,
	}
}

// SetDocumentCount shows how many documents are loaded under the title.
func (v *View) SetDocumentCount(n int) {
	switch n {
	case 0:
		v.subtitle = "No PDFs loaded. Pass files to 'pdfchat chat' or upload them over HTTP."
	case 1:
		v.subtitle = "Chat with 1 PDF"
	default:
		v.subtitle = fmt.Sprintf("Chat with %d PDFs", n)
	}
}

// Init initialises the menu view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, upKey):
			if v.selected > 0 {
				v.selected--
			}
		case key.Matches(msg, downKey):
			if v.selected < len(v.items)-1 {
				v.selected++
			}
		case key.Matches(msg, selectKey):
			return v, v.choose()
		case key.Matches(msg, quitKey):
			return v, tea.Quit
		default:
			// Digits jump straight to an item.
			if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(v.items) {
				v.selected = n - 1
				return v, v.choose()
			}
		}
	}

	return v, nil
}

func (v *View) choose() tea.Cmd {
	item := v.items[v.selected]
	if item.Quit {
		return tea.Quit
	}
	return func() tea.Msg {
		return messages.ViewChanged{View: item.View}
	}
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("pdfchat"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render(v.subtitle))
	b.WriteString("\n\n")

	for i, item := range v.items {
		if i == v.selected {
			b.WriteString(fmt.Sprintf("> %d ", i+1) + v.styles.Subtitle.Render(item.Label))
		} else {
			b.WriteString(fmt.Sprintf("  %d ", i+1) + v.styles.Normal.Render(item.Label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter/1-4] Select  [q] Quit"))

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}
