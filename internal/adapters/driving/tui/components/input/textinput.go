// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/styles"
)

// QuestionLimit caps the length of a typed question.
const QuestionLimit = 1000

// Prompt wraps a bubbles textinput for typing questions.
type Prompt struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewPrompt creates a new question prompt.
func NewPrompt(s *styles.Styles) *Prompt {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Ask a question about your PDFs..."
	ti.Focus()
	ti.CharLimit = QuestionLimit
	ti.Width = 60

	return &Prompt{
		textinput: ti,
		styles:    s,
		width:     60,
	}
}

// Init starts the cursor blinking.
func (p *Prompt) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (p *Prompt) Update(msg tea.Msg) (*Prompt, tea.Cmd) {
	var cmd tea.Cmd
	p.textinput, cmd = p.textinput.Update(msg)
	return p, cmd
}

// View renders the prompt.
func (p *Prompt) View() string {
	label := p.styles.Title.Render("Ask: ")
	field := p.styles.InputField.Render(p.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Value returns the current input value.
func (p *Prompt) Value() string {
	return p.textinput.Value()
}

// SetValue sets the input value.
func (p *Prompt) SetValue(value string) {
	p.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (p *Prompt) Focus() tea.Cmd {
	return p.textinput.Focus()
}

// Blur removes focus from the input.
func (p *Prompt) Blur() {
	p.textinput.Blur()
}

// Focused returns whether the input is focused.
func (p *Prompt) Focused() bool {
	return p.textinput.Focused()
}

// SetWidth sets the width of the prompt, label included.
func (p *Prompt) SetWidth(width int) {
	p.width = width
	p.textinput.Width = max(width-10, 20)
}

// Width returns the current width.
func (p *Prompt) Width() int {
	return p.width
}

// Reset clears the input.
func (p *Prompt) Reset() {
	p.textinput.Reset()
}
