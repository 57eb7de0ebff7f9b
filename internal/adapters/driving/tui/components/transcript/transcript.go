// Package transcript renders a scrollable conversation for the TUI.
package transcript

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// Entry is one rendered turn of the conversation.
type Entry struct {
	Role    domain.Role
	Content string

	// Quote is the paragraph an assistant answer was drawn from, if any.
	Quote string

	// Sources are the filenames the answer was drawn from.
	Sources []string
}

// Transcript displays conversation turns, newest at the bottom.
type Transcript struct {
	entries []Entry
	styles  *styles.Styles
	width   int
	height  int

	// offset counts lines scrolled up from the bottom.
	offset int
}

// New creates an empty transcript.
func New(s *styles.Styles) *Transcript {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Transcript{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Append adds an entry and scrolls to the bottom.
func (t *Transcript) Append(e Entry) {
	t.entries = append(t.entries, e)
	t.offset = 0
}

// Entries returns the entries in order.
func (t *Transcript) Entries() []Entry {
	return t.entries
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	return len(t.entries)
}

// Clear removes every entry.
func (t *Transcript) Clear() {
	t.entries = nil
	t.offset = 0
}

// ScrollUp moves the view n lines towards older turns.
func (t *Transcript) ScrollUp(n int) {
	t.offset = min(t.offset+n, t.maxOffset())
}

// ScrollDown moves the view n lines towards newer turns.
func (t *Transcript) ScrollDown(n int) {
	t.offset = max(t.offset-n, 0)
}

// Offset returns how many lines the view is scrolled up.
func (t *Transcript) Offset() int {
	return t.offset
}

// SetDimensions sets the component dimensions.
func (t *Transcript) SetDimensions(width, height int) {
	t.width = width
	t.height = max(height, 1)
	t.offset = min(t.offset, t.maxOffset())
}

// View renders the visible window of the conversation.
func (t *Transcript) View() string {
	if len(t.entries) == 0 {
		return t.styles.Muted.Render("No questions yet. Type one below and press enter.")
	}

	lines := t.lines()
	end := len(lines) - t.offset
	start := max(end-t.height, 0)
	return strings.Join(lines[start:end], "\n")
}

func (t *Transcript) maxOffset() int {
	return max(len(t.lines())-t.height, 0)
}

// lines renders every entry and splits the result into display lines.
func (t *Transcript) lines() []string {
	bodyWidth := max(t.width-4, 20)
	body := lipgloss.NewStyle().Width(bodyWidth)

	var out []string
	for i, e := range t.entries {
		if i > 0 {
			out = append(out, "")
		}

		label := t.styles.AssistantLabel.Render("Assistant")
		if e.Role == domain.RoleUser {
			label = t.styles.UserLabel.Render("You")
		}
		out = append(out, label)
		out = append(out, strings.Split(body.Render(t.styles.Normal.Render(e.Content)), "\n")...)

		if e.Quote != "" && e.Quote != e.Content {
			quote := t.styles.Quote.Width(bodyWidth - 2).Render(e.Quote)
			out = append(out, strings.Split(quote, "\n")...)
		}
		if len(e.Sources) > 0 {
			out = append(out, t.styles.Muted.Render("  from "+strings.Join(e.Sources, ", ")))
		}
	}
	return out
}
