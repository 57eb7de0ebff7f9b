// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/styles"
)

// State represents the current chat state for display.
type State string

const (
	StateReady    State = "ready"
	StateThinking State = "thinking"
	StateAnswered State = "answered"
	StateError    State = "error"
)

// Bar displays chat status and keybinding hints.
type Bar struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	state     State
	message   string
	turns     int
	generated bool
	width     int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := max(s.width-lipgloss.Width(left)-lipgloss.Width(right), 1)

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	switch s.state {
	case StateThinking:
		return s.styles.Muted.Render("Thinking...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render("Error: " + s.message)
		}
		return s.styles.Error.Render("Error")
	case StateAnswered:
		source := "extracted"
		if s.generated {
			source = "generated"
		}
		return s.styles.Normal.Render(fmt.Sprintf("%d turns (%s)", s.turns, source))
	case StateReady:
	}
	if s.message != "" {
		return s.styles.Muted.Render(s.message)
	}
	return s.styles.Muted.Render("Ready")
}

func (s *Bar) renderRight() string {
	bindings := s.keymap.ShortHelp()
	if s.turns > 0 {
		bindings = s.keymap.ChatHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		hints = append(hints, hint(b))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

func hint(b key.Binding) string {
	h := b.Help()
	return h.Key + ": " + h.Desc
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetTurns records how many turns the conversation holds and whether the
// last answer came from a language model.
func (s *Bar) SetTurns(turns int, generated bool) {
	s.turns = turns
	s.generated = generated
}

// Turns returns the recorded turn count.
func (s *Bar) Turns() int {
	return s.turns
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.turns = 0
	s.generated = false
}
