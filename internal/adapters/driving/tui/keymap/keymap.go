// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the previous view.
	Back key.Binding

	// Send submits the question in the input.
	Send key.Binding

	// Up navigates up in a list or scrolls the conversation.
	Up key.Binding

	// Down navigates down in a list or scrolls the conversation.
	Down key.Binding

	// Select confirms a selection.
	Select key.Binding

	// Clear empties the conversation history.
	Clear key.Binding

	// Delete removes the selected document.
	Delete key.Binding

	// Reload refreshes a list.
	Reload key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "ask"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "pgup"),
			key.WithHelp("↑/pgup", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "pgdown"),
			key.WithHelp("↓/pgdn", "scroll down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear chat"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.Back, k.Quit}
}

// ChatHelp returns keybindings shown once a conversation has started.
func (k *KeyMap) ChatHelp() []key.Binding {
	return []key.Binding{k.Send, k.Up, k.Clear, k.Back}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Send, k.Up, k.Down, k.Clear},
		{k.Select, k.Delete, k.Reload},
		{k.Back, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
