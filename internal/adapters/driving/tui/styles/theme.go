// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette for the TUI.
type Theme struct {
	// Primary is the main accent colour, used for titles and the user's turns.
	Primary lipgloss.Color

	// Secondary is used for the assistant's turns.
	Secondary lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Success indicates positive outcomes.
	Success lipgloss.Color

	// Warning indicates caution, such as a fallback answer.
	Warning lipgloss.Color

	// Error indicates problems.
	Error lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color

	// Bar is the status bar background.
	Bar lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#E4572E"), // Vermilion
		Secondary:  lipgloss.Color("#17BEBB"), // Teal
		Foreground: lipgloss.Color("#E8E6E3"), // Paper
		Muted:      lipgloss.Color("#7A7F87"), // Slate
		Success:    lipgloss.Color("#76B041"), // Green
		Warning:    lipgloss.Color("#FFC914"), // Amber
		Error:      lipgloss.Color("#D7263D"), // Red
		Border:     lipgloss.Color("#3E4451"), // Charcoal
		Bar:        lipgloss.Color("#1F2228"),
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style

	// UserLabel prefixes the user's turns in the conversation.
	UserLabel lipgloss.Style

	// AssistantLabel prefixes the assistant's turns in the conversation.
	AssistantLabel lipgloss.Style

	// Quote renders the paragraph an answer was taken from.
	Quote lipgloss.Style

	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Help       lipgloss.Style
	Border     lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Primary),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		UserLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		AssistantLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Quote: lipgloss.NewStyle().
			Foreground(theme.Muted).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(theme.Border).
			PaddingLeft(1),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Bar).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
