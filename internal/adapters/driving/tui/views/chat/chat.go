// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/components/transcript"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

// ErrNoChatService indicates that no chat service was provided.
var ErrNoChatService = errors.New("chat service is required")

// DefaultSession names the conversation kept by the TUI.
const DefaultSession = "tui"

// View shows the conversation above a question prompt and a status bar.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	prompt     *input.Prompt
	transcript *transcript.Transcript
	statusbar  *status.Bar

	chatService driving.ChatService
	sessionID   string
	ctx         context.Context

	width    int
	height   int
	ready    bool
	thinking bool
	err      error
}

// NewView creates a new chat view for the given session.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	chatService driving.ChatService,
	sessionID string,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	if sessionID == "" {
		sessionID = DefaultSession
	}

	return &View{
		styles:      s,
		keymap:      km,
		prompt:      input.NewPrompt(s),
		transcript:  transcript.New(s),
		statusbar:   status.NewBar(s, km),
		chatService: chatService,
		sessionID:   sessionID,
		ctx:         context.Background(),
		width:       80,
		height:      24,
	}
}

// WithContext sets the context used for chat calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the prompt cursor.
func (v *View) Init() tea.Cmd {
	return v.prompt.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil

	case messages.HistoryCleared:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.transcript.Clear()
		v.statusbar.Clear()
		v.statusbar.SetMessage("History cleared")
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case keymap.Matches(msg.String(), v.keymap.Clear):
		return v, v.clearHistory()

	case msg.Type == tea.KeyPgUp || msg.Type == tea.KeyUp:
		v.transcript.ScrollUp(v.scrollStep(msg.Type == tea.KeyPgUp))
		return v, nil

	case msg.Type == tea.KeyPgDown || msg.Type == tea.KeyDown:
		v.transcript.ScrollDown(v.scrollStep(msg.Type == tea.KeyPgDown))
		return v, nil

	case msg.Type == tea.KeyEnter:
		question := strings.TrimSpace(v.prompt.Value())
		if question == "" || v.thinking {
			return v, nil
		}
		v.thinking = true
		v.err = nil
		v.prompt.Reset()
		v.transcript.Append(transcript.Entry{Role: domain.RoleUser, Content: question})
		v.statusbar.SetState(status.StateThinking)
		return v, v.ask(question)
	}

	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

func (v *View) scrollStep(page bool) int {
	if page {
		return max(v.height/2, 1)
	}
	return 1
}

// ask returns a command that puts the question to the chat service.
func (v *View) ask(question string) tea.Cmd {
	return func() tea.Msg {
		if v.chatService == nil {
			return messages.AnswerReceived{Question: question, Err: ErrNoChatService}
		}
		reply, err := v.chatService.Ask(v.ctx, v.sessionID, question)
		return messages.AnswerReceived{Question: question, Reply: reply, Err: err}
	}
}

// clearHistory returns a command that empties the session history.
func (v *View) clearHistory() tea.Cmd {
	return func() tea.Msg {
		if v.chatService == nil {
			return messages.HistoryCleared{Err: ErrNoChatService}
		}
		return messages.HistoryCleared{Err: v.chatService.Clear(v.ctx, v.sessionID)}
	}
}

func (v *View) handleAnswer(msg messages.AnswerReceived) {
	v.thinking = false
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	entry := transcript.Entry{
		Role:    domain.RoleAssistant,
		Content: msg.Reply.Answer.Text,
	}
	if msg.Reply.Answer.Paragraph != nil && msg.Reply.Answer.Generated {
		entry.Quote = msg.Reply.Answer.Paragraph.Text
	}
	for _, src := range msg.Reply.Sources {
		entry.Sources = append(entry.Sources, src.Document.Filename())
	}
	v.transcript.Append(entry)

	v.err = nil
	v.statusbar.SetState(status.StateAnswered)
	v.statusbar.SetMessage("")
	v.statusbar.SetTurns(v.transcript.Len(), msg.Reply.Answer.Generated)
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{
		v.styles.Title.Render("pdfchat"),
		"",
		v.transcript.View(),
		"",
		v.prompt.View(),
		v.statusbar.View(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.prompt.SetWidth(width)
	v.transcript.SetDimensions(width, height-8)
	v.statusbar.SetWidth(width)
}

// Reset focuses an empty prompt and clears any error. The transcript is kept.
func (v *View) Reset() {
	v.prompt.Reset()
	v.prompt.Focus()
	v.err = nil
	if v.statusbar.State() == status.StateError {
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetMessage("")
	}
}

// SessionID returns the session the view records turns in.
func (v *View) SessionID() string {
	return v.sessionID
}

// Question returns the text currently typed in the prompt.
func (v *View) Question() string {
	return v.prompt.Value()
}

// SetQuestion sets the prompt text.
func (v *View) SetQuestion(q string) {
	v.prompt.SetValue(q)
}

// Entries returns the rendered conversation.
func (v *View) Entries() []transcript.Entry {
	return v.transcript.Entries()
}

// Thinking reports whether a question is awaiting its answer.
func (v *View) Thinking() bool {
	return v.thinking
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}
