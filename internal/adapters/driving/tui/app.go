package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/views/doccontent"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/views/docdetails"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles

	menuView       *menu.View
	chatView       *chat.View
	documentsView  *documents.View
	docContentView *doccontent.View
	docDetailsView *docdetails.View

	// startView is shown first; the menu unless StartInChat was called.
	startView   messages.ViewType
	currentView messages.ViewType

	// documentCount is the number of uploaded documents last seen.
	documentCount int

	err    error
	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
// Turns are recorded under sessionID; empty means chat.DefaultSession.
func NewApp(ports *Ports, sessionID string) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:          ports,
		ctx:            context.Background(),
		styles:         s,
		menuView:       menu.NewView(s),
		chatView:       chat.NewView(s, km, ports.Chat, sessionID),
		documentsView:  documents.NewView(s, ports.Document),
		docContentView: doccontent.NewView(s, ports.Document),
		docDetailsView: docdetails.NewView(s),
		startView:      messages.ViewMenu,
		currentView:    messages.ViewMenu,
	}, nil
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	a.documentsView.WithContext(ctx)
	a.docContentView.WithContext(ctx)
	return a
}

// StartInChat opens the chat view directly instead of the menu.
func (a *App) StartInChat() *App {
	a.startView = messages.ViewChat
	a.currentView = messages.ViewChat
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle("pdfchat"),
		a.countDocuments(),
	}
	if a.startView == messages.ViewChat {
		cmds = append(cmds, a.chatView.Init())
	}
	return tea.Batch(cmds...)
}

// countDocuments loads the document list so the menu can show a count.
func (a *App) countDocuments() tea.Cmd {
	return func() tea.Msg {
		docs, err := a.ports.Document.List(a.ctx)
		return messages.DocumentsLoaded{Documents: docs, Err: err}
	}
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		return a, a.forwardKey(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewChat:
			a.chatView.Reset()
			return a, a.chatView.Init()
		case messages.ViewDocuments:
			return a, a.documentsView.Init()
		case messages.ViewMenu:
			return a, a.countDocuments()
		case messages.ViewDocContent, messages.ViewDocDetails, messages.ViewHelp:
		}
		return a, nil

	case messages.AnswerReceived, messages.HistoryCleared:
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.DocumentsLoaded:
		if msg.Err == nil {
			a.documentCount = len(msg.Documents)
			a.menuView.SetDocumentCount(a.documentCount)
		}
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.DocumentDeleted:
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.DocumentSelected:
		a.currentView = messages.ViewDocContent
		return a, a.docContentView.SetDocument(&msg.Document)

	case messages.DocumentContentLoaded:
		a.docContentView, cmd = a.docContentView.Update(msg)
		return a, cmd

	case messages.DocumentDetailsRequested:
		a.docDetailsView.SetDocument(msg.Document)
		a.currentView = messages.ViewDocDetails
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		switch a.currentView {
		case messages.ViewChat:
			a.chatView, cmd = a.chatView.Update(msg)
		case messages.ViewDocuments:
			a.documentsView, cmd = a.documentsView.Update(msg)
		case messages.ViewDocContent:
			a.docContentView, cmd = a.docContentView.Update(msg)
		case messages.ViewMenu, messages.ViewDocDetails, messages.ViewHelp:
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	if a.currentView == messages.ViewChat {
		a.chatView, cmd = a.chatView.Update(msg)
	}
	return a, cmd
}

// forwardKey hands a key press to the active view.
func (a *App) forwardKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewMenu:
		if msg.String() == "?" {
			a.currentView = messages.ViewHelp
			return nil
		}
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewDocContent:
		a.docContentView, cmd = a.docContentView.Update(msg)
	case messages.ViewDocDetails:
		a.docDetailsView, cmd = a.docDetailsView.Update(msg)
	case messages.ViewHelp:
		if msg.Type == tea.KeyEsc {
			a.currentView = messages.ViewMenu
		}
	}
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewChat:
		return a.chatView.View()
	case messages.ViewDocuments:
		return a.documentsView.View()
	case messages.ViewDocContent:
		return a.docContentView.View()
	case messages.ViewDocDetails:
		return a.docDetailsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	case messages.ViewMenu:
	}
	return a.menuView.View()
}

func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Navigation:
  esc         Back
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  ?           This help
  q           Quit

Chat:
  (type)      Enter a question
  enter       Ask
  ↑/↓         Scroll one line
  pgup/pgdn   Scroll half a page
  ctrl+l      Clear the conversation

Documents:
  j/k, ↑/↓    Navigate
  enter       Actions (content, details, delete)
  d           Delete
  r           Reload

` + a.styles.Help.Render("[esc] back to menu")
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// DocumentCount returns the number of uploaded documents last loaded.
func (a *App) DocumentCount() int {
	return a.documentCount
}

// Conversation returns the turns shown in the chat view.
func (a *App) Conversation() []domain.ConversationTurn {
	entries := a.chatView.Entries()
	turns := make([]domain.ConversationTurn, len(entries))
	for i, e := range entries {
		turns[i] = domain.ConversationTurn{Role: e.Role, Content: e.Content}
	}
	return turns
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.chatView.SetDimensions(width, height)
	a.documentsView.SetDimensions(width, height)
	a.docContentView.SetDimensions(width, height)
	a.docDetailsView.SetDimensions(width, height)
}
