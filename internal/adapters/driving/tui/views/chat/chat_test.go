package chat

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

type mockChatService struct {
	reply    *domain.Reply
	err      error
	clearErr error
	asked    []string
	sessions []string
	cleared  int
}

func (m *mockChatService) Ask(_ context.Context, sessionID, question string) (*domain.Reply, error) {
	m.asked = append(m.asked, question)
	m.sessions = append(m.sessions, sessionID)
	return m.reply, m.err
}

func (m *mockChatService) History(_ context.Context, _ string) ([]domain.ConversationTurn, error) {
	return nil, nil
}

func (m *mockChatService) Clear(_ context.Context, _ string) error {
	m.cleared++
	return m.clearErr
}

func newReadyView(svc *mockChatService) *View {
	v := NewView(nil, nil, svc, "")
	v.SetDimensions(100, 40)
	return v
}

func typeQuestion(v *View, q string) {
	for _, r := range q {
		v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestNewView_DefaultSession(t *testing.T) {
	v := NewView(nil, nil, nil, "")

	assert.Equal(t, DefaultSession, v.SessionID())
	assert.Equal(t, "Initialising...", v.View())
}

func TestView_AskFlow(t *testing.T) {
	svc := &mockChatService{reply: &domain.Reply{
		Answer: domain.Answer{
			Text:      "Revenue grew by ten percent.",
			Paragraph: &domain.ScoredParagraph{Text: "Revenue grew by ten percent.", Score: 2},
		},
		Sources: []domain.SearchResult{{Document: domain.Document{Title: "report.pdf"}}},
	}}
	v := newReadyView(svc)

	typeQuestion(v, "revenue?")
	assert.Equal(t, "revenue?", v.Question())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, v.Thinking())
	assert.Empty(t, v.Question())
	require.Len(t, v.Entries(), 1)
	assert.Equal(t, domain.RoleUser, v.Entries()[0].Role)

	msg := cmd()
	answer, ok := msg.(messages.AnswerReceived)
	require.True(t, ok)
	assert.Equal(t, []string{"revenue?"}, svc.asked)
	assert.Equal(t, []string{DefaultSession}, svc.sessions)

	v.Update(answer)
	assert.False(t, v.Thinking())
	require.Len(t, v.Entries(), 2)
	assert.Equal(t, "Revenue grew by ten percent.", v.Entries()[1].Content)
	assert.Empty(t, v.Entries()[1].Quote, "extracted answers are not quoted twice")
	assert.Equal(t, []string{"report.pdf"}, v.Entries()[1].Sources)
	assert.Contains(t, v.View(), "Revenue grew by ten percent.")
}

func TestView_GeneratedAnswerShowsQuote(t *testing.T) {
	v := newReadyView(&mockChatService{})

	v.Update(messages.AnswerReceived{Reply: &domain.Reply{Answer: domain.Answer{
		Text:      "The model says revenue rose.",
		Paragraph: &domain.ScoredParagraph{Text: "Revenue rose in Q3."},
		Generated: true,
	}}})

	require.Len(t, v.Entries(), 1)
	assert.Equal(t, "Revenue rose in Q3.", v.Entries()[0].Quote)
}

func TestView_EmptyQuestionIgnored(t *testing.T) {
	svc := &mockChatService{}
	v := newReadyView(svc)

	typeQuestion(v, "   ")
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Empty(t, v.Entries())
}

func TestView_AskWhileThinkingIgnored(t *testing.T) {
	v := newReadyView(&mockChatService{})
	typeQuestion(v, "one")
	v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	typeQuestion(v, "two")
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Len(t, v.Entries(), 1)
}

func TestView_AnswerError(t *testing.T) {
	v := newReadyView(&mockChatService{})

	v.Update(messages.AnswerReceived{Err: errors.New("store closed")})

	assert.EqualError(t, v.Err(), "store closed")
	assert.Contains(t, v.View(), "store closed")
}

func TestView_NoChatService(t *testing.T) {
	v := NewView(nil, nil, nil, "s")
	v.SetDimensions(80, 24)
	typeQuestion(v, "hi")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msg := cmd().(messages.AnswerReceived)

	assert.ErrorIs(t, msg.Err, ErrNoChatService)
}

func TestView_ClearHistory(t *testing.T) {
	svc := &mockChatService{}
	v := newReadyView(svc)
	v.Update(messages.AnswerReceived{Reply: &domain.Reply{Answer: domain.Answer{Text: "a"}}})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, 1, svc.cleared)

	v.Update(msg)
	assert.Empty(t, v.Entries())
	assert.Contains(t, v.View(), "History cleared")
}

func TestView_ClearHistoryError(t *testing.T) {
	v := newReadyView(&mockChatService{clearErr: errors.New("nope")})
	v.Update(messages.AnswerReceived{Reply: &domain.Reply{Answer: domain.Answer{Text: "a"}}})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	v.Update(cmd())

	assert.Len(t, v.Entries(), 1)
	assert.EqualError(t, v.Err(), "nope")
}

func TestView_EscReturnsToMenu(t *testing.T) {
	v := newReadyView(&mockChatService{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_Reset(t *testing.T) {
	v := newReadyView(&mockChatService{})
	v.Update(messages.AnswerReceived{Reply: &domain.Reply{Answer: domain.Answer{Text: "kept"}}})
	v.Update(messages.ErrorOccurred{Err: errors.New("x")})
	v.SetQuestion("draft")

	v.Reset()

	assert.NoError(t, v.Err())
	assert.Empty(t, v.Question())
	assert.Len(t, v.Entries(), 1)
	assert.Equal(t, status.StateReady, v.statusbar.State())
}
