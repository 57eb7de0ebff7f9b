package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view ViewType
		want string
	}{
		{ViewMenu, "menu"},
		{ViewChat, "chat"},
		{ViewDocuments, "documents"},
		{ViewDocContent, "doc_content"},
		{ViewDocDetails, "doc_details"},
		{ViewHelp, "help"},
		{ViewType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.view.String())
		})
	}
}

func TestAnswerReceived_CarriesReply(t *testing.T) {
	reply := &domain.Reply{SessionID: "tui", Answer: domain.Answer{Text: "forty two"}}
	msg := AnswerReceived{Question: "what?", Reply: reply}

	assert.Equal(t, "forty two", msg.Reply.Answer.Text)
	assert.NoError(t, msg.Err)
}

func TestDocumentDeleted_CarriesError(t *testing.T) {
	msg := DocumentDeleted{DocumentID: "doc-1", Err: errors.New("gone")}

	assert.EqualError(t, msg.Err, "gone")
}
