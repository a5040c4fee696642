package web

import (
	"github.com/gennadis/petassistant/internal/chat"
	"github.com/gennadis/petassistant/internal/session"
)

type messageView struct {
	ID     string      `json:"id"`
	Text   string      `json:"text"`
	Plain  string      `json:"plain"`
	Origin chat.Origin `json:"origin"`
	Time   string      `json:"time"`
}

type conversationView struct {
	ConversationID string        `json:"conversation_id"`
	Messages       []messageView `json:"messages"`
	Pending        bool          `json:"pending"`
	Draft          string        `json:"draft"`
	Suggestions    []string      `json:"suggestions"`
	Thinking       string        `json:"thinking,omitempty"`
}

func newConversationView(snap session.Snapshot) conversationView {
	v := conversationView{
		ConversationID: snap.ConversationID,
		Messages:       make([]messageView, 0, len(snap.Messages)),
		Pending:        snap.Pending,
		Draft:          snap.Draft,
		Suggestions:    []string{},
	}
	for _, m := range snap.Messages {
		v.Messages = append(v.Messages, messageView{
			ID:     m.ID,
			Text:   m.Text,
			Plain:  chat.PlainText(m.Text),
			Origin: m.Origin,
			Time:   chat.FormatTime(m.CreatedAt),
		})
	}
	if snap.SuggestionsVisible {
		v.Suggestions = append(v.Suggestions, chat.Suggestions...)
	}
	if snap.Pending {
		v.Thinking = chat.ThinkingText
	}
	return v
}
