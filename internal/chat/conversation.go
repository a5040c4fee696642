package chat

import (
	"time"
)

// Conversation is the ordered list of messages exchanged in one session
type Conversation struct {
	ID        string    `db:"id"`
	StartedAt time.Time `db:"started_at"`
	Messages  []Message `db:"-"`
}

// NewConversation creates a Conversation seeded with the welcome message
func NewConversation() *Conversation {
	return &Conversation{
		ID:        newID(),
		StartedAt: time.Now(),
		Messages:  []Message{NewMessage(OriginAssistant, WelcomeText)},
	}
}

func (c *Conversation) Append(m Message) {
	c.Messages = append(c.Messages, m)
}

func (c *Conversation) Len() int {
	return len(c.Messages)
}

// OnlyWelcome reports whether nothing was exchanged yet.
func (c *Conversation) OnlyWelcome() bool {
	return len(c.Messages) == 1
}
