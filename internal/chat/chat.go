package chat

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Origin string

const (
	OriginUser      Origin = "user"
	OriginAssistant Origin = "assistant"
)

const WelcomeText = "🐾 **Olá! Sou seu Assistente Pet!**\n\n" +
	"🤖 **O que posso fazer por você:**\n" +
	"• Recomendar rações ideais para seu pet\n" +
	"• Sugerir brinquedos e acessórios\n" +
	"• Orientar sobre cuidados veterinários\n" +
	"• Dar dicas de alimentação e bem-estar\n\n" +
	"💡 **Experimente as sugestões abaixo ou digite sua própria pergunta!**"

// ThinkingText is shown in place of the reply while a question is awaiting an answer.
const ThinkingText = "Pensando..."

// DefaultBaseURL is where the Q&A service listens unless configured otherwise.
const DefaultBaseURL = "http://localhost:5000"

const errorTextFormat = "Desculpe, ocorreu um erro. Verifique se a API está rodando em %s"

// Suggestions are the predefined prompts offered while only the welcome message is shown.
var Suggestions = []string{
	"🐱 Melhor ração premium para gatos?",
	"🐕 Brinquedos para cães grandes?",
	"🍼 Cuidados com filhotes?",
	"💉 Calendário de vacinas?",
	"🦴 Petiscos saudáveis?",
}

// ErrorText is the reply shown when the Q&A service could not answer.
func ErrorText(baseURL string) string {
	return fmt.Sprintf(errorTextFormat, baseURL)
}

// Message is a single turn of a conversation
type Message struct {
	ID        string    `db:"id" json:"id"`
	Text      string    `db:"text" json:"text"`
	Origin    Origin    `db:"origin" json:"origin"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// NewMessage creates a new Message with a time-ordered id
func NewMessage(origin Origin, text string) Message {
	return Message{
		ID:        newID(),
		Text:      text,
		Origin:    origin,
		CreatedAt: time.Now(),
	}
}

func (m Message) IsUser() bool {
	return m.Origin == OriginUser
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
