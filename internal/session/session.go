package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/gennadis/petassistant/internal/chat"
)

var (
	// ErrEmptyInput is returned for blank submissions, which are ignored.
	ErrEmptyInput = errors.New("empty input")
	// ErrRequestInFlight is returned for submissions made while awaiting a reply.
	ErrRequestInFlight = errors.New("request in flight")
	// ErrSuggestionUnavailable is returned when suggestions are hidden or the index is unknown.
	ErrSuggestionUnavailable = errors.New("suggestion unavailable")
)

type State int

const (
	Idle State = iota
	Awaiting
)

func (s State) String() string {
	if s == Awaiting {
		return "awaiting"
	}
	return "idle"
}

// Asker answers a single question.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Recorder receives every conversation start and every appended message.
type Recorder interface {
	RecordConversation(c chat.Conversation) error
	RecordMessage(conversationID string, m chat.Message) error
}

type Option func(*Session)

// WithErrorText sets the reply shown when the Q&A service fails.
func WithErrorText(text string) Option {
	return func(s *Session) { s.errorText = text }
}

func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

// Session holds one conversation and gates it to a single outstanding question.
type Session struct {
	asker     Asker
	recorder  Recorder
	errorText string

	mu           sync.Mutex
	conversation *chat.Conversation
	pending      bool
	draft        string
}

// Snapshot is a consistent copy of the session state.
type Snapshot struct {
	ConversationID     string
	Messages           []chat.Message
	Pending            bool
	Draft              string
	SuggestionsVisible bool
}

func New(asker Asker, opts ...Option) *Session {
	s := &Session{
		asker:        asker,
		errorText:    chat.ErrorText(chat.DefaultBaseURL),
		conversation: chat.NewConversation(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.recordConversation(*s.conversation)
	return s
}

// Send appends the user message and issues the question. The returned channel
// is closed once the reply (or the error message) has been handled. The call
// is not cancelled when ctx is.
func (s *Session) Send(ctx context.Context, text string) (<-chan struct{}, error) {
	return s.send(ctx, text, false)
}

// send appends the user message and starts the call. With onlyFromWelcome the
// message is accepted only while suggestions are visible, checked under the
// same lock as the append.
func (s *Session) send(ctx context.Context, text string, onlyFromWelcome bool) (<-chan struct{}, error) {
	question := strings.TrimSpace(text)
	if question == "" {
		return nil, ErrEmptyInput
	}

	s.mu.Lock()
	if onlyFromWelcome && (s.pending || !s.conversation.OnlyWelcome()) {
		s.mu.Unlock()
		return nil, ErrSuggestionUnavailable
	}
	if s.pending {
		s.mu.Unlock()
		return nil, ErrRequestInFlight
	}
	userMsg := chat.NewMessage(chat.OriginUser, question)
	s.conversation.Append(userMsg)
	s.draft = ""
	s.pending = true
	conversationID := s.conversation.ID
	s.mu.Unlock()

	s.recordMessage(conversationID, userMsg)

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.resolve(context.WithoutCancel(ctx), conversationID, question)
	}()
	return done, nil
}

// Submit is Send followed by waiting for the reply.
func (s *Session) Submit(ctx context.Context, text string) error {
	done, err := s.Send(ctx, text)
	if err != nil {
		return err
	}
	<-done
	return nil
}

// SubmitDraft submits the current draft input.
func (s *Session) SubmitDraft(ctx context.Context) error {
	return s.Submit(ctx, s.Draft())
}

// SelectSuggestion submits the predefined prompt at index. Suggestions are
// only offered while the welcome message is the whole conversation.
func (s *Session) SelectSuggestion(ctx context.Context, index int) (<-chan struct{}, error) {
	if index < 0 || index >= len(chat.Suggestions) {
		return nil, fmt.Errorf("%w: no suggestion %d", ErrSuggestionUnavailable, index)
	}
	return s.send(ctx, chat.Suggestions[index], true)
}

// Reset replaces the conversation with a fresh welcome. An outstanding call is
// not cancelled; its reply is discarded once it resolves.
func (s *Session) Reset() {
	s.mu.Lock()
	old := s.conversation.ID
	s.conversation = chat.NewConversation()
	s.draft = ""
	fresh := *s.conversation
	s.mu.Unlock()

	slog.Debug("conversation reset",
		slog.String("previous_id", old),
		slog.String("id", fresh.ID),
	)
	s.recordConversation(fresh)
}

func (s *Session) SetDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = text
}

func (s *Session) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *Session) State() State {
	if s.Pending() {
		return Awaiting
	}
	return Idle
}

// SuggestionsVisible reports whether suggestion prompts can be selected.
func (s *Session) SuggestionsVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversation.OnlyWelcome() && !s.pending
}

// Messages returns a copy of the conversation in display order.
func (s *Session) Messages() []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]chat.Message, len(s.conversation.Messages))
	copy(out, s.conversation.Messages)
	return out
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := make([]chat.Message, len(s.conversation.Messages))
	copy(msgs, s.conversation.Messages)
	return Snapshot{
		ConversationID:     s.conversation.ID,
		Messages:           msgs,
		Pending:            s.pending,
		Draft:              s.draft,
		SuggestionsVisible: s.conversation.OnlyWelcome() && !s.pending,
	}
}

func (s *Session) resolve(ctx context.Context, conversationID, question string) {
	var text string
	answer, err := s.asker.Ask(ctx, question)
	if err != nil {
		slog.Error("Failed to get answer", "error", err,
			slog.String("conversation_id", conversationID),
		)
		text = s.errorText
	} else {
		text = strings.TrimSpace(answer)
	}
	reply := chat.NewMessage(chat.OriginAssistant, text)

	s.mu.Lock()
	s.pending = false
	stale := s.conversation.ID != conversationID
	if !stale {
		s.conversation.Append(reply)
	}
	s.mu.Unlock()

	if stale {
		slog.Warn("discarding reply for a conversation that was reset",
			slog.String("conversation_id", conversationID),
		)
		return
	}
	s.recordMessage(conversationID, reply)
}

func (s *Session) recordConversation(c chat.Conversation) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordConversation(c); err != nil {
		slog.Warn("failed to journal conversation", "error", err)
		return
	}
	for _, m := range c.Messages {
		s.recordMessage(c.ID, m)
	}
}

func (s *Session) recordMessage(conversationID string, m chat.Message) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordMessage(conversationID, m); err != nil {
		slog.Warn("failed to journal message", "error", err,
			slog.String("message_id", m.ID),
		)
	}
}
