package storage

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gennadis/petassistant/internal/chat"
	"github.com/jmoiron/sqlx"
)

// Journal is a write-mostly transcript of every conversation, kept for
// operators. Conversations are never restored from it.
type Journal struct {
	mu            sync.RWMutex
	closed        bool
	db            *sqlx.DB
	conversations *Conversations
	messages      *Messages
}

// ErrJournalClosed is returned for writes that arrive after Close, such as
// replies resolving during shutdown.
var ErrJournalClosed = errors.New("journal closed")

// OpenJournal opens (or creates) the journal database at file
func OpenJournal(file string) (*Journal, error) {
	db, err := NewSqliteDB(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", file, err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	conversations, err := NewConversations(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	messages, err := NewMessages(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Journal{db: db, conversations: conversations, messages: messages}, nil
}

func (j *Journal) RecordConversation(c chat.Conversation) error {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return ErrJournalClosed
	}
	return j.conversations.Write(c)
}

func (j *Journal) RecordMessage(conversationID string, m chat.Message) error {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return ErrJournalClosed
	}
	return j.messages.Write(conversationID, m)
}

// Transcript returns every journaled conversation with its messages, oldest first
func (j *Journal) Transcript() ([]chat.Conversation, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return nil, ErrJournalClosed
	}
	conversations, err := j.conversations.Read()
	if err != nil {
		return nil, err
	}
	for i := range conversations {
		msgs, err := j.messages.ReadByConversationID(conversations[i].ID)
		if err != nil {
			return nil, err
		}
		conversations[i].Messages = msgs
	}
	return conversations, nil
}

// Close waits for writes in progress and closes the database. It is safe to call twice.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	j.closed = true
	return j.db.Close()
}
