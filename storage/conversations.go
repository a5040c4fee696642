package storage

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gennadis/petassistant/internal/chat"
	"github.com/jmoiron/sqlx"
)

// Conversations is a storage for conversation starts
type Conversations struct {
	db *sqlx.DB
}

// NewConversations creates a new Conversations storage
func NewConversations(db *sqlx.DB) (*Conversations, error) {
	createConversationsTable := `
	CREATE TABLE IF NOT EXISTS conversations (
		id TEXT PRIMARY KEY,
		started_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)
	`
	if _, err := db.Exec(createConversationsTable); err != nil {
		return nil, fmt.Errorf("failed to create conversations table: %w", err)
	}

	return &Conversations{db: db}, nil
}

// Read returns all conversations, oldest first
func (c *Conversations) Read() ([]chat.Conversation, error) {
	var conversations []chat.Conversation
	err := c.db.Select(&conversations, "SELECT id, started_at FROM conversations ORDER BY rowid ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to get conversations: %w", err)
	}

	slog.Debug("read conversations",
		slog.Int("count", len(conversations)),
	)
	return conversations, nil
}

// Write writes a new conversation to the storage
func (c *Conversations) Write(conversation chat.Conversation) error {
	if conversation.StartedAt.IsZero() {
		conversation.StartedAt = time.Now()
	}
	insertQuery := "INSERT OR IGNORE INTO conversations (id, started_at) VALUES (?, ?)"
	if _, err := c.db.Exec(insertQuery, conversation.ID, conversation.StartedAt); err != nil {
		return fmt.Errorf("failed to insert conversation %s: %w", conversation.ID, err)
	}

	slog.Debug("conversation added to conversations",
		slog.String("id", conversation.ID),
		slog.Time("started_at", conversation.StartedAt),
	)
	return nil
}
