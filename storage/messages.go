package storage

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gennadis/petassistant/internal/chat"
	"github.com/jmoiron/sqlx"
)

// Messages is a storage for messages
type Messages struct {
	db *sqlx.DB
}

// NewMessages creates a new Messages storage
func NewMessages(db *sqlx.DB) (*Messages, error) {
	createMessagesTable := `
	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		conversation_id TEXT NOT NULL,
		text TEXT NOT NULL,
		origin TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (conversation_id) REFERENCES conversations(id)
	)
	`
	if _, err := db.Exec(createMessagesTable); err != nil {
		return nil, fmt.Errorf("failed to create messages table: %w", err)
	}

	return &Messages{db: db}, nil
}

// ReadByConversationID returns messages for a specific conversation in display order
func (m *Messages) ReadByConversationID(conversationID string) ([]chat.Message, error) {
	var messages []chat.Message
	err := m.db.Select(&messages, "SELECT id, text, origin, created_at FROM messages WHERE conversation_id = ? ORDER BY rowid ASC", conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages for conversation_id %s: %w", conversationID, err)
	}

	slog.Debug("read messages by conversation_id",
		slog.String("conversation_id", conversationID),
		slog.Int("count", len(messages)),
	)
	return messages, nil
}

// Write writes new message to the storage
func (m *Messages) Write(conversationID string, message chat.Message) error {
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	insertQuery := "INSERT OR IGNORE INTO messages (id, conversation_id, text, origin, created_at) VALUES (?, ?, ?, ?, ?)"
	if _, err := m.db.Exec(insertQuery, message.ID, conversationID, message.Text, string(message.Origin), message.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert message %s: %w", message.ID, err)
	}

	slog.Debug("message added to messages",
		slog.String("id", message.ID),
		slog.String("conversation_id", conversationID),
		slog.String("origin", string(message.Origin)),
		slog.Int("length", len(message.Text)),
	)
	return nil
}
