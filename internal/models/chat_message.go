package models

import (
	"time"

	"github.com/google/uuid"
)

type MessageType string

const (
	MessageTypeUser      MessageType = "user"
	MessageTypeAssistant MessageType = "assistant"
)

// ChatMessage is one entry in a document's query/answer history.
type ChatMessage struct {
	ID         uuid.UUID   `db:"id"`
	UserID     uuid.UUID   `db:"user_id"`
	DocumentID uuid.UUID   `db:"document_id"`
	Type       MessageType `db:"type"`
	Content    string      `db:"content"`
	CreatedAt  time.Time   `db:"created_at"`
}
