package model

import (
	"time"

	"github.com/google/uuid"
)

// ConversationTurn is one exchange in a user's dialog history. Turns
// are append-only; they are never edited after being recorded.
type ConversationTurn struct {
	CreatedAt    time.Time
	ID           uuid.UUID
	UserID       string
	UserText     string
	ResponseText string
	Intent       IntentTag
	Payload      string // extracted payload as JSON, empty when none
}
