package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MessageRole represents the sender of a message
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// MessageMetadata carries the turn signals attached to an assistant
// message. Confidence is nil when the collaborator supplied none.
type MessageMetadata struct {
	Confidence *float64 `json:"confidence,omitempty"`
	FaqMatched *bool    `json:"faq_matched,omitempty"`
	Escalated  bool     `json:"escalated,omitempty"`
	Reason     string   `json:"reason,omitempty"`
	Model      string   `json:"model,omitempty"`
	LatencyMs  int64    `json:"latency_ms,omitempty"`
}

// Message is an append-only chat record. Messages are created through
// the session that owns them and are never reordered or deleted
// individually.
type Message struct {
	ID        uuid.UUID        `json:"id"`
	SessionID uuid.UUID        `json:"session_id"`
	Role      MessageRole      `json:"role"`
	Content   string           `json:"content"`
	Metadata  *MessageMetadata `json:"metadata,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewMessage creates a message bound to a session.
func NewMessage(sessionID uuid.UUID, role MessageRole, content string, now time.Time) *Message {
	return &Message{
		ID:        uuid.New(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: now,
	}
}

// MessageRepository defines the interface for message storage
type MessageRepository interface {
	Create(ctx context.Context, message *Message) error
	ListBySession(ctx context.Context, sessionID uuid.UUID, limit int) ([]Message, error)
	CountBySession(ctx context.Context, sessionID uuid.UUID) (int64, error)
	DeleteBySession(ctx context.Context, sessionID uuid.UUID) error
}
