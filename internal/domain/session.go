package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionStatus represents the lifecycle state of a conversation
type SessionStatus string

const (
	StatusActive    SessionStatus = "active"
	StatusEscalated SessionStatus = "escalated"
	StatusResolved  SessionStatus = "resolved"
)

// DefaultSessionTitle is used until the first user question arrives.
const DefaultSessionTitle = "New Conversation"

// ChatSession is the aggregate root of a conversation. It owns the
// ordered message sequence referencing it and is the only entity the
// escalation logic mutates.
type ChatSession struct {
	ID               uuid.UUID     `json:"id"`
	Title            string        `json:"title"`
	Status           SessionStatus `json:"status"`
	EscalationReason string        `json:"escalation_reason,omitempty"`
	FailedAttempts   int           `json:"failed_attempts"`
	Summary          string        `json:"summary,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// NewChatSession creates an active session with a zeroed failure counter.
func NewChatSession(title string, now time.Time) *ChatSession {
	if title == "" {
		title = DefaultSessionTitle
	}
	return &ChatSession{
		ID:        uuid.New(),
		Title:     title,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AcceptsTurns reports whether the session is open for automated
// handling. Escalated and resolved sessions refuse new turns.
func (s *ChatSession) AcceptsTurns() bool {
	return s.Status == StatusActive
}

// Escalate transitions the session to escalated. The transition is
// idempotent: an already-escalated session keeps its stored reason and
// timestamps, and the call reports false so no side effects re-fire.
// FailedAttempts keeps its last value.
func (s *ChatSession) Escalate(reason string, now time.Time) bool {
	if s.Status == StatusEscalated {
		return false
	}
	s.Status = StatusEscalated
	s.EscalationReason = reason
	s.UpdatedAt = now
	return true
}

// RecordFailure bumps the failure counter. It only moves forward: a
// later confident turn never winds it back.
func (s *ChatSession) RecordFailure() {
	s.FailedAttempts++
}

// Touch refreshes the activity timestamp.
func (s *ChatSession) Touch(now time.Time) {
	s.UpdatedAt = now
}

// SessionRepository defines the interface for session storage
type SessionRepository interface {
	Create(ctx context.Context, session *ChatSession) error
	Get(ctx context.Context, id uuid.UUID) (*ChatSession, error)
	List(ctx context.Context, limit int, offset int) ([]ChatSession, error)
	Update(ctx context.Context, session *ChatSession) error
	Delete(ctx context.Context, id uuid.UUID) error
}
