package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChatSession_Defaults(t *testing.T) {
	now := time.Now().UTC()

	s := NewChatSession("", now)
	assert.Equal(t, DefaultSessionTitle, s.Title)
	assert.Equal(t, StatusActive, s.Status)
	assert.Equal(t, 0, s.FailedAttempts)
	assert.Equal(t, now, s.CreatedAt)

	named := NewChatSession("Billing question", now)
	assert.Equal(t, "Billing question", named.Title)
}

func TestChatSession_AcceptsTurns(t *testing.T) {
	s := NewChatSession("", time.Now().UTC())
	assert.True(t, s.AcceptsTurns())

	s.Status = StatusEscalated
	assert.False(t, s.AcceptsTurns())

	s.Status = StatusResolved
	assert.False(t, s.AcceptsTurns())
}

func TestChatSession_Escalate_Idempotent(t *testing.T) {
	now := time.Now().UTC()
	s := NewChatSession("", now)

	require.True(t, s.Escalate("first reason", now))
	assert.Equal(t, StatusEscalated, s.Status)
	assert.Equal(t, "first reason", s.EscalationReason)

	later := now.Add(time.Minute)
	assert.False(t, s.Escalate("second reason", later))
	assert.Equal(t, "first reason", s.EscalationReason)
	assert.Equal(t, now, s.UpdatedAt)
}

func TestChatSession_RecordFailure_Monotonic(t *testing.T) {
	s := NewChatSession("", time.Now().UTC())

	s.RecordFailure()
	s.RecordFailure()
	assert.Equal(t, 2, s.FailedAttempts)

	// Escalation does not reset the counter.
	s.Escalate("reason", time.Now().UTC())
	assert.Equal(t, 2, s.FailedAttempts)
}
