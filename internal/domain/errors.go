package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session id resolves to nothing.
var ErrSessionNotFound = errors.New("session not found")

// ErrConversationClosed is returned when an automated turn is attempted
// on a session that is no longer active. The caller should steer the
// user toward the escalation acknowledgement flow, not retry.
var ErrConversationClosed = errors.New("conversation not open for automated handling")

// ValidationError rejects malformed input before any state mutates.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for a request field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// CollaboratorError wraps a failed or timed-out LLM call. By the time it
// surfaces, the user message is already durable and the failure has been
// counted toward escalation, so Retryable tells the caller whether
// resubmitting the turn is worthwhile.
type CollaboratorError struct {
	Err       error
	Retryable bool
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("assistant collaborator failed: %v", e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}
