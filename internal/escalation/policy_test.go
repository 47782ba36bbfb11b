package escalation

import (
	"testing"

	"github.com/frayen/support-desk/internal/config"
	"github.com/stretchr/testify/assert"
)

func testPolicy() *Policy {
	return NewPolicy(config.EscalationConfig{
		Keywords:         config.DefaultEscalationKeywords,
		ConfidenceFloor:  0.6,
		FailureThreshold: 3,
	})
}

func TestPolicy_Evaluate_NoSignals(t *testing.T) {
	d := testPolicy().Evaluate(Signals{MessageText: "how do I track my order?"})
	assert.False(t, d.ShouldEscalate)
	assert.Empty(t, d.Reason)
}

func TestPolicy_Evaluate_Keyword(t *testing.T) {
	tests := []struct {
		name    string
		message string
		keyword string
	}{
		{"plain", "i want a refund", "refund"},
		{"mixed case", "This is UNACCEPTABLE", "unacceptable"},
		{"phrase", "let me speak to human please", "speak to human"},
		{"embedded", "my lawyer will hear about this", "lawyer"},
	}

	p := testPolicy()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := p.Evaluate(Signals{MessageText: tt.message})
			assert.True(t, d.ShouldEscalate)
			assert.Equal(t, "Escalation keyword detected: "+tt.keyword, d.Reason)
		})
	}
}

func TestPolicy_Evaluate_ManualBeatsKeyword(t *testing.T) {
	d := testPolicy().Evaluate(Signals{
		MessageText:   "i want a refund",
		ManualRequest: true,
	})
	assert.True(t, d.ShouldEscalate)
	assert.Equal(t, ReasonManual, d.Reason)
}

func TestPolicy_Evaluate_ManualCustomReason(t *testing.T) {
	d := testPolicy().Evaluate(Signals{ManualRequest: true, ManualReason: "VIP customer"})
	assert.True(t, d.ShouldEscalate)
	assert.Equal(t, "VIP customer", d.Reason)
}

func TestPolicy_Evaluate_Threshold(t *testing.T) {
	p := testPolicy()

	assert.False(t, p.Evaluate(Signals{FailedAttempts: 2}).ShouldEscalate)

	d := p.Evaluate(Signals{FailedAttempts: 3})
	assert.True(t, d.ShouldEscalate)
	assert.Equal(t, ReasonThreshold, d.Reason)

	assert.True(t, p.Evaluate(Signals{FailedAttempts: 7}).ShouldEscalate)
}

func TestPolicy_Evaluate_KeywordBeatsThreshold(t *testing.T) {
	d := testPolicy().Evaluate(Signals{
		MessageText:    "this is terrible service",
		FailedAttempts: 5,
	})
	assert.True(t, d.ShouldEscalate)
	assert.Equal(t, "Escalation keyword detected: terrible", d.Reason)
}

func TestPolicy_IsFailure(t *testing.T) {
	p := testPolicy()

	low := 0.59
	atFloor := 0.6
	high := 0.95

	assert.True(t, p.IsFailure(&low))
	assert.False(t, p.IsFailure(&atFloor))
	assert.False(t, p.IsFailure(&high))

	// A turn without an estimate never counts as a failure.
	assert.False(t, p.IsFailure(nil))
}
