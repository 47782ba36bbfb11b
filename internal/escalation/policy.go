// Package escalation decides when a conversation must leave automated
// handling and go to a human.
package escalation

import (
	"fmt"
	"strings"

	"github.com/frayen/support-desk/internal/config"
)

// Reasons recorded on the session when a rule fires.
const (
	ReasonManual    = "User requested escalation"
	ReasonThreshold = "Multiple failed resolution attempts"
)

// Signals is everything the policy looks at for one evaluation.
// Confidence is nil when the latest turn produced no estimate; an absent
// confidence never counts as a failure but does not suppress the keyword
// or manual rules.
type Signals struct {
	MessageText    string
	FailedAttempts int
	Confidence     *float64
	ManualRequest  bool
	ManualReason   string
}

// Decision is the policy verdict for a single evaluation.
type Decision struct {
	ShouldEscalate bool
	Reason         string
}

// Policy is a pure decision function over conversation signals. It holds
// no mutable state and is safe for concurrent use.
type Policy struct {
	keywords         []string
	confidenceFloor  float64
	failureThreshold int
}

// NewPolicy builds a policy from configuration.
func NewPolicy(cfg config.EscalationConfig) *Policy {
	return &Policy{
		keywords:         cfg.NormalizedKeywords(),
		confidenceFloor:  cfg.ConfidenceFloor,
		failureThreshold: cfg.FailureThreshold,
	}
}

// Evaluate applies the escalation rules in precedence order: manual
// request, then escalation keywords in the message text, then the
// failed-attempts threshold. The first matching rule wins.
func (p *Policy) Evaluate(sig Signals) Decision {
	if sig.ManualRequest {
		reason := sig.ManualReason
		if reason == "" {
			reason = ReasonManual
		}
		return Decision{ShouldEscalate: true, Reason: reason}
	}

	if kw := p.matchKeyword(sig.MessageText); kw != "" {
		return Decision{
			ShouldEscalate: true,
			Reason:         fmt.Sprintf("Escalation keyword detected: %s", kw),
		}
	}

	if sig.FailedAttempts >= p.failureThreshold {
		return Decision{ShouldEscalate: true, Reason: ReasonThreshold}
	}

	return Decision{}
}

// IsFailure reports whether a turn's confidence counts toward the
// escalation threshold. A missing estimate is not a failure.
func (p *Policy) IsFailure(confidence *float64) bool {
	return confidence != nil && *confidence < p.confidenceFloor
}

// ConfidenceFloor exposes the configured floor for callers that surface
// low-confidence warnings.
func (p *Policy) ConfidenceFloor() float64 {
	return p.confidenceFloor
}

func (p *Policy) matchKeyword(text string) string {
	lower := strings.ToLower(text)
	for _, kw := range p.keywords {
		if strings.Contains(lower, kw) {
			return kw
		}
	}
	return ""
}
