// Package fallback is an offline collaborator that answers straight
// from the FAQ grounding. It keeps the dashboard functional when no
// remote LLM is configured or reachable.
package fallback

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/frayen/support-desk/internal/llm"
)

// Confidence levels reported by the composed answers. A grounded answer
// is trustworthy; the generic reply is a weak turn and counts toward
// escalation accounting downstream.
const (
	GroundedConfidence = 0.85
	GenericConfidence  = 0.4
)

const genericReply = "Thank you for your question. While I don't have a specific answer in my knowledge base, I'm here to help! Could you provide more details, or would you like me to escalate this to our human support team who can assist you better?"

// answerPreviewLen trims secondary FAQ answers in the "also helpful" list.
const answerPreviewLen = 100

type Provider struct{}

func NewProvider() *Provider {
	return &Provider{}
}

func (p *Provider) Name() string {
	return "fallback"
}

func (p *Provider) AvailableModels() []string {
	return []string{"faq-grounded"}
}

func (p *Provider) DefaultModel() string {
	return "faq-grounded"
}

// IsConfigured is always true; the fallback needs no credentials.
func (p *Provider) IsConfigured() bool {
	return true
}

// Complete composes a reply from the best-ranked FAQ, listing the
// runners-up as previews. Without grounding it returns the generic
// low-confidence reply.
func (p *Provider) Complete(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()

	if len(req.Grounding) == 0 {
		return &llm.Response{
			Text:       genericReply,
			Confidence: GenericConfidence,
			Model:      p.DefaultModel(),
			LatencyMs:  time.Since(start).Milliseconds(),
		}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Great question! %s\n\n", req.Grounding[0].Entry.Answer)

	if len(req.Grounding) > 1 {
		b.WriteString("You might also find these helpful:\n")
		for i, m := range req.Grounding[1:] {
			answer := m.Entry.Answer
			if runes := []rune(answer); len(runes) > answerPreviewLen {
				answer = string(runes[:answerPreviewLen]) + "..."
			}
			fmt.Fprintf(&b, "\n%d. **%s**: %s", i+1, m.Entry.Question, answer)
		}
	}

	return &llm.Response{
		Text:       b.String(),
		Confidence: GroundedConfidence,
		Model:      p.DefaultModel(),
		LatencyMs:  time.Since(start).Milliseconds(),
	}, nil
}
