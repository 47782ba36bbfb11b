package llm

import (
	"context"

	"github.com/frayen/support-desk/internal/faq"
)

// Turn is one prior exchange entry passed to the collaborator.
type Turn struct {
	Role    string
	Content string
}

// Request contains everything a provider needs for one completion: the
// system prompt (including the rendered FAQ grounding), the windowed
// history, and the new user message. Grounding carries the ranked
// matches in structured form for providers that compose from them
// directly instead of prompting a model.
type Request struct {
	System    string
	History   []Turn
	Message   string
	Grounding []faq.Match
}

// Response contains the provider output. Confidence is the provider's
// own estimate in [0,1]; zero means the provider could not supply one
// and the orchestrator falls back to its heuristic.
type Response struct {
	Text       string
	Confidence float64
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// Provider defines the interface for LLM collaborators.
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Complete generates an assistant reply for the given exchange
	Complete(ctx context.Context, req Request, model string) (*Response, error)
}

// Summarizer is implemented by providers able to compress older turns
// into a short session summary. The FAQ fallback cannot, so the
// orchestrator checks for this capability before asking.
type Summarizer interface {
	Summarize(ctx context.Context, history []Turn, model string) (string, error)
}
