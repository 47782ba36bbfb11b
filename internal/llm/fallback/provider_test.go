package fallback

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/frayen/support-desk/internal/domain"
	"github.com/frayen/support-desk/internal/faq"
	"github.com/frayen/support-desk/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Complete_Grounded(t *testing.T) {
	p := NewProvider()

	req := llm.Request{
		Message: "how long does shipping take",
		Grounding: []faq.Match{
			{Entry: domain.FaqEntry{
				Question: "How long does shipping take?",
				Answer:   "Standard shipping takes 5-7 business days.",
			}, Score: 7},
			{Entry: domain.FaqEntry{
				Question: "Do you ship internationally?",
				Answer:   "Yes, we ship to over 50 countries.",
			}, Score: 2},
		},
	}

	resp, err := p.Complete(context.Background(), req, "")
	require.NoError(t, err)

	assert.Equal(t, GroundedConfidence, resp.Confidence)
	assert.Contains(t, resp.Text, "Great question! Standard shipping takes 5-7 business days.")
	assert.Contains(t, resp.Text, "You might also find these helpful:")
	assert.Contains(t, resp.Text, "**Do you ship internationally?**")
}

func TestProvider_Complete_LongAnswersArePreviewTrimmed(t *testing.T) {
	p := NewProvider()

	long := strings.Repeat("a", 150)
	req := llm.Request{
		Grounding: []faq.Match{
			{Entry: domain.FaqEntry{Question: "Q1", Answer: "Short answer."}},
			{Entry: domain.FaqEntry{Question: "Q2", Answer: long}},
		},
	}

	resp, err := p.Complete(context.Background(), req, "")
	require.NoError(t, err)
	assert.Contains(t, resp.Text, long[:answerPreviewLen]+"...")
	assert.NotContains(t, resp.Text, long)
}

func TestProvider_Complete_PreviewKeepsRunesIntact(t *testing.T) {
	p := NewProvider()

	long := strings.Repeat("é", 150)
	req := llm.Request{
		Grounding: []faq.Match{
			{Entry: domain.FaqEntry{Question: "Q1", Answer: "Short answer."}},
			{Entry: domain.FaqEntry{Question: "Q2", Answer: long}},
		},
	}

	resp, err := p.Complete(context.Background(), req, "")
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(resp.Text))
	assert.Contains(t, resp.Text, strings.Repeat("é", answerPreviewLen)+"...")
}

func TestProvider_Complete_NoGrounding(t *testing.T) {
	p := NewProvider()

	resp, err := p.Complete(context.Background(), llm.Request{Message: "something obscure"}, "")
	require.NoError(t, err)

	assert.Equal(t, GenericConfidence, resp.Confidence)
	assert.Contains(t, resp.Text, "escalate this to our human support team")
}

func TestProvider_Complete_CancelledContext(t *testing.T) {
	p := NewProvider()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Complete(ctx, llm.Request{}, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProvider_AlwaysConfigured(t *testing.T) {
	p := NewProvider()
	assert.True(t, p.IsConfigured())
	assert.Equal(t, "fallback", p.Name())
	assert.Equal(t, "faq-grounded", p.DefaultModel())
}
