package llm

import (
	"testing"

	"github.com/frayen/support-desk/internal/domain"
	"github.com/frayen/support-desk/internal/faq"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBuildGroundingContext(t *testing.T) {
	matches := []faq.Match{
		{Entry: domain.FaqEntry{Question: "Q one?", Answer: "A one."}},
		{Entry: domain.FaqEntry{Question: "Q two?", Answer: "A two."}},
	}

	got := BuildGroundingContext(matches)
	assert.Contains(t, got, "Relevant FAQ information:")
	assert.Contains(t, got, "1. Q: Q one?\nA: A one.")
	assert.Contains(t, got, "2. Q: Q two?\nA: A two.")
}

func TestBuildGroundingContext_Empty(t *testing.T) {
	assert.Empty(t, BuildGroundingContext(nil))
}

func TestBuildSystemPrompt(t *testing.T) {
	grounding := BuildGroundingContext([]faq.Match{
		{Entry: domain.FaqEntry{Question: "Q?", Answer: "A."}},
	})

	prompt := BuildSystemPrompt(grounding, "Customer asked about billing.")
	assert.Contains(t, prompt, "customer support AI assistant")
	assert.Contains(t, prompt, "Conversation so far (summary):")
	assert.Contains(t, prompt, "Customer asked about billing.")
	assert.Contains(t, prompt, "Relevant FAQ information:")

	bare := BuildSystemPrompt("", "")
	assert.NotContains(t, bare, "Conversation so far")
	assert.NotContains(t, bare, "Relevant FAQ information:")
}

func TestBuildSummaryPrompt(t *testing.T) {
	prompt := BuildSummaryPrompt([]Turn{
		{Role: "user", Content: "My order is late."},
		{Role: "assistant", Content: "Let me check that for you."},
	})

	assert.Contains(t, prompt, "user: My order is late.")
	assert.Contains(t, prompt, "assistant: Let me check that for you.")
}

func TestHistoryFromMessages(t *testing.T) {
	sessionID := uuid.New()
	messages := []domain.Message{
		{SessionID: sessionID, Role: domain.RoleUser, Content: "hello"},
		{SessionID: sessionID, Role: domain.RoleAssistant, Content: "hi there"},
	}

	turns := HistoryFromMessages(messages)
	assert.Equal(t, []Turn{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi there"},
	}, turns)
}
