package llm

import (
	"fmt"
	"strings"

	"github.com/frayen/support-desk/internal/domain"
	"github.com/frayen/support-desk/internal/faq"
)

// BuildGroundingContext renders matched FAQs into the block injected
// into the system prompt. An empty match list yields an empty string.
func BuildGroundingContext(matches []faq.Match) string {
	if len(matches) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Relevant FAQ information:\n")
	for i, m := range matches {
		fmt.Fprintf(&b, "%d. Q: %s\nA: %s\n\n", i+1, m.Entry.Question, m.Entry.Answer)
	}
	return b.String()
}

// BuildSystemPrompt assembles the support-agent system prompt. The
// session summary, when present, stands in for the trimmed-off part of
// the history.
func BuildSystemPrompt(groundingContext, sessionSummary string) string {
	var b strings.Builder
	b.WriteString(`You are a helpful customer support AI assistant. Your goal is to provide accurate, friendly, and professional support.

Guidelines:
- Be empathetic and understanding
- Provide clear, concise answers
- Use the FAQ information when relevant
- If you don't know something, admit it honestly
- Stay professional and courteous
- Keep responses concise but informative
`)

	if sessionSummary != "" {
		b.WriteString("\nConversation so far (summary):\n")
		b.WriteString(sessionSummary)
		b.WriteString("\n")
	}

	if groundingContext != "" {
		b.WriteString("\n")
		b.WriteString(groundingContext)
	}

	return b.String()
}

// BuildSummaryPrompt asks the collaborator to compress older turns so
// the orchestrator can keep a bounded history window.
func BuildSummaryPrompt(history []Turn) string {
	var b strings.Builder
	b.WriteString("Summarize the following customer support conversation in at most three sentences. Keep the customer's problem, what has been tried, and any open questions.\n\n")
	for _, t := range history {
		fmt.Fprintf(&b, "%s: %s\n", t.Role, t.Content)
	}
	return b.String()
}

// HistoryFromMessages converts stored messages into provider turns.
func HistoryFromMessages(messages []domain.Message) []Turn {
	turns := make([]Turn, 0, len(messages))
	for _, m := range messages {
		turns = append(turns, Turn{Role: string(m.Role), Content: m.Content})
	}
	return turns
}
