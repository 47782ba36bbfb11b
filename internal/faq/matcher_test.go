package faq

import (
	"testing"

	"github.com/frayen/support-desk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCorpus() []domain.FaqEntry {
	return []domain.FaqEntry{
		{
			Question: "How long does shipping take?",
			Answer:   "Standard shipping takes 5-7 business days.",
			Keywords: []string{"shipping", "delivery", "days"},
		},
		{
			Question: "What is your return policy?",
			Answer:   "Items can be returned within 30 days of purchase.",
			Keywords: []string{"return", "refund", "policy"},
		},
		{
			Question: "How do I reset my password?",
			Answer:   "Click 'Forgot Password' on the login page.",
			Keywords: []string{"password", "reset", "login"},
		},
	}
}

func TestRank_QuestionMatchOutweighsKeyword(t *testing.T) {
	matches := Rank("how long does shipping take", testCorpus(), 3)
	require.Len(t, matches, 3)

	// Question substring (5) + keyword "shipping" (2) = 7
	assert.Equal(t, "How long does shipping take?", matches[0].Entry.Question)
	assert.Equal(t, 7, matches[0].Score)
}

func TestRank_KeywordsAccumulate(t *testing.T) {
	matches := Rank("i want a refund, what is the return policy", testCorpus(), 1)
	require.Len(t, matches, 1)

	// Keywords "return" + "refund" + "policy" at 2 each.
	assert.Equal(t, "What is your return policy?", matches[0].Entry.Question)
	assert.Equal(t, 6, matches[0].Score)
}

func TestRank_CaseInsensitive(t *testing.T) {
	upper := Rank("RESET MY PASSWORD", testCorpus(), 1)
	lower := Rank("reset my password", testCorpus(), 1)
	require.Len(t, upper, 1)
	require.Len(t, lower, 1)
	assert.Equal(t, lower[0].Score, upper[0].Score)
	assert.Equal(t, "How do I reset my password?", upper[0].Entry.Question)
}

func TestRank_TopKTruncates(t *testing.T) {
	matches := Rank("password", testCorpus(), 2)
	assert.Len(t, matches, 2)
}

func TestRank_DefaultTopK(t *testing.T) {
	matches := Rank("password", testCorpus(), 0)
	assert.Len(t, matches, DefaultTopK)
}

func TestRank_EmptyCorpus(t *testing.T) {
	assert.Nil(t, Rank("anything", nil, 3))
}

func TestRank_EmptyQuery(t *testing.T) {
	// The empty string is a substring of every question and answer, so
	// each entry scores 5+1, plus 2 per empty keyword it carries.
	corpus := testCorpus()
	corpus[1].Keywords = append(corpus[1].Keywords, "")

	matches := Rank("", corpus, 3)
	require.Len(t, matches, 3)

	assert.Equal(t, "What is your return policy?", matches[0].Entry.Question)
	assert.Equal(t, 8, matches[0].Score)
	assert.Equal(t, 6, matches[1].Score)
	assert.Equal(t, 6, matches[2].Score)

	// Corpus order breaks the tie between the remaining entries.
	assert.Equal(t, "How long does shipping take?", matches[1].Entry.Question)
	assert.Equal(t, "How do I reset my password?", matches[2].Entry.Question)
}

func TestRank_ZeroScoresAreRankedNotFiltered(t *testing.T) {
	matches := Rank("completely unrelated gibberish", testCorpus(), 3)
	require.Len(t, matches, 3)
	for _, m := range matches {
		assert.Equal(t, 0, m.Score)
	}
}

func TestRank_StableOrderOnTies(t *testing.T) {
	// All zero scores: corpus order must be preserved.
	matches := Rank("zzzz", testCorpus(), 3)
	require.Len(t, matches, 3)
	assert.Equal(t, "How long does shipping take?", matches[0].Entry.Question)
	assert.Equal(t, "What is your return policy?", matches[1].Entry.Question)
	assert.Equal(t, "How do I reset my password?", matches[2].Entry.Question)
}

func TestRelevant_AppliesFloor(t *testing.T) {
	matches := Rank("how long does shipping take", testCorpus(), 3)

	relevant := Relevant(matches, 1)
	require.Len(t, relevant, 1)
	assert.Equal(t, "How long does shipping take?", relevant[0].Entry.Question)

	assert.Empty(t, Relevant(matches, 100))
}
