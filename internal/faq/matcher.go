package faq

import (
	"sort"
	"strings"

	"github.com/frayen/support-desk/internal/domain"
)

// Scoring weights for the lexical ranking. The matching is deliberately
// substring-based, not semantic: predictable, explainable, cheap.
const (
	questionWeight = 5
	keywordWeight  = 2
	answerWeight   = 1
)

// DefaultTopK is used when a caller passes a non-positive limit.
const DefaultTopK = 3

// Match pairs an FAQ entry with its relevance score for a query.
type Match struct {
	Entry domain.FaqEntry `json:"entry"`
	Score int             `json:"score"`
}

// Rank scores every corpus entry against the query and returns the topK
// highest, ordered by score descending with corpus order breaking ties.
// Zero-score entries are ranked, not filtered; callers decide the
// relevance floor. Rank has no side effects and is safe for concurrent
// use.
func Rank(query string, corpus []domain.FaqEntry, topK int) []Match {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if len(corpus) == 0 {
		return nil
	}

	q := strings.ToLower(query)

	matches := make([]Match, len(corpus))
	for i, entry := range corpus {
		matches[i] = Match{Entry: entry, Score: score(q, entry)}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}

// score accumulates additively; an entry can hit several criteria at
// once. q must already be lowercased.
func score(q string, entry domain.FaqEntry) int {
	total := 0

	question := strings.ToLower(entry.Question)
	if strings.Contains(question, q) || strings.Contains(q, question) {
		total += questionWeight
	}

	for _, kw := range entry.Keywords {
		if strings.Contains(q, strings.ToLower(kw)) {
			total += keywordWeight
		}
	}

	if strings.Contains(strings.ToLower(entry.Answer), q) {
		total += answerWeight
	}

	return total
}

// Relevant filters ranked matches down to those at or above the floor.
func Relevant(matches []Match, floor int) []Match {
	out := make([]Match, 0, len(matches))
	for _, m := range matches {
		if m.Score >= floor {
			out = append(out, m)
		}
	}
	return out
}
