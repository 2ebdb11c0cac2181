package domain

import (
	"sort"
	"strconv"
)

// Passage is a retrieved slice of document text with its payload metadata.
type Passage struct {
	Content  string
	Metadata map[string]string
}

// ScoredPassage is a passage with a cosine similarity score (higher = better).
type ScoredPassage struct {
	Passage
	Score float64
}

// EstimateTokens approximates the token cost of text as len/4.
// This is the single budgeting heuristic for the whole pipeline; retrieval
// budgets and the generation size guard must not mix it with a real tokenizer.
func EstimateTokens(text string) int {
	return len(text) / 4
}

// Tokens returns the estimated token cost of the passage content.
func (p Passage) Tokens() int {
	return EstimateTokens(p.Content)
}

// Page returns the numeric page metadata, or 0 when missing or non-numeric.
func (p Passage) Page() int {
	raw, ok := p.Metadata[MetaPage]
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// TotalTokens sums the estimated token cost over a passage set.
func TotalTokens(passages []Passage) int {
	total := 0
	for _, p := range passages {
		total += p.Tokens()
	}
	return total
}

// SortByPage orders passages by ascending page number in place, re-imposing
// document reading order regardless of which retrieval branch produced them.
// The sort is stable so same-page passages keep their retrieval order.
func SortByPage(passages []Passage) {
	sort.SliceStable(passages, func(i, j int) bool {
		return passages[i].Page() < passages[j].Page()
	})
}
