// Package fuzzy ranks candidate keys against a query by the Sørensen–Dice
// coefficient over padded rune bigrams.
package fuzzy

import (
	"container/heap"
	"slices"
	"unicode/utf8"
)

// DefaultThreshold is the lowest score a candidate may have and still be
// considered similar to the query.
const DefaultThreshold = 0.33

const pad = '-'

// Match is a scored candidate.
type Match struct {
	Score     float64
	Candidate string
}

// Matcher ranks candidates. A zero Limit keeps every match above Threshold.
// Matchers hold no state between calls and are safe for concurrent use.
type Matcher struct {
	Threshold float64
	Limit     int
}

// New returns a Matcher with the given threshold, falling back to
// DefaultThreshold when threshold is not in (0, 1].
func New(threshold float64) *Matcher {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Matcher{Threshold: threshold}
}

// Rank scores every distinct candidate against query and returns those at or
// above the threshold, best first. Ties go to the shorter candidate, then to
// the lexicographically smaller one.
func (m *Matcher) Rank(candidates []string, query string) []Match {
	if len(candidates) == 0 {
		return nil
	}
	qgrams := bigrams(query)
	seen := make(map[string]struct{}, len(candidates))

	var matches []Match
	h := &matchHeap{}
	for _, c := range candidates {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}

		score := dice(qgrams, bigrams(c))
		if score < m.Threshold {
			continue
		}
		match := Match{Score: score, Candidate: c}
		if m.Limit <= 0 {
			matches = append(matches, match)
			continue
		}
		heap.Push(h, match)
		if h.Len() > m.Limit {
			heap.Pop(h)
		}
	}

	if m.Limit > 0 {
		matches = make([]Match, h.Len())
		for i := len(matches) - 1; i >= 0; i-- {
			matches[i] = heap.Pop(h).(Match)
		}
		return matches
	}
	slices.SortFunc(matches, func(a, b Match) int {
		switch {
		case better(a, b):
			return -1
		case better(b, a):
			return 1
		default:
			return 0
		}
	})
	return matches
}

// Candidates returns the ranked candidate strings without scores.
func Candidates(matches []Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Candidate
	}
	return out
}

// Similarity returns the Dice coefficient of a and b in [0, 1]. Identical
// strings score exactly 1.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	return dice(bigrams(a), bigrams(b))
}

func better(a, b Match) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	la, lb := utf8.RuneCountInString(a.Candidate), utf8.RuneCountInString(b.Candidate)
	if la != lb {
		return la < lb
	}
	return a.Candidate < b.Candidate
}

type grams struct {
	counts map[[2]rune]int
	total  int
}

func bigrams(s string) grams {
	runes := make([]rune, 0, len(s)+2)
	runes = append(runes, pad)
	runes = append(runes, []rune(s)...)
	runes = append(runes, pad)

	g := grams{counts: make(map[[2]rune]int, len(runes)-1)}
	for i := 0; i+1 < len(runes); i++ {
		g.counts[[2]rune{runes[i], runes[i+1]}]++
		g.total++
	}
	return g
}

func dice(a, b grams) float64 {
	if a.total+b.total == 0 {
		return 0
	}
	shared := 0
	for gram, n := range a.counts {
		shared += min(n, b.counts[gram])
	}
	return 2 * float64(shared) / float64(a.total+b.total)
}

// matchHeap keeps the worst retained match at the root so it can be evicted
// when a better one arrives.
type matchHeap []Match

func (h matchHeap) Len() int { return len(h) }

func (h matchHeap) Less(i, j int) bool { return better(h[j], h[i]) }

func (h matchHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *matchHeap) Push(x any) {
	*h = append(*h, x.(Match))
}

func (h *matchHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
