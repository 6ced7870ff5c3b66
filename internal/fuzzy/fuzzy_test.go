package fuzzy

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("cat", "cat"))
	assert.Equal(t, 1.0, Similarity("పిల్లి", "పిల్లి"))
	assert.InDelta(t, 0.5, Similarity("kat", "cat"), 1e-9)
	assert.InDelta(t, 8.0/9.0, Similarity("catt", "cat"), 1e-9)
	assert.InDelta(t, 10.0/13.0, Similarity("పిల్ల", "పిల్లి"), 1e-9)
	assert.Less(t, Similarity("cat", "xyz"), DefaultThreshold)
	assert.Equal(t, Similarity("car", "cat"), Similarity("cat", "car"))
}

func TestSimilarity_SingleRune(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("a", "a"))
	assert.InDelta(t, 2.0/5.0, Similarity("a", "ab"), 1e-9)
}

func TestSimilarity_PaddedBigrams(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"a", "ab", 2.0 / 5.0},
		{"ab", "a", 2.0 / 5.0},
		{"a", "b", 0},
		{"aa", "a", 4.0 / 5.0},
		{"ab", "abc", 4.0 / 7.0},
		{"kat", "cat", 4.0 / 8.0},
		{"catt", "cat", 8.0 / 9.0},
	}
	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestRank_OrdersByScore(t *testing.T) {
	m := New(DefaultThreshold)
	got := m.Rank([]string{"cart", "cat", "catalog", "dog"}, "cat")

	require.NotEmpty(t, got)
	assert.Equal(t, "cat", got[0].Candidate)
	assert.Equal(t, 1.0, got[0].Score)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
	assert.NotContains(t, Candidates(got), "dog")
}

func TestRank_TieBreaks(t *testing.T) {
	m := &Matcher{Threshold: 0.1}
	got := m.Rank([]string{"cax", "cab", "cabx"}, "cat")
	require.Len(t, got, 3)
	assert.Equal(t, got[0].Score, got[1].Score)
	assert.Equal(t, []string{"cab", "cax", "cabx"}, Candidates(got))
}

func TestRank_ShorterWinsOnTie(t *testing.T) {
	// both score 0.5 against "abcd"
	m := &Matcher{Threshold: 0.1}
	got := m.Rank([]string{"abcxyz", "cd"}, "abcd")
	require.Len(t, got, 2)
	assert.Equal(t, 0.5, got[0].Score)
	assert.Equal(t, 0.5, got[1].Score)
	assert.Equal(t, []string{"cd", "abcxyz"}, Candidates(got))
}

func TestRank_NothingClearsThreshold(t *testing.T) {
	got := New(DefaultThreshold).Rank([]string{"xyz", "qrs"}, "cat")
	assert.Empty(t, got)
	assert.Empty(t, New(DefaultThreshold).Rank(nil, "cat"))
}

func TestRank_DeduplicatesCandidates(t *testing.T) {
	got := New(DefaultThreshold).Rank([]string{"cat", "cat", "cart"}, "cat")
	assert.Equal(t, []string{"cat", "cart"}, Candidates(got))
}

func TestRank_LimitMatchesFullSort(t *testing.T) {
	var candidates []string
	for i := 0; i < 50; i++ {
		candidates = append(candidates, fmt.Sprintf("cat%d", i), fmt.Sprintf("ca%dt", i))
	}
	full := New(DefaultThreshold).Rank(candidates, "cat1")
	limited := (&Matcher{Threshold: DefaultThreshold, Limit: 5}).Rank(candidates, "cat1")

	require.Len(t, limited, 5)
	assert.Equal(t, full[:5], limited)
}

func TestNew_FallsBackToDefault(t *testing.T) {
	assert.Equal(t, DefaultThreshold, New(0).Threshold)
	assert.Equal(t, DefaultThreshold, New(2).Threshold)
	assert.Equal(t, 0.5, New(0.5).Threshold)
}

func TestRank_Telugu(t *testing.T) {
	got := New(DefaultThreshold).Rank([]string{"పిల్లి", "పులి", "పాలు"}, "పిల్ల")
	require.NotEmpty(t, got)
	assert.Equal(t, "పిల్లి", got[0].Candidate)
}
