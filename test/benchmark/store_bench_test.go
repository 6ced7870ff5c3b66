// Package benchmark contains Go benchmarks for the key store, the resolver
// and the similarity ranking, measuring throughput and allocation
// behaviour.
package benchmark

import (
	"context"
	"fmt"
	"testing"

	"github.com/telugupadalu/dictionary/internal/dictionary"
	"github.com/telugupadalu/dictionary/internal/language"
	"github.com/telugupadalu/dictionary/internal/store/memory"
)

var teluguLetters = []rune("కగచజటడతదపబమయరలవసహ")

// teluguWord spells n in Telugu consonants after a fixed first letter, so
// every generated headword falls into the same prefix bucket.
func teluguWord(first rune, n int) string {
	out := []rune{first}
	for _, d := range fmt.Sprint(n) {
		out = append(out, teluguLetters[d-'0'])
	}
	return string(out)
}

// newPopulatedStore returns a memory store with n words whose headwords all
// start with ప and whose synonyms all start with w.
func newPopulatedStore(b *testing.B, n int) *memory.Store {
	b.Helper()
	s := memory.New()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		err := s.AddWord(ctx, dictionary.Entry{
			Headword:    teluguWord('ప', i),
			Sentence:    "ఇది ఒక వాక్యం.",
			Translation: "This is a sentence.",
			Synonyms:    []string{fmt.Sprintf("word%05d", i)},
		})
		if err != nil {
			b.Fatal(err)
		}
	}
	return s
}

// BenchmarkMemoryStoreAdd measures per-entry insert throughput including
// synonym indexing.
func BenchmarkMemoryStoreAdd(b *testing.B) {
	s := memory.New()
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.AddWord(ctx, dictionary.Entry{
			Headword: teluguWord('క', i),
			Synonyms: []string{fmt.Sprintf("word%d", i)},
		})
	}
}

// BenchmarkMemoryStoreExists measures the exact check over 10 000 words.
func BenchmarkMemoryStoreExists(b *testing.B) {
	s := newPopulatedStore(b, 10000)
	idx, _ := s.Index(language.Alternate)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ok, _ := idx.Exists(ctx, "word05000")
		_ = ok
	}
}

// BenchmarkMemoryStoreRangeByPrefix measures prefix bucket scans for
// different bucket sizes.
func BenchmarkMemoryStoreRangeByPrefix(b *testing.B) {
	for _, n := range []int{100, 1000, 10000} {
		b.Run(fmt.Sprintf("words_%d", n), func(b *testing.B) {
			s := newPopulatedStore(b, n)
			idx, _ := s.Index(language.Primary)
			ctx := context.Background()

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				keys, err := idx.RangeByPrefix(ctx, 'ప')
				if err != nil {
					b.Fatal(err)
				}
				_ = keys
			}
		})
	}
}
