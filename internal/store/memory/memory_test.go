package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telugupadalu/dictionary/internal/dictionary"
	"github.com/telugupadalu/dictionary/internal/language"
	"github.com/telugupadalu/dictionary/pkg/config"
	apperrors "github.com/telugupadalu/dictionary/pkg/errors"
)

func seeded(t *testing.T) *Store {
	t.Helper()
	s := New()
	ctx := context.Background()
	require.NoError(t, s.AddWord(ctx, dictionary.Entry{
		Headword:    "పిల్లి",
		Sentence:    "పిల్లి పాలు తాగింది.",
		Translation: "The cat drank milk.",
		Synonyms:    []string{"Cat", "kitten"},
		Links:       []string{"https://te.wiktionary.org/wiki/పిల్లి"},
	}))
	require.NoError(t, s.AddWord(ctx, dictionary.Entry{Headword: "కుక్క", Synonyms: []string{"dog"}}))
	require.NoError(t, s.AddWord(ctx, dictionary.Entry{Headword: "పులి", Synonyms: []string{"tiger", "cat"}}))
	return s
}

func TestHeadwordIndex(t *testing.T) {
	s := seeded(t)
	idx, err := s.Index(language.Primary)
	require.NoError(t, err)
	ctx := context.Background()

	ok, err := idx.Exists(ctx, "పిల్లి")
	require.NoError(t, err)
	assert.True(t, ok)

	assoc, err := idx.Associated(ctx, "పిల్లి")
	require.NoError(t, err)
	assert.Equal(t, []string{"పిల్లి"}, assoc)

	keys, err := idx.RangeByPrefix(ctx, 'ప')
	require.NoError(t, err)
	assert.Equal(t, []string{"పిల్లి", "పులి"}, keys)

	keys, err = idx.RangeByPrefix(ctx, 'అ')
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestSynonymIndex(t *testing.T) {
	s := seeded(t)
	idx, err := s.Index(language.Alternate)
	require.NoError(t, err)
	ctx := context.Background()

	ok, err := idx.Exists(ctx, "cat")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = idx.Exists(ctx, "Cat")
	require.NoError(t, err)
	assert.False(t, ok, "keys are stored lower-cased")

	assoc, err := idx.Associated(ctx, "cat")
	require.NoError(t, err)
	assert.Equal(t, []string{"పిల్లి", "పులి"}, assoc)

	keys, err := idx.RangeByPrefix(ctx, 'c')
	require.NoError(t, err)
	assert.Equal(t, []string{"cat"}, keys)

	_, err = s.Index(language.Invalid)
	assert.Error(t, err)
}

func TestAddWord_Duplicate(t *testing.T) {
	s := seeded(t)
	err := s.AddWord(context.Background(), dictionary.Entry{Headword: "పిల్లి ", Synonyms: []string{"puss"}})
	require.ErrorIs(t, err, apperrors.ErrWordExists)

	idx, _ := s.Index(language.Alternate)
	ok, _ := idx.Exists(context.Background(), "puss")
	assert.False(t, ok, "a rejected add leaves no synonym behind")
}

func TestAppend(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	require.NoError(t, s.AppendSynonyms(ctx, "కుక్క", []string{"Hound", "dog"}))
	require.NoError(t, s.AppendLinks(ctx, "కుక్క", []string{"https://example.org/dog"}))

	e, err := s.GetWord(ctx, "కుక్క")
	require.NoError(t, err)
	assert.Equal(t, []string{"dog", "hound"}, e.Synonyms)
	assert.Equal(t, []string{"https://example.org/dog"}, e.Links)
	assert.False(t, e.CreatedAt.IsZero())

	idx, _ := s.Index(language.Alternate)
	assoc, err := idx.Associated(ctx, "hound")
	require.NoError(t, err)
	assert.Equal(t, []string{"కుక్క"}, assoc)

	require.ErrorIs(t, s.AppendSynonyms(ctx, "ఏనుగు", []string{"elephant"}), apperrors.ErrWordNotFound)
	require.ErrorIs(t, s.AppendLinks(ctx, "ఏనుగు", []string{"https://example.org"}), apperrors.ErrWordNotFound)
	_, err = s.GetWord(ctx, "ఏనుగు")
	require.ErrorIs(t, err, apperrors.ErrWordNotFound)
}

func TestLen(t *testing.T) {
	words, synonyms := seeded(t).Len()
	assert.Equal(t, 3, words)
	assert.Equal(t, 4, synonyms)
}

func TestCancelledContext(t *testing.T) {
	s := seeded(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	idx, _ := s.Index(language.Primary)
	_, err := idx.Exists(ctx, "పిల్లి")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = idx.RangeByPrefix(ctx, 'ప')
	assert.ErrorIs(t, err, context.Canceled)
}

// Resolves through the real resolver to cover the example scenarios
// end to end on the ordered store.
func TestStoreBackedResolver(t *testing.T) {
	s := seeded(t)
	r, err := dictionary.NewResolver(s, dictionary.OptionsFromConfig(config.Default().Resolver))
	require.NoError(t, err)
	ctx := context.Background()

	res, err := r.Resolve(ctx, "పిల్లి", language.Primary)
	require.NoError(t, err)
	assert.Equal(t, &dictionary.Result{Kind: dictionary.Exact, Items: []string{"పిల్లి"}}, res)

	res, err = r.Resolve(ctx, "CAT", language.Alternate)
	require.NoError(t, err)
	assert.Equal(t, dictionary.Exact, res.Kind)
	assert.ElementsMatch(t, []string{"పిల్లి", "పులి"}, res.Items)

	res, err = r.Resolve(ctx, "kitte", language.Alternate)
	require.NoError(t, err)
	assert.Equal(t, &dictionary.Result{Kind: dictionary.Estimate, Items: []string{"పిల్లి"}}, res)
}

func TestConcurrentReadsAndWrites(t *testing.T) {
	s := seeded(t)
	idx, _ := s.Index(language.Alternate)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = s.AppendSynonyms(ctx, "పిల్లి", []string{fmt.Sprintf("cat%d", i)})
		}(i)
		go func() {
			defer wg.Done()
			_, err := idx.RangeByPrefix(ctx, 'c')
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	keys, err := idx.RangeByPrefix(ctx, 'c')
	require.NoError(t, err)
	assert.Len(t, keys, 9)
}
