package dictionary

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/telugupadalu/dictionary/internal/language"
)

// fakeIndex is an in-memory Index that counts calls and can fail or stall.
type fakeIndex struct {
	mu    sync.Mutex
	keys  map[string][]string
	err   error
	delay time.Duration
	calls map[string]int
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{keys: make(map[string][]string), calls: make(map[string]int)}
}

func (f *fakeIndex) put(key string, associated ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys[key] = append(f.keys[key], associated...)
}

func (f *fakeIndex) enter(ctx context.Context, op string) error {
	f.mu.Lock()
	f.calls[op]++
	err, delay := f.err, f.delay
	f.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *fakeIndex) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeIndex) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeIndex) Exists(ctx context.Context, key string) (bool, error) {
	if err := f.enter(ctx, "exists"); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.keys[key]
	return ok, nil
}

func (f *fakeIndex) Associated(ctx context.Context, key string) ([]string, error) {
	if err := f.enter(ctx, "associated"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.keys[key]...), nil
}

func (f *fakeIndex) RangeByPrefix(ctx context.Context, first rune) ([]string, error) {
	if err := f.enter(ctx, "range"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for k := range f.keys {
		if r, _ := utf8.DecodeRuneInString(k); r == first {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

type fakeCatalog struct {
	headwords *fakeIndex
	synonyms  *fakeIndex
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{headwords: newFakeIndex(), synonyms: newFakeIndex()}
}

// addWord mirrors the write path: the headword maps to itself and each
// lower-cased synonym maps to the headword.
func (c *fakeCatalog) addWord(headword string, synonyms ...string) {
	c.headwords.put(headword, headword)
	for _, s := range synonyms {
		c.synonyms.put(Normalize(s, language.Alternate), headword)
	}
}

func (c *fakeCatalog) Index(lang language.Language) (Index, error) {
	switch lang {
	case language.Primary:
		return c.headwords, nil
	case language.Alternate:
		return c.synonyms, nil
	default:
		return nil, errors.New("no index for language")
	}
}

func (c *fakeCatalog) totalCalls() int {
	return c.headwords.total() + c.synonyms.total()
}
