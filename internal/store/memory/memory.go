// Package memory is an ordered in-memory dictionary store built on B-trees.
// It backs development, the admin CLI and tests.
package memory

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/btree"
	"github.com/google/uuid"

	"github.com/telugupadalu/dictionary/internal/dictionary"
	"github.com/telugupadalu/dictionary/internal/language"
	apperrors "github.com/telugupadalu/dictionary/pkg/errors"
)

const degree = 32

// appended is one pushed child value with the id the store assigned to it.
type appended struct {
	id    uuid.UUID
	value string
}

type wordItem struct {
	headword    string
	sentence    string
	translation string
	synonyms    []appended
	links       []appended
	createdAt   time.Time
}

type synonymItem struct {
	synonym   string
	headwords []appended
}

// Store keeps headwords and the synonym index in two B-trees ordered by
// key, so prefix buckets are range scans.
type Store struct {
	mu       sync.RWMutex
	words    *btree.BTreeG[*wordItem]
	synonyms *btree.BTreeG[*synonymItem]
	now      func() time.Time
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		words: btree.NewG(degree, func(a, b *wordItem) bool {
			return a.headword < b.headword
		}),
		synonyms: btree.NewG(degree, func(a, b *synonymItem) bool {
			return a.synonym < b.synonym
		}),
		now: time.Now,
	}
}

// Index returns the headword index for Primary and the synonym index for
// Alternate.
func (s *Store) Index(lang language.Language) (dictionary.Index, error) {
	switch lang {
	case language.Primary:
		return headwordIndex{s}, nil
	case language.Alternate:
		return synonymIndex{s}, nil
	default:
		return nil, fmt.Errorf("memory store: no index for %s", lang)
	}
}

// AddWord stores a new entry and indexes its synonyms. It fails with
// ErrWordExists when the headword is already present.
func (s *Store) AddWord(_ context.Context, e dictionary.Entry) error {
	e = e.Normalized()
	if e.Headword == "" {
		return apperrors.New(apperrors.ErrInvalidInput, http.StatusBadRequest, "empty headword")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.words.Get(&wordItem{headword: e.Headword}); ok {
		return fmt.Errorf("%w: %s", apperrors.ErrWordExists, e.Headword)
	}
	item := &wordItem{
		headword:    e.Headword,
		sentence:    e.Sentence,
		translation: e.Translation,
		createdAt:   s.now().UTC(),
	}
	s.words.ReplaceOrInsert(item)
	s.appendSynonyms(item, e.Synonyms)
	item.links = appendValues(item.links, e.Links)
	return nil
}

// AppendSynonyms adds synonyms to an existing headword and indexes them.
func (s *Store) AppendSynonyms(_ context.Context, headword string, synonyms []string) error {
	headword = dictionary.Normalize(headword, language.Primary)
	synonyms = dictionary.NormalizeSynonyms(synonyms)

	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.words.Get(&wordItem{headword: headword})
	if !ok {
		return fmt.Errorf("%w: %s", apperrors.ErrWordNotFound, headword)
	}
	s.appendSynonyms(item, synonyms)
	return nil
}

// AppendLinks adds reference links to an existing headword.
func (s *Store) AppendLinks(_ context.Context, headword string, links []string) error {
	headword = dictionary.Normalize(headword, language.Primary)

	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.words.Get(&wordItem{headword: headword})
	if !ok {
		return fmt.Errorf("%w: %s", apperrors.ErrWordNotFound, headword)
	}
	item.links = appendValues(item.links, links)
	return nil
}

// GetWord returns the entry for headword.
func (s *Store) GetWord(_ context.Context, headword string) (*dictionary.Entry, error) {
	headword = dictionary.Normalize(headword, language.Primary)

	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.words.Get(&wordItem{headword: headword})
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrWordNotFound, headword)
	}
	return &dictionary.Entry{
		Headword:    item.headword,
		Sentence:    item.sentence,
		Translation: item.translation,
		Synonyms:    values(item.synonyms),
		Links:       values(item.links),
		CreatedAt:   item.createdAt,
	}, nil
}

// Len returns the number of headwords and distinct synonyms.
func (s *Store) Len() (words, synonyms int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.words.Len(), s.synonyms.Len()
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// appendSynonyms must be called with mu held.
func (s *Store) appendSynonyms(item *wordItem, synonyms []string) {
	for _, syn := range synonyms {
		if !contains(item.synonyms, syn) {
			item.synonyms = append(item.synonyms, appended{id: uuid.New(), value: syn})
		}
		idx, ok := s.synonyms.Get(&synonymItem{synonym: syn})
		if !ok {
			idx = &synonymItem{synonym: syn}
			s.synonyms.ReplaceOrInsert(idx)
		}
		if !contains(idx.headwords, item.headword) {
			idx.headwords = append(idx.headwords, appended{id: uuid.New(), value: item.headword})
		}
	}
}

func (s *Store) rangeKeys(first rune, ascend func(lo, hi string, fn func(key string) bool)) []string {
	lo, hi := dictionary.KeyRange(first)
	keys := []string{}
	s.mu.RLock()
	defer s.mu.RUnlock()
	ascend(lo, hi, func(key string) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

type headwordIndex struct{ s *Store }

func (h headwordIndex) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	h.s.mu.RLock()
	defer h.s.mu.RUnlock()
	return h.s.words.Has(&wordItem{headword: key}), nil
}

func (h headwordIndex) Associated(ctx context.Context, key string) ([]string, error) {
	ok, err := h.Exists(ctx, key)
	if err != nil || !ok {
		return []string{}, err
	}
	return []string{key}, nil
}

func (h headwordIndex) RangeByPrefix(ctx context.Context, first rune) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return h.s.rangeKeys(first, func(lo, hi string, fn func(string) bool) {
		visit := func(it *wordItem) bool { return fn(it.headword) }
		if hi == "" {
			h.s.words.AscendGreaterOrEqual(&wordItem{headword: lo}, visit)
			return
		}
		h.s.words.AscendRange(&wordItem{headword: lo}, &wordItem{headword: hi}, visit)
	}), nil
}

type synonymIndex struct{ s *Store }

func (si synonymIndex) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	si.s.mu.RLock()
	defer si.s.mu.RUnlock()
	return si.s.synonyms.Has(&synonymItem{synonym: key}), nil
}

func (si synonymIndex) Associated(ctx context.Context, key string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	si.s.mu.RLock()
	defer si.s.mu.RUnlock()
	item, ok := si.s.synonyms.Get(&synonymItem{synonym: key})
	if !ok {
		return []string{}, nil
	}
	return values(item.headwords), nil
}

func (si synonymIndex) RangeByPrefix(ctx context.Context, first rune) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return si.s.rangeKeys(first, func(lo, hi string, fn func(string) bool) {
		visit := func(it *synonymItem) bool { return fn(it.synonym) }
		if hi == "" {
			si.s.synonyms.AscendGreaterOrEqual(&synonymItem{synonym: lo}, visit)
			return
		}
		si.s.synonyms.AscendRange(&synonymItem{synonym: lo}, &synonymItem{synonym: hi}, visit)
	}), nil
}

func appendValues(list []appended, vals []string) []appended {
	for _, v := range vals {
		if v != "" && !contains(list, v) {
			list = append(list, appended{id: uuid.New(), value: v})
		}
	}
	return list
}

func contains(list []appended, v string) bool {
	for _, a := range list {
		if a.value == v {
			return true
		}
	}
	return false
}

func values(list []appended) []string {
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.value
	}
	return out
}
