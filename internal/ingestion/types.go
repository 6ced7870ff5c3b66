// Package ingestion defines the request/response types and Kafka event schemas
// used by the dictionary write path.
package ingestion

import (
	"context"
	"time"

	"github.com/telugupadalu/dictionary/internal/dictionary"
)

// AddWordRequest is the JSON body accepted by POST /api/v1/words.
type AddWordRequest struct {
	TeluguWord         string   `json:"teluguWord"`
	TeluguSentence     string   `json:"teluguSentence"`
	EnglishTranslation string   `json:"englishTranslation"`
	SynonymArray       []string `json:"synonymArray"`
	LinkArray          []string `json:"linkArray"`
}

// Entry converts the request into a dictionary entry. Values are taken as
// given; the store normalizes keys.
func (r AddWordRequest) Entry() dictionary.Entry {
	return dictionary.Entry{
		Headword:    r.TeluguWord,
		Sentence:    r.TeluguSentence,
		Translation: r.EnglishTranslation,
		Synonyms:    r.SynonymArray,
		Links:       r.LinkArray,
	}
}

// AppendRequest is the body of the synonym and link append endpoints.
type AppendRequest struct {
	Values []string `json:"values"`
}

// AddWordResponse is returned after a word is stored.
type AddWordResponse struct {
	Headword string   `json:"headword"`
	Synonyms []string `json:"synonyms"`
	Status   string   `json:"status"`
}

// WordAddedEvent is published after a write that changes an index: a new
// headword or new synonyms. Consumers use it to drop cached lookups for the
// affected prefix buckets.
type WordAddedEvent struct {
	Headword   string    `json:"headword"`
	NewWord    bool      `json:"new_word"`
	Synonyms   []string  `json:"synonyms"`
	OccurredAt time.Time `json:"occurred_at"`
}

// WordStore is the write side of the key store.
type WordStore interface {
	AddWord(ctx context.Context, e dictionary.Entry) error
	AppendSynonyms(ctx context.Context, headword string, synonyms []string) error
	AppendLinks(ctx context.Context, headword string, links []string) error
	GetWord(ctx context.Context, headword string) (*dictionary.Entry, error)
}
