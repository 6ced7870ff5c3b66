package dictionary

import (
	"time"

	"github.com/telugupadalu/dictionary/internal/language"
)

// Entry is a headword with its sample usage, synonyms and reference links.
// Entries are created once and afterwards only grow by appended synonyms
// and links.
type Entry struct {
	Headword    string    `json:"headword" yaml:"teluguWord"`
	Sentence    string    `json:"teluguSentence" yaml:"teluguSentence"`
	Translation string    `json:"englishTranslation" yaml:"englishTranslation"`
	Synonyms    []string  `json:"synonyms" yaml:"synonyms"`
	Links       []string  `json:"links" yaml:"links"`
	CreatedAt   time.Time `json:"createdAt,omitzero" yaml:"-"`
}

// Normalized returns a copy with the headword in key form and synonyms
// lower-cased, trimmed and without duplicates or blanks.
func (e Entry) Normalized() Entry {
	e.Headword = Normalize(e.Headword, language.Primary)
	e.Synonyms = NormalizeSynonyms(e.Synonyms)
	e.Links = compact(e.Links)
	return e
}

// NormalizeSynonyms puts synonyms in synonym-index key form, dropping blanks
// and duplicates while keeping first occurrences in order.
func NormalizeSynonyms(synonyms []string) []string {
	out := make([]string, 0, len(synonyms))
	for _, s := range synonyms {
		out = append(out, Normalize(s, language.Alternate))
	}
	return compact(out)
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range dedupe(values) {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
