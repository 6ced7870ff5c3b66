// Package validator checks add-word submissions field by field and keeps the
// editable state of an add-word form.
package validator

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/telugupadalu/dictionary/internal/ingestion"
	"github.com/telugupadalu/dictionary/internal/language"
)

const (
	maxWordLength     = 128
	maxSentenceLength = 2048
	maxSynonyms       = 64
	maxLinks          = 16
)

// ValidationError holds per-field validation failure messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s:%s", field, msg))
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

// ValidateAddWord checks a new entry: Telugu headword and sentence, English
// translation, at least one English synonym and absolute http(s) links.
func ValidateAddWord(req *ingestion.AddWordRequest) error {
	errs := make(map[string]string)

	word := strings.TrimSpace(req.TeluguWord)
	switch {
	case word == "":
		errs["teluguWord"] = "teluguWord is required"
	case !language.ValidPrimaryField(word):
		errs["teluguWord"] = "teluguWord must be written in Telugu"
	case len([]rune(word)) > maxWordLength:
		errs["teluguWord"] = fmt.Sprintf("teluguWord must be at most %d characters", maxWordLength)
	}

	sentence := strings.TrimSpace(req.TeluguSentence)
	switch {
	case sentence == "":
		errs["teluguSentence"] = "teluguSentence is required"
	case !language.ValidPrimaryField(sentence):
		errs["teluguSentence"] = "teluguSentence must be written in Telugu"
	case len([]rune(sentence)) > maxSentenceLength:
		errs["teluguSentence"] = fmt.Sprintf("teluguSentence must be at most %d characters", maxSentenceLength)
	}

	translation := strings.TrimSpace(req.EnglishTranslation)
	switch {
	case translation == "":
		errs["englishTranslation"] = "englishTranslation is required"
	case !language.ValidAlternateField(translation):
		errs["englishTranslation"] = "englishTranslation must be written in English"
	case len([]rune(translation)) > maxSentenceLength:
		errs["englishTranslation"] = fmt.Sprintf("englishTranslation must be at most %d characters", maxSentenceLength)
	}

	if msg := checkSynonyms(req.SynonymArray); msg != "" {
		errs["synonymArray"] = msg
	}
	if msg := checkLinks(req.LinkArray); msg != "" {
		errs["linkArray"] = msg
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// ValidateSynonyms checks values appended to an existing word.
func ValidateSynonyms(values []string) error {
	if msg := checkSynonyms(values); msg != "" {
		return &ValidationError{Fields: map[string]string{"values": msg}}
	}
	return nil
}

// ValidateLinks checks links appended to an existing word.
func ValidateLinks(values []string) error {
	if len(values) == 0 {
		return &ValidationError{Fields: map[string]string{"values": "at least one link is required"}}
	}
	if msg := checkLinks(values); msg != "" {
		return &ValidationError{Fields: map[string]string{"values": msg}}
	}
	return nil
}

func checkSynonyms(values []string) string {
	count := 0
	for _, s := range values {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if !language.ValidAlternateField(s) {
			return fmt.Sprintf("synonym %q must be written in English", s)
		}
		count++
	}
	switch {
	case count == 0:
		return "at least one synonym is required"
	case count > maxSynonyms:
		return fmt.Sprintf("at most %d synonyms are allowed", maxSynonyms)
	}
	return ""
}

func checkLinks(values []string) string {
	count := 0
	for _, l := range values {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		u, err := url.ParseRequestURI(l)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Sprintf("link %q must be an absolute http(s) URL", l)
		}
		count++
	}
	if count > maxLinks {
		return fmt.Sprintf("at most %d links are allowed", maxLinks)
	}
	return ""
}
