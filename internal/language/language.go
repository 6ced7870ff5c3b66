// Package language classifies dictionary input as Telugu (the headword
// script) or English (the synonym script) by Unicode code point.
package language

import (
	"strings"
	"unicode/utf8"

	apperrors "github.com/telugupadalu/dictionary/pkg/errors"
)

// Language is the script class of a query or form field.
type Language int

const (
	Invalid Language = iota
	// Primary is Telugu, the script of headwords.
	Primary
	// Alternate is ASCII Latin, the script of synonyms.
	Alternate
)

const (
	teluguFirst = 0x0C00
	teluguLast  = 0x0C7F

	zwnj = '\u200c'
	zwj  = '\u200d'
)

func (l Language) String() string {
	switch l {
	case Primary:
		return "TELUGU"
	case Alternate:
		return "ENGLISH"
	default:
		return "INVALID"
	}
}

// Of returns the class of a single rune, or Invalid for neutral and foreign
// runes.
func Of(r rune) Language {
	switch {
	case r >= teluguFirst && r <= teluguLast:
		return Primary
	case (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z'):
		return Alternate
	default:
		return Invalid
	}
}

// Classify decides the language of text from its first rune only.
func Classify(text string) Language {
	r, size := utf8.DecodeRuneInString(text)
	if size == 0 || r == utf8.RuneError {
		return Invalid
	}
	return Of(r)
}

// Neutral reports whether r may appear in text of either language: space,
// ASCII digits, common punctuation and the Telugu zero-width joiners.
func Neutral(r rune) bool {
	switch r {
	case ' ', '!', '"', '\'', '(', ')', ',', '-', '.', '/', ':', ';', '?', zwnj, zwj:
		return true
	}
	return r >= '0' && r <= '9'
}

// Consistent reports whether every non-neutral rune of text belongs to the
// class of its first rune.
func Consistent(text string) bool {
	lang := Classify(text)
	if lang == Invalid {
		return false
	}
	return onlyScript(text, lang)
}

func onlyScript(text string, lang Language) bool {
	for _, r := range text {
		if Neutral(r) {
			continue
		}
		if Of(r) != lang {
			return false
		}
	}
	return true
}

func hasLetter(text string, lang Language) bool {
	for _, r := range text {
		if Of(r) == lang {
			return true
		}
	}
	return false
}

// ValidPrimaryField reports whether s contains Telugu letters and otherwise
// only neutral runes. Used for headwords and sample sentences.
func ValidPrimaryField(s string) bool {
	return hasLetter(s, Primary) && onlyScript(s, Primary)
}

// ValidAlternateField reports whether s contains Latin letters and otherwise
// only neutral runes. Used for translations and synonyms.
func ValidAlternateField(s string) bool {
	return hasLetter(s, Alternate) && onlyScript(s, Alternate)
}

// ParseParam maps the language request parameter. An empty parameter asks
// the caller to detect the language from the query.
func ParseParam(param string) (lang Language, detect bool, err error) {
	switch strings.ToUpper(strings.TrimSpace(param)) {
	case "":
		return Invalid, true, nil
	case "TELUGU":
		return Primary, false, nil
	case "ENGLISH":
		return Alternate, false, nil
	default:
		return Invalid, false, apperrors.Malformed("unknown language %q, want TELUGU or ENGLISH", param)
	}
}

// Route picks the index a query is resolved against: the explicit parameter
// when given, the query's first rune otherwise.
func Route(query, param string) (Language, error) {
	lang, detect, err := ParseParam(param)
	if err != nil {
		return Invalid, err
	}
	if !detect {
		return lang, nil
	}
	if lang = Classify(strings.TrimSpace(query)); lang == Invalid {
		return Invalid, apperrors.Malformed("cannot detect language of %q", query)
	}
	return lang, nil
}

// Within reports whether every rune of text is either neutral or of class
// lang. Empty text is within any class.
func Within(text string, lang Language) bool {
	return onlyScript(text, lang)
}
