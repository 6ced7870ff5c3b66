package dictionary

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/telugupadalu/dictionary/internal/language"
)

// Normalize puts s in the form keys are stored in: trimmed, NFC composed and,
// for synonyms, lower-cased.
func Normalize(s string, lang language.Language) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	if lang == language.Alternate {
		s = strings.ToLower(s)
	}
	return s
}
