package dictionary

import (
	"unicode"
	"unicode/utf8"
)

// KeyRange returns the half-open key interval [lo, hi) holding every string
// whose first rune is r. UTF-8 byte order matches code point order, so the
// interval works for byte-ordered stores and COLLATE "C" columns alike. hi is
// empty when the interval is unbounded above.
func KeyRange(r rune) (lo, hi string) {
	if !utf8.ValidRune(r) {
		r = utf8.RuneError
	}
	lo = string(r)
	next := r + 1
	if next == 0xD800 {
		next = 0xE000
	}
	if next > unicode.MaxRune {
		return lo, ""
	}
	return lo, string(next)
}
