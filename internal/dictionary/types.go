// Package dictionary resolves a query against the headword or synonym index:
// an exact hit short-circuits, otherwise the prefix bucket of the query's
// first rune is ranked by similarity and returned as an estimate.
package dictionary

import (
	"context"

	"github.com/telugupadalu/dictionary/internal/language"
)

// Kind tags a Result as an exact hit or a similarity estimate.
type Kind string

const (
	Exact    Kind = "EXACT"
	Estimate Kind = "ESTIMATE"
)

// Result is the outcome of a lookup. Items are headwords; for estimates they
// are ordered best first. An estimate with no items means no match.
type Result struct {
	Kind  Kind     `json:"type"`
	Items []string `json:"items"`
}

// Index is one ordered key space of the dictionary. For the headword index
// Associated(k) is [k]; for the synonym index it is every headword the
// synonym maps to.
type Index interface {
	Exists(ctx context.Context, key string) (bool, error)
	Associated(ctx context.Context, key string) ([]string, error)
	// RangeByPrefix returns every key whose first rune is first, in key order.
	RangeByPrefix(ctx context.Context, first rune) ([]string, error)
}

// Catalog hands out the index for a language: headwords for Primary,
// synonyms for Alternate.
type Catalog interface {
	Index(lang language.Language) (Index, error)
}
