// Package seed loads dictionary entries from YAML and writes them into a
// store.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/telugupadalu/dictionary/internal/dictionary"
	apperrors "github.com/telugupadalu/dictionary/pkg/errors"
)

// File is the layout of a seed file.
type File struct {
	Words []dictionary.Entry `yaml:"words"`
}

// Adder is the part of a word store seeding needs.
type Adder interface {
	AddWord(ctx context.Context, e dictionary.Entry) error
}

// Stats summarises an Apply run.
type Stats struct {
	Added   int
	Skipped int
}

// Load reads entries from a YAML seed file.
func Load(path string) ([]dictionary.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes seed YAML.
func Parse(data []byte) ([]dictionary.Entry, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing seed: %w", err)
	}
	for i, e := range f.Words {
		if e.Headword == "" {
			return nil, fmt.Errorf("seed entry %d: missing teluguWord", i)
		}
	}
	return f.Words, nil
}

// Apply adds every entry to store. Entries whose headword already exists are
// skipped, so seeding is repeatable.
func Apply(ctx context.Context, store Adder, entries []dictionary.Entry) (Stats, error) {
	var stats Stats
	for _, e := range entries {
		err := store.AddWord(ctx, e)
		switch {
		case err == nil:
			stats.Added++
		case errors.Is(err, apperrors.ErrWordExists):
			stats.Skipped++
		default:
			return stats, fmt.Errorf("seeding %s: %w", e.Headword, err)
		}
	}
	slog.Info("seed applied", "added", stats.Added, "skipped", stats.Skipped)
	return stats, nil
}
