// Package invalidator drops cached lookups when the ingestion service
// announces a dictionary write.
package invalidator

import (
	"context"
	"log/slog"

	"github.com/telugupadalu/dictionary/internal/ingestion"
	"github.com/telugupadalu/dictionary/internal/language"
	"github.com/telugupadalu/dictionary/pkg/kafka"
)

// BucketInvalidator drops cached prefix buckets for new keys.
type BucketInvalidator interface {
	InvalidateBuckets(lang language.Language, keys ...string)
}

// ResultInvalidator drops cached lookup results for new keys.
type ResultInvalidator interface {
	InvalidateBuckets(ctx context.Context, lang language.Language, keys ...string) (int64, error)
}

// Handler returns a Kafka handler for word events. A new headword changes
// the Telugu bucket of its first letter; new synonyms change the English
// buckets of theirs. Either cache may be nil.
func Handler(buckets BucketInvalidator, results ResultInvalidator) kafka.MessageHandler {
	logger := slog.Default().With("component", "cache-invalidator")
	return func(ctx context.Context, key []byte, value []byte) error {
		event, err := kafka.DecodeJSON[ingestion.WordAddedEvent](value)
		if err != nil {
			logger.Error("skipping undecodable word event", "error", err)
			return nil
		}

		var headwords []string
		if event.NewWord {
			headwords = []string{event.Headword}
		}
		changes := []struct {
			lang language.Language
			keys []string
		}{
			{language.Primary, headwords},
			{language.Alternate, event.Synonyms},
		}
		for _, c := range changes {
			if len(c.keys) == 0 {
				continue
			}
			if buckets != nil {
				buckets.InvalidateBuckets(c.lang, c.keys...)
			}
			if results != nil {
				if _, err := results.InvalidateBuckets(ctx, c.lang, c.keys...); err != nil {
					logger.Warn("result cache invalidation failed", "language", c.lang.String(), "error", err)
				}
			}
		}
		logger.Debug("word event applied",
			"headword", event.Headword,
			"new_word", event.NewWord,
			"synonyms", len(event.Synonyms),
		)
		return nil
	}
}
