// Package publisher applies dictionary writes to the key store and announces
// them on Kafka so search replicas can drop stale cached lookups.
package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/telugupadalu/dictionary/internal/analytics"
	"github.com/telugupadalu/dictionary/internal/dictionary"
	"github.com/telugupadalu/dictionary/internal/ingestion"
	"github.com/telugupadalu/dictionary/pkg/kafka"
	"github.com/telugupadalu/dictionary/pkg/metrics"
	"github.com/telugupadalu/dictionary/pkg/resilience"
)

// Publisher coordinates store writes and event production.
type Publisher struct {
	store    ingestion.WordStore
	producer kafka.Publisher
	tracker  analytics.Tracker
	metrics  *metrics.Metrics
	retry    resilience.RetryConfig
	logger   *slog.Logger
}

// New creates a Publisher. producer, tracker and m may be nil.
func New(store ingestion.WordStore, producer kafka.Publisher, tracker analytics.Tracker, m *metrics.Metrics) *Publisher {
	return &Publisher{
		store:    store,
		producer: producer,
		tracker:  tracker,
		metrics:  m,
		retry: resilience.RetryConfig{
			MaxAttempts:  3,
			InitialDelay: 50 * time.Millisecond,
			MaxDelay:     time.Second,
		},
		logger: slog.Default().With("component", "publisher"),
	}
}

// AddWord stores a new entry and publishes a WordAddedEvent. A failed
// publish is logged; the word stays stored and searchable once caches
// expire.
func (p *Publisher) AddWord(ctx context.Context, req *ingestion.AddWordRequest) (*ingestion.AddWordResponse, error) {
	entry := req.Entry().Normalized()
	if err := p.store.AddWord(ctx, entry); err != nil {
		return nil, fmt.Errorf("adding word: %w", err)
	}

	p.announce(ctx, ingestion.WordAddedEvent{
		Headword:   entry.Headword,
		NewWord:    true,
		Synonyms:   entry.Synonyms,
		OccurredAt: time.Now().UTC(),
	})
	if p.tracker != nil {
		p.tracker.Track(analytics.NewWordEvent(entry.Headword, len(entry.Synonyms)))
	}
	if p.metrics != nil {
		p.metrics.WordsAddedTotal.Inc()
	}
	return &ingestion.AddWordResponse{
		Headword: entry.Headword,
		Synonyms: entry.Synonyms,
		Status:   "CREATED",
	}, nil
}

// AppendSynonyms adds synonyms to an existing word and returns the updated
// entry.
func (p *Publisher) AppendSynonyms(ctx context.Context, headword string, synonyms []string) (*dictionary.Entry, error) {
	synonyms = dictionary.NormalizeSynonyms(synonyms)
	if err := p.store.AppendSynonyms(ctx, headword, synonyms); err != nil {
		return nil, fmt.Errorf("appending synonyms: %w", err)
	}
	entry, err := p.store.GetWord(ctx, headword)
	if err != nil {
		return nil, fmt.Errorf("reading word: %w", err)
	}
	p.announce(ctx, ingestion.WordAddedEvent{
		Headword:   entry.Headword,
		Synonyms:   synonyms,
		OccurredAt: time.Now().UTC(),
	})
	return entry, nil
}

// AppendLinks adds reference links to an existing word. Links are not
// indexed, so no event is published.
func (p *Publisher) AppendLinks(ctx context.Context, headword string, links []string) (*dictionary.Entry, error) {
	if err := p.store.AppendLinks(ctx, headword, links); err != nil {
		return nil, fmt.Errorf("appending links: %w", err)
	}
	entry, err := p.store.GetWord(ctx, headword)
	if err != nil {
		return nil, fmt.Errorf("reading word: %w", err)
	}
	return entry, nil
}

func (p *Publisher) GetWord(ctx context.Context, headword string) (*dictionary.Entry, error) {
	return p.store.GetWord(ctx, headword)
}

func (p *Publisher) announce(ctx context.Context, event ingestion.WordAddedEvent) {
	if p.producer == nil {
		return
	}
	err := resilience.Retry(ctx, "publish-word-event", p.retry, func() error {
		return p.producer.Publish(ctx, kafka.Event{Key: event.Headword, Value: event})
	})
	if err != nil {
		p.logger.Error("failed to publish word event, search caches may serve stale results until they expire",
			"headword", event.Headword,
			"error", err,
		)
	}
}
