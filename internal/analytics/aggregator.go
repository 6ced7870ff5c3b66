package analytics

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/telugupadalu/dictionary/pkg/kafka"
)

type AggregatedStats struct {
	TotalLookups     int64            `json:"total_lookups"`
	ExactCount       int64            `json:"exact_count"`
	EstimateCount    int64            `json:"estimate_count"`
	NoMatchCount     int64            `json:"no_match_count"`
	MalformedCount   int64            `json:"malformed_count"`
	ErrorCount       int64            `json:"error_count"`
	ByLanguage       map[string]int64 `json:"by_language"`
	CacheHits        int64            `json:"cache_hits"`
	CacheMisses      int64            `json:"cache_misses"`
	CacheHitRate     float64          `json:"cache_hit_rate"`
	WordsAdded       int64            `json:"words_added"`
	AvgLatencyUs     float64          `json:"avg_latency_us"`
	P50LatencyUs     int64            `json:"p50_latency_us"`
	P95LatencyUs     int64            `json:"p95_latency_us"`
	P99LatencyUs     int64            `json:"p99_latency_us"`
	TopQueries       []QueryCount     `json:"top_queries"`
	NoMatchQueries   []QueryCount     `json:"no_match_queries"`
	LookupsPerMinute float64          `json:"lookups_per_minute"`
}

type QueryCount struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// Aggregator folds lookup and word events into running statistics. Latency
// percentiles cover the most recent window of lookups.
type Aggregator struct {
	mu             sync.RWMutex
	stats          AggregatedStats
	latencies      []int64
	next           int
	queryCounts    map[string]int64
	noMatchQueries map[string]int64
	startTime      time.Time
	logger         *slog.Logger
}

func NewAggregator(window int) *Aggregator {
	if window <= 0 {
		window = 10000
	}
	return &Aggregator{
		stats:          AggregatedStats{ByLanguage: make(map[string]int64)},
		latencies:      make([]int64, 0, window),
		queryCounts:    make(map[string]int64),
		noMatchQueries: make(map[string]int64),
		startTime:      time.Now(),
		logger:         slog.Default().With("component", "analytics-aggregator"),
	}
}

// HandleEvent decodes analytics messages by their type field. Undecodable
// messages are logged and skipped so they do not block the partition.
func HandleEvent(agg *Aggregator) kafka.MessageHandler {
	return func(ctx context.Context, key []byte, value []byte) error {
		head, err := kafka.DecodeJSON[struct {
			Type EventType `json:"type"`
		}](value)
		if err != nil {
			agg.logger.Error("failed to decode analytics event", "error", err)
			return nil
		}
		switch head.Type {
		case EventLookup:
			event, err := kafka.DecodeJSON[LookupEvent](value)
			if err != nil {
				agg.logger.Error("failed to decode lookup event", "error", err)
				return nil
			}
			agg.RecordLookup(event)
		case EventWordAdded:
			event, err := kafka.DecodeJSON[WordEvent](value)
			if err != nil {
				agg.logger.Error("failed to decode word event", "error", err)
				return nil
			}
			agg.RecordWord(event)
		default:
			agg.logger.Warn("unknown analytics event type", "type", head.Type)
		}
		return nil
	}
}

func (a *Aggregator) RecordLookup(event LookupEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := &a.stats
	s.TotalLookups++
	s.ByLanguage[event.Language]++
	if event.CacheHit {
		s.CacheHits++
	} else {
		s.CacheMisses++
	}

	switch event.Outcome {
	case "exact":
		s.ExactCount++
	case "estimate":
		s.EstimateCount++
	case "no_match":
		s.NoMatchCount++
		a.noMatchQueries[event.Query]++
	case "malformed":
		s.MalformedCount++
	default:
		s.ErrorCount++
	}
	if event.Outcome != "malformed" {
		a.queryCounts[event.Query]++
	}

	if len(a.latencies) < cap(a.latencies) {
		a.latencies = append(a.latencies, event.LatencyUs)
	} else {
		a.latencies[a.next] = event.LatencyUs
		a.next = (a.next + 1) % len(a.latencies)
	}
}

func (a *Aggregator) RecordWord(WordEvent) {
	a.mu.Lock()
	a.stats.WordsAdded++
	a.mu.Unlock()
}

func (a *Aggregator) Stats() AggregatedStats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := a.stats
	stats.ByLanguage = make(map[string]int64, len(a.stats.ByLanguage))
	for k, v := range a.stats.ByLanguage {
		stats.ByLanguage[k] = v
	}
	if total := stats.CacheHits + stats.CacheMisses; total > 0 {
		stats.CacheHitRate = float64(stats.CacheHits) / float64(total)
	}
	if len(a.latencies) > 0 {
		sorted := make([]int64, len(a.latencies))
		copy(sorted, a.latencies)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		var sum int64
		for _, l := range sorted {
			sum += l
		}
		stats.AvgLatencyUs = float64(sum) / float64(len(sorted))
		stats.P50LatencyUs = percentile(sorted, 50)
		stats.P95LatencyUs = percentile(sorted, 95)
		stats.P99LatencyUs = percentile(sorted, 99)
	}
	stats.TopQueries = topN(a.queryCounts, 10)
	stats.NoMatchQueries = topN(a.noMatchQueries, 10)
	elapsed := time.Since(a.startTime).Minutes()
	if elapsed > 0 {
		stats.LookupsPerMinute = float64(stats.TotalLookups) / elapsed
	}

	return stats
}

func percentile(sorted []int64, pct int) int64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (pct * len(sorted)) / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func topN(counts map[string]int64, n int) []QueryCount {
	result := make([]QueryCount, 0, len(counts))
	for query, count := range counts {
		result = append(result, QueryCount{Query: query, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Query < result[j].Query
	})
	if len(result) > n {
		result = result[:n]
	}
	return result
}

// Restore seeds the running counters from a persisted snapshot so totals
// survive a restart. Latency samples are not restored.
func (a *Aggregator) Restore(snapshot AggregatedStats) {
	a.mu.Lock()
	defer a.mu.Unlock()

	byLanguage := make(map[string]int64, len(snapshot.ByLanguage))
	for k, v := range snapshot.ByLanguage {
		byLanguage[k] = v
	}
	a.stats = AggregatedStats{
		TotalLookups:   snapshot.TotalLookups,
		ExactCount:     snapshot.ExactCount,
		EstimateCount:  snapshot.EstimateCount,
		NoMatchCount:   snapshot.NoMatchCount,
		MalformedCount: snapshot.MalformedCount,
		ErrorCount:     snapshot.ErrorCount,
		ByLanguage:     byLanguage,
		CacheHits:      snapshot.CacheHits,
		CacheMisses:    snapshot.CacheMisses,
		WordsAdded:     snapshot.WordsAdded,
	}
	for _, q := range snapshot.TopQueries {
		a.queryCounts[q.Query] = q.Count
	}
	for _, q := range snapshot.NoMatchQueries {
		a.noMatchQueries[q.Query] = q.Count
	}
}
