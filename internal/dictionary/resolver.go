package dictionary

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/telugupadalu/dictionary/internal/fuzzy"
	"github.com/telugupadalu/dictionary/internal/language"
	"github.com/telugupadalu/dictionary/pkg/config"
	apperrors "github.com/telugupadalu/dictionary/pkg/errors"
	"github.com/telugupadalu/dictionary/pkg/metrics"
	"github.com/telugupadalu/dictionary/pkg/resilience"
)

// EstimatePolicy decides how a synonym estimate becomes headwords.
type EstimatePolicy string

const (
	// EstimatesMerged returns the headwords of every ranked synonym, in rank
	// order without duplicates.
	EstimatesMerged EstimatePolicy = config.EstimatesMerged
	// EstimatesTop1 returns only the headwords of the best-ranked synonym.
	EstimatesTop1 EstimatePolicy = config.EstimatesTop1
)

// Options tunes a Resolver.
type Options struct {
	Threshold         float64
	StoreTimeout      time.Duration
	Policy            EstimatePolicy
	MaxEstimates      int
	MergeConcurrency  int
	RejectMixedScript bool
	BucketCacheSize   int
	Breaker           resilience.CircuitBreakerConfig
	Metrics           *metrics.Metrics
}

// OptionsFromConfig maps the resolver config section onto Options.
func OptionsFromConfig(cfg config.ResolverConfig) Options {
	return Options{
		Threshold:         cfg.SimilarityThreshold,
		StoreTimeout:      cfg.StoreTimeout,
		Policy:            EstimatePolicy(cfg.AlternateEstimates),
		MaxEstimates:      cfg.MaxEstimates,
		MergeConcurrency:  cfg.MergeConcurrency,
		RejectMixedScript: cfg.RejectMixedScript,
		BucketCacheSize:   cfg.BucketCacheSize,
		Breaker: resilience.CircuitBreakerConfig{
			FailureThreshold: cfg.BreakerFailures,
			ResetTimeout:     cfg.BreakerReset,
		},
	}
}

// Resolver answers lookups. It holds no per-query state; concurrent Resolve
// calls are independent.
type Resolver struct {
	catalog Catalog
	matcher *fuzzy.Matcher
	guard   *guard
	buckets *bucketCache
	opts    Options
}

// NewResolver builds a Resolver over catalog.
func NewResolver(catalog Catalog, opts Options) (*Resolver, error) {
	if catalog == nil {
		return nil, fmt.Errorf("resolver: nil catalog")
	}
	switch opts.Policy {
	case "":
		opts.Policy = EstimatesMerged
	case EstimatesMerged, EstimatesTop1:
	default:
		return nil, fmt.Errorf("resolver: unknown estimate policy %q", opts.Policy)
	}
	if opts.MergeConcurrency <= 0 {
		opts.MergeConcurrency = 4
	}

	r := &Resolver{
		catalog: catalog,
		matcher: fuzzy.New(opts.Threshold),
		guard:   newGuard("key-store", opts.StoreTimeout, opts.Breaker, opts.Metrics),
		opts:    opts,
	}
	if opts.BucketCacheSize > 0 {
		bc, err := newBucketCache(opts.BucketCacheSize, opts.Metrics)
		if err != nil {
			return nil, fmt.Errorf("resolver: bucket cache: %w", err)
		}
		r.buckets = bc
	}
	return r, nil
}

// Resolve looks entry up in the index for lang. Malformed input fails before
// any store access. Store failures surface as ErrStoreUnavailable and no
// partial result is returned.
func (r *Resolver) Resolve(ctx context.Context, entry string, lang language.Language) (*Result, error) {
	start := time.Now()
	res, err := r.resolve(ctx, entry, lang)
	r.observe(lang, res, err, time.Since(start))
	return res, err
}

func (r *Resolver) resolve(ctx context.Context, entry string, lang language.Language) (*Result, error) {
	if lang == language.Invalid {
		return nil, apperrors.Malformed("no language for %q", entry)
	}
	q := Normalize(entry, lang)
	if q == "" {
		return nil, apperrors.Malformed("empty query")
	}
	if language.Classify(q) == language.Invalid {
		return nil, apperrors.Malformed("query %q must start with a Telugu or English letter", q)
	}
	if r.opts.RejectMixedScript && !language.Consistent(q) {
		return nil, apperrors.Malformed("query %q mixes scripts", q)
	}

	idx, err := r.catalog.Index(lang)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrStoreUnavailable, err)
	}

	found, err := r.guard.exists(ctx, idx, q)
	if err != nil {
		return nil, err
	}
	if found {
		if lang == language.Primary {
			return &Result{Kind: Exact, Items: []string{q}}, nil
		}
		items, err := r.guard.associated(ctx, idx, q)
		if err != nil {
			return nil, err
		}
		return &Result{Kind: Exact, Items: dedupe(items)}, nil
	}

	first, _ := utf8.DecodeRuneInString(q)
	bucket, err := r.bucket(ctx, lang, idx, first)
	if err != nil {
		return nil, err
	}
	ranked := fuzzy.Candidates(r.matcher.Rank(bucket, q))

	var items []string
	switch {
	case len(ranked) == 0:
	case lang == language.Primary:
		items = ranked
	case r.opts.Policy == EstimatesTop1:
		if items, err = r.guard.associated(ctx, idx, ranked[0]); err != nil {
			return nil, err
		}
	default:
		if items, err = r.mergeAssociated(ctx, idx, ranked); err != nil {
			return nil, err
		}
	}
	return &Result{Kind: Estimate, Items: r.capEstimates(dedupe(items))}, nil
}

// InvalidateBuckets drops cached prefix buckets after a write. Keys are the
// new key strings; the bucket of each key's first rune is dropped.
func (r *Resolver) InvalidateBuckets(lang language.Language, keys ...string) {
	if r.buckets == nil {
		return
	}
	stale := make([]bucketKey, 0, len(keys))
	for _, k := range keys {
		k = Normalize(k, lang)
		if first, size := utf8.DecodeRuneInString(k); size > 0 {
			stale = append(stale, bucketKey{lang: lang, first: first})
		}
	}
	r.buckets.invalidate(stale...)
}

// PurgeBuckets empties the bucket cache.
func (r *Resolver) PurgeBuckets() {
	if r.buckets != nil {
		r.buckets.purge()
	}
}

// CachedBuckets reports how many prefix buckets are cached.
func (r *Resolver) CachedBuckets() int {
	if r.buckets == nil {
		return 0
	}
	return r.buckets.len()
}

func (r *Resolver) bucket(ctx context.Context, lang language.Language, idx Index, first rune) ([]string, error) {
	if r.buckets == nil {
		return r.guard.rangeByPrefix(ctx, idx, first)
	}
	key := bucketKey{lang: lang, first: first}
	keys, gen, ok := r.buckets.get(key)
	if ok {
		return keys, nil
	}
	keys, err := r.guard.rangeByPrefix(ctx, idx, first)
	if err != nil {
		return nil, err
	}
	r.buckets.put(key, keys, gen)
	return keys, nil
}

// mergeAssociated fetches the headwords of every ranked synonym concurrently
// and concatenates them in rank order.
func (r *Resolver) mergeAssociated(ctx context.Context, idx Index, ranked []string) ([]string, error) {
	perKey := make([][]string, len(ranked))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.MergeConcurrency)
	for i, key := range ranked {
		g.Go(func() error {
			items, err := r.guard.associated(gctx, idx, key)
			if err != nil {
				return err
			}
			perKey[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []string
	for _, items := range perKey {
		merged = append(merged, items...)
	}
	return merged, nil
}

func (r *Resolver) capEstimates(items []string) []string {
	if r.opts.MaxEstimates > 0 && len(items) > r.opts.MaxEstimates {
		return items[:r.opts.MaxEstimates]
	}
	return items
}

func (r *Resolver) observe(lang language.Language, res *Result, err error, elapsed time.Duration) {
	m := r.opts.Metrics
	if m == nil {
		return
	}
	m.LookupsTotal.WithLabelValues(lang.String(), Outcome(res, err)).Inc()
	m.LookupLatency.WithLabelValues(lang.String()).Observe(elapsed.Seconds())
	if res != nil && res.Kind == Estimate {
		m.EstimateSize.WithLabelValues(lang.String()).Observe(float64(len(res.Items)))
	}
}

// Lookup outcomes.
const (
	OutcomeExact     = "exact"
	OutcomeEstimate  = "estimate"
	OutcomeNoMatch   = "no_match"
	OutcomeMalformed = "malformed"
	OutcomeError     = "error"
)

// Outcome classifies a Resolve return for metrics and analytics.
func Outcome(res *Result, err error) string {
	switch {
	case errors.Is(err, apperrors.ErrMalformedQuery):
		return OutcomeMalformed
	case err != nil:
		return OutcomeError
	case res.Kind == Exact:
		return OutcomeExact
	case len(res.Items) == 0:
		return OutcomeNoMatch
	default:
		return OutcomeEstimate
	}
}

// dedupe drops repeated items keeping first occurrences, and never returns
// nil.
func dedupe(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}
