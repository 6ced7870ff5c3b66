// Package cache stores lookup results in Redis, keyed by language and the
// prefix bucket of the query so a dictionary write can drop exactly the
// results it may have changed.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/singleflight"

	"github.com/telugupadalu/dictionary/internal/dictionary"
	"github.com/telugupadalu/dictionary/internal/language"
	"github.com/telugupadalu/dictionary/pkg/metrics"
	pkgredis "github.com/telugupadalu/dictionary/pkg/redis"
)

const keyPrefix = "lookup:"

// KV is the subset of the Redis client the cache needs.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	FlushByPattern(ctx context.Context, pattern string) (int64, error)
	CountByPattern(ctx context.Context, pattern string) (int64, error)
}

var _ KV = (*pkgredis.Client)(nil)

// LookupCache holds resolved lookups. Computes that started before an
// invalidation do not store their result, so a write is never shadowed by a
// result read before it.
type LookupCache struct {
	client  KV
	ttl     time.Duration
	group   singleflight.Group
	metrics *metrics.Metrics
	logger  *slog.Logger
	hits    atomic.Int64
	misses  atomic.Int64

	// genMu is held shared across a generation check and its Set, and
	// exclusively to advance gen.
	genMu sync.RWMutex
	gen   uint64
}

// New creates a LookupCache. m may be nil.
func New(client KV, ttl time.Duration, m *metrics.Metrics) *LookupCache {
	return &LookupCache{
		client:  client,
		ttl:     ttl,
		metrics: m,
		logger:  slog.Default().With("component", "lookup-cache"),
	}
}

func (c *LookupCache) Get(ctx context.Context, lang language.Language, entry string) (*dictionary.Result, bool) {
	key, ok := BuildKey(lang, entry)
	if !ok {
		return nil, false
	}
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.miss()
		return nil, false
	}
	var result dictionary.Result
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.miss()
		return nil, false
	}
	c.hit()
	return &result, true
}

func (c *LookupCache) Set(ctx context.Context, lang language.Language, entry string, result *dictionary.Result) {
	key, ok := BuildKey(lang, entry)
	if !ok {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached result or runs computeFn once per key
// across concurrent callers. The shared compute is detached from any one
// caller's cancellation; a caller that gives up returns its own context
// error while the others keep waiting. Errors are never cached.
func (c *LookupCache) GetOrCompute(
	ctx context.Context,
	lang language.Language,
	entry string,
	computeFn func(ctx context.Context) (*dictionary.Result, error),
) (*dictionary.Result, bool, error) {
	key, ok := BuildKey(lang, entry)
	if !ok {
		res, err := computeFn(ctx)
		return res, false, err
	}
	if result, ok := c.Get(ctx, lang, entry); ok {
		return result, true, nil
	}

	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		gen := c.generation()
		result, err := computeFn(shared)
		if err != nil {
			return nil, err
		}
		c.setIfCurrent(shared, lang, entry, result, gen)
		return result, nil
	})
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.(*dictionary.Result), false, nil
	}
}

func (c *LookupCache) generation() uint64 {
	c.genMu.RLock()
	defer c.genMu.RUnlock()
	return c.gen
}

func (c *LookupCache) setIfCurrent(ctx context.Context, lang language.Language, entry string, result *dictionary.Result, gen uint64) {
	c.genMu.RLock()
	defer c.genMu.RUnlock()
	if gen != c.gen {
		c.logger.Debug("skipping cache fill after invalidation", "entry", entry)
		return
	}
	c.Set(ctx, lang, entry, result)
}

func (c *LookupCache) advance() {
	c.genMu.Lock()
	c.gen++
	c.genMu.Unlock()
}

// InvalidateBuckets drops cached lookups in the prefix buckets of keys.
func (c *LookupCache) InvalidateBuckets(ctx context.Context, lang language.Language, keys ...string) (int64, error) {
	c.advance()
	seen := make(map[string]struct{})
	var total int64
	for _, k := range keys {
		pattern, ok := bucketPattern(lang, k)
		if !ok {
			continue
		}
		if _, dup := seen[pattern]; dup {
			continue
		}
		seen[pattern] = struct{}{}
		deleted, err := c.client.FlushByPattern(ctx, pattern)
		if err != nil {
			return total, fmt.Errorf("invalidating %s: %w", pattern, err)
		}
		total += deleted
	}
	if total > 0 {
		c.logger.Debug("cache buckets invalidated", "language", lang.String(), "keys_deleted", total)
	}
	return total, nil
}

// Invalidate drops every cached lookup.
func (c *LookupCache) Invalidate(ctx context.Context) (int64, error) {
	c.advance()
	deleted, err := c.client.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return 0, fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidated", "keys_deleted", deleted)
	return deleted, nil
}

// Stats reports hit and miss counters since start and the number of cached
// keys.
func (c *LookupCache) Stats(ctx context.Context) (hits, misses, keys int64, err error) {
	keys, err = c.client.CountByPattern(ctx, keyPrefix+"*")
	return c.hits.Load(), c.misses.Load(), keys, err
}

func (c *LookupCache) hit() {
	c.hits.Add(1)
	if c.metrics != nil {
		c.metrics.CacheHitsTotal.WithLabelValues("lookup").Inc()
	}
}

func (c *LookupCache) miss() {
	c.misses.Add(1)
	if c.metrics != nil {
		c.metrics.CacheMissesTotal.WithLabelValues("lookup").Inc()
	}
}

// BuildKey returns lookup:<language>:<first rune hex>:<hash>. Entries that
// normalize to nothing have no key.
func BuildKey(lang language.Language, entry string) (string, bool) {
	q := dictionary.Normalize(entry, lang)
	first, size := utf8.DecodeRuneInString(q)
	if size == 0 {
		return "", false
	}
	hash := sha256.Sum256([]byte(q))
	return fmt.Sprintf("%s%s:%x:%x", keyPrefix, lang, first, hash[:16]), true
}

func bucketPattern(lang language.Language, key string) (string, bool) {
	q := dictionary.Normalize(key, lang)
	first, size := utf8.DecodeRuneInString(q)
	if size == 0 {
		return "", false
	}
	return fmt.Sprintf("%s%s:%x:*", keyPrefix, lang, first), true
}
