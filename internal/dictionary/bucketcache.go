package dictionary

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/telugupadalu/dictionary/internal/language"
	"github.com/telugupadalu/dictionary/pkg/metrics"
)

type bucketKey struct {
	lang  language.Language
	first rune
}

// bucketCache keeps recently ranked prefix buckets. Loads that started
// before an invalidation are not stored, so an invalidated bucket is never
// repopulated with keys read before the write that invalidated it.
type bucketCache struct {
	mu      sync.Mutex
	lru     *lru.Cache[bucketKey, []string]
	gen     uint64
	metrics *metrics.Metrics
}

func newBucketCache(size int, m *metrics.Metrics) (*bucketCache, error) {
	c, err := lru.New[bucketKey, []string](size)
	if err != nil {
		return nil, err
	}
	return &bucketCache{lru: c, metrics: m}, nil
}

// get returns the cached bucket and the generation a subsequent put must
// present.
func (c *bucketCache) get(k bucketKey) ([]string, uint64, bool) {
	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()

	keys, ok := c.lru.Get(k)
	if c.metrics != nil {
		if ok {
			c.metrics.CacheHitsTotal.WithLabelValues("bucket").Inc()
		} else {
			c.metrics.CacheMissesTotal.WithLabelValues("bucket").Inc()
		}
	}
	return keys, gen, ok
}

func (c *bucketCache) put(k bucketKey, keys []string, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.lru.Add(k, keys)
}

func (c *bucketCache) invalidate(keys ...bucketKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	for _, k := range keys {
		c.lru.Remove(k)
	}
}

func (c *bucketCache) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.lru.Purge()
}

func (c *bucketCache) len() int {
	return c.lru.Len()
}
