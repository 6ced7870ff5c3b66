package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter(window time.Duration) (*Limiter, *time.Time) {
	l := New(window)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }
	return l, &clock
}

func TestAllow_ExhaustsAndRefills(t *testing.T) {
	l, clock := newTestLimiter(time.Minute)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("10.0.0.1", 3), "request %d", i)
	}
	assert.False(t, l.Allow("10.0.0.1", 3))
	assert.True(t, l.Allow("10.0.0.2", 3), "keys are independent")

	*clock = clock.Add(30 * time.Second)
	assert.True(t, l.Allow("10.0.0.1", 3), "one token refilled")
	assert.False(t, l.Allow("10.0.0.1", 3))
}

func TestAllow_NonPositiveLimitDisables(t *testing.T) {
	l, _ := newTestLimiter(time.Minute)
	defer l.Stop()
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("k", 0))
	}
}

func TestReset(t *testing.T) {
	l, _ := newTestLimiter(time.Minute)
	defer l.Stop()
	assert.True(t, l.Allow("k", 1))
	assert.False(t, l.Allow("k", 1))
	l.Reset("k")
	assert.True(t, l.Allow("k", 1))
}

func TestSweepDropsStaleEntries(t *testing.T) {
	l, clock := newTestLimiter(time.Minute)
	defer l.Stop()
	l.Allow("old", 5)
	*clock = clock.Add(3 * time.Minute)
	l.Allow("fresh", 5)

	l.sweep()
	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.entries, "old")
	assert.Contains(t, l.entries, "fresh")
}
