package dictionary

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/telugupadalu/dictionary/pkg/errors"
	"github.com/telugupadalu/dictionary/pkg/metrics"
	"github.com/telugupadalu/dictionary/pkg/resilience"
	"github.com/telugupadalu/dictionary/pkg/tracing"
)

// guard runs every key store access under a timeout and a circuit breaker
// and maps failures to ErrStoreUnavailable. Results are only read when the
// access completed in time; a timed-out call may still be writing them.
type guard struct {
	breaker *resilience.CircuitBreaker
	timeout time.Duration
	metrics *metrics.Metrics
}

func newGuard(name string, timeout time.Duration, cfg resilience.CircuitBreakerConfig, m *metrics.Metrics) *guard {
	cfg.IsFailure = func(err error) bool { return !errors.Is(err, context.Canceled) }
	if m != nil {
		cfg.OnStateChange = func(name string, _, to resilience.State) {
			m.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		}
	}
	return &guard{
		breaker: resilience.NewCircuitBreaker(name, cfg),
		timeout: timeout,
		metrics: m,
	}
}

func (g *guard) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	spanCtx, span := tracing.StartChildSpan(ctx, op)
	defer span.End()

	err := g.breaker.Execute(func() error {
		return resilience.WithTimeout(spanCtx, g.timeout, op, fn)
	})
	if err == nil {
		return nil
	}
	span.SetAttr("error", err.Error())
	if ctx.Err() != nil {
		return fmt.Errorf("%s: %w", op, ctx.Err())
	}
	if g.metrics != nil {
		g.metrics.StoreErrorsTotal.WithLabelValues(op).Inc()
	}
	return fmt.Errorf("%w: %s: %w", apperrors.ErrStoreUnavailable, op, err)
}

func (g *guard) exists(ctx context.Context, idx Index, key string) (bool, error) {
	var found bool
	err := g.do(ctx, "store.exists", func(ctx context.Context) error {
		var err error
		found, err = idx.Exists(ctx, key)
		return err
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

func (g *guard) associated(ctx context.Context, idx Index, key string) ([]string, error) {
	var items []string
	err := g.do(ctx, "store.associated", func(ctx context.Context) error {
		var err error
		items, err = idx.Associated(ctx, key)
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (g *guard) rangeByPrefix(ctx context.Context, idx Index, first rune) ([]string, error) {
	var keys []string
	err := g.do(ctx, "store.range", func(ctx context.Context) error {
		var err error
		keys, err = idx.RangeByPrefix(ctx, first)
		return err
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}
