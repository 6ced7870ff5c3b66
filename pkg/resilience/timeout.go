package resilience

import (
	"context"
	"fmt"
	"time"
)

// TimeoutError reports a call that outlived its limit. It unwraps to
// context.DeadlineExceeded.
type TimeoutError struct {
	Op    string
	Limit time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: no answer within %v", e.Op, e.Limit)
}

func (e *TimeoutError) Unwrap() error { return context.DeadlineExceeded }

// WithTimeout runs fn under a context bounded by limit and stops waiting
// once the limit passes. fn keeps running in the background until it
// notices the cancelled context, so callers must not read anything fn
// writes unless WithTimeout returned its error. A non-positive limit runs
// fn inline.
func WithTimeout(ctx context.Context, limit time.Duration, op string, fn func(ctx context.Context) error) error {
	if limit <= 0 {
		return fn(ctx)
	}
	bounded, cancel := context.WithTimeout(ctx, limit)
	defer cancel()

	result := make(chan error, 1)
	go func() { result <- fn(bounded) }()

	select {
	case err := <-result:
		return err
	case <-bounded.Done():
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: caller gave up: %w", op, err)
	}
	return &TimeoutError{Op: op, Limit: limit}
}
