package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"malformed", fmt.Errorf("resolve: %w", ErrMalformedQuery), http.StatusBadRequest},
		{"store down", fmt.Errorf("%w: exists: %w", ErrStoreUnavailable, context.DeadlineExceeded), http.StatusServiceUnavailable},
		{"timeout", ErrTimeout, http.StatusServiceUnavailable},
		{"exists", ErrWordExists, http.StatusConflict},
		{"not found", ErrWordNotFound, http.StatusNotFound},
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
		{"app error wins", New(ErrInvalidInput, http.StatusUnprocessableEntity, "bad"), http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusCode(tt.err))
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	err := Malformed("query %q mixes scripts", "catపిల్లి")
	assert.ErrorIs(t, err, ErrMalformedQuery)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Contains(t, err.Error(), "mixes scripts")
}

func TestIsRetryable(t *testing.T) {
	wrapped := fmt.Errorf("%w: range: %w", ErrStoreUnavailable, context.DeadlineExceeded)
	assert.True(t, IsRetryable(wrapped))
	assert.True(t, errors.Is(wrapped, context.DeadlineExceeded))
	assert.True(t, IsRetryable(ErrTimeout))
	assert.False(t, IsRetryable(ErrMalformedQuery))
	assert.False(t, IsRetryable(nil))
}
