package api

import (
	"context"
	"time"
)

// Retry executes upstream calls with exponential backoff. Retryability is
// decided from the typed error kind, not from string matching: only
// REQUEST_TIMEOUT and API_UNAVAILABLE are retried. Auth failures, rate
// limits, and malformed responses surface immediately.
type Retry struct {
	maxRetries        int
	retryDelay        time.Duration
	backoffMultiplier float64
}

func NewRetry(maxRetries int, retryDelay time.Duration) *Retry {
	return &Retry{
		maxRetries:        maxRetries,
		retryDelay:        retryDelay,
		backoffMultiplier: 2.0,
	}
}

// Execute runs fn up to maxRetries+1 times, doubling the delay per attempt.
func (r *Retry) Execute(ctx context.Context, fn func() error) error {
	var lastErr error
	delay := r.retryDelay

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == r.maxRetries {
			break
		}

		if !isTransient(KindOf(err)) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay = time.Duration(float64(delay) * r.backoffMultiplier)
	}

	return lastErr
}
