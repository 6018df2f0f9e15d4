package api

import (
	"context"
	"sync/atomic"
	"time"
)

// ConcurrencyLimiter caps in-flight upstream calls using atomic
// compare-and-swap, keeping the client inside the provider's concurrent
// request allowance before the provider has to refuse us.
type ConcurrencyLimiter struct {
	maxConcurrent  int64
	current        int64
	acquireTimeout time.Duration

	// Metrics
	totalAcquires   int64
	timeoutFailures int64
}

func NewConcurrencyLimiter(maxConcurrent int, acquireTimeout time.Duration) *ConcurrencyLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}
	if acquireTimeout <= 0 {
		acquireTimeout = 5 * time.Second
	}
	return &ConcurrencyLimiter{
		maxConcurrent:  int64(maxConcurrent),
		acquireTimeout: acquireTimeout,
	}
}

// Acquire blocks until a permit is available or the timeout elapses.
func (cl *ConcurrencyLimiter) Acquire(ctx context.Context) error {
	atomic.AddInt64(&cl.totalAcquires, 1)

	if cl.tryAcquire() {
		return nil
	}

	deadline := time.Now().Add(cl.acquireTimeout)
	backoff := 5 * time.Millisecond

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		if cl.tryAcquire() {
			return nil
		}
		if backoff < 100*time.Millisecond {
			backoff *= 2
		}
	}

	atomic.AddInt64(&cl.timeoutFailures, 1)
	return NewError(KindRateLimitExceeded, "concurrent upstream request limit reached")
}

// Release returns a permit.
func (cl *ConcurrencyLimiter) Release() {
	atomic.AddInt64(&cl.current, -1)
}

func (cl *ConcurrencyLimiter) tryAcquire() bool {
	for {
		current := atomic.LoadInt64(&cl.current)
		if current >= cl.maxConcurrent {
			return false
		}
		if atomic.CompareAndSwapInt64(&cl.current, current, current+1) {
			return true
		}
	}
}

// InFlight returns the number of active permits.
func (cl *ConcurrencyLimiter) InFlight() int64 {
	return atomic.LoadInt64(&cl.current)
}
