package api

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is wrapped into a typed CIRCUIT_BREAKER_OPEN error by the
// resilient client; exported for direct state checks in callers and tests.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState int

const (
	StateClosed CircuitState = iota
	StateOpen
	StateHalfOpen
)

// CircuitBreaker guards the upstream provider with the usual three states:
// CLOSED passes calls through, OPEN fails fast until the cooldown elapses,
// HALF_OPEN admits a single probe whose outcome decides the next state.
type CircuitBreaker struct {
	maxFailures  int
	resetTimeout time.Duration

	mu           sync.Mutex
	state        CircuitState
	failures     int
	lastFailTime time.Time
	probing      bool
}

func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        StateClosed,
	}
}

// Execute runs fn under breaker control. A context-cancelled attempt is not
// recorded as a failure so caller disconnects cannot trip the breaker.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func() error) error {
	if err := cb.acquire(); err != nil {
		return err
	}

	err := fn()
	if err != nil && ctx.Err() != nil {
		cb.recordCancelled()
		return err
	}
	cb.recordResult(err)
	return err
}

// acquire decides whether a call may proceed, transitioning OPEN to
// HALF_OPEN when the cooldown window has elapsed.
func (cb *CircuitBreaker) acquire() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return nil
	case StateOpen:
		if time.Since(cb.lastFailTime) > cb.resetTimeout {
			cb.state = StateHalfOpen
			cb.probing = true
			return nil
		}
		return ErrCircuitOpen
	case StateHalfOpen:
		// Only one probe at a time; concurrent calls fail fast.
		if cb.probing {
			return ErrCircuitOpen
		}
		cb.probing = true
		return nil
	}
	return nil
}

func (cb *CircuitBreaker) recordResult(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.failures++
		cb.lastFailTime = time.Now()

		if cb.state == StateHalfOpen {
			cb.state = StateOpen
			cb.probing = false
		} else if cb.failures >= cb.maxFailures {
			cb.state = StateOpen
		}
		return
	}

	// A single successful probe closes the circuit and resets the tally.
	cb.state = StateClosed
	cb.failures = 0
	cb.probing = false
}

// recordCancelled releases a half-open probe slot without counting the
// attempt either way.
func (cb *CircuitBreaker) recordCancelled() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == StateHalfOpen {
		cb.probing = false
	}
}

func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Failures returns the current consecutive-failure tally.
func (cb *CircuitBreaker) Failures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}
