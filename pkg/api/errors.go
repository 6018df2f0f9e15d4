package api

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind is the closed set of failure categories the research services
// surface to the route layer. The route layer maps kinds to HTTP statuses
// without any provider-specific knowledge.
type ErrorKind string

const (
	KindInvalidAPIKey         ErrorKind = "INVALID_API_KEY"
	KindRateLimitExceeded     ErrorKind = "RATE_LIMIT_EXCEEDED"
	KindRequestTimeout        ErrorKind = "REQUEST_TIMEOUT"
	KindAPIUnavailable        ErrorKind = "API_UNAVAILABLE"
	KindCircuitBreakerOpen    ErrorKind = "CIRCUIT_BREAKER_OPEN"
	KindInvalidResponseFormat ErrorKind = "INVALID_RESPONSE_FORMAT"
	KindValidationError       ErrorKind = "VALIDATION_ERROR"
)

// Error is the typed error produced by the upstream client and the
// resilience layer. RetryAfter and QuotaRemaining are hints forwarded from
// the provider when it supplies them; QuotaRemaining is nil when the
// provider sent no quota header, so a reported zero is preserved.
type Error struct {
	Kind           ErrorKind
	Message        string
	RetryAfter     time.Duration
	QuotaRemaining *int
	cause          error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// NewError creates a typed error of the given kind.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError creates a typed error wrapping an underlying cause.
func WrapError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// KindOf extracts the error kind, defaulting to API_UNAVAILABLE for errors
// that did not originate from this package.
func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindAPIUnavailable
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// isTransient reports whether a failure may succeed on retry within the
// same request. Rate limits are excluded: they are surfaced immediately
// with their retry-after hint rather than retried blind.
func isTransient(kind ErrorKind) bool {
	return kind == KindRequestTimeout || kind == KindAPIUnavailable
}
