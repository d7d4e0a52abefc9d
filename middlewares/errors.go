package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// CSRF errors. Handle returns them wrapped in a 403 internal.HTTPError;
// match with errors.Is.
var (
	// ErrNoCSRFToken means an unsafe request carried no token at all.
	ErrNoCSRFToken = errors.New("middlewares: missing CSRF token")

	// ErrInvalidCSRFToken means the token is not among the session's
	// outstanding tokens (never issued, evicted, or already used).
	ErrInvalidCSRFToken = errors.New("middlewares: invalid CSRF token")

	// ErrCSRFNotConfigured is returned by CSRFToken when no CSRF
	// middleware ran before the handler.
	ErrCSRFNotConfigured = errors.New("middlewares: CSRF middleware not configured")
)

// Body parsing errors, wrapped in 413 and 400 HTTP errors respectively.
var (
	ErrBodyTooLarge  = errors.New("middlewares: request body too large")
	ErrMalformedBody = errors.New("middlewares: malformed request body")
)

// PanicError represents a recovered panic.
type PanicError struct {
	Value any    // The panic value
	Stack []byte // Stack trace (nil if disabled)
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// StatusCode maps a recovered panic to 500.
func (e *PanicError) StatusCode() int {
	return http.StatusInternalServerError
}

// TimeoutError represents a request that ran past its deadline.
type TimeoutError struct {
	Duration time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timeout after %s", e.Duration)
}

// StatusCode maps a timeout to 504.
func (e *TimeoutError) StatusCode() int {
	return http.StatusGatewayTimeout
}

// IsPanicError returns true if the error is a PanicError.
func IsPanicError(err error) bool {
	_, ok := AsPanicError(err)
	return ok
}

// IsTimeoutError returns true if the error is a TimeoutError.
func IsTimeoutError(err error) bool {
	_, ok := AsTimeoutError(err)
	return ok
}

// AsPanicError extracts the PanicError from an error if present.
func AsPanicError(err error) (*PanicError, bool) {
	var pe *PanicError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// AsTimeoutError extracts the TimeoutError from an error if present.
func AsTimeoutError(err error) (*TimeoutError, bool) {
	var te *TimeoutError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
