package internal

import (
	"errors"
	"net/http"
)

// Pipeline errors.
var (
	// ErrExhaustedChain is returned by Dispatcher.Process when every handler
	// delegated and none answered. It signals a chain built without a
	// terminal handler.
	ErrExhaustedChain = errors.New("pipeline: no middleware intercepted the request")

	// ErrNilResponse is reported by Server when the chain returned
	// neither a response nor an error.
	ErrNilResponse = errors.New("pipeline: handler returned nil response")

	// ErrNilHandler is returned by Run when no handler is given.
	ErrNilHandler = errors.New("pipeline: nil handler")

	// ErrEncodeResponse is returned when a response body cannot be encoded.
	ErrEncodeResponse = errors.New("pipeline: failed to encode response")
)

// HTTPError is an error that carries the status code it should be rendered with.
type HTTPError struct {
	// Err is the underlying error (for logging and errors.Is, not exposed to users).
	Err error

	// Message is the user-facing error message.
	Message string

	// ErrorCode is an application-specific error code for client handling.
	ErrorCode string

	// Code is the HTTP status code.
	Code int
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code.
func (e *HTTPError) StatusCode() int {
	return e.Code
}

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

// NewHTTPError creates a new HTTPError with the given status code and message.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	e := &HTTPError{
		Code:    code,
		Message: message,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func WithErrorCode(code string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.ErrorCode = code
	}
}

func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Err = err
	}
}

// Convenience constructors for the errors the pipeline produces.

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, opts...)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusForbidden, message, opts...)
}

func ErrRequestEntityTooLarge(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusRequestEntityTooLarge, message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message, opts...)
}

// AsHTTPError extracts the HTTPError from an error chain if present.
func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}

// StatusOf returns the HTTP status an error should be rendered with.
// Errors exposing StatusCode() anywhere in their chain use it;
// everything else, ErrExhaustedChain included, maps to 500.
func StatusOf(err error) int {
	var sc interface{ StatusCode() int }
	if errors.As(err, &sc) {
		if code := sc.StatusCode(); code >= 400 && code <= 599 {
			return code
		}
	}
	return http.StatusInternalServerError
}
