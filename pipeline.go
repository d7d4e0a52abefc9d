package pipeline

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/pipeline/internal"
)

// Type aliases - public API
type (
	// Handler is one step of the pipeline: it answers or calls next.Process.
	Handler = internal.Handler

	// HandlerFunc adapts a function to Handler.
	HandlerFunc = internal.HandlerFunc

	// Delegate continues the chain. The Dispatcher is the Delegate.
	Delegate = internal.Delegate

	// Dispatcher is a per-request cursor over an ordered handler list.
	Dispatcher = internal.Dispatcher

	// Chain is an immutable handler list, safe to share between requests.
	Chain = internal.Chain

	// Response is what a Handler answers with.
	Response = internal.Response

	// Server runs every HTTP request through a Chain.
	Server = internal.Server

	// ServerOption configures a Server.
	ServerOption = internal.ServerOption

	// ErrorHandler renders errors returned from the chain.
	ErrorHandler = internal.ErrorHandler

	// HTTPError carries the status code an error is rendered with.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// RunOption configures Run.
	RunOption = internal.RunOption
)

// Constructors

// NewDispatcher creates a Dispatcher over handlers. Nil handlers are skipped.
//
// Example:
//
//	d := pipeline.NewDispatcher().
//	    Pipe(middlewares.TrailingSlash()).
//	    Pipe(csrf).
//	    Pipe(app)
//	resp, err := d.Process(r)
func NewDispatcher(handlers ...Handler) *Dispatcher {
	return internal.NewDispatcher(handlers...)
}

// NewChain creates an immutable chain. Each Process call runs on a fresh
// Dispatcher, so the chain can serve concurrent requests.
func NewChain(handlers ...Handler) Chain {
	return internal.NewChain(handlers...)
}

// NewServer adapts chain to http.Handler.
//
// Example:
//
//	srv := pipeline.NewServer(chain, pipeline.WithServerLogger(log))
//	err := pipeline.Run(srv, pipeline.Address(":8080"))
func NewServer(chain Chain, opts ...ServerOption) *Server {
	return internal.NewServer(chain, opts...)
}

// Terminal adapts a function that always answers into a Handler.
func Terminal(fn func(r *http.Request) (*Response, error)) Handler {
	return internal.Terminal(fn)
}

// Server options

// WithServerLogger sets the logger for chain errors (warn for 4xx, error for 5xx).
func WithServerLogger(l *slog.Logger) ServerOption {
	return internal.WithServerLogger(l)
}

// WithServerErrorHandler replaces the default error renderer.
func WithServerErrorHandler(h ErrorHandler) ServerOption {
	return internal.WithServerErrorHandler(h)
}

// DefaultErrorHandler renders HTTPError messages with their status and
// everything else as a bare status text.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	internal.DefaultErrorHandler(w, r, err)
}

// Responses

// NewResponse creates a Response with status and body.
func NewResponse(status int, body []byte) *Response {
	return internal.NewResponse(status, body)
}

// Text creates a text/plain Response.
func Text(status int, s string) *Response {
	return internal.Text(status, s)
}

// HTML creates a text/html Response.
func HTML(status int, s string) *Response {
	return internal.HTML(status, s)
}

// JSON creates an application/json Response.
func JSON(status int, v any) (*Response, error) {
	return internal.JSON(status, v)
}

// Redirect creates a Response with a Location header.
func Redirect(status int, location string) *Response {
	return internal.Redirect(status, location)
}

// Errors

// NewHTTPError creates an error rendered with code and message.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

// WithErrorCode sets an application-specific error code.
func WithErrorCode(code string) HTTPErrorOption {
	return internal.WithErrorCode(code)
}

// WithError attaches the underlying error for logging and errors.Is.
func WithError(err error) HTTPErrorOption {
	return internal.WithError(err)
}

// AsHTTPError extracts the HTTPError from an error chain.
func AsHTTPError(err error) (*HTTPError, bool) {
	return internal.AsHTTPError(err)
}

// StatusOf returns the status an error is rendered with.
func StatusOf(err error) int {
	return internal.StatusOf(err)
}

var (
	ErrExhaustedChain = internal.ErrExhaustedChain
	ErrNilResponse    = internal.ErrNilResponse
	ErrNilHandler     = internal.ErrNilHandler
	ErrEncodeResponse = internal.ErrEncodeResponse
)

// Running

// Run serves handler until SIGINT/SIGTERM and shuts down gracefully.
func Run(handler http.Handler, opts ...RunOption) error {
	return internal.Run(handler, opts...)
}

// Address sets the listen address. Defaults to ":8080".
func Address(addr string) RunOption {
	return internal.Address(addr)
}

// Logger sets the server lifecycle logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout bounds graceful shutdown. Defaults to 30 seconds.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook registers a function to run before listening.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook registers a cleanup function to run during shutdown.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets the base context; cancelling it stops the server.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}
