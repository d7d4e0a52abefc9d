package internal

import (
	"io"
	"log/slog"
	"net/http"
)

// Server adapts a Chain to http.Handler.
// Each incoming request runs on its own Dispatcher, so one Server can be
// shared by every connection of an http.Server.
type Server struct {
	logger       *slog.Logger
	errorHandler ErrorHandler
	chain        Chain
}

// ServerOption configures the Server.
type ServerOption func(*Server)

// WithServerLogger sets the logger used to report chain errors.
// If nil, logging is disabled.
func WithServerLogger(l *slog.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithServerErrorHandler replaces the default error renderer.
func WithServerErrorHandler(h ErrorHandler) ServerOption {
	return func(s *Server) {
		if h != nil {
			s.errorHandler = h
		}
	}
}

// NewServer creates an http.Handler that runs every request through chain.
func NewServer(chain Chain, opts ...ServerOption) *Server {
	s := &Server{
		chain:        chain,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		errorHandler: DefaultErrorHandler,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp, err := s.chain.Process(r)
	if err == nil && resp == nil {
		err = ErrNilResponse
	}
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	if err := resp.Write(w); err != nil {
		s.logger.DebugContext(r.Context(), "failed to write response",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
	}
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)
	attrs := []any{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.Any("error", err),
	}

	// 4xx are client mistakes (missing token, bad body), 5xx are chain bugs.
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed", attrs...)
	} else {
		s.logger.WarnContext(r.Context(), "request rejected", attrs...)
	}

	s.errorHandler(w, r, err)
}

// DefaultErrorHandler renders err as plain text with the status from StatusOf.
// Only HTTPError messages reach the client; other errors render the status text.
func DefaultErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	status := StatusOf(err)
	msg := http.StatusText(status)
	if he, ok := AsHTTPError(err); ok && he.Message != "" {
		msg = he.Message
	}
	http.Error(w, msg, status)
}
