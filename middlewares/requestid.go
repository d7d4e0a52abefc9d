package middlewares

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/pipeline/internal"
	"github.com/dmitrymomot/pipeline/pkg/id"
	"github.com/dmitrymomot/pipeline/pkg/logger"
)

type requestIDKey struct{}

// DefaultRequestIDHeaders are the headers checked (in order) for an existing request ID.
var DefaultRequestIDHeaders = []string{"X-Request-ID", "X-Correlation-ID"}

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	Generator      func() string // ID generator function
	ResponseHeader string        // Response header name
	Headers        []string      // Headers to check for existing ID (in order)
}

// RequestIDOption configures RequestIDConfig.
type RequestIDOption func(*RequestIDConfig)

// WithRequestIDHeaders sets the headers to check for existing request IDs.
func WithRequestIDHeaders(headers ...string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.Headers = headers
	}
}

// WithRequestIDGenerator sets a custom ID generator function.
func WithRequestIDGenerator(gen func() string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		if gen != nil {
			cfg.Generator = gen
		}
	}
}

// WithRequestIDResponseHeader sets the response header name.
func WithRequestIDResponseHeader(header string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.ResponseHeader = header
	}
}

// RequestID stores a request ID in the request context and echoes it on
// the response. An incoming header value is reused to keep upstream
// tracing intact; otherwise a ULID is generated.
func RequestID(opts ...RequestIDOption) internal.Handler {
	cfg := &RequestIDConfig{
		Headers:        DefaultRequestIDHeaders,
		Generator:      id.NewULID,
		ResponseHeader: "X-Request-ID",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return internal.HandlerFunc(func(r *http.Request, next internal.Delegate) (*internal.Response, error) {
		var reqID string
		for _, header := range cfg.Headers {
			if v := r.Header.Get(header); v != "" {
				reqID = v
				break
			}
		}
		if reqID == "" {
			reqID = cfg.Generator()
		}

		resp, err := next.Process(r.WithContext(context.WithValue(r.Context(), requestIDKey{}, reqID)))
		if resp != nil && cfg.ResponseHeader != "" {
			if resp.Header == nil {
				resp.Header = make(http.Header)
			}
			resp.Header.Set(cfg.ResponseHeader, reqID)
		}
		return resp, err
	})
}

// GetRequestID returns the request ID stored in ctx, or "".
func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey{}).(string)
	return v
}

// RequestIDExtractor adds "request_id" to every log record written with
// a request context.
func RequestIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v := GetRequestID(ctx); v != "" {
			return slog.String("request_id", v), true
		}
		return slog.Attr{}, false
	}
}
