package middlewares

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/pipeline/internal"
	"github.com/dmitrymomot/pipeline/pkg/logger"
)

// DefaultTimeout is used when Timeout gets a non-positive duration.
const DefaultTimeout = 30 * time.Second

// TimeoutOption configures the timeout middleware.
type TimeoutOption func(*timeoutConfig)

type timeoutConfig struct {
	logger *slog.Logger
}

// WithTimeoutLogger sets the logger timeouts are reported to.
func WithTimeoutLogger(l *slog.Logger) TimeoutOption {
	return func(cfg *timeoutConfig) {
		if l != nil {
			cfg.logger = l
		}
	}
}

type outcome struct {
	resp     *internal.Response
	err      error
	panicked any
}

// Timeout runs the rest of the chain with a deadline of d and answers with
// a *TimeoutError (504) when it is not done in time.
//
// The remaining handlers keep running in their goroutine after the
// deadline; they should watch r.Context().Done(). A panic in them is
// re-raised on the caller's goroutine so an outer Recover still sees it.
func Timeout(d time.Duration, opts ...TimeoutOption) internal.Handler {
	if d <= 0 {
		d = DefaultTimeout
	}
	cfg := &timeoutConfig{logger: logger.NewNope()}
	for _, opt := range opts {
		opt(cfg)
	}

	return internal.HandlerFunc(func(r *http.Request, next internal.Delegate) (*internal.Response, error) {
		ctx, cancel := context.WithTimeout(r.Context(), d)
		defer cancel()

		done := make(chan outcome, 1)
		go func() {
			var out outcome
			defer func() {
				if v := recover(); v != nil {
					out.panicked = v
				}
				done <- out
			}()
			out.resp, out.err = next.Process(r.WithContext(ctx))
		}()

		select {
		case out := <-done:
			if out.panicked != nil {
				panic(out.panicked)
			}
			return out.resp, out.err
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				cfg.logger.WarnContext(r.Context(), "request timeout",
					slog.String("path", r.URL.Path),
					slog.Duration("timeout", d),
				)
				return nil, &TimeoutError{Duration: d}
			}
			return nil, ctx.Err()
		}
	})
}
