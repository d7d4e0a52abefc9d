package middlewares

import (
	"log/slog"
	"net/http"
	"runtime"

	"github.com/dmitrymomot/pipeline/internal"
	"github.com/dmitrymomot/pipeline/pkg/logger"
)

// DefaultStackSize is the default maximum stack trace size in bytes.
const DefaultStackSize = 4096

// RecoverConfig configures the recover middleware.
type RecoverConfig struct {
	Logger            *slog.Logger
	StackSize         int  // Max stack trace size (default: 4096)
	DisablePrintStack bool // Disable stack trace capture
}

// RecoverOption configures RecoverConfig.
type RecoverOption func(*RecoverConfig)

// WithRecoverStackSize sets the maximum stack trace size.
func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *RecoverConfig) {
		if size > 0 {
			cfg.StackSize = size
		}
	}
}

// WithRecoverDisablePrintStack disables stack trace capture.
func WithRecoverDisablePrintStack() RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.DisablePrintStack = true
	}
}

// WithRecoverLogger sets the logger recovered panics are reported to.
func WithRecoverLogger(l *slog.Logger) RecoverOption {
	return func(cfg *RecoverConfig) {
		if l != nil {
			cfg.Logger = l
		}
	}
}

// Recover turns a panic anywhere later in the chain into a *PanicError,
// which the Server renders as 500. http.ErrAbortHandler is re-raised.
func Recover(opts ...RecoverOption) internal.Handler {
	cfg := &RecoverConfig{StackSize: DefaultStackSize, Logger: logger.NewNope()}
	for _, opt := range opts {
		opt(cfg)
	}

	return internal.HandlerFunc(func(r *http.Request, next internal.Delegate) (resp *internal.Response, err error) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}

			attrs := []any{slog.Any("panic", v), slog.String("path", r.URL.Path)}
			var stack []byte
			if !cfg.DisablePrintStack {
				stack = make([]byte, cfg.StackSize)
				stack = stack[:runtime.Stack(stack, false)]
				attrs = append(attrs, slog.String("stack", string(stack)))
			}
			cfg.Logger.ErrorContext(r.Context(), "panic recovered", attrs...)

			resp, err = nil, &PanicError{Value: v, Stack: stack}
		}()

		return next.Process(r)
	})
}
