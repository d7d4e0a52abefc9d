package middlewares

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/pipeline/pkg/id"
	"github.com/dmitrymomot/pipeline/pkg/logger"
)

const (
	DefaultCSRFSessionKey = "csrf.tokens"
	DefaultCSRFFormField  = "_csrf"
	DefaultCSRFHeader     = "X-CSRF-Token"
	DefaultCSRFMaxTokens  = 50
)

// CSRFOption configures the CSRF middleware.
type CSRFOption func(*csrfConfig)

type csrfConfig struct {
	sessionKey  string
	formField   string
	header      string
	maxTokens   int
	safeMethods map[string]struct{}
	generate    func() (string, error)
	logger      *slog.Logger
}

func newCSRFConfig(opts ...CSRFOption) *csrfConfig {
	cfg := &csrfConfig{
		sessionKey:  DefaultCSRFSessionKey,
		formField:   DefaultCSRFFormField,
		maxTokens:   DefaultCSRFMaxTokens,
		safeMethods: methodSet(http.MethodGet, http.MethodHead, http.MethodOptions),
		generate:    func() (string, error) { return id.NewToken(id.DefaultTokenBytes) },
		logger:      logger.NewNope(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithCSRFSessionKey sets the session key holding the token list.
// Default: "csrf.tokens".
func WithCSRFSessionKey(key string) CSRFOption {
	return func(cfg *csrfConfig) {
		if key != "" {
			cfg.sessionKey = key
		}
	}
}

// WithCSRFFormField sets the form field read from the parsed body.
// Default: "_csrf".
func WithCSRFFormField(field string) CSRFOption {
	return func(cfg *csrfConfig) {
		if field != "" {
			cfg.formField = field
		}
	}
}

// WithCSRFMaxTokens caps how many outstanding tokens a session keeps.
// Older tokens are evicted first. Default: 50.
func WithCSRFMaxTokens(n int) CSRFOption {
	return func(cfg *csrfConfig) {
		if n > 0 {
			cfg.maxTokens = n
		}
	}
}

// WithCSRFSafeMethods replaces the methods that pass without a token.
// Default: GET, HEAD, OPTIONS.
func WithCSRFSafeMethods(methods ...string) CSRFOption {
	return func(cfg *csrfConfig) {
		cfg.safeMethods = methodSet(methods...)
	}
}

// WithCSRFHeader lets clients send the token in a header when the form
// field is absent. An empty name uses "X-CSRF-Token". Off by default.
func WithCSRFHeader(name string) CSRFOption {
	return func(cfg *csrfConfig) {
		if name == "" {
			name = DefaultCSRFHeader
		}
		cfg.header = name
	}
}

// WithCSRFTokenGenerator replaces the random token source.
func WithCSRFTokenGenerator(gen func() (string, error)) CSRFOption {
	return func(cfg *csrfConfig) {
		if gen != nil {
			cfg.generate = gen
		}
	}
}

// WithCSRFLogger sets the logger for rejected requests and issued tokens.
func WithCSRFLogger(l *slog.Logger) CSRFOption {
	return func(cfg *csrfConfig) {
		if l != nil {
			cfg.logger = l
		}
	}
}

func methodSet(methods ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		set[strings.ToUpper(m)] = struct{}{}
	}
	return set
}
