package middlewares

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"sync"

	"github.com/dmitrymomot/pipeline/internal"
	"github.com/dmitrymomot/pipeline/pkg/session"
)

// CSRF protects unsafe requests with single-use tokens stored in a session.
//
// Each GenerateToken call appends a random token to the session's list,
// evicting the oldest once the list holds MaxTokens entries. An unsafe
// request must carry one of the outstanding tokens in its parsed body;
// the token is removed as it is accepted, so a replay fails.
//
// Read-modify-write of the token list goes through session.Updater when
// the store implements it, and through a mutex owned by the CSRF otherwise.
type CSRF struct {
	store   session.Store
	updater session.Updater
	cfg     *csrfConfig
	mu      sync.Mutex
}

// NewCSRF creates the middleware over store. A nil store, or an adapter
// wrapping a nil value, fails with session.ErrNotAssociative.
//
//	csrf, err := middlewares.NewCSRF(session.Map{})
//	chain := pipeline.NewChain(middlewares.ParseBody(), csrf, app)
func NewCSRF(store session.Store, opts ...CSRFOption) (*CSRF, error) {
	if err := session.Check(store); err != nil {
		return nil, err
	}

	c := &CSRF{store: store, cfg: newCSRFConfig(opts...)}
	if u, ok := store.(session.Updater); ok {
		c.updater = u
	}
	return c, nil
}

// SessionKey returns the session key the token list is stored under.
func (c *CSRF) SessionKey() string {
	return c.cfg.sessionKey
}

// Tokens returns the outstanding tokens, oldest first.
func (c *CSRF) Tokens(ctx context.Context) ([]string, error) {
	return c.store.Get(ctx, c.cfg.sessionKey)
}

// GenerateToken issues a new token and records it in the session.
func (c *CSRF) GenerateToken(ctx context.Context) (string, error) {
	token, err := c.cfg.generate()
	if err != nil {
		return "", err
	}

	err = c.update(ctx, func(list []string, _ bool) ([]string, error) {
		list = append(slices.Clone(list), token)
		if over := len(list) - c.cfg.maxTokens; over > 0 {
			list = slices.Clone(list[over:])
		}
		return list, nil
	})
	if err != nil {
		return "", err
	}

	c.cfg.logger.DebugContext(ctx, "csrf token issued", slog.String("session_key", c.cfg.sessionKey))
	return token, nil
}

// Handle lets safe methods through and validates the token of every other
// request before delegating. The CSRF is available to the rest of the chain
// through CSRFFromContext.
func (c *CSRF) Handle(r *http.Request, next internal.Delegate) (*internal.Response, error) {
	r = r.WithContext(context.WithValue(r.Context(), csrfKey{}, c))

	if _, safe := c.cfg.safeMethods[r.Method]; safe {
		return next.Process(r)
	}

	token, ok := c.extract(r)
	if !ok {
		c.reject(r, ErrNoCSRFToken)
		return nil, internal.ErrForbidden("missing CSRF token",
			internal.WithError(ErrNoCSRFToken),
			internal.WithErrorCode("csrf_missing"),
		)
	}

	if err := c.consume(r.Context(), token); err != nil {
		if !errors.Is(err, ErrInvalidCSRFToken) {
			return nil, err
		}
		c.reject(r, err)
		return nil, internal.ErrForbidden("invalid CSRF token",
			internal.WithError(ErrInvalidCSRFToken),
			internal.WithErrorCode("csrf_invalid"),
		)
	}

	return next.Process(r)
}

// extract reads the token from the parsed body, then from the header when
// enabled. A present but empty value still counts as a token.
func (c *CSRF) extract(r *http.Request) (string, bool) {
	if values, ok := r.PostForm[c.cfg.formField]; ok && len(values) > 0 {
		return values[0], true
	}
	if c.cfg.header != "" {
		if values := r.Header.Values(c.cfg.header); len(values) > 0 {
			return values[0], true
		}
	}
	return "", false
}

// consume removes token from the session list.
func (c *CSRF) consume(ctx context.Context, token string) error {
	return c.update(ctx, func(list []string, found bool) ([]string, error) {
		if !found {
			return nil, ErrInvalidCSRFToken
		}
		idx := indexOf(list, token)
		if idx < 0 {
			return nil, ErrInvalidCSRFToken
		}
		return slices.Delete(slices.Clone(list), idx, idx+1), nil
	})
}

func (c *CSRF) update(ctx context.Context, fn session.UpdateFunc) error {
	if c.updater != nil {
		return c.updater.Update(ctx, c.cfg.sessionKey, fn)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	found, err := c.store.Has(ctx, c.cfg.sessionKey)
	if err != nil {
		return err
	}
	current, err := c.store.Get(ctx, c.cfg.sessionKey)
	if err != nil {
		return err
	}

	next, err := fn(current, found)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, c.cfg.sessionKey, next)
}

func (c *CSRF) reject(r *http.Request, reason error) {
	c.cfg.logger.WarnContext(r.Context(), "csrf check failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("reason", reason.Error()),
	)
}

// indexOf compares token against every entry in constant time per entry.
func indexOf(list []string, token string) int {
	idx := -1
	for i, t := range list {
		if subtle.ConstantTimeCompare([]byte(t), []byte(token)) == 1 && idx < 0 {
			idx = i
		}
	}
	return idx
}

type csrfKey struct{}

// CSRFFromContext returns the CSRF middleware that handled the request.
func CSRFFromContext(ctx context.Context) (*CSRF, bool) {
	c, ok := ctx.Value(csrfKey{}).(*CSRF)
	return c, ok
}

// CSRFToken issues a token for embedding in a form rendered by r's handler.
func CSRFToken(r *http.Request) (string, error) {
	c, ok := CSRFFromContext(r.Context())
	if !ok {
		return "", ErrCSRFNotConfigured
	}
	return c.GenerateToken(r.Context())
}

var _ internal.Handler = (*CSRF)(nil)
