package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/pipeline"
	"github.com/dmitrymomot/pipeline/pkg/cache"
	"github.com/dmitrymomot/pipeline/pkg/session"
)

var errNoSession = errors.New("demo: no session on request")

type sessionIDKey struct{}

// sessionCookie gives every client a session ID cookie. A missing or
// malformed cookie starts a new session; the cookie is set on the response.
func sessionCookie(cfg SessionConfig) pipeline.Handler {
	return pipeline.HandlerFunc(func(r *http.Request, next pipeline.Delegate) (*pipeline.Response, error) {
		sid, fresh := "", false
		if c, err := r.Cookie(cfg.CookieName); err == nil {
			if id, err := uuid.Parse(c.Value); err == nil {
				sid = id.String()
			}
		}
		if sid == "" {
			sid, fresh = uuid.NewString(), true
		}

		resp, err := next.Process(r.WithContext(context.WithValue(r.Context(), sessionIDKey{}, sid)))
		if resp != nil && fresh {
			resp.SetCookie(&http.Cookie{
				Name:     cfg.CookieName,
				Value:    sid,
				Path:     "/",
				MaxAge:   int(cfg.TTL / time.Second),
				HttpOnly: true,
				Secure:   cfg.Secure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		return resp, err
	})
}

// tokenStore resolves the CSRF token list of the request's session.
func tokenStore(tokens cache.Cache[[]string], ttl time.Duration) func(r *http.Request) (session.Store, error) {
	return func(r *http.Request) (session.Store, error) {
		sid, ok := r.Context().Value(sessionIDKey{}).(string)
		if !ok || sid == "" {
			return nil, errNoSession
		}
		return session.NewCacheStore(tokens, sid, ttl), nil
	}
}
