package middlewares

import (
	"net/http"

	"github.com/dmitrymomot/pipeline/internal"
	"github.com/dmitrymomot/pipeline/pkg/session"
)

// SessionResolver finds the session store of the request's client.
type SessionResolver func(r *http.Request) (session.Store, error)

// SessionCSRF builds a CSRF over the store resolved for each request.
// Use it when sessions are per client rather than one store per process.
// The resolved store should implement session.Updater (session.CacheStore
// does): the CSRF built here lives for one request, so its own mutex does
// not serialize concurrent requests of the same session.
//
//	tokens := cache.NewMemory[[]string]()
//	protect := middlewares.SessionCSRF(func(r *http.Request) (session.Store, error) {
//	    sid, err := sessionID(r)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return session.NewCacheStore(tokens, sid, 24*time.Hour), nil
//	})
func SessionCSRF(resolve SessionResolver, opts ...CSRFOption) internal.Handler {
	return internal.HandlerFunc(func(r *http.Request, next internal.Delegate) (*internal.Response, error) {
		store, err := resolve(r)
		if err != nil {
			return nil, err
		}

		c, err := NewCSRF(store, opts...)
		if err != nil {
			return nil, err
		}
		return c.Handle(r, next)
	})
}
