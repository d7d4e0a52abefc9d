package middlewares

import (
	"net/http"
	"strings"

	"github.com/dmitrymomot/pipeline/internal"
)

// TrailingSlash redirects "/path/" to "/path" with 301 Moved Permanently.
// The root path "/" and paths without a trailing slash are delegated.
// The Location carries the path only; the query string is dropped.
func TrailingSlash() internal.Handler {
	return internal.HandlerFunc(func(r *http.Request, next internal.Delegate) (*internal.Response, error) {
		path := r.URL.Path
		if len(path) > 1 && strings.HasSuffix(path, "/") {
			return internal.Redirect(http.StatusMovedPermanently, path[:len(path)-1]), nil
		}
		return next.Process(r)
	})
}
