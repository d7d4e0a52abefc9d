package middlewares

import (
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/dmitrymomot/pipeline/internal"
)

const (
	DefaultMaxBodyBytes   int64 = 10 << 20
	DefaultMaxMultipartMemory int64 = 32 << 20
)

// BodyOption configures ParseBody.
type BodyOption func(*bodyConfig)

type bodyConfig struct {
	maxBytes  int64
	maxMemory int64
}

// WithMaxBodyBytes caps the request body size. Larger bodies fail with 413.
// Default: 10 MiB.
func WithMaxBodyBytes(n int64) BodyOption {
	return func(cfg *bodyConfig) {
		if n > 0 {
			cfg.maxBytes = n
		}
	}
}

// WithMaxMultipartMemory sets how much of a multipart body is held in memory
// before file parts spill to disk. Default: 32 MiB.
func WithMaxMultipartMemory(n int64) BodyOption {
	return func(cfg *bodyConfig) {
		if n > 0 {
			cfg.maxMemory = n
		}
	}
}

// ParseBody fills r.PostForm from urlencoded or multipart bodies so that
// later handlers (CSRF in particular) see the parsed body. Requests whose
// PostForm is already set pass through untouched. Other content types leave
// PostForm empty.
func ParseBody(opts ...BodyOption) internal.Handler {
	cfg := &bodyConfig{maxBytes: DefaultMaxBodyBytes, maxMemory: DefaultMaxMultipartMemory}
	for _, opt := range opts {
		opt(cfg)
	}

	return internal.HandlerFunc(func(r *http.Request, next internal.Delegate) (*internal.Response, error) {
		if r.PostForm != nil {
			return next.Process(r)
		}

		r = r.WithContext(r.Context())
		if r.Body != nil {
			r.Body = http.MaxBytesReader(nil, r.Body, cfg.maxBytes)
		}

		var err error
		if isMultipart(r) {
			err = r.ParseMultipartForm(cfg.maxMemory)
		} else {
			err = r.ParseForm()
		}
		if err != nil {
			return nil, bodyError(err)
		}

		return next.Process(r)
	})
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

func bodyError(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large") {
		return internal.ErrRequestEntityTooLarge("request body too large",
			internal.WithError(errors.Join(ErrBodyTooLarge, err)),
			internal.WithErrorCode("body_too_large"),
		)
	}
	return internal.ErrBadRequest("malformed request body",
		internal.WithError(errors.Join(ErrMalformedBody, err)),
		internal.WithErrorCode("body_malformed"),
	)
}
