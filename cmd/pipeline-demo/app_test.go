package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pipeline"
	"github.com/dmitrymomot/pipeline/pkg/cache"
	"github.com/dmitrymomot/pipeline/pkg/logger"
)

var tokenRe = regexp.MustCompile(`name="_csrf" value="([^"]+)"`)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &Config{
		Server:  ServerConfig{RequestTimeout: 5 * time.Second, MaxBodyBytes: 1 << 20},
		Session: SessionConfig{CookieName: "__sid", TTL: time.Hour},
		CSRF:    CSRFConfig{MaxTokens: 2, FormField: "_csrf"},
	}
	tokens := cache.NewMemory[[]string]()
	t.Cleanup(func() { _ = tokens.Close() })

	log := logger.NewNope()
	srv := httptest.NewServer(pipeline.NewServer(appChain(cfg, tokens, log), pipeline.WithServerLogger(log)))
	t.Cleanup(srv.Close)
	return srv
}

// formToken loads the form and returns the session cookie and embedded token.
func formToken(t *testing.T, srv *httptest.Server, sid *http.Cookie) (*http.Cookie, string) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/", nil)
	require.NoError(t, err)
	if sid != nil {
		req.AddCookie(sid)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	m := tokenRe.FindSubmatch(body)
	require.NotNil(t, m, "form carries a token")

	if sid == nil {
		for _, c := range resp.Cookies() {
			if c.Name == "__sid" {
				sid = c
			}
		}
		require.NotNil(t, sid, "first visit sets the session cookie")
	}
	return sid, string(m[1])
}

func submit(t *testing.T, srv *httptest.Server, sid *http.Cookie, token string) (int, string) {
	t.Helper()

	form := url.Values{"name": {"Ada"}}
	if token != "" {
		form.Set("_csrf", token)
	}
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(sid)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestApp_FormRoundTrip(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	sid, token := formToken(t, srv, nil)

	status, body := submit(t, srv, sid, token)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Thanks, Ada.")

	status, _ = submit(t, srv, sid, token)
	assert.Equal(t, http.StatusForbidden, status, "tokens are single use")

	status, _ = submit(t, srv, sid, "")
	assert.Equal(t, http.StatusForbidden, status, "missing token")
}

func TestApp_TokensAreScopedToSession(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	_, token := formToken(t, srv, nil)
	other, _ := formToken(t, srv, nil)

	status, _ := submit(t, srv, other, token)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestApp_OldestTokenIsEvicted(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	sid, first := formToken(t, srv, nil)
	_, second := formToken(t, srv, sid)
	_, third := formToken(t, srv, sid)

	status, _ := submit(t, srv, sid, first)
	assert.Equal(t, http.StatusForbidden, status, "only the two newest tokens are kept")

	status, _ = submit(t, srv, sid, second)
	assert.Equal(t, http.StatusOK, status)
	status, _ = submit(t, srv, sid, third)
	assert.Equal(t, http.StatusOK, status)
}

func TestApp_TrailingSlashRedirect(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}

	resp, err := client.Get(srv.URL + "/form/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMovedPermanently, resp.StatusCode)
	assert.Equal(t, "/form", resp.Header.Get("Location"))
}

func TestApp_UnknownPath(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/missing")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
