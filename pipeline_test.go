package pipeline_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pipeline"
	"github.com/dmitrymomot/pipeline/middlewares"
	"github.com/dmitrymomot/pipeline/pkg/session"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	csrf, err := middlewares.NewCSRF(session.Map{})
	require.NoError(t, err)

	app := pipeline.Terminal(func(r *http.Request) (*pipeline.Response, error) {
		if r.Method == http.MethodGet {
			token, err := middlewares.CSRFToken(r)
			if err != nil {
				return nil, err
			}
			return pipeline.Text(http.StatusOK, token), nil
		}
		return pipeline.Text(http.StatusOK, "saved "+r.PostForm.Get("name")), nil
	})

	chain := pipeline.NewChain(
		middlewares.Recover(),
		middlewares.RequestID(),
		middlewares.TrailingSlash(),
		middlewares.ParseBody(),
		csrf,
		app,
	)

	srv := httptest.NewServer(pipeline.NewServer(chain))
	t.Cleanup(srv.Close)
	return srv
}

func noRedirect(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

func TestPipeline_EndToEnd(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	client := &http.Client{CheckRedirect: noRedirect}

	get := func() string {
		resp, err := client.Get(srv.URL + "/form")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NotEmpty(t, resp.Header.Get("X-Request-ID"))

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return string(body)
	}
	post := func(form url.Values) (*http.Response, string) {
		resp, err := client.PostForm(srv.URL+"/form", form)
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp, strings.TrimSpace(string(body))
	}

	token := get()

	resp, body := post(url.Values{"_csrf": {token}, "name": {"ada"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "saved ada", body)

	resp, body = post(url.Values{"_csrf": {token}, "name": {"ada"}})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "invalid CSRF token", body)

	resp, body = post(url.Values{"name": {"ada"}})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "missing CSRF token", body)

	redirect, err := client.Get(srv.URL + "/form/")
	require.NoError(t, err)
	redirect.Body.Close()
	require.Equal(t, http.StatusMovedPermanently, redirect.StatusCode)
	require.Equal(t, "/form", redirect.Header.Get("Location"))
}

func TestPipeline_ExhaustedChain(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(pipeline.NewServer(pipeline.NewChain(middlewares.TrailingSlash())))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestChain_Nesting(t *testing.T) {
	t.Parallel()

	inner := pipeline.NewChain(middlewares.TrailingSlash())
	outer := pipeline.NewChain(inner, pipeline.Terminal(func(*http.Request) (*pipeline.Response, error) {
		return pipeline.Text(http.StatusOK, "outer"), nil
	}))

	resp, err := outer.Process(httptest.NewRequest(http.MethodGet, "/x", nil))
	require.NoError(t, err)
	require.Equal(t, "outer", string(resp.Body))
}
