package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pipeline/middlewares"
)

func TestTrailingSlash(t *testing.T) {
	t.Parallel()

	t.Run("redirects", func(t *testing.T) {
		t.Parallel()

		cases := map[string]string{
			"/demo/":        "/demo",
			"/a/b/":         "/a/b",
			"/demo/?page=2": "/demo",
			"/double//":     "/double/",
		}
		for target, location := range cases {
			next := &mockDelegate{}
			resp, err := middlewares.TrailingSlash().Handle(httptest.NewRequest(http.MethodGet, target, nil), next)
			require.NoError(t, err)
			require.Equal(t, http.StatusMovedPermanently, resp.Status, target)
			require.Equal(t, location, resp.Header.Get("Location"), target)
			next.AssertNotCalled(t, "Process", mock.Anything)
		}
	})

	t.Run("delegates", func(t *testing.T) {
		t.Parallel()

		for _, target := range []string{"/", "/demo", "/demo?x=/"} {
			next := answering()
			resp, err := middlewares.TrailingSlash().Handle(httptest.NewRequest(http.MethodPost, target, nil), next)
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, resp.Status, target)
			next.AssertNumberOfCalls(t, "Process", 1)
		}
	})
}
