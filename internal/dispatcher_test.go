package internal_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pipeline/internal"
)

// passThrough delegates and records the dispatcher position it observed.
func passThrough(seen *[]int) internal.Handler {
	return internal.HandlerFunc(func(r *http.Request, next internal.Delegate) (*internal.Response, error) {
		if d, ok := next.(*internal.Dispatcher); ok {
			*seen = append(*seen, d.Position())
		}
		return next.Process(r)
	})
}

func answer(status int) internal.Handler {
	return internal.Terminal(func(r *http.Request) (*internal.Response, error) {
		return internal.Text(status, "done"), nil
	})
}

func TestDispatcher_Process(t *testing.T) {
	t.Parallel()

	t.Run("returns the answer of the last handler", func(t *testing.T) {
		t.Parallel()

		var seen []int
		d := internal.NewDispatcher().
			Pipe(passThrough(&seen)).
			Pipe(passThrough(&seen)).
			Pipe(passThrough(&seen)).
			Pipe(answer(http.StatusOK))

		resp, err := d.Process(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.Status)
		require.Equal(t, "done", string(resp.Body))

		// Each delegation moved the cursor exactly one step.
		require.Equal(t, []int{1, 2, 3}, seen)
		require.Equal(t, 4, d.Position())
	})

	t.Run("short-circuit stops the chain", func(t *testing.T) {
		t.Parallel()

		called := false
		d := internal.NewDispatcher(
			answer(http.StatusTeapot),
			internal.Terminal(func(r *http.Request) (*internal.Response, error) {
				called = true
				return internal.Text(http.StatusOK, "late"), nil
			}),
		)

		resp, err := d.Process(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusTeapot, resp.Status)
		require.False(t, called)
		require.Equal(t, 1, d.Position())
	})

	t.Run("invokes handlers in pipe order", func(t *testing.T) {
		t.Parallel()

		var order []string
		step := func(name string) internal.Handler {
			return internal.HandlerFunc(func(r *http.Request, next internal.Delegate) (*internal.Response, error) {
				order = append(order, name)
				return next.Process(r)
			})
		}

		d := internal.NewDispatcher(step("a"), step("b"), step("c"), answer(http.StatusOK))
		_, err := d.Process(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		require.Equal(t, []string{"a", "b", "c"}, order)
	})

	t.Run("handler can modify request for the next one", func(t *testing.T) {
		t.Parallel()

		d := internal.NewDispatcher(
			internal.HandlerFunc(func(r *http.Request, next internal.Delegate) (*internal.Response, error) {
				r.Header.Set("X-Step", "first")
				return next.Process(r)
			}),
			internal.Terminal(func(r *http.Request) (*internal.Response, error) {
				return internal.Text(http.StatusOK, r.Header.Get("X-Step")), nil
			}),
		)

		resp, err := d.Process(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		require.Equal(t, "first", string(resp.Body))
	})

	t.Run("handler can decorate the response of the rest", func(t *testing.T) {
		t.Parallel()

		d := internal.NewDispatcher(
			internal.HandlerFunc(func(r *http.Request, next internal.Delegate) (*internal.Response, error) {
				resp, err := next.Process(r)
				if err != nil {
					return nil, err
				}
				resp.Header.Set("X-Decorated", "yes")
				return resp, nil
			}),
			answer(http.StatusOK),
		)

		resp, err := d.Process(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		require.Equal(t, "yes", resp.Header.Get("X-Decorated"))
	})

	t.Run("nil handlers are ignored", func(t *testing.T) {
		t.Parallel()

		d := internal.NewDispatcher(nil, answer(http.StatusOK)).Pipe(nil)
		require.Equal(t, 1, d.Len())

		resp, err := d.Process(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.Status)
	})
}

func TestDispatcher_Exhausted(t *testing.T) {
	t.Parallel()

	t.Run("empty dispatcher", func(t *testing.T) {
		t.Parallel()

		resp, err := internal.NewDispatcher().Process(httptest.NewRequest(http.MethodGet, "/", nil))
		require.ErrorIs(t, err, internal.ErrExhaustedChain)
		require.Nil(t, resp)
	})

	t.Run("every handler delegates", func(t *testing.T) {
		t.Parallel()

		var seen []int
		d := internal.NewDispatcher(passThrough(&seen), passThrough(&seen))

		_, err := d.Process(httptest.NewRequest(http.MethodPost, "/", nil))
		require.ErrorIs(t, err, internal.ErrExhaustedChain)
		require.Equal(t, []int{1, 2}, seen)
	})

	t.Run("cursor does not reset between calls", func(t *testing.T) {
		t.Parallel()

		d := internal.NewDispatcher(answer(http.StatusOK))
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		_, err := d.Process(req)
		require.NoError(t, err)

		_, err = d.Process(req)
		require.ErrorIs(t, err, internal.ErrExhaustedChain)
	})

	t.Run("reset allows reuse", func(t *testing.T) {
		t.Parallel()

		d := internal.NewDispatcher(answer(http.StatusOK))
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		_, err := d.Process(req)
		require.NoError(t, err)

		d.Reset()
		require.Equal(t, 0, d.Position())

		resp, err := d.Process(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.Status)
	})
}
