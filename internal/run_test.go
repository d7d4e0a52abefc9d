package internal_test

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pipeline/internal"
)

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("nil handler", func(t *testing.T) {
		t.Parallel()

		require.ErrorIs(t, internal.Run(nil), internal.ErrNilHandler)
	})

	t.Run("runs hooks and stops on cancel", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		var started, stopped atomic.Bool

		done := make(chan error, 1)
		go func() {
			done <- internal.Run(http.NotFoundHandler(),
				internal.Address("127.0.0.1:0"),
				internal.WithContext(ctx),
				internal.ShutdownTimeout(time.Second),
				internal.StartupHook(func(context.Context) error {
					started.Store(true)
					return nil
				}),
				internal.ShutdownHook(func(context.Context) error {
					stopped.Store(true)
					return nil
				}),
			)
		}()

		require.Eventually(t, started.Load, time.Second, 5*time.Millisecond)
		cancel()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("server did not stop")
		}
		require.True(t, stopped.Load())
	})

	t.Run("startup hook error aborts", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		err := internal.Run(http.NotFoundHandler(),
			internal.Address("127.0.0.1:0"),
			internal.StartupHook(func(context.Context) error { return boom }),
		)
		require.ErrorIs(t, err, boom)
	})

	t.Run("shutdown hook errors are joined", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		first, second := errors.New("first"), errors.New("second")
		err := internal.Run(http.NotFoundHandler(),
			internal.Address("127.0.0.1:0"),
			internal.WithContext(ctx),
			internal.ShutdownHook(func(context.Context) error { return first }),
			internal.ShutdownHook(func(context.Context) error { return second }),
		)
		require.ErrorIs(t, err, first)
		require.ErrorIs(t, err, second)
	})

	t.Run("listen error", func(t *testing.T) {
		t.Parallel()

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		defer ln.Close()

		err = internal.Run(http.NotFoundHandler(), internal.Address(ln.Addr().String()))
		require.Error(t, err)
	})
}
