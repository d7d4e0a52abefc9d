package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type ctxKey struct{}

func requestID(ctx context.Context) (slog.Attr, bool) {
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return slog.String("request_id", v), true
	}
	return slog.Attr{}, false
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	require.ErrorIs(t, err, ErrInvalidLevel)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, Config{Level: "info", Format: "json"}.Validate())
	require.NoError(t, Config{}.Validate())
	require.ErrorIs(t, Config{Format: "xml"}.Validate(), ErrInvalidFormat)
	require.ErrorIs(t, Config{Level: "trace"}.Validate(), ErrInvalidLevel)
}

func TestNewWithWriter(t *testing.T) {
	t.Parallel()

	t.Run("json with extractor", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log, err := NewWithWriter(&buf, Config{Level: "debug", Format: "json"}, requestID, nil)
		require.NoError(t, err)

		ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
		log.DebugContext(ctx, "token issued", slog.Int("count", 3))

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		require.Equal(t, "token issued", rec["msg"])
		require.Equal(t, "req-1", rec["request_id"])
		require.EqualValues(t, 3, rec["count"])
	})

	t.Run("level filters records", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log, err := NewWithWriter(&buf, Config{Level: "warn", Format: "text"})
		require.NoError(t, err)

		log.Info("hidden")
		require.Zero(t, buf.Len())

		log.Warn("shown")
		require.Contains(t, buf.String(), "msg=shown")
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		t.Parallel()

		_, err := NewWithWriter(&bytes.Buffer{}, Config{Format: "yaml"})
		require.ErrorIs(t, err, ErrInvalidFormat)
	})
}

func TestLogHandlerDecorator(t *testing.T) {
	t.Parallel()

	t.Run("no extractors returns the handler as is", func(t *testing.T) {
		t.Parallel()

		base := slog.NewJSONHandler(&bytes.Buffer{}, nil)
		require.Same(t, base, NewLogHandlerDecorator(base, nil))
	})

	t.Run("keeps extractors through WithAttrs and WithGroup", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		h := NewLogHandlerDecorator(slog.NewJSONHandler(&buf, nil), requestID)
		log := slog.New(h).With("component", "csrf")

		ctx := context.WithValue(context.Background(), ctxKey{}, "req-2")
		log.InfoContext(ctx, "hello")

		require.Contains(t, buf.String(), `"component":"csrf"`)
		require.Contains(t, buf.String(), `"request_id":"req-2"`)
	})
}

type failing struct{ slog.Handler }

func (failing) Handle(context.Context, slog.Record) error { return errors.New("sink down") }

func TestFanout(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	f := fanout{
		slog.NewTextHandler(&a, nil),
		failing{slog.NewTextHandler(&bytes.Buffer{}, nil)},
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	}

	log := slog.New(f)
	log.Info("info")
	require.Contains(t, a.String(), "msg=info")
	require.Zero(t, b.Len(), "error-level sink skips info")

	log.Error("boom")
	require.Contains(t, a.String(), "msg=boom")
	require.Contains(t, b.String(), "msg=boom")

	err := f.Handle(context.Background(), slog.NewRecord(time.Time{}, slog.LevelError, "direct", 0))
	require.EqualError(t, err, "sink down")
}

func TestNewNope(t *testing.T) {
	t.Parallel()

	log := NewNope()
	require.False(t, log.Enabled(context.Background(), slog.LevelError))
}
