package logger

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
)

var (
	ErrInvalidLevel  = errors.New("logger: invalid level")
	ErrInvalidFormat = errors.New("logger: invalid format")
)

// Config selects level, output format and optional Sentry reporting.
// The tags are read by cleanenv.
type Config struct {
	Level  string       `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string       `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
	Sentry SentryConfig `yaml:"sentry"`
}

// Validate checks that Level and Format are recognized.
func (c Config) Validate() error {
	if _, err := ParseLevel(c.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Format) {
	case "", "json", "text":
		return nil
	default:
		return ErrInvalidFormat
	}
}

// ParseLevel maps debug, info, warn and error (case-insensitive) to slog levels.
// An empty string is info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.Join(ErrInvalidLevel, errors.New(s))
	}
}

// New builds a stdout logger from cfg. Records carry the attributes
// returned by extractors, and go to Sentry too when a DSN is configured.
//
//	log, err := logger.New(cfg.Log, middlewares.RequestIDExtractor())
func New(cfg Config, extractors ...ContextExtractor) (*slog.Logger, error) {
	return NewWithWriter(os.Stdout, cfg, extractors...)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, cfg Config, extractors ...ContextExtractor) (*slog.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, _ := ParseLevel(cfg.Level)
	opts := &slog.HandlerOptions{Level: level}

	var base slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		base = slog.NewTextHandler(w, opts)
	} else {
		base = slog.NewJSONHandler(w, opts)
	}

	return slog.New(NewLogHandlerDecorator(withSentry(base, cfg.Sentry), extractors...)), nil
}

// NewNope creates a logger that discards all output.
// Components use it when no logger is configured.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
