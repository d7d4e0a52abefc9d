package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pipeline/pkg/logger"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "__sid", cfg.Session.CookieName)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 50, cfg.CSRF.MaxTokens)
	assert.Equal(t, "_csrf", cfg.CSRF.FormField)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("CSRF_MAX_TOKENS", "5")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 5, cfg.CSRF.MaxTokens)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Redis.Enabled())
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":7070"
session:
  cookie_name: sid
  ttl: 1h
csrf:
  max_tokens: 10
  header_token: true
`), 0o600))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "sid", cfg.Session.CookieName)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.Equal(t, 10, cfg.CSRF.MaxTokens)
	assert.True(t, cfg.CSRF.HeaderToken)
	assert.Equal(t, "_csrf", cfg.CSRF.FormField, "unset keys keep their defaults")
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	require.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := func() Config {
		return Config{
			Server:  ServerConfig{Addr: ":8080"},
			Session: SessionConfig{CookieName: "__sid", TTL: time.Hour},
			CSRF:    CSRFConfig{MaxTokens: 50},
			Log:     logger.Config{Level: "info", Format: "json"},
		}
	}

	cfg := valid()
	require.NoError(t, cfg.Validate())

	cases := map[string]struct {
		mutate func(*Config)
		want   error
	}{
		"empty addr":      {func(c *Config) { c.Server.Addr = "" }, ErrInvalidAddr},
		"zero ttl":        {func(c *Config) { c.Session.TTL = 0 }, ErrInvalidSessionTTL},
		"empty cookie":    {func(c *Config) { c.Session.CookieName = "" }, ErrInvalidCookieName},
		"zero max tokens": {func(c *Config) { c.CSRF.MaxTokens = 0 }, ErrInvalidMaxTokens},
		"bad log level":   {func(c *Config) { c.Log.Level = "loud" }, logger.ErrInvalidLevel},
		"bad log format":  {func(c *Config) { c.Log.Format = "xml" }, logger.ErrInvalidFormat},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tc.mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), tc.want)
		})
	}
}
