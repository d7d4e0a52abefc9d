package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/dmitrymomot/pipeline/pkg/logger"
	"github.com/dmitrymomot/pipeline/pkg/redis"
)

// Config is the demo server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Session SessionConfig `yaml:"session"`
	CSRF    CSRFConfig    `yaml:"csrf"`
	Log     logger.Config `yaml:"log"`
	Redis   redis.Config  `yaml:"redis"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"             env:"HTTP_ADDR"               env-default:":8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	RequestTimeout  time.Duration `yaml:"request_timeout"  env:"SERVER_REQUEST_TIMEOUT"  env-default:"15s"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"   env:"SERVER_MAX_BODY_BYTES"   env-default:"1048576"`
}

// SessionConfig holds the session cookie settings.
type SessionConfig struct {
	CookieName string        `yaml:"cookie_name" env:"SESSION_COOKIE_NAME" env-default:"__sid"`
	TTL        time.Duration `yaml:"ttl"         env:"SESSION_TTL"         env-default:"24h"`
	Secure     bool          `yaml:"secure"      env:"SESSION_SECURE"      env-default:"false"`
}

// CSRFConfig holds CSRF middleware settings.
type CSRFConfig struct {
	MaxTokens   int    `yaml:"max_tokens"   env:"CSRF_MAX_TOKENS"   env-default:"50"`
	FormField   string `yaml:"form_field"   env:"CSRF_FORM_FIELD"   env-default:"_csrf"`
	HeaderToken bool   `yaml:"header_token" env:"CSRF_HEADER_TOKEN" env-default:"false"`
}

var (
	ErrInvalidAddr       = errors.New("config: server addr is required")
	ErrInvalidSessionTTL = errors.New("config: session ttl must be positive")
	ErrInvalidCookieName = errors.New("config: session cookie name is required")
	ErrInvalidMaxTokens  = errors.New("config: csrf max tokens must be positive")
)

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
// The YAML file path comes from CONFIG_PATH; without it only ENV and
// defaults are used.
func Load() (*Config, error) {
	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks values the tags cannot express.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, ErrInvalidAddr)
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, ErrInvalidSessionTTL)
	}
	if c.Session.CookieName == "" {
		errs = append(errs, ErrInvalidCookieName)
	}
	if c.CSRF.MaxTokens <= 0 {
		errs = append(errs, ErrInvalidMaxTokens)
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
