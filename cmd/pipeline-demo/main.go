// Command pipeline-demo serves a CSRF-protected form through a handler chain.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/pipeline"
	"github.com/dmitrymomot/pipeline/middlewares"
	"github.com/dmitrymomot/pipeline/pkg/cache"
	"github.com/dmitrymomot/pipeline/pkg/health"
	"github.com/dmitrymomot/pipeline/pkg/logger"
	"github.com/dmitrymomot/pipeline/pkg/redis"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log, middlewares.RequestIDExtractor())
	if err != nil {
		return err
	}
	defer logger.Flush(2 * time.Second)

	ctx := context.Background()
	checks := health.Checks{}
	hooks := []pipeline.RunOption{
		pipeline.Address(cfg.Server.Addr),
		pipeline.Logger(log),
		pipeline.ShutdownTimeout(cfg.Server.ShutdownTimeout),
	}

	var tokens cache.Cache[[]string]
	if cfg.Redis.Enabled() {
		client, err := redis.Open(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("open redis: %w", err)
		}
		tokens = cache.NewRedis[[]string](client, nil,
			cache.WithPrefix("csrf"),
			cache.WithRedisDefaultTTL(cfg.Session.TTL),
		)
		checks["redis"] = redis.Healthcheck(client)
		hooks = append(hooks, pipeline.ShutdownHook(redis.Shutdown(client)))
		log.Info("csrf tokens stored in redis")
	} else {
		mem := cache.NewMemory[[]string](cache.WithDefaultTTL(cfg.Session.TTL))
		tokens = mem
		hooks = append(hooks, pipeline.ShutdownHook(func(context.Context) error {
			return mem.Close()
		}))
		log.Info("csrf tokens stored in memory")
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Get("/healthz", health.LivenessHandler())
	r.Get("/readyz", health.ReadinessHandler(checks, health.WithLogger(log)))
	r.Handle("/*", pipeline.NewServer(appChain(cfg, tokens, log), pipeline.WithServerLogger(log)))

	return pipeline.Run(r, hooks...)
}

// appChain is the request pipeline behind every non-health route.
func appChain(cfg *Config, tokens cache.Cache[[]string], log *slog.Logger) pipeline.Chain {
	csrfOpts := []middlewares.CSRFOption{
		middlewares.WithCSRFFormField(cfg.CSRF.FormField),
		middlewares.WithCSRFMaxTokens(cfg.CSRF.MaxTokens),
		middlewares.WithCSRFLogger(log),
	}
	if cfg.CSRF.HeaderToken {
		csrfOpts = append(csrfOpts, middlewares.WithCSRFHeader(middlewares.DefaultCSRFHeader))
	}

	return pipeline.NewChain(
		middlewares.RequestID(),
		middlewares.Recover(middlewares.WithRecoverLogger(log)),
		middlewares.Timeout(cfg.Server.RequestTimeout, middlewares.WithTimeoutLogger(log)),
		middlewares.TrailingSlash(),
		middlewares.ParseBody(middlewares.WithMaxBodyBytes(cfg.Server.MaxBodyBytes)),
		sessionCookie(cfg.Session),
		middlewares.SessionCSRF(tokenStore(tokens, cfg.Session.TTL), csrfOpts...),
		formPage(cfg.CSRF.FormField),
	)
}
