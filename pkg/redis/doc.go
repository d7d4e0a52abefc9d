// Package redis bootstraps a go-redis client for the pipeline's Redis-backed
// session token store.
//
// Settings come from [Config], which carries cleanenv tags so it can be
// embedded in an application config and filled from YAML or REDIS_* variables:
//
//	type AppConfig struct {
//	    Redis redis.Config `yaml:"redis"`
//	}
//
// [Open] validates the URL (redis:// or rediss://), applies pool and timeout
// settings, and PINGs with linear backoff until RetryAttempts is spent:
//
//	client, err := redis.Open(ctx, cfg.Redis)
//	if err != nil {
//	    return err
//	}
//	tokens := cache.NewRedis[[]string](client, nil, cache.WithPrefix("csrf"))
//
// [Healthcheck] plugs into pkg/health readiness checks and [Shutdown] returns a
// hook that closes the client during graceful shutdown.
package redis
