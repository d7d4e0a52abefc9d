package cache

import "time"

// RedisOption configures the Redis cache.
type RedisOption func(*redisOptions)

type redisOptions struct {
	prefix     string
	defaultTTL time.Duration
	maxRetries int
}

func defaultRedisOptions() *redisOptions {
	return &redisOptions{
		defaultTTL: time.Hour,
		maxRetries: 10,
	}
}

// WithRedisDefaultTTL sets the expiration used when Set or Update get a zero TTL.
// Default: 1 hour.
func WithRedisDefaultTTL(d time.Duration) RedisOption {
	return func(o *redisOptions) {
		o.defaultTTL = d
	}
}

// WithPrefix namespaces all keys as "{prefix}:{key}".
func WithPrefix(prefix string) RedisOption {
	return func(o *redisOptions) {
		o.prefix = prefix
	}
}

// WithUpdateRetries sets how many times Update retries an optimistic
// transaction that lost a race. Default: 10.
func WithUpdateRetries(n int) RedisOption {
	return func(o *redisOptions) {
		if n > 0 {
			o.maxRetries = n
		}
	}
}
