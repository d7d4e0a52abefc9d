package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a cache backed by Redis.
// It serializes values using the configured Marshaler (default: JSON).
type Redis[V any] struct {
	client    redis.UniversalClient
	opts      *redisOptions
	marshaler Marshaler[V]
}

// NewRedis creates a new Redis-backed cache.
// The client should be obtained from pkg/redis.Open.
//
// An optional Marshaler can be provided to customize serialization.
// If nil, JSON serialization is used.
//
// Example:
//
//	client, err := redis.Open(ctx, cfg.Redis)
//	tokens := cache.NewRedis[[]string](client, nil,
//	    cache.WithPrefix("sessions"),
//	    cache.WithRedisDefaultTTL(24 * time.Hour),
//	)
func NewRedis[V any](client redis.UniversalClient, m Marshaler[V], opts ...RedisOption) *Redis[V] {
	o := defaultRedisOptions()
	for _, opt := range opts {
		opt(o)
	}

	if m == nil {
		m = jsonMarshaler[V]{}
	}

	return &Redis[V]{
		client:    client,
		opts:      o,
		marshaler: m,
	}
}

// Get retrieves a value by key from Redis.
// Returns ErrNotFound if the key does not exist.
func (r *Redis[V]) Get(ctx context.Context, key string) (V, error) {
	v, found, err := r.read(ctx, r.client, r.prefixedKey(key))
	if err != nil {
		return v, err
	}
	if !found {
		return v, ErrNotFound
	}
	return v, nil
}

// Set stores a value in Redis with the given TTL.
// A negative TTL stores the key without expiration.
func (r *Redis[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	data, err := r.marshaler.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.prefixedKey(key), data, r.redisTTL(ttl)).Err()
}

// Update applies fn to the current value of key inside a WATCH/MULTI
// transaction. When another client modifies the key between the read and
// the write, the transaction is retried; after the configured number of
// attempts Update gives up with ErrConflict.
func (r *Redis[V]) Update(ctx context.Context, key string, ttl time.Duration, fn UpdateFunc[V]) error {
	k := r.prefixedKey(key)

	txf := func(tx *redis.Tx) error {
		current, found, err := r.read(ctx, tx, k)
		if err != nil {
			return err
		}

		next, err := fn(current, found)
		if err != nil {
			return err
		}

		data, err := r.marshaler.Marshal(next)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, data, r.redisTTL(ttl))
			return nil
		})
		return err
	}

	for range max(r.opts.maxRetries, 1) {
		err := r.client.Watch(ctx, txf, k)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}

	return ErrConflict
}

// Delete removes a key from Redis.
func (r *Redis[V]) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefixedKey(key)).Err()
}

// Has checks whether a key exists in Redis.
func (r *Redis[V]) Has(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefixedKey(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Clear removes all cache entries.
// With a prefix only matching keys are removed (SCAN + DEL); without one FLUSHDB is used.
func (r *Redis[V]) Clear(ctx context.Context) error {
	if r.opts.prefix == "" {
		return r.client.FlushDB(ctx).Err()
	}

	pattern := r.opts.prefix + ":*"
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if cursor = next; cursor == 0 {
			return nil
		}
	}
}

// Close is a no-op. The client lifecycle belongs to the caller (see pkg/redis.Shutdown).
func (r *Redis[V]) Close() error {
	return nil
}

// getter is satisfied by both the client and a watching *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// read fetches and decodes key. found is false on a miss.
func (r *Redis[V]) read(ctx context.Context, cmd getter, key string) (V, bool, error) {
	var zero V

	data, err := cmd.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}

	v, err := r.marshaler.Unmarshal(data)
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

// redisTTL maps cache TTL semantics onto Redis, where 0 means "no expiration".
func (r *Redis[V]) redisTTL(ttl time.Duration) time.Duration {
	if ttl == 0 {
		ttl = r.opts.defaultTTL
	}
	return max(ttl, 0)
}

func (r *Redis[V]) prefixedKey(key string) string {
	if r.opts.prefix == "" {
		return key
	}
	return r.opts.prefix + ":" + key
}

var (
	_ Cache[any]   = (*Redis[any])(nil)
	_ Updater[any] = (*Redis[any])(nil)
)
