// Package cache provides a generic Cache interface with in-memory and Redis implementations.
//
// The pipeline uses it as the backing store for session token lists
// (see pkg/session.NewCacheStore), but the interface is general:
//
//   - Get(ctx, key) (V, error) - retrieve a value, ErrNotFound on miss
//   - Set(ctx, key, value, ttl) error - store a value with TTL
//   - Delete(ctx, key) error - remove a key
//   - Has(ctx, key) (bool, error) - check existence
//   - Clear(ctx) error - remove all entries
//   - Close() error - release resources
//
// TTL semantics:
//   - Positive duration: item expires after this duration
//   - Zero: use the cache's configured default TTL (1 hour by default)
//   - Negative: item never expires
//
// # Atomic updates
//
// Both implementations also satisfy [Updater]. Update runs a
// read-modify-write on a single key without losing concurrent writes:
//
//	err := tokens.Update(ctx, key, 0, func(list []string, found bool) ([]string, error) {
//	    return append(list, token), nil
//	})
//
// [Memory] holds its mutex for the whole callback. [Redis] uses WATCH/MULTI
// and retries the callback when the key changed underneath it, returning
// ErrConflict once the retry budget is spent. The callback may run more than
// once with Redis, so it must not have side effects beyond its return value.
//
// # In-Memory Cache
//
//	c := cache.NewMemory[[]string](
//	    cache.WithDefaultTTL(24 * time.Hour),
//	    cache.WithCleanupInterval(time.Minute),
//	    cache.WithMaxEntries(100_000),
//	)
//	defer c.Close()
//
// # Redis Cache
//
//	client, _ := redis.Open(ctx, cfg)
//	c := cache.NewRedis[[]string](client, nil, cache.WithPrefix("csrf"))
//
// Values are JSON-encoded unless a custom [Marshaler] is passed to NewRedis.
package cache
