package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrymomot/pipeline/pkg/cache"
)

// CacheStore is a Store whose keys live in a shared cache, namespaced by
// session ID. When the cache implements cache.Updater (both Memory and
// Redis do), Update is atomic across processes sharing that cache.
// Otherwise Update is serialized by a mutex local to this CacheStore.
type CacheStore struct {
	cache     cache.Cache[[]string]
	sessionID string
	ttl       time.Duration
	mu        sync.Mutex
}

// NewCacheStore returns a Store for one session. ttl follows cache
// semantics: zero uses the cache default, negative never expires.
//
//	tokens := cache.NewMemory[[]string]()
//	store := session.NewCacheStore(tokens, sid, 24*time.Hour)
func NewCacheStore(c cache.Cache[[]string], sessionID string, ttl time.Duration) *CacheStore {
	return &CacheStore{
		cache:     c,
		sessionID: sessionID,
		ttl:       ttl,
	}
}

// Has reports whether key exists for this session.
func (s *CacheStore) Has(ctx context.Context, key string) (bool, error) {
	return s.cache.Has(ctx, s.key(key))
}

// Get returns the list at key, or nil when it is absent or expired.
func (s *CacheStore) Get(ctx context.Context, key string) ([]string, error) {
	values, err := s.cache.Get(ctx, s.key(key))
	if errors.Is(err, cache.ErrNotFound) {
		return nil, nil
	}
	return values, err
}

// Set replaces the list at key.
func (s *CacheStore) Set(ctx context.Context, key string, values []string) error {
	return s.cache.Set(ctx, s.key(key), values, s.ttl)
}

// Update runs fn as an atomic read-modify-write on key.
func (s *CacheStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	k := s.key(key)

	if u, ok := s.cache.(cache.Updater[[]string]); ok {
		return u.Update(ctx, k, s.ttl, cache.UpdateFunc[[]string](fn))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.cache.Get(ctx, k)
	found := err == nil
	if err != nil && !errors.Is(err, cache.ErrNotFound) {
		return err
	}

	next, err := fn(current, found)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, k, next, s.ttl)
}

func (s *CacheStore) key(key string) string {
	return s.sessionID + ":" + key
}

func (s *CacheStore) valid() bool {
	return s != nil && s.cache != nil
}

var (
	_ Store   = (*CacheStore)(nil)
	_ Updater = (*CacheStore)(nil)
)
