package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// entry holds a cached value with its expiration time and key.
type entry[V any] struct {
	expiresAt time.Time // zero value = never expires
	value     V
	key       string
}

func (e *entry[V]) expiredAt(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Memory is an in-memory cache with TTL-based expiration and optional
// LRU eviction when a maximum entry count is configured.
//
// A hash map gives O(1) lookups; a doubly-linked list keeps recency order
// (front = most recently used) so eviction is O(1) as well.
// All operations, Update included, run under a single mutex.
type Memory[V any] struct {
	items   map[string]*list.Element
	recency *list.List
	opts    *memoryOptions
	done    chan struct{}
	mu      sync.Mutex
	closed  bool
}

// NewMemory creates a new in-memory cache.
//
// Example:
//
//	c := cache.NewMemory[[]string](
//	    cache.WithDefaultTTL(24 * time.Hour),
//	    cache.WithMaxEntries(100_000),
//	)
//	defer c.Close()
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	o := defaultMemoryOptions()
	for _, opt := range opts {
		opt(o)
	}

	m := &Memory[V]{
		items:   make(map[string]*list.Element),
		recency: list.New(),
		opts:    o,
		done:    make(chan struct{}),
	}

	if o.cleanupInterval > 0 {
		go m.janitor()
	}

	return m
}

// Get retrieves a value by key and marks it as recently used.
// Returns ErrNotFound if the key does not exist or has expired.
func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.lookup(key)
	if !ok {
		var zero V
		return zero, ErrNotFound
	}
	return e.value, nil
}

// Set stores a value with the given TTL.
func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	m.store(key, value, m.expiry(ttl))
	return nil
}

// Update runs fn on the current value of key and stores its result,
// holding the cache lock for the whole sequence.
func (m *Memory[V]) Update(_ context.Context, key string, ttl time.Duration, fn UpdateFunc[V]) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	var current V
	e, found := m.lookup(key)
	if found {
		current = e.value
	}

	next, err := fn(current, found)
	if err != nil {
		return err
	}

	m.store(key, next, m.expiry(ttl))
	return nil
}

// Delete removes a key from the cache.
func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if elem, ok := m.items[key]; ok {
		m.remove(elem)
	}
	return nil
}

// Has checks whether a key exists and has not expired.
// Unlike Get it does not touch recency.
func (m *Memory[V]) Has(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.items[key]
	if !ok {
		return false, nil
	}
	if elem.Value.(*entry[V]).expiredAt(time.Now()) {
		m.remove(elem)
		return false, nil
	}
	return true, nil
}

// Clear removes all entries from the cache.
func (m *Memory[V]) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	m.items = make(map[string]*list.Element)
	m.recency.Init()
	return nil
}

// Len returns the number of stored entries, expired ones not yet collected included.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Close stops the background janitor goroutine and marks the cache as closed.
// Close is idempotent.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}

	m.closed = true
	close(m.done)
	return nil
}

// lookup returns the live entry for key and moves it to the front.
// Expired entries are dropped on the way. Caller must hold the mutex.
func (m *Memory[V]) lookup(key string) (*entry[V], bool) {
	elem, ok := m.items[key]
	if !ok {
		return nil, false
	}

	e := elem.Value.(*entry[V])
	if e.expiredAt(time.Now()) {
		m.remove(elem)
		return nil, false
	}

	m.recency.MoveToFront(elem)
	return e, true
}

// store inserts or replaces key, evicting the least recently used entry
// when the cache is full. Caller must hold the mutex.
func (m *Memory[V]) store(key string, value V, expiresAt time.Time) {
	if elem, ok := m.items[key]; ok {
		e := elem.Value.(*entry[V])
		e.value = value
		e.expiresAt = expiresAt
		m.recency.MoveToFront(elem)
		return
	}

	if m.opts.maxEntries > 0 && len(m.items) >= m.opts.maxEntries {
		if oldest := m.recency.Back(); oldest != nil {
			m.remove(oldest)
		}
	}

	m.items[key] = m.recency.PushFront(&entry[V]{key: key, value: value, expiresAt: expiresAt})
}

// expiry resolves a TTL into an absolute expiration time.
// The zero time means the entry never expires.
func (m *Memory[V]) expiry(ttl time.Duration) time.Time {
	if ttl == 0 {
		ttl = m.opts.defaultTTL
	}
	if ttl < 0 {
		return time.Time{}
	}
	return time.Now().Add(ttl)
}

// remove unlinks an element. Caller must hold the mutex.
func (m *Memory[V]) remove(elem *list.Element) {
	m.recency.Remove(elem)
	delete(m.items, elem.Value.(*entry[V]).key)
}

// janitor periodically removes expired entries.
func (m *Memory[V]) janitor() {
	ticker := time.NewTicker(m.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.deleteExpired()
		}
	}
}

func (m *Memory[V]) deleteExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for elem := m.recency.Back(); elem != nil; {
		prev := elem.Prev()
		if elem.Value.(*entry[V]).expiredAt(now) {
			m.remove(elem)
		}
		elem = prev
	}
}

var (
	_ Cache[any]   = (*Memory[any])(nil)
	_ Updater[any] = (*Memory[any])(nil)
)
