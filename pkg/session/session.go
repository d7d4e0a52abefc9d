package session

import (
	"context"
	"sync"
	"time"
)

// Session is a server-side session record with arbitrary values.
type Session struct {
	CreatedAt time.Time
	ExpiresAt time.Time

	Values map[string]any
	ID     string

	mu    sync.RWMutex
	dirty bool
	isNew bool
}

// New creates a session with the given ID.
func New(id string, expiresAt time.Time) *Session {
	return &Session{
		ID:        id,
		Values:    make(map[string]any),
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
		isNew:     true,
		dirty:     true,
	}
}

// SetValue stores a value and marks the session dirty.
func (s *Session) SetValue(key string, val any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Values == nil {
		s.Values = make(map[string]any)
	}
	s.Values[key] = val
	s.dirty = true
}

// GetValue retrieves a value from the session.
func (s *Session) GetValue(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.Values[key]
	return val, ok
}

// DeleteValue removes a value. The session is marked dirty only if the key existed.
func (s *Session) DeleteValue(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.Values[key]; exists {
		delete(s.Values, key)
		s.dirty = true
	}
}

// IsDirty returns true if the session has unsaved changes.
func (s *Session) IsDirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// ClearDirty marks the session as saved.
func (s *Session) ClearDirty() {
	s.mu.Lock()
	s.dirty = false
	s.isNew = false
	s.mu.Unlock()
}

// IsNew returns true until the session is first saved.
func (s *Session) IsNew() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isNew
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Value is a typed helper to retrieve session values.
func Value[T any](s *Session, key string) (T, error) {
	var zero T
	if s == nil {
		return zero, ErrNotFound
	}

	val, ok := s.GetValue(key)
	if !ok {
		return zero, ErrNotFound
	}

	typed, ok := val.(T)
	if !ok {
		return zero, ErrTypeMismatch
	}
	return typed, nil
}

// ValueOr returns defaultVal if the key is missing or has another type.
func ValueOr[T any](s *Session, key string, defaultVal T) T {
	val, err := Value[T](s, key)
	if err != nil {
		return defaultVal
	}
	return val
}

// FromSession exposes s as a Store. Writes go through SetValue, so the
// session is marked dirty whenever a token list changes.
func FromSession(s *Session) Store {
	return sessionStore{s: s}
}

type sessionStore struct {
	s *Session
}

func (ss sessionStore) Has(_ context.Context, key string) (bool, error) {
	_, ok := ss.s.GetValue(key)
	return ok, nil
}

func (ss sessionStore) Get(_ context.Context, key string) ([]string, error) {
	raw, _ := ss.s.GetValue(key)
	return stringList(raw)
}

func (ss sessionStore) Set(_ context.Context, key string, values []string) error {
	ss.s.SetValue(key, append([]string(nil), values...))
	return nil
}

func (ss sessionStore) valid() bool { return ss.s != nil }
