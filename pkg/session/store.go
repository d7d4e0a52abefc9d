package session

import "context"

// Store is the associative session view the CSRF middleware works against.
// Values are string lists addressed by key.
//
// Get returns a nil list and no error for a missing key.
type Store interface {
	Has(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) ([]string, error)
	Set(ctx context.Context, key string, values []string) error
}

// UpdateFunc receives the current list for a key (nil when absent) and
// returns the list to persist. Returning an error aborts the update.
type UpdateFunc func(current []string, found bool) ([]string, error)

// Updater is implemented by stores that can run a read-modify-write on one
// key atomically. Callers fall back to their own locking otherwise.
type Updater interface {
	Update(ctx context.Context, key string, fn UpdateFunc) error
}

// validator lets adapters in this package report a nil backing value.
type validator interface {
	valid() bool
}

// Check returns ErrNotAssociative if s is nil or wraps a nil value.
func Check(s Store) error {
	if s == nil {
		return ErrNotAssociative
	}
	if v, ok := s.(validator); ok && !v.valid() {
		return ErrNotAssociative
	}
	return nil
}

// From adapts v into a Store. Accepted shapes:
//
//   - Store (returned as is)
//   - map[string][]string
//   - map[string]any (values stored as []string; []any of strings is accepted on read)
//   - *Session (reads and writes go through Session.Values and mark it dirty)
//
// Anything else, including nil maps, yields ErrNotAssociative.
func From(v any) (Store, error) {
	var s Store
	switch x := v.(type) {
	case Store:
		s = x
	case map[string][]string:
		s = Map(x)
	case map[string]any:
		s = Values(x)
	case *Session:
		s = FromSession(x)
	default:
		return nil, ErrNotAssociative
	}

	if err := Check(s); err != nil {
		return nil, err
	}
	return s, nil
}
