package session

import (
	"context"
	"slices"
)

// Map is a Store over a plain map. It does no locking of its own.
type Map map[string][]string

// Has reports whether key is present.
func (m Map) Has(_ context.Context, key string) (bool, error) {
	_, ok := m[key]
	return ok, nil
}

// Get returns a copy of the list stored at key.
func (m Map) Get(_ context.Context, key string) ([]string, error) {
	return slices.Clone(m[key]), nil
}

// Set stores a copy of values at key.
func (m Map) Set(_ context.Context, key string, values []string) error {
	if m == nil {
		return ErrNotAssociative
	}
	m[key] = slices.Clone(values)
	return nil
}

func (m Map) valid() bool { return m != nil }

// Values is a Store over a heterogeneous map such as Session.Values.
type Values map[string]any

// Has reports whether key is present.
func (v Values) Has(_ context.Context, key string) (bool, error) {
	_, ok := v[key]
	return ok, nil
}

// Get returns the list at key. A present value that is not a string list
// yields ErrTypeMismatch.
func (v Values) Get(_ context.Context, key string) ([]string, error) {
	return stringList(v[key])
}

// Set stores a copy of values at key.
func (v Values) Set(_ context.Context, key string, values []string) error {
	if v == nil {
		return ErrNotAssociative
	}
	v[key] = slices.Clone(values)
	return nil
}

func (v Values) valid() bool { return v != nil }

func stringList(raw any) ([]string, error) {
	switch x := raw.(type) {
	case nil:
		return nil, nil
	case []string:
		return slices.Clone(x), nil
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			s, ok := item.(string)
			if !ok {
				return nil, ErrTypeMismatch
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, ErrTypeMismatch
	}
}

var (
	_ Store = Map(nil)
	_ Store = Values(nil)
)
