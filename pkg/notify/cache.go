package notify

import (
	"reflect"
	"sync"

	"golang.org/x/sync/singleflight"
)

// typeCache memoizes a per-type value for the life of the process.
// Concurrent first lookups of the same type share a single build.
type typeCache[V any] struct {
	entries sync.Map // reflect.Type -> V
	group   singleflight.Group
	build   func(reflect.Type) V
}

func newTypeCache[V any](build func(reflect.Type) V) *typeCache[V] {
	return &typeCache[V]{build: build}
}

func (c *typeCache[V]) get(t reflect.Type) V {
	if v, ok := c.entries.Load(t); ok {
		return v.(V)
	}

	c.group.Do(typeKey(t), func() (any, error) {
		// A build that finished between Load and Do already stored it.
		if _, ok := c.entries.Load(t); ok {
			return nil, nil
		}
		c.entries.Store(t, c.build(t))
		return nil, nil
	})

	if v, ok := c.entries.Load(t); ok {
		return v.(V)
	}
	// Two distinct unnamed types with the same key shared a flight.
	v, _ := c.entries.LoadOrStore(t, c.build(t))
	return v.(V)
}

// typeKey names t for singleflight. Named types are qualified by their
// package path.
func typeKey(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if t.PkgPath() != "" {
		return t.PkgPath() + "|" + t.String()
	}
	return t.String()
}

// indirect strips pointer types down to the pointed-to type.
func indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
