package notify

import "reflect"

// Equal is the default equality used by Set. Basic types compare with ==,
// comparable types (pointers included) by identity, and everything else
// with reflect.DeepEqual.
func Equal[V any](a, b V) bool {
	switch av := any(a).(type) {
	case int:
		return sameAs(av, any(b))
	case int64:
		return sameAs(av, any(b))
	case int32:
		return sameAs(av, any(b))
	case uint:
		return sameAs(av, any(b))
	case uint64:
		return sameAs(av, any(b))
	case float64:
		return sameAs(av, any(b))
	case float32:
		return sameAs(av, any(b))
	case string:
		return sameAs(av, any(b))
	case bool:
		return sameAs(av, any(b))
	default:
		return equalAny(any(a), any(b))
	}
}

// sameAs compares a with b when b holds the same dynamic type.
func sameAs[T comparable](a T, b any) bool {
	bv, ok := b.(T)
	return ok && a == bv
}

// equalAny compares two dynamically typed values.
func equalAny(a, b any) (eq bool) {
	if a == nil || b == nil {
		return isNil(a) && isNil(b)
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if !ta.Comparable() {
		return reflect.DeepEqual(a, b)
	}

	// Structs and arrays holding interfaces can still panic on ==.
	defer func() {
		if recover() != nil {
			eq = reflect.DeepEqual(a, b)
		}
	}()
	return a == b
}

// isNil reports whether v is nil or a typed nil pointer, map, slice,
// channel, func or interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}
