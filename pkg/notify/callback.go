package notify

import (
	"fmt"
	"reflect"
	"sync/atomic"
	"weak"
)

// Ownership decides how a callback holds its receiver.
type Ownership uint8

const (
	// Strong keeps the receiver reachable for as long as the callback is
	// registered.
	Strong Ownership = iota

	// Weak does not keep the receiver reachable. Once the receiver is
	// collected the callback removes itself on its next invocation.
	Weak
)

// String returns a human-readable name for the ownership mode.
func (o Ownership) String() string {
	switch o {
	case Strong:
		return "strong"
	case Weak:
		return "weak"
	default:
		return fmt.Sprintf("Ownership(%d)", uint8(o))
	}
}

// Handler is a plain event handler. It has no receiver and is always held
// strongly.
type Handler[A any] func(source any, args A)

// target is the resolved (receiver, method) pair of a callback. It is
// immutable and shared by every callback wrapping the same registration, so
// wrapping never nests.
type target[A any] struct {
	// method identifies the handler code for equality.
	method uintptr

	// static is set for receiver-less handlers.
	static bool

	mode   Ownership
	strong any
	weak   func() any

	invoke func(receiver, source any, args A)
}

// resolve returns the live receiver. ok is false only for a weak target
// whose receiver has been collected.
func (t *target[A]) resolve() (receiver any, ok bool) {
	switch {
	case t.static:
		return nil, true
	case t.mode == Strong:
		return t.strong, true
	default:
		r := t.weak()
		return r, r != nil
	}
}

// Callback is a managed event handler: a receiver and method pair plus the
// action that removes it from its event source.
//
// The ownership mode is fixed at construction. A weak callback whose
// receiver has been collected calls its removal action exactly once, on the
// first invocation that notices, and does nothing else.
type Callback[A any] struct {
	id     uint64
	target *target[A]
	remove func(*Callback[A])

	// when, if set, filters the arguments the callback is invoked for.
	when func(A) bool

	removed atomic.Bool
}

// NewFuncCallback wraps a receiver-less handler. Func callbacks are never
// weak and compare equal only to themselves and to callbacks wrapping them.
func NewFuncCallback[A any](fn Handler[A], remove func(*Callback[A])) (*Callback[A], error) {
	if fn == nil {
		return nil, nilArgument("handler")
	}
	if remove == nil {
		return nil, nilArgument("remove")
	}

	return &Callback[A]{
		id: nextID(),
		target: &target[A]{
			method: reflect.ValueOf(fn).Pointer(),
			static: true,
			mode:   Strong,
			invoke: func(_ any, source any, args A) { fn(source, args) },
		},
		remove: remove,
	}, nil
}

// NewMethodCallback wraps method bound to receiver. method should be a
// method expression such as (*Form).OnChanged; a closure that captures the
// receiver would keep it reachable and defeat Weak ownership.
func NewMethodCallback[R, A any](receiver *R, method func(*R, any, A), mode Ownership, remove func(*Callback[A])) (*Callback[A], error) {
	if receiver == nil {
		return nil, nilArgument("receiver")
	}
	if method == nil {
		return nil, nilArgument("method")
	}
	if remove == nil {
		return nil, nilArgument("remove")
	}

	t := &target[A]{
		method: reflect.ValueOf(method).Pointer(),
		mode:   mode,
		invoke: func(r any, source any, args A) { method(r.(*R), source, args) },
	}
	if mode == Weak {
		wp := weak.Make(receiver)
		t.weak = func() any {
			if p := wp.Value(); p != nil {
				return p
			}
			return nil
		}
	} else {
		t.mode = Strong
		t.strong = receiver
	}

	return &Callback[A]{
		id:     nextID(),
		target: t,
		remove: remove,
	}, nil
}

// WrapCallback registers an existing callback with a new removal action.
// The result shares the inner callback's receiver, method and ownership
// instead of nesting it, so equality and removal still match on the
// original pair.
func WrapCallback[A any](inner *Callback[A], remove func(*Callback[A])) (*Callback[A], error) {
	if inner == nil {
		return nil, nilArgument("callback")
	}
	if remove == nil {
		return nil, nilArgument("remove")
	}
	return &Callback[A]{
		id:     nextID(),
		target: inner.target,
		remove: remove,
		when:   inner.when,
	}, nil
}

// ID returns the unique identifier of this callback.
func (c *Callback[A]) ID() uint64 {
	return c.id
}

// Mode returns the ownership mode chosen at construction.
func (c *Callback[A]) Mode() Ownership {
	return c.target.mode
}

// Target returns the live receiver, or nil for func callbacks and
// collected weak receivers.
func (c *Callback[A]) Target() any {
	r, _ := c.target.resolve()
	return r
}

// Alive reports whether the callback is registered and its receiver
// reachable.
func (c *Callback[A]) Alive() bool {
	if c.removed.Load() {
		return false
	}
	_, ok := c.target.resolve()
	return ok
}

// Invoke calls the handler. A removed callback does nothing; a weak
// callback whose receiver has been collected unsubscribes itself instead.
func (c *Callback[A]) Invoke(source any, args A) {
	if c.removed.Load() {
		return
	}

	receiver, ok := c.target.resolve()
	if !ok {
		logger().Debug("notify: weak callback receiver collected", "callback", c.id)
		instrumentation().CallbackCollected()
		c.Unsubscribe()
		return
	}

	if c.when != nil && !c.when(args) {
		return
	}
	c.target.invoke(receiver, source, args)
}

// Unsubscribe runs the removal action once. Later calls do nothing.
func (c *Callback[A]) Unsubscribe() {
	if c.removed.CompareAndSwap(false, true) {
		c.remove(c)
	}
}

// Equal reports whether c and other wrap the same method on the same
// receiver with the same ownership. Func callbacks are equal only when one
// wraps the other. Weak callbacks whose receiver has been collected are
// equal only to callbacks sharing their registration.
func (c *Callback[A]) Equal(other *Callback[A]) bool {
	if c == nil || other == nil {
		return c == other
	}
	a, b := c.target, other.target
	if a == b {
		return true
	}
	if a.static || b.static {
		return false
	}
	if a.method != b.method || a.mode != b.mode {
		return false
	}
	ra, okA := a.resolve()
	rb, okB := b.resolve()
	if !okA || !okB {
		// A collected receiver matches nothing but its own target.
		return false
	}
	return ra == rb
}
