package notify

import (
	"slices"
	"sync"
)

// Event is an ordered list of callbacks raised synchronously, in
// registration order. The zero value is ready to use.
//
// Raise works on a snapshot of the list, so callbacks may subscribe or
// unsubscribe (themselves or others) while the event is being raised. A
// callback removed mid-raise is not invoked afterwards.
type Event[A any] struct {
	// subs are the callbacks in registration order.
	subs []*Callback[A]

	// mu protects subs.
	mu sync.RWMutex
}

// Subscribe registers fn and returns its callback, which doubles as the
// subscription handle.
func (e *Event[A]) Subscribe(fn Handler[A]) (*Callback[A], error) {
	cb, err := NewFuncCallback(fn, e.detach)
	if err != nil {
		return nil, err
	}
	e.Add(cb)
	return cb, nil
}

// SubscribeMethod registers method bound to receiver on e with the given
// ownership mode.
func SubscribeMethod[R, A any](e *Event[A], receiver *R, method func(*R, any, A), mode Ownership) (*Callback[A], error) {
	if e == nil {
		return nil, nilArgument("event")
	}
	cb, err := NewMethodCallback(receiver, method, mode, e.detach)
	if err != nil {
		return nil, err
	}
	e.Add(cb)
	return cb, nil
}

// Add appends cb to the list. Callbacks that were already removed are
// ignored; a callback never comes back once removed.
func (e *Event[A]) Add(cb *Callback[A]) {
	if cb == nil || cb.removed.Load() {
		return
	}

	e.mu.Lock()
	e.subs = append(e.subs, cb)
	e.mu.Unlock()

	instrumentation().SubscriptionOpened(KindCallback)
}

// Remove removes the most recently added callback equal to cb, the way an
// event's -= operator removes a delegate by value. It reports whether a
// callback was removed.
func (e *Event[A]) Remove(cb *Callback[A]) bool {
	if cb == nil {
		return false
	}

	e.mu.Lock()
	var found *Callback[A]
	for i := len(e.subs) - 1; i >= 0; i-- {
		if e.subs[i].Equal(cb) {
			found = e.subs[i]
			e.subs = slices.Delete(e.subs, i, i+1)
			break
		}
	}
	e.mu.Unlock()

	if found == nil {
		return false
	}
	// The list entry is gone; mark the callback so its handle and any
	// in-flight snapshot treat it as removed.
	found.removed.Store(true)
	instrumentation().SubscriptionClosed(KindCallback)
	return true
}

// detach removes exactly cb. It is the removal action of callbacks created
// through Subscribe and SubscribeMethod.
func (e *Event[A]) detach(cb *Callback[A]) {
	e.mu.Lock()
	i := slices.Index(e.subs, cb)
	if i >= 0 {
		e.subs = slices.Delete(e.subs, i, i+1)
	}
	e.mu.Unlock()

	if i >= 0 {
		instrumentation().SubscriptionClosed(KindCallback)
	}
}

// Raise invokes every registered callback with source and args.
// A panicking callback stops the raise and propagates to the caller.
func (e *Event[A]) Raise(source any, args A) {
	e.mu.RLock()
	if len(e.subs) == 0 {
		e.mu.RUnlock()
		return
	}
	subs := make([]*Callback[A], len(e.subs))
	copy(subs, e.subs)
	e.mu.RUnlock()

	for _, cb := range subs {
		cb.Invoke(source, args)
	}
}

// Len returns the number of registered callbacks, including weak callbacks
// whose receivers were collected but have not been raised since.
func (e *Event[A]) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.subs)
}
