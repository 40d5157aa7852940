package notify

import "sync/atomic"

// Subscription is the handle returned by every subscribing operation.
// Unsubscribe is idempotent and safe to call from inside a handler.
type Subscription interface {
	Unsubscribe()
}

// Registrar adapts a removal function to Subscription. The function runs at
// most once, however many times Unsubscribe is called.
type Registrar struct {
	fn   func()
	done atomic.Bool
}

// NewRegistrar returns a Registrar that calls fn on the first Unsubscribe.
func NewRegistrar(fn func()) *Registrar {
	return &Registrar{fn: fn}
}

// Unsubscribe runs the removal function once.
func (r *Registrar) Unsubscribe() {
	if r == nil || !r.done.CompareAndSwap(false, true) {
		return
	}
	if r.fn != nil {
		r.fn()
	}
}

// Join returns a Subscription that unsubscribes every non-nil sub, in order.
func Join(subs ...Subscription) Subscription {
	return NewRegistrar(func() {
		for _, s := range subs {
			if s != nil {
				s.Unsubscribe()
			}
		}
	})
}
