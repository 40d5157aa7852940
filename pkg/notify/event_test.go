package notify

import (
	"slices"
	"sync"
	"sync/atomic"
	"testing"
)

func TestEventRaiseInRegistrationOrder(t *testing.T) {
	var e Event[int]
	var order []string

	for _, name := range []string{"a", "b", "c"} {
		if _, err := e.Subscribe(func(any, int) { order = append(order, name) }); err != nil {
			t.Fatal(err)
		}
	}

	e.Raise(nil, 1)

	if !slices.Equal(order, []string{"a", "b", "c"}) {
		t.Errorf("expected [a b c], got %v", order)
	}
}

func TestEventUnsubscribeInsideHandler(t *testing.T) {
	var e Event[int]
	var first, second int
	var cb *Callback[int]

	cb, err := e.Subscribe(func(any, int) {
		first++
		cb.Unsubscribe()
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Subscribe(func(any, int) { second++ }); err != nil {
		t.Fatal(err)
	}

	e.Raise(nil, 1)
	e.Raise(nil, 2)

	if first != 1 {
		t.Errorf("self-removing handler should run once, ran %d times", first)
	}
	if second != 2 {
		t.Errorf("remaining handler should run twice, ran %d times", second)
	}
	if e.Len() != 1 {
		t.Errorf("expected 1 subscriber, got %d", e.Len())
	}
}

func TestEventRemovedMidRaiseIsSkipped(t *testing.T) {
	var e Event[int]
	var later *Callback[int]
	calls := 0

	if _, err := e.Subscribe(func(any, int) { later.Unsubscribe() }); err != nil {
		t.Fatal(err)
	}
	later, err := e.Subscribe(func(any, int) { calls++ })
	if err != nil {
		t.Fatal(err)
	}

	e.Raise(nil, 1)

	if calls != 0 {
		t.Errorf("callback removed earlier in the same raise should not run, ran %d", calls)
	}
}

func TestEventRemoveByValue(t *testing.T) {
	var e Event[*NotifiedEventArgs]
	var hits atomic.Int32
	l := newListener(&hits)

	if _, err := SubscribeMethod(&e, l, (*listener).onChanged, Strong); err != nil {
		t.Fatal(err)
	}
	twin, err := NewMethodCallback(l, (*listener).onChanged, Strong, func(*Callback[*NotifiedEventArgs]) {})
	if err != nil {
		t.Fatal(err)
	}

	if !e.Remove(twin) {
		t.Fatal("Remove should find the equal callback")
	}
	if e.Remove(twin) {
		t.Error("second Remove should find nothing")
	}

	e.Raise(nil, &NotifiedEventArgs{Property: "X"})
	if hits.Load() != 0 {
		t.Errorf("removed callback ran %d times", hits.Load())
	}
}

func TestEventAddIgnoresRemoved(t *testing.T) {
	var e Event[int]
	cb, err := e.Subscribe(func(any, int) {})
	if err != nil {
		t.Fatal(err)
	}
	cb.Unsubscribe()

	e.Add(cb)
	e.Add(nil)

	if e.Len() != 0 {
		t.Errorf("expected no subscribers, got %d", e.Len())
	}
}

func TestEventConcurrentSubscribe(t *testing.T) {
	var e Event[int]
	var wg sync.WaitGroup
	var hits atomic.Int32

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cb, err := e.Subscribe(func(any, int) { hits.Add(1) })
			if err != nil {
				t.Error(err)
				return
			}
			e.Raise(nil, 0)
			cb.Unsubscribe()
		}()
	}
	wg.Wait()

	if e.Len() != 0 {
		t.Errorf("expected all subscribers gone, got %d", e.Len())
	}
	if hits.Load() < 50 {
		t.Errorf("each goroutine should see at least its own handler, got %d", hits.Load())
	}
}

func TestRegistrarIdempotent(t *testing.T) {
	calls := 0
	r := NewRegistrar(func() { calls++ })

	r.Unsubscribe()
	r.Unsubscribe()

	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}

	var nilReg *Registrar
	nilReg.Unsubscribe()
}

func TestJoin(t *testing.T) {
	var order []int
	sub := Join(
		NewRegistrar(func() { order = append(order, 1) }),
		nil,
		NewRegistrar(func() { order = append(order, 2) }),
	)

	sub.Unsubscribe()
	sub.Unsubscribe()

	if !slices.Equal(order, []int{1, 2}) {
		t.Errorf("expected [1 2], got %v", order)
	}
}
