// Package notifytest provides helpers for testing types that raise change
// notifications.
//
//	func TestFullName(t *testing.T) {
//	    p := model.NewPerson("Ada", "Lovelace")
//	    rec := notifytest.Record(t, p)
//	    p.SetFirst("Augusta")
//	    rec.ExpectProperties(t, "First", "Full")
//	}
package notifytest

import (
	"reflect"
	"slices"
	"sync"
	"testing"

	"github.com/narvi-dev/narvi/pkg/notify"
)

// Event is one recorded notification.
type Event struct {
	Source      any
	Property    string
	NewValue    any
	OldValue    any
	HadPrevious bool
	Antecedent  string
}

// Recorder collects notifications in the order they were raised.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	sub    notify.Subscription
}

// Record subscribes a Recorder to every change of n. The subscription is
// released when the test ends.
func Record(tb testing.TB, n notify.Notifiable) *Recorder {
	tb.Helper()
	r := &Recorder{}
	sub, err := n.PropertyChanged().Subscribe(r.Handle)
	if err != nil {
		tb.Fatalf("notifytest: subscribe: %v", err)
	}
	r.sub = sub
	tb.Cleanup(r.Stop)
	return r
}

// Handle records one notification. It can be used directly as a handler.
func (r *Recorder) Handle(source any, args *notify.NotifiedEventArgs) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{
		Source:      source,
		Property:    args.Property,
		NewValue:    args.NewValue,
		OldValue:    args.OldValue,
		HadPrevious: args.HadPrevious,
		Antecedent:  args.Antecedent(),
	})
}

// Stop unsubscribes the recorder. Safe to call more than once.
func (r *Recorder) Stop() {
	if r.sub != nil {
		r.sub.Unsubscribe()
	}
}

// Events returns a copy of the recorded notifications.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Properties returns the recorded property names in order.
func (r *Recorder) Properties() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Property
	}
	return out
}

// Count returns how many times property was raised.
func (r *Recorder) Count(property string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Property == property {
			n++
		}
	}
	return n
}

// Last returns the most recent notification of property.
func (r *Recorder) Last(property string) (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Property == property {
			return r.events[i], true
		}
	}
	return Event{}, false
}

// Reset discards everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

// ExpectProperties fails the test unless exactly want were raised, in order.
func (r *Recorder) ExpectProperties(tb testing.TB, want ...string) {
	tb.Helper()
	got := r.Properties()
	if len(want) == 0 && len(got) == 0 {
		return
	}
	if !reflect.DeepEqual(got, want) {
		tb.Errorf("notified %v, want %v", got, want)
	}
}

// ExpectNotified fails the test unless property was raised at least once.
func (r *Recorder) ExpectNotified(tb testing.TB, property string) {
	tb.Helper()
	if r.Count(property) == 0 {
		tb.Errorf("expected %q to be notified, got %v", property, r.Properties())
	}
}

// ExpectSilent fails the test if anything was raised.
func (r *Recorder) ExpectSilent(tb testing.TB) {
	tb.Helper()
	if got := r.Properties(); len(got) != 0 {
		tb.Errorf("expected no notifications, got %v", got)
	}
}
