package notifytest

import (
	"reflect"
	"slices"
	"sync"
	"testing"

	"github.com/narvi-dev/narvi/pkg/notify"
)

// Cascade is one recorded cascade.
type Cascade struct {
	Owner    reflect.Type
	Property string
	Notified []string
	Err      error
	Ended    bool
}

// Spy is a notify.Instrumentation that keeps everything it is told.
type Spy struct {
	mu        sync.Mutex
	cascades  []*Cascade
	collected int
	open      map[string]int
	rewired   []string
}

// InstallSpy installs a Spy as the process instrumentation and restores the
// previous one when the test ends.
func InstallSpy(tb testing.TB) *Spy {
	tb.Helper()
	s := &Spy{open: make(map[string]int)}
	prev := notify.CurrentInstrumentation()
	notify.SetInstrumentation(s)
	tb.Cleanup(func() { notify.SetInstrumentation(prev) })
	return s
}

func (s *Spy) CascadeStarted(owner reflect.Type, property string) notify.CascadeScope {
	c := &Cascade{Owner: owner, Property: property}
	s.mu.Lock()
	s.cascades = append(s.cascades, c)
	s.mu.Unlock()
	return &spyScope{s: s, c: c}
}

func (s *Spy) CallbackCollected() {
	s.mu.Lock()
	s.collected++
	s.mu.Unlock()
}

func (s *Spy) SubscriptionOpened(kind string) {
	s.mu.Lock()
	s.open[kind]++
	s.mu.Unlock()
}

func (s *Spy) SubscriptionClosed(kind string) {
	s.mu.Lock()
	s.open[kind]--
	s.mu.Unlock()
}

func (s *Spy) PathRewired(path string) {
	s.mu.Lock()
	s.rewired = append(s.rewired, path)
	s.mu.Unlock()
}

// Cascades returns copies of the recorded cascades.
func (s *Spy) Cascades() []Cascade {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Cascade, len(s.cascades))
	for i, c := range s.cascades {
		out[i] = *c
		out[i].Notified = slices.Clone(c.Notified)
	}
	return out
}

// Collected returns how many weak callbacks were dropped.
func (s *Spy) Collected() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collected
}

// Open returns the number of open subscriptions of kind.
func (s *Spy) Open(kind string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open[kind]
}

// Rewired returns the re-wired path prefixes in order.
func (s *Spy) Rewired() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.rewired)
}

type spyScope struct {
	s *Spy
	c *Cascade
}

func (sc *spyScope) Notified(property string) {
	sc.s.mu.Lock()
	sc.c.Notified = append(sc.c.Notified, property)
	sc.s.mu.Unlock()
}

func (sc *spyScope) End(err error) {
	sc.s.mu.Lock()
	sc.c.Err = err
	sc.c.Ended = true
	sc.s.mu.Unlock()
}
