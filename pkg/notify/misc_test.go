package notify

import (
	"errors"
	"reflect"
	"slices"
	"testing"

	"golang.org/x/sync/errgroup"
)

func TestPropertyFromFunc(t *testing.T) {
	tests := []struct {
		fn   string
		want string
	}{
		{"example.com/model.(*Person).SetFirst", "First"},
		{"example.com/model.(*Person).First", "First"},
		{"example.com/model.(*Person).SetFirst.func1", "First"},
		{"example.com/model.(*Person).SetFirst.func1.2", "First"},
		{"example.com/model.(*Person).SetFirst-fm", "First"},
		{"example.com/model.(*Person).Settle", "Settle"},
		{"example.com/model.(*Person).Set", "Set"},
		{"main.(*Box[...]).SetValue", "Value"},
	}

	for _, tt := range tests {
		t.Run(tt.fn, func(t *testing.T) {
			if got := propertyFromFunc(tt.fn); got != tt.want {
				t.Errorf("propertyFromFunc(%q) = %q, want %q", tt.fn, got, tt.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	a, b := newNode("a"), newNode("a")

	tests := []struct {
		name string
		x, y any
		want bool
	}{
		{"ints", 1, 1, true},
		{"different ints", 1, 2, false},
		{"int vs int64", 1, int64(1), false},
		{"strings", "x", "x", true},
		{"nil vs nil", nil, nil, true},
		{"nil vs typed nil", nil, (*node)(nil), true},
		{"nil vs value", nil, 0, false},
		{"same pointer", a, a, true},
		{"distinct pointers", a, b, false},
		{"slices", []int{1, 2}, []int{1, 2}, true},
		{"maps", map[string]int{"a": 1}, map[string]int{"a": 2}, false},
		{"structs", struct{ X int }{1}, struct{ X int }{1}, true},
		{"struct holding slice", struct{ V any }{[]int{1}}, struct{ V any }{[]int{1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.x, tt.y); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}

	if !Equal(3.5, 3.5) || Equal("a", "b") || !Equal(true, true) {
		t.Error("typed fast paths mismatch")
	}
}

// indexed is only used by TestConcurrentIndexBuild so that the first
// lookup happens inside the test.
type indexed struct {
	Notifier
}

func (*indexed) NotifiedBy() Dependencies {
	return Dependencies{
		"Sum":     By("A", "B"),
		"Product": By("A", "B"),
		"Report":  By("Sum", "Product"),
	}
}

func TestConcurrentIndexBuild(t *testing.T) {
	typ := reflect.TypeFor[indexed]()
	results := make([][]string, 64)

	var g errgroup.Group
	for i := range results {
		g.Go(func() error {
			results[i] = DependentsOf(typ, "A")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	want := []string{"Product", "Sum"}
	for i, got := range results {
		if !slices.Equal(got, want) {
			t.Fatalf("goroutine %d saw %v, want %v", i, got, want)
		}
	}

	// Every caller shares the single cached slice.
	first := DependentsOf(typ, "A")
	if &first[0] != &results[0][0] {
		t.Error("index should be built once and shared")
	}
}

// panicky declares nothing usable: NotifiedBy panics on the zero value.
type panicky struct {
	Notifier
	deps *Dependencies
}

func (p *panicky) NotifiedBy() Dependencies { return *p.deps }

func TestPanickingDeclarationIsIgnored(t *testing.T) {
	if got := DependentsOf(reflect.TypeFor[panicky](), "A"); got != nil {
		t.Errorf("expected no dependents, got %v", got)
	}
}

type fakeScope struct {
	inst *fakeInstrumentation
}

func (s fakeScope) Notified(property string) {
	s.inst.notified = append(s.inst.notified, property)
}

func (s fakeScope) End(err error) {
	s.inst.ended = append(s.inst.ended, err)
}

type fakeInstrumentation struct {
	started   []string
	notified  []string
	ended     []error
	collected int
	opened    map[string]int
	closed    map[string]int
	rewired   []string
}

func newFakeInstrumentation(t *testing.T) *fakeInstrumentation {
	f := &fakeInstrumentation{opened: map[string]int{}, closed: map[string]int{}}
	SetInstrumentation(f)
	t.Cleanup(func() { SetInstrumentation(nil) })
	return f
}

func (f *fakeInstrumentation) CascadeStarted(owner reflect.Type, property string) CascadeScope {
	f.started = append(f.started, owner.Name()+"."+property)
	return fakeScope{inst: f}
}

func (f *fakeInstrumentation) CallbackCollected()         { f.collected++ }
func (f *fakeInstrumentation) SubscriptionOpened(k string) { f.opened[k]++ }
func (f *fakeInstrumentation) SubscriptionClosed(k string) { f.closed[k]++ }
func (f *fakeInstrumentation) PathRewired(path string)     { f.rewired = append(f.rewired, path) }

func TestInstrumentationObservesCascade(t *testing.T) {
	inst := newFakeInstrumentation(t)
	p := newPerson()

	sub, err := NotifyFor(p, "First", func(any, *NotifiedEventArgs) {})
	if err != nil {
		t.Fatal(err)
	}
	p.SetFirst("Ada")
	sub.Unsubscribe()

	if !slices.Equal(inst.started, []string{"person.First"}) {
		t.Errorf("expected one cascade on person.First, got %v", inst.started)
	}
	if !slices.Equal(inst.notified, []string{"First", "Full"}) {
		t.Errorf("expected [First Full], got %v", inst.notified)
	}
	if len(inst.ended) != 1 || inst.ended[0] != nil {
		t.Errorf("expected a clean end, got %v", inst.ended)
	}
	if inst.opened[KindCallback] != 1 || inst.closed[KindCallback] != 1 {
		t.Errorf("expected one opened and closed callback, got %v / %v", inst.opened, inst.closed)
	}
}

func TestInstrumentationSeesAbortedCascade(t *testing.T) {
	inst := newFakeInstrumentation(t)
	p := newPerson()

	if _, err := NotifyFor(p, "First", func(any, *NotifiedEventArgs) { panic("boom") }); err != nil {
		t.Fatal(err)
	}

	func() {
		defer func() {
			if recover() == nil {
				t.Error("listener panic should propagate to the writer")
			}
		}()
		p.SetFirst("Ada")
	}()

	if len(inst.ended) != 1 || !errors.Is(inst.ended[0], ErrCascadeAborted) {
		t.Errorf("expected ErrCascadeAborted, got %v", inst.ended)
	}
	if slices.Contains(inst.notified, "Full") {
		t.Error("dependents after a panicking listener should not be notified")
	}
}

func TestInstrumentationSeesPathRewire(t *testing.T) {
	inst := newFakeInstrumentation(t)
	root := newNode("root")

	seg, err := SubscribePath(root, "Child.Name", func(any, string, *NotifiedEventArgs) {})
	if err != nil {
		t.Fatal(err)
	}
	root.SetChild(newNode("child"))
	seg.Unsubscribe()

	if !slices.Equal(inst.rewired, []string{"Child"}) {
		t.Errorf("expected one rewire of Child, got %v", inst.rewired)
	}
	if inst.opened[KindPath] != 1 || inst.closed[KindPath] != 1 {
		t.Errorf("path subscription not bracketed: %v / %v", inst.opened, inst.closed)
	}
}
