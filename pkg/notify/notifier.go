package notify

import (
	"reflect"
	"slices"
	"sync"
)

// Notifiable is implemented by objects whose properties can be observed.
// Any type that embeds a Notifier implements it through its pointer.
type Notifiable interface {
	// PropertyChanged returns the event raised for every property change.
	PropertyChanged() *Event[*NotifiedEventArgs]

	// Notify raises a change of property and of everything that depends on
	// it, as if the property had just been written.
	Notify(property string)

	// PropertyValue returns the current value of property.
	PropertyValue(property string) (any, bool)
}

// Notifier stores property values and raises change events for them.
//
// A Notifier is usually embedded in the observable type and bound to it
// once, in the constructor:
//
//	p := &Person{}
//	p.Bind(p)
//
// Binding makes the owner the source of every event and makes the owner's
// dependency declarations (see Declarer) drive the cascade. An unbound
// Notifier raises events with itself as source and has no dependencies.
//
// Values of a single Notifier are expected to be written from one goroutine
// at a time. The subscriber list is safe for concurrent use.
type Notifier struct {
	owner     any
	ownerType reflect.Type

	changed Event[*NotifiedEventArgs]

	// mu protects values and old.
	mu     sync.RWMutex
	values map[string]any
	old    map[string]any
}

var notifierType = reflect.TypeFor[Notifier]()

// NewNotifier returns a Notifier bound to owner, for types that keep the
// notifier in a field instead of embedding it.
func NewNotifier(owner any) *Notifier {
	n := &Notifier{}
	n.Bind(owner)
	return n
}

// Bind sets the owner of n. It must be called before n is shared.
func (n *Notifier) Bind(owner any) {
	if isNil(owner) {
		n.owner, n.ownerType = nil, nil
		return
	}
	n.owner = owner
	n.ownerType = indirect(reflect.TypeOf(owner))
}

// Owner returns the bound owner, or nil.
func (n *Notifier) Owner() any {
	return n.owner
}

// PropertyChanged returns the change event of n.
func (n *Notifier) PropertyChanged() *Event[*NotifiedEventArgs] {
	return &n.changed
}

func (n *Notifier) source() any {
	if n.owner != nil {
		return n.owner
	}
	return n
}

func (n *Notifier) declaredType() reflect.Type {
	if n.ownerType != nil {
		return n.ownerType
	}
	return notifierType
}

// PropertyValue returns the current value of property. The owner's
// accessors are consulted first; properties without one are read from the
// value store.
func (n *Notifier) PropertyValue(property string) (any, bool) {
	if n.owner != nil {
		if v, ok := GetProperty(n.owner, property); ok {
			return v, true
		}
	}
	return n.stored(property)
}

func (n *Notifier) stored(property string) (any, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	v, ok := n.values[property]
	return v, ok
}

// IsSet reports whether property has been written at least once.
func (n *Notifier) IsSet(property string) bool {
	_, ok := n.stored(property)
	return ok
}

// Previous returns the value property held before its last effective
// write. ok is false until the property has been written twice.
func (n *Notifier) Previous(property string) (any, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	v, ok := n.old[property]
	return v, ok
}

// Properties returns the names of the stored properties, sorted.
func (n *Notifier) Properties() []string {
	n.mu.RLock()
	names := make([]string, 0, len(n.values))
	for name := range n.values {
		names = append(names, name)
	}
	n.mu.RUnlock()

	slices.Sort(names)
	return names
}

// Get returns the stored value of property, or the zero value of V when the
// property is unset or holds another type.
func Get[V any](n *Notifier, property string) V {
	v, _ := n.stored(property)
	out, _ := v.(V)
	return out
}

// Set stores value under property and notifies if the value changed.
// The first write to a property always notifies. It reports whether a
// notification was raised.
func Set[V any](n *Notifier, property string, value V) bool {
	return SetFunc(n, property, value, Equal[V])
}

// SetFunc is Set with a custom equality.
func SetFunc[V any](n *Notifier, property string, value V, equal func(a, b V) bool) bool {
	if property == "" {
		logger().Warn("notify: ignoring write to blank property", "type", n.declaredType().String())
		return false
	}

	n.mu.Lock()
	cur, ok := n.values[property]
	if ok && sameValue(cur, value, equal) {
		n.mu.Unlock()
		return false
	}
	if n.values == nil {
		n.values = make(map[string]any)
		n.old = make(map[string]any)
	}
	if ok {
		n.old[property] = cur
	}
	n.values[property] = value
	n.mu.Unlock()

	n.Notify(property)
	return true
}

// sameValue applies equal to a stored value. A stored value of another
// type is never equal.
func sameValue[V any](stored any, value V, equal func(a, b V) bool) bool {
	if stored == nil {
		return isNil(value)
	}
	sv, ok := stored.(V)
	return ok && equal(sv, value)
}

// Notify raises property and, transitively, every property depending on
// it. Each property is raised at most once per call, the antecedent first.
// Writes made by listeners start cascades of their own.
//
// A panicking listener aborts the rest of the cascade and propagates.
func (n *Notifier) Notify(property string) {
	if property == "" {
		return
	}

	c := newCascade(property)
	scope := instrumentation().CascadeStarted(n.declaredType(), property)
	completed := false
	defer func() {
		if completed {
			scope.End(nil)
		} else {
			scope.End(ErrCascadeAborted)
		}
	}()

	n.notify(c, scope, property)
	completed = true
}

func (n *Notifier) notify(c *cascade, scope CascadeScope, property string) {
	if !c.enter(property) {
		return
	}
	scope.Notified(property)

	args := &NotifiedEventArgs{Property: property, cascade: c}
	args.NewValue, _ = n.PropertyValue(property)
	n.mu.RLock()
	args.OldValue, args.HadPrevious = n.old[property]
	n.mu.RUnlock()

	n.changed.Raise(n.source(), args)

	for _, dependent := range DependentsOf(n.declaredType(), property) {
		n.notify(c, scope, dependent)
	}
}
