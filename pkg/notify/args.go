package notify

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// NotifiedEventArgs describes one property change. Every event raised
// within the cascade of a single write shares the same cascade record.
type NotifiedEventArgs struct {
	// Property is the name of the changed property.
	Property string

	// NewValue is the current value of the property.
	NewValue any

	// OldValue is the value before the write, or nil when HadPrevious is
	// false.
	OldValue any

	// HadPrevious is false when the property was unset before this write,
	// and for derived properties, which have no stored history.
	HadPrevious bool

	cascade *cascade
}

// IsAntecedent reports whether Property is the property whose write started
// the cascade, as opposed to a dependent notified as a side effect.
func (a *NotifiedEventArgs) IsAntecedent() bool {
	return a.cascade == nil || a.cascade.root == a.Property
}

// Antecedent returns the property whose write started the cascade.
func (a *NotifiedEventArgs) Antecedent() string {
	if a.cascade == nil {
		return a.Property
	}
	return a.cascade.root
}

// AlreadyNotified reports whether property has been raised in this cascade.
func (a *NotifiedEventArgs) AlreadyNotified(property string) bool {
	return a.cascade != nil && a.cascade.notified.Contains(property)
}

// Notified returns the properties raised so far in this cascade, in the
// order they were raised.
func (a *NotifiedEventArgs) Notified() []string {
	if a.cascade == nil {
		return []string{a.Property}
	}
	out := make([]string, len(a.cascade.order))
	copy(out, a.cascade.order)
	return out
}

// cascade is the "already notified" record of one outermost write. A new
// one is created for every write, including writes made by listeners.
type cascade struct {
	root     string
	notified mapset.Set[string]
	order    []string
}

func newCascade(root string) *cascade {
	return &cascade{
		root:     root,
		notified: mapset.NewThreadUnsafeSet[string](),
	}
}

// enter records property and reports whether it was not yet notified.
func (c *cascade) enter(property string) bool {
	if !c.notified.Add(property) {
		return false
	}
	c.order = append(c.order, property)
	return true
}
