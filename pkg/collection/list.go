// Package collection provides an observable list built on package notify.
//
// A List raises a CollectionChanged event for every structural change and
// notifies its Count property like any other notifiable object, so it can
// sit at the end of a property path.
package collection

import (
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/narvi-dev/narvi/pkg/notify"
)

// Kind is the kind of a collection change.
type Kind uint8

const (
	// Add means NewItems were inserted at NewIndex.
	Add Kind = iota

	// Remove means OldItems were removed from OldIndex.
	Remove

	// Replace means OldItems at NewIndex were replaced by NewItems.
	Replace

	// Move means an item moved from OldIndex to NewIndex.
	Move

	// Reset means the contents were replaced wholesale.
	Reset
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case Add:
		return "add"
	case Remove:
		return "remove"
	case Replace:
		return "replace"
	case Move:
		return "move"
	case Reset:
		return "reset"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ChangeArgs describes one collection change.
type ChangeArgs[T any] struct {
	Kind     Kind
	NewItems []T
	OldItems []T
	NewIndex int
	OldIndex int
}

// List is an ordered, observable list. The zero value is not usable; use
// New.
type List[T any] struct {
	notify.Notifier

	changed notify.Event[*ChangeArgs[T]]

	mu       sync.RWMutex
	items    []T
	disabled bool
}

// New returns a list holding a copy of items.
func New[T any](items ...T) *List[T] {
	l := &List[T]{items: slices.Clone(items)}
	l.Bind(l)
	return l
}

// CollectionChanged returns the event raised for structural changes.
func (l *List[T]) CollectionChanged() *notify.Event[*ChangeArgs[T]] {
	return &l.changed
}

// SetNotificationEnabled turns both the collection and the Count
// notifications on or off. Changes made while disabled are never reported.
func (l *List[T]) SetNotificationEnabled(enabled bool) {
	l.mu.Lock()
	l.disabled = !enabled
	l.mu.Unlock()
}

// NotificationEnabled reports whether changes are being reported.
func (l *List[T]) NotificationEnabled() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return !l.disabled
}

// Count returns the number of items.
func (l *List[T]) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Len is Count.
func (l *List[T]) Len() int {
	return l.Count()
}

// At returns the item at index i. It panics if i is out of range.
func (l *List[T]) At(i int) T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.items[i]
}

// IndexOf returns the index of the first item equal to v, or -1.
func (l *List[T]) IndexOf(v T) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.IndexFunc(l.items, func(item T) bool { return notify.Equal(item, v) })
}

// Contains reports whether v is in the list.
func (l *List[T]) Contains(v T) bool {
	return l.IndexOf(v) >= 0
}

// Items returns a copy of the items.
func (l *List[T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.items)
}

// All iterates over a snapshot of the items.
func (l *List[T]) All() iter.Seq2[int, T] {
	return slices.All(l.Items())
}

// Add appends v.
func (l *List[T]) Add(v T) {
	l.mu.Lock()
	i := len(l.items)
	l.items = append(l.items, v)
	l.mu.Unlock()

	l.raise(&ChangeArgs[T]{Kind: Add, NewItems: []T{v}, NewIndex: i, OldIndex: -1}, true)
}

// Insert inserts v at index i. It panics if i is out of range.
func (l *List[T]) Insert(i int, v T) {
	l.mu.Lock()
	l.checkIndexLocked(i, len(l.items)+1)
	l.items = slices.Insert(l.items, i, v)
	l.mu.Unlock()

	l.raise(&ChangeArgs[T]{Kind: Add, NewItems: []T{v}, NewIndex: i, OldIndex: -1}, true)
}

// RemoveAt removes the item at index i and returns it. It panics if i is
// out of range.
func (l *List[T]) RemoveAt(i int) T {
	l.mu.Lock()
	l.checkIndexLocked(i, len(l.items))
	old := l.items[i]
	l.items = slices.Delete(l.items, i, i+1)
	l.mu.Unlock()

	l.raise(&ChangeArgs[T]{Kind: Remove, OldItems: []T{old}, OldIndex: i, NewIndex: -1}, true)
	return old
}

// Remove removes the first item equal to v and reports whether one was
// found.
func (l *List[T]) Remove(v T) bool {
	i := l.IndexOf(v)
	if i < 0 {
		return false
	}
	l.RemoveAt(i)
	return true
}

// Set replaces the item at index i. Count is unchanged and not notified.
// It panics if i is out of range.
func (l *List[T]) Set(i int, v T) {
	l.mu.Lock()
	l.checkIndexLocked(i, len(l.items))
	old := l.items[i]
	l.items[i] = v
	l.mu.Unlock()

	l.raise(&ChangeArgs[T]{Kind: Replace, NewItems: []T{v}, OldItems: []T{old}, NewIndex: i, OldIndex: i}, false)
}

// Move moves the item at index from to index to. It panics, leaving the
// list unchanged, if either index is out of range.
func (l *List[T]) Move(from, to int) {
	l.mu.Lock()
	l.checkIndexLocked(from, len(l.items))
	l.checkIndexLocked(to, len(l.items))
	v := l.items[from]
	l.items = slices.Delete(l.items, from, from+1)
	l.items = slices.Insert(l.items, to, v)
	l.mu.Unlock()

	if from == to {
		return
	}
	l.raise(&ChangeArgs[T]{Kind: Move, NewItems: []T{v}, OldItems: []T{v}, NewIndex: to, OldIndex: from}, false)
}

// Clear removes every item. It is reported as a single Remove of all the
// old items at index 0.
func (l *List[T]) Clear() {
	l.mu.Lock()
	old := l.items
	l.items = nil
	l.mu.Unlock()

	if len(old) == 0 {
		return
	}
	l.raise(&ChangeArgs[T]{Kind: Remove, OldItems: old, OldIndex: 0, NewIndex: -1}, true)
}

// Reset replaces the contents with items.
func (l *List[T]) Reset(items []T) {
	l.mu.Lock()
	old := l.items
	l.items = slices.Clone(items)
	l.mu.Unlock()

	l.raise(&ChangeArgs[T]{Kind: Reset, NewItems: slices.Clone(items), OldItems: old, NewIndex: 0, OldIndex: 0}, len(old) != len(items))
}

// checkIndexLocked panics if i is not in [0, n). The lock is released
// before panicking so a recovered caller can keep using the list.
func (l *List[T]) checkIndexLocked(i, n int) {
	if i < 0 || i >= n {
		l.mu.Unlock()
		panic(fmt.Sprintf("collection: index %d out of range [0:%d]", i, n))
	}
}

func (l *List[T]) raise(args *ChangeArgs[T], countChanged bool) {
	if !l.NotificationEnabled() {
		return
	}
	l.changed.Raise(l, args)
	if countChanged {
		l.Notify("Count")
	}
}

// NotifyFor calls fn for the changes of l whose kind is one of kinds, or
// for every change when kinds is empty.
func NotifyFor[T any](l *List[T], fn notify.Handler[*ChangeArgs[T]], kinds ...Kind) (notify.Subscription, error) {
	if l == nil {
		return nil, fmt.Errorf("collection: nil list: %w", notify.ErrNilArgument)
	}
	if fn == nil {
		return nil, fmt.Errorf("collection: nil handler: %w", notify.ErrNilArgument)
	}

	kinds = slices.Clone(kinds)
	cb, err := l.changed.Subscribe(func(source any, args *ChangeArgs[T]) {
		if len(kinds) == 0 || slices.Contains(kinds, args.Kind) {
			fn(source, args)
		}
	})
	if err != nil {
		return nil, err
	}

	inst := notify.CurrentInstrumentation()
	inst.SubscriptionOpened(notify.KindCollection)
	return notify.Join(cb, notify.NewRegistrar(func() {
		inst.SubscriptionClosed(notify.KindCollection)
	})), nil
}
