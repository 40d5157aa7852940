// Package narvi provides the public API for the narvi change-notification
// engine.
//
// This is the recommended import for most applications:
//
//	import "github.com/narvi-dev/narvi"
//
// Usage:
//
//	type Person struct{ narvi.Notifier }
//
//	func (p *Person) First() string     { return narvi.Get[string](&p.Notifier, "First") }
//	func (p *Person) SetFirst(v string) { narvi.Set(&p.Notifier, "First", v) }
//	func (p *Person) Full() string      { return p.First() + " " + p.Last() }
//
//	func (*Person) NotifiedBy() narvi.Dependencies {
//	    return narvi.Dependencies{"Full": narvi.By("First", "Last")}
//	}
//
// The lower level packages live under pkg/: notify (the engine),
// collection (observable lists), binding (property bindings) and
// telemetry (Prometheus and OpenTelemetry instrumentation).
package narvi

import (
	"github.com/narvi-dev/narvi/pkg/binding"
	"github.com/narvi-dev/narvi/pkg/collection"
	"github.com/narvi-dev/narvi/pkg/notify"
)

// =============================================================================
// Notifiable objects
// =============================================================================

// Notifier is embedded by types that raise change notifications.
type Notifier = notify.Notifier

// Notifiable is the capability of raising change notifications.
type Notifiable = notify.Notifiable

// NotifiedEventArgs describes one property change.
type NotifiedEventArgs = notify.NotifiedEventArgs

// Handler receives change events.
type Handler = notify.Handler[*notify.NotifiedEventArgs]

// Subscription is returned by every subscribing operation.
type Subscription = notify.Subscription

// Dependencies maps a derived property to the properties it is notified by.
type Dependencies = notify.Dependencies

// Declaration lists the base properties of one derived property.
type Declaration = notify.Declaration

// By declares a property as notified by bases.
func By(bases ...string) Declaration {
	return notify.By(bases...)
}

// NewNotifier returns a standalone Notifier raising events for owner.
func NewNotifier(owner any) *Notifier {
	return notify.NewNotifier(owner)
}

// Get returns the stored value of property, or the zero value.
func Get[V any](n *Notifier, property string) V {
	return notify.Get[V](n, property)
}

// Set stores value and notifies property unless the value is unchanged.
func Set[V any](n *Notifier, property string, value V) bool {
	return notify.Set(n, property, value)
}

// =============================================================================
// Subscriptions
// =============================================================================

// NotifyFor calls fn when property of source changes.
func NotifyFor(source Notifiable, property string, fn Handler) (Subscription, error) {
	return notify.NotifyFor(source, property, fn)
}

// NotifyForMethod calls method on receiver when property of source changes.
// The receiver is held weakly.
func NotifyForMethod[R any](source Notifiable, property string, receiver *R, method func(*R, any, *NotifiedEventArgs)) (Subscription, error) {
	return notify.NotifyForMethod(source, property, receiver, method)
}

// PathSegment is one link of a path subscription.
type PathSegment = notify.PathSegment

// PathHandler receives changes anywhere along a subscribed path.
type PathHandler = notify.PathHandler

// SubscribePath follows a dotted property path from root, re-wiring itself
// as intermediate values are replaced.
func SubscribePath(root Notifiable, path string, fn PathHandler) (*PathSegment, error) {
	return notify.SubscribePath(root, path, fn)
}

// SubscribeMembers is SubscribePath with the path given as method
// expressions, such as (*Customer).Address, (*Address).City.
func SubscribeMembers(root Notifiable, fn PathHandler, members ...any) (*PathSegment, error) {
	return notify.SubscribeMembers(root, fn, members...)
}

// PropertyName returns the property named by a method expression or value.
func PropertyName(method any) string {
	return notify.PropertyName(method)
}

// =============================================================================
// Collections and bindings
// =============================================================================

// List is an observable list.
type List[T any] = collection.List[T]

// NewList returns an observable list holding items.
func NewList[T any](items ...T) *List[T] {
	return collection.New(items...)
}

// Profile names one side of a binding.
type Profile = binding.Profile

// Bind keeps two properties in sync.
func Bind(left, right Profile, mode binding.Mode, opts ...binding.Option) (*binding.Binding, error) {
	return binding.New(left, right, mode, opts...)
}

// Binding modes.
const (
	TwoWay      = binding.TwoWay
	LeftToRight = binding.LeftToRight
	RightToLeft = binding.RightToLeft
)
