// Package notify provides property change notification for Go objects.
//
// An object becomes observable by embedding a Notifier and binding it to
// itself. Property writes go through Set, which raises a change event only
// when the value actually changes, and then walks the type's dependency
// declarations so that every derived property is notified exactly once.
//
// # Observable Types
//
//	type Person struct {
//	    notify.Notifier
//	}
//
//	func NewPerson() *Person {
//	    p := &Person{}
//	    p.Bind(p)
//	    return p
//	}
//
//	func (p *Person) First() string     { return notify.Get[string](&p.Notifier, "First") }
//	func (p *Person) SetFirst(v string) { notify.Set(&p.Notifier, "First", v) }
//	func (p *Person) Last() string      { return notify.Get[string](&p.Notifier, "Last") }
//	func (p *Person) SetLast(v string)  { notify.Set(&p.Notifier, "Last", v) }
//	func (p *Person) Full() string      { return p.First() + " " + p.Last() }
//
// # Dependencies
//
// A type declares which properties imply a change of another property by
// implementing Declarer:
//
//	func (*Person) NotifiedBy() notify.Dependencies {
//	    return notify.Dependencies{
//	        "Full": notify.By("First", "Last"),
//	    }
//	}
//
// Writing First now raises First and then Full. Declarations are read once
// per type and cached for the life of the process. A type that embeds
// another declarer may inherit the embedded type's declaration for a
// property with By(...).Inherited().
//
// # Subscribing
//
//	sub, err := notify.NotifyFor(p, "Full", func(src any, e *notify.NotifiedEventArgs) {
//	    fmt.Println("full name is now", e.NewValue)
//	})
//	defer sub.Unsubscribe()
//
// Handlers registered with SubscribeMethod and the Weak ownership mode do
// not keep their receiver alive; once the receiver is collected the
// callback removes itself on the next change.
//
// Nested properties are observed with SubscribePath:
//
//	notify.SubscribePath(order, "Customer.Address.Street", handler)
//
// The chain follows replacements of Customer or Address at runtime.
//
// # Threading
//
// Notification is synchronous: a write performs its whole cascade before
// returning. Subscriber lists are safe for concurrent use; the values of a
// single object are expected to be written from one goroutine at a time.
package notify
