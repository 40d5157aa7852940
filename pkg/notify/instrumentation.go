package notify

import (
	"reflect"
	"sync/atomic"
)

// Subscription kinds reported to Instrumentation.
const (
	KindCallback   = "callback"
	KindPath       = "path"
	KindBinding    = "binding"
	KindCollection = "collection"
)

// Instrumentation observes the notification engine. Implementations must
// be safe for concurrent use and must not raise notifications themselves.
// See the telemetry package for Prometheus and OpenTelemetry versions.
type Instrumentation interface {
	// CascadeStarted is called by the outermost Notify of a write.
	CascadeStarted(owner reflect.Type, property string) CascadeScope

	// CallbackCollected is called when a weak callback finds its receiver
	// collected and removes itself.
	CallbackCollected()

	// SubscriptionOpened and SubscriptionClosed bracket the life of a
	// subscription of the given kind.
	SubscriptionOpened(kind string)
	SubscriptionClosed(kind string)

	// PathRewired is called when a path segment re-attaches its tail to a
	// replaced intermediate value.
	PathRewired(path string)
}

// CascadeScope follows a single cascade.
type CascadeScope interface {
	// Notified is called once per property raised in the cascade, the
	// antecedent first.
	Notified(property string)

	// End is called when the cascade finishes. err is ErrCascadeAborted
	// when a listener panicked.
	End(err error)
}

type instrumentationHolder struct {
	impl Instrumentation
}

var currentInstrumentation atomic.Pointer[instrumentationHolder]

// SetInstrumentation installs i for the whole process. A nil value restores
// the no-op default.
func SetInstrumentation(i Instrumentation) {
	if i == nil {
		currentInstrumentation.Store(nil)
		return
	}
	currentInstrumentation.Store(&instrumentationHolder{impl: i})
}

// CurrentInstrumentation returns the installed Instrumentation, never nil.
func CurrentInstrumentation() Instrumentation {
	return instrumentation()
}

func instrumentation() Instrumentation {
	if h := currentInstrumentation.Load(); h != nil {
		return h.impl
	}
	return noopInstrumentation{}
}

type noopInstrumentation struct{}

func (noopInstrumentation) CascadeStarted(reflect.Type, string) CascadeScope { return noopScope{} }
func (noopInstrumentation) CallbackCollected()                             {}
func (noopInstrumentation) SubscriptionOpened(string)                      {}
func (noopInstrumentation) SubscriptionClosed(string)                      {}
func (noopInstrumentation) PathRewired(string)                             {}

type noopScope struct{}

func (noopScope) Notified(string) {}
func (noopScope) End(error)       {}
