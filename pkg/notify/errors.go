package notify

import (
	"errors"

	nerrors "github.com/narvi-dev/narvi/internal/errors"
)

// ErrNilArgument is returned when a required handler, source or removal
// action is nil.
var ErrNilArgument = errors.New("notify: nil argument")

// ErrInvalidPath is returned by SubscribePath for paths that are not dotted
// identifiers.
var ErrInvalidPath = errors.New("notify: malformed property path")

// ErrSegmentNotNotifiable is returned by SubscribePath when a path segment
// is owned by a type that cannot raise change notifications. There would be
// no way to observe changes past such a segment.
var ErrSegmentNotNotifiable = errors.New("notify: path segment is not notifiable")

// ErrUnknownProperty is returned when a property cannot be resolved on a type.
var ErrUnknownProperty = errors.New("notify: unknown property")

// ErrInvalidProperty is returned for blank property names.
var ErrInvalidProperty = errors.New("notify: invalid property name")

// ErrReadOnlyProperty is returned when setting a property that has no setter.
var ErrReadOnlyProperty = errors.New("notify: property is read-only")

// ErrTypeMismatch is returned when a value or a bound property does not
// have the expected type.
var ErrTypeMismatch = errors.New("notify: type mismatch")

// ErrCascadeAborted is reported to instrumentation when a listener panics
// in the middle of a cascade.
var ErrCascadeAborted = errors.New("notify: cascade aborted by listener panic")

func nilArgument(name string) error {
	return nerrors.New("N001").WithDetailf("argument %q", name).Wrap(ErrNilArgument)
}

func invalidProperty(name string) error {
	return nerrors.New("N002").WithDetailf("property %q", name).Wrap(ErrInvalidProperty)
}

func unknownProperty(typeName, name string) error {
	return nerrors.New("N003").WithDetailf("%s has no property %q", typeName, name).Wrap(ErrUnknownProperty)
}

func readOnlyProperty(typeName, name string) error {
	return nerrors.New("N004").WithDetailf("%s.%s", typeName, name).Wrap(ErrReadOnlyProperty)
}
