// Package binding keeps a property of one notifiable object in sync with a
// property of another.
package binding

import (
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"

	nerrors "github.com/narvi-dev/narvi/internal/errors"
	"github.com/narvi-dev/narvi/pkg/notify"
)

// ErrIncompleteProfile is returned when a profile has no source or no
// property name.
var ErrIncompleteProfile = errors.New("binding: incomplete profile")

// ErrUnknownMode is returned by New for a Mode outside the declared ones.
var ErrUnknownMode = errors.New("binding: unknown mode")

// Mode selects the direction in which values flow.
type Mode uint8

const (
	// TwoWay copies changes in both directions.
	TwoWay Mode = iota

	// LeftToRight copies changes of the left property to the right one.
	LeftToRight

	// RightToLeft copies changes of the right property to the left one.
	RightToLeft
)

// String returns the name of the mode.
func (m Mode) String() string {
	switch m {
	case TwoWay:
		return "two-way"
	case LeftToRight:
		return "left-to-right"
	case RightToLeft:
		return "right-to-left"
	default:
		return "unknown"
	}
}

func (m Mode) valid() bool {
	return m <= RightToLeft
}

// Profile names one side of a binding.
type Profile struct {
	Source   notify.Notifiable
	Property string
}

// Get returns the current value of the profile's property.
func (p Profile) Get() (any, bool) {
	return p.Source.PropertyValue(p.Property)
}

// Set writes the profile's property.
func (p Profile) Set(v any) error {
	return notify.SetProperty(p.Source, p.Property, v)
}

func (p Profile) validate(side string) error {
	if isNil(p.Source) || strings.TrimSpace(p.Property) == "" {
		return nerrors.New("N021").WithDetailf("%s profile", side).Wrap(ErrIncompleteProfile)
	}
	return nil
}

func (p Profile) propertyType() (reflect.Type, error) {
	t := reflect.TypeOf(p.Source)
	pt, ok := notify.PropertyTypeOf(t, p.Property)
	if !ok {
		return nil, nerrors.New("N003").
			WithDetailf("%s has no property %q", t.String(), p.Property).
			Wrap(notify.ErrUnknownProperty)
	}
	return pt, nil
}

// Option configures a Binding.
type Option func(*Binding)

// WithLogger sets the logger used to report failed writes. The default is
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(b *Binding) {
		if l != nil {
			b.logger = l
		}
	}
}

// Binding copies property values between two notifiable objects.
//
// A write made by the binding does not bounce back: while the binding is
// copying a value, change notifications on either side are ignored by this
// binding. The guard belongs to the binding, so other bindings on the same
// objects are unaffected.
type Binding struct {
	left  Profile
	right Profile
	mode  Mode

	logger *slog.Logger

	updating atomic.Bool

	mu       sync.Mutex
	subs     []notify.Subscription
	lastErr  error
	released bool
}

// New binds left and right. Both properties must resolve to the same type.
// The current values are not copied; call Sync for that.
func New(left, right Profile, mode Mode, opts ...Option) (*Binding, error) {
	if !mode.valid() {
		return nil, nerrors.New("N022").
			WithDetailf("Mode(%d)", uint8(mode)).
			Wrap(ErrUnknownMode)
	}
	if err := left.validate("left"); err != nil {
		return nil, err
	}
	if err := right.validate("right"); err != nil {
		return nil, err
	}

	lt, err := left.propertyType()
	if err != nil {
		return nil, err
	}
	rt, err := right.propertyType()
	if err != nil {
		return nil, err
	}
	if lt != rt {
		return nil, nerrors.New("N020").
			WithDetailf("%s.%s is %s, %s.%s is %s",
				reflect.TypeOf(left.Source), left.Property, lt,
				reflect.TypeOf(right.Source), right.Property, rt).
			Wrap(notify.ErrTypeMismatch)
	}

	b := &Binding{
		left:   left,
		right:  right,
		mode:   mode,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}

	if mode == TwoWay || mode == LeftToRight {
		sub, err := notify.NotifyFor(left.Source, left.Property, b.leftChanged)
		if err != nil {
			return nil, err
		}
		b.subs = append(b.subs, sub)
	}
	if mode == TwoWay || mode == RightToLeft {
		sub, err := notify.NotifyFor(right.Source, right.Property, b.rightChanged)
		if err != nil {
			for _, s := range b.subs {
				s.Unsubscribe()
			}
			return nil, err
		}
		b.subs = append(b.subs, sub)
	}

	notify.CurrentInstrumentation().SubscriptionOpened(notify.KindBinding)
	return b, nil
}

// Mode returns the binding's direction.
func (b *Binding) Mode() Mode {
	return b.mode
}

// Left returns the left profile.
func (b *Binding) Left() Profile {
	return b.left
}

// Right returns the right profile.
func (b *Binding) Right() Profile {
	return b.right
}

// Sync copies the current value in the binding's direction; left to right
// unless the mode is RightToLeft.
func (b *Binding) Sync() error {
	if b.mode == RightToLeft {
		return b.copy(b.right, b.left)
	}
	return b.copy(b.left, b.right)
}

// Err returns the error of the last failed copy, if any.
func (b *Binding) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

// Release removes the binding's subscriptions. Calling it again does
// nothing.
func (b *Binding) Release() {
	b.mu.Lock()
	if b.released {
		b.mu.Unlock()
		return
	}
	b.released = true
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
	notify.CurrentInstrumentation().SubscriptionClosed(notify.KindBinding)
}

func (b *Binding) leftChanged(any, *notify.NotifiedEventArgs) {
	b.propagate(b.left, b.right)
}

func (b *Binding) rightChanged(any, *notify.NotifiedEventArgs) {
	b.propagate(b.right, b.left)
}

func (b *Binding) propagate(from, to Profile) {
	if err := b.copy(from, to); err != nil {
		b.logger.Warn("binding: copy failed",
			"from", from.Property,
			"to", to.Property,
			"error", err)
	}
}

// copy writes from's value to to, unless a copy by this binding is already
// in progress.
func (b *Binding) copy(from, to Profile) error {
	if !b.updating.CompareAndSwap(false, true) {
		return nil
	}
	defer b.updating.Store(false)

	v, _ := from.Get()
	err := to.Set(v)

	b.mu.Lock()
	b.lastErr = err
	b.mu.Unlock()
	return err
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
