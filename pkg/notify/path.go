package notify

import (
	"reflect"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"

	nerrors "github.com/narvi-dev/narvi/internal/errors"
)

var pathPattern = regexp.MustCompile(`^@?[a-zA-Z_]\w*(\.@?[a-zA-Z_]\w*)*$`)

// PathHandler receives changes observed along a property path. path is the
// prefix of the subscribed path up to and including the segment that
// changed, e.g. "Customer.Address" when the Address of the current customer
// was replaced.
type PathHandler func(source any, path string, args *NotifiedEventArgs)

// PathSegment is one node of a path subscription. The head returned by
// SubscribePath owns the whole chain.
//
// When a segment's property changes, the segment detaches everything
// downstream, re-attaches the next segment to the new value if it is not
// nil, and then calls the handler. The handler is called for changes at
// every level, not only for the last property.
type PathSegment struct {
	name    string
	path    string
	handler PathHandler
	next    *PathSegment

	// mu protects source and sub.
	mu     sync.Mutex
	source Notifiable
	sub    Subscription

	closed atomic.Bool
}

// SubscribePath observes the dotted property path starting at root. Every
// segment but the last must have a notifiable type; this is checked on the
// static property types before anything is subscribed.
//
// Paths over cyclic object graphs are not guarded: if a change re-targets a
// segment to an object upstream in the same chain, the handler sees each
// resulting change.
func SubscribePath(root Notifiable, path string, fn PathHandler) (*PathSegment, error) {
	if isNil(root) {
		return nil, nilArgument("root")
	}
	if fn == nil {
		return nil, nilArgument("handler")
	}
	if !pathPattern.MatchString(path) {
		return nil, nerrors.New("N011").WithDetailf("path %q", path).Wrap(ErrInvalidPath)
	}

	names := strings.Split(path, ".")
	for i := range names {
		names[i] = strings.TrimPrefix(names[i], "@")
	}

	if err := checkPath(reflect.TypeOf(root), names); err != nil {
		return nil, err
	}

	head := buildChain(names, fn)
	head.attach(root)
	instrumentation().SubscriptionOpened(KindPath)
	return head, nil
}

// SubscribeSegments is SubscribePath with the path given as separate
// property names.
func SubscribeSegments(root Notifiable, fn PathHandler, segments ...string) (*PathSegment, error) {
	if len(segments) == 0 {
		return nil, nerrors.New("N011").WithDetail("no segments").Wrap(ErrInvalidPath)
	}
	return SubscribePath(root, strings.Join(segments, "."), fn)
}

// checkPath verifies that each non-terminal segment resolves to a
// notifiable type.
func checkPath(t reflect.Type, names []string) error {
	for i, name := range names[:len(names)-1] {
		prefix := strings.Join(names[:i+1], ".")
		pt, ok := PropertyTypeOf(t, name)
		if !ok {
			return nerrors.New("N003").
				WithDetailf("%s has no property %q (path %q)", t.String(), name, prefix).
				Wrap(ErrUnknownProperty)
		}
		if !isNotifiable(pt) {
			return nerrors.New("N010").
				WithDetailf("%q has type %s", prefix, pt.String()).
				Wrap(ErrSegmentNotNotifiable)
		}
		t = pt
	}
	return nil
}

func buildChain(names []string, fn PathHandler) *PathSegment {
	var next *PathSegment
	for i := len(names) - 1; i >= 0; i-- {
		next = &PathSegment{
			name:    names[i],
			path:    strings.Join(names[:i+1], "."),
			handler: fn,
			next:    next,
		}
	}
	return next
}

// Name returns the property observed by this segment.
func (s *PathSegment) Name() string {
	return s.name
}

// Path returns the path up to and including this segment.
func (s *PathSegment) Path() string {
	return s.path
}

// Next returns the following segment, or nil for the last one.
func (s *PathSegment) Next() *PathSegment {
	return s.next
}

// Source returns the object this segment currently observes, or nil when
// an upstream value is nil.
func (s *PathSegment) Source() Notifiable {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Active reports whether this segment holds a live subscription.
func (s *PathSegment) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sub != nil
}

// Unsubscribe releases this segment's subscription and those of every
// segment after it. Calling it again does nothing.
func (s *PathSegment) Unsubscribe() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.detach()
	for seg := s.next; seg != nil; seg = seg.next {
		seg.closed.Store(true)
	}
	instrumentation().SubscriptionClosed(KindPath)
}

func (s *PathSegment) attach(src Notifiable) {
	if s.closed.Load() {
		return
	}

	s.mu.Lock()
	s.source = src
	if src != nil {
		sub, err := NotifyFor(src, s.name, s.changed)
		if err != nil {
			logger().Warn("notify: path segment not attached", "path", s.path, "error", err)
		}
		s.sub = sub
	}
	s.mu.Unlock()

	if s.next == nil {
		return
	}
	var v any
	if src != nil {
		v, _ = src.PropertyValue(s.name)
	}
	s.next.attach(asNotifiable(v))
}

// detach releases the subscriptions of s and everything downstream.
func (s *PathSegment) detach() {
	for seg := s; seg != nil; seg = seg.next {
		seg.mu.Lock()
		sub := seg.sub
		seg.sub, seg.source = nil, nil
		seg.mu.Unlock()

		if sub != nil {
			sub.Unsubscribe()
		}
	}
}

func (s *PathSegment) changed(source any, args *NotifiedEventArgs) {
	if s.closed.Load() {
		return
	}

	if s.next != nil {
		s.next.detach()
		if v := asNotifiable(args.NewValue); v != nil {
			s.next.attach(v)
		}
		logger().Debug("notify: path segment re-wired", "path", s.path, "attached", s.next.Active())
		instrumentation().PathRewired(s.path)
	}

	s.handler(source, s.path, args)
}

// asNotifiable returns v as a Notifiable, or nil for nil, typed nil and
// non-notifiable values.
func asNotifiable(v any) Notifiable {
	if isNil(v) {
		return nil
	}
	n, _ := v.(Notifiable)
	return n
}
