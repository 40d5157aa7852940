package notify

import (
	"reflect"
	"runtime"
	"strings"

	nerrors "github.com/narvi-dev/narvi/internal/errors"
)

// PropertyName returns the property named by a method expression or method
// value, such as (*Customer).Address or c.SetAddress, both of which name
// "Address". It returns "" for anything that is not a non-nil func.
func PropertyName(method any) string {
	v := reflect.ValueOf(method)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	fn := runtime.FuncForPC(v.Pointer())
	if fn == nil {
		return ""
	}
	return propertyFromFunc(fn.Name())
}

// NotifyMember notifies the property named by a method expression:
//
//	p.NotifyMember((*Person).Full)
func (n *Notifier) NotifyMember(method any) {
	property := PropertyName(method)
	if property == "" {
		logger().Warn("notify: NotifyMember called without a method", "type", n.declaredType().String())
		return
	}
	n.Notify(property)
}

// SubscribeMembers is SubscribePath with the path given as method
// expressions, one per segment:
//
//	notify.SubscribeMembers(c, fn, (*Customer).Address, (*Address).City)
//
// For method expressions the receiver of each member must accept the root,
// or the result of the member before it.
func SubscribeMembers(root Notifiable, fn PathHandler, members ...any) (*PathSegment, error) {
	if isNil(root) {
		return nil, nilArgument("root")
	}
	if len(members) == 0 {
		return nil, nerrors.New("N011").WithDetail("no members").Wrap(ErrInvalidPath)
	}

	names := make([]string, len(members))
	cur := reflect.TypeOf(root)
	for i, m := range members {
		names[i] = PropertyName(m)
		if names[i] == "" {
			return nil, invalidProperty(describeMember(m))
		}
		next, err := chainMember(cur, m, strings.Join(names[:i+1], "."))
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return SubscribeSegments(root, fn, names...)
}

// chainMember checks that a method expression accepts cur as its receiver
// and returns its result type. Method values carry no receiver type and are
// left to the path's own checks.
func chainMember(cur reflect.Type, m any, prefix string) (reflect.Type, error) {
	mt := reflect.TypeOf(m)
	if cur == nil || mt.NumIn() != 1 || mt.NumOut() < 1 {
		return nil, nil
	}
	recv := mt.In(0)
	if !cur.AssignableTo(recv) {
		return nil, nerrors.New("N012").
			WithDetailf("%q expects %s, got %s", prefix, recv.String(), cur.String()).
			Wrap(ErrTypeMismatch)
	}
	return mt.Out(0), nil
}

func describeMember(m any) string {
	if m == nil {
		return "<nil>"
	}
	return reflect.TypeOf(m).String()
}
