package notify

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// NotifyFor calls fn whenever property changes on source.
func NotifyFor(source Notifiable, property string, fn Handler[*NotifiedEventArgs]) (Subscription, error) {
	if strings.TrimSpace(property) == "" {
		return nil, invalidProperty(property)
	}
	return subscribeWhen(source, fn, func(a *NotifiedEventArgs) bool {
		return a.Property == property
	})
}

// NotifyForAny calls fn whenever one of properties changes on source.
func NotifyForAny(source Notifiable, properties []string, fn Handler[*NotifiedEventArgs]) (Subscription, error) {
	set := mapset.NewSet[string]()
	for _, p := range properties {
		if strings.TrimSpace(p) == "" {
			return nil, invalidProperty(p)
		}
		set.Add(p)
	}
	return subscribeWhen(source, fn, func(a *NotifiedEventArgs) bool {
		return set.Contains(a.Property)
	})
}

// NotifyForFunc calls fn for every change on source whose property name
// satisfies match.
func NotifyForFunc(source Notifiable, match func(property string) bool, fn Handler[*NotifiedEventArgs]) (Subscription, error) {
	if match == nil {
		return nil, nilArgument("match")
	}
	return subscribeWhen(source, fn, func(a *NotifiedEventArgs) bool {
		return match(a.Property)
	})
}

// NotifyForMethod calls method on receiver whenever property changes on
// source, without keeping receiver reachable. Once receiver is collected
// the subscription removes itself on the next change of source.
func NotifyForMethod[R any](source Notifiable, property string, receiver *R, method func(*R, any, *NotifiedEventArgs)) (Subscription, error) {
	if isNil(source) {
		return nil, nilArgument("source")
	}
	if strings.TrimSpace(property) == "" {
		return nil, invalidProperty(property)
	}

	e := source.PropertyChanged()
	cb, err := NewMethodCallback(receiver, method, Weak, e.detach)
	if err != nil {
		return nil, err
	}
	cb.when = func(a *NotifiedEventArgs) bool { return a.Property == property }
	e.Add(cb)
	return cb, nil
}

func subscribeWhen(source Notifiable, fn Handler[*NotifiedEventArgs], when func(*NotifiedEventArgs) bool) (Subscription, error) {
	if isNil(source) {
		return nil, nilArgument("source")
	}

	e := source.PropertyChanged()
	cb, err := NewFuncCallback(fn, e.detach)
	if err != nil {
		return nil, err
	}
	cb.when = when
	e.Add(cb)
	return cb, nil
}
