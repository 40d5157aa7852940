package notify

import (
	"fmt"
	"reflect"
	"strings"
)

// Accessor resolves properties by name without reflection. Types that
// implement it take precedence over the reflective getter/setter lookup.
//
// GetProperty must not call back into Notifier.PropertyValue for the same
// name.
type Accessor interface {
	GetProperty(name string) (any, bool)
	SetProperty(name string, value any) error
}

// PropertyTyper reports the declared type of a named property. It is called
// on a zero value and must not depend on instance state.
type PropertyTyper interface {
	PropertyType(name string) (reflect.Type, bool)
}

var (
	accessorType      = reflect.TypeFor[Accessor]()
	propertyTyperType = reflect.TypeFor[PropertyTyper]()
	notifiableType    = reflect.TypeFor[Notifiable]()
	errorType         = reflect.TypeFor[error]()
)

// notifierMethods are the exported methods of *Notifier. They are never
// treated as properties of the types that embed it.
var notifierMethods = func() map[string]bool {
	t := reflect.TypeFor[*Notifier]()
	m := make(map[string]bool, t.NumMethod())
	for i := 0; i < t.NumMethod(); i++ {
		m[t.Method(i).Name] = true
	}
	return m
}()

// accessorTable holds the reflective getters and setters of a pointer type.
type accessorTable struct {
	getters map[string]reflect.Method
	setters map[string]reflect.Method
}

var accessorTables = newTypeCache(buildAccessorTable)

// buildAccessorTable indexes the exported methods of t that look like
// property accessors: X() T and SetX(T) or SetX(T) error.
func buildAccessorTable(t reflect.Type) *accessorTable {
	table := &accessorTable{
		getters: make(map[string]reflect.Method),
		setters: make(map[string]reflect.Method),
	}

	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		if notifierMethods[m.Name] || m.Name == "NotifiedBy" {
			continue
		}
		ft := m.Type
		switch {
		case ft.NumIn() == 1 && ft.NumOut() == 1:
			table.getters[m.Name] = m
		case strings.HasPrefix(m.Name, "Set") && len(m.Name) > 3 && ft.NumIn() == 2 &&
			(ft.NumOut() == 0 || (ft.NumOut() == 1 && ft.Out(0) == errorType)):
			table.setters[m.Name[3:]] = m
		}
	}
	return table
}

// GetProperty returns the value of the named property of owner, through
// Accessor when implemented and an exported getter method otherwise.
func GetProperty(owner any, name string) (any, bool) {
	if isNil(owner) {
		return nil, false
	}
	if a, ok := owner.(Accessor); ok {
		return a.GetProperty(name)
	}

	rv := reflect.ValueOf(owner)
	m, ok := accessorTables.get(rv.Type()).getters[name]
	if !ok {
		return nil, false
	}
	return m.Func.Call([]reflect.Value{rv})[0].Interface(), true
}

// SetProperty sets the named property of owner, through Accessor when
// implemented and an exported SetX method otherwise.
func SetProperty(owner any, name string, value any) error {
	if isNil(owner) {
		return nilArgument("owner")
	}
	if a, ok := owner.(Accessor); ok {
		return a.SetProperty(name, value)
	}

	rv := reflect.ValueOf(owner)
	rt := rv.Type()
	m, ok := accessorTables.get(rt).setters[name]
	if !ok {
		if _, ok := accessorTables.get(rt).getters[name]; ok {
			return readOnlyProperty(rt.String(), name)
		}
		return unknownProperty(rt.String(), name)
	}

	want := m.Type.In(1)
	var arg reflect.Value
	switch {
	case value == nil:
		arg = reflect.Zero(want)
	case reflect.TypeOf(value).AssignableTo(want):
		arg = reflect.ValueOf(value)
	default:
		return fmt.Errorf("%w: %s.%s wants %s, got %T", ErrTypeMismatch, rt.String(), name, want, value)
	}

	out := m.Func.Call([]reflect.Value{rv, arg})
	if len(out) == 1 && !out[0].IsNil() {
		return out[0].Interface().(error)
	}
	return nil
}

// PropertyTypeOf returns the declared type of the named property of t.
// It consults PropertyTyper first, then the return type of a getter method.
// t may be an interface type, in which case only its methods are used.
func PropertyTypeOf(t reflect.Type, name string) (reflect.Type, bool) {
	if t == nil {
		return nil, false
	}

	if t.Kind() == reflect.Interface {
		m, ok := t.MethodByName(name)
		if !ok || m.Type.NumIn() != 0 || m.Type.NumOut() != 1 {
			return nil, false
		}
		return m.Type.Out(0), true
	}

	pt := t
	if pt.Kind() != reflect.Pointer {
		pt = reflect.PointerTo(t)
	}
	if pt.Implements(propertyTyperType) {
		if typ, ok := reflect.New(pt.Elem()).Interface().(PropertyTyper).PropertyType(name); ok {
			return typ, true
		}
	}

	if m, ok := accessorTables.get(pt).getters[name]; ok {
		return m.Type.Out(0), true
	}
	return nil, false
}

// PropertyWritable reports whether the named property of t can be set.
// Types implementing Accessor are assumed writable.
func PropertyWritable(t reflect.Type, name string) bool {
	if t == nil {
		return false
	}
	if t.Kind() == reflect.Interface {
		_, ok := t.MethodByName("Set" + name)
		return ok || t.Implements(accessorType)
	}
	pt := t
	if pt.Kind() != reflect.Pointer {
		pt = reflect.PointerTo(t)
	}
	if pt.Implements(accessorType) {
		return true
	}
	_, ok := accessorTables.get(pt).setters[name]
	return ok
}

// isNotifiable reports whether values of t can raise change notifications.
func isNotifiable(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if t.Implements(notifiableType) {
		return true
	}
	return t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface &&
		reflect.PointerTo(t).Implements(notifiableType)
}
