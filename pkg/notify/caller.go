package notify

import (
	"runtime"
	"strings"
	"unicode"
)

const pkgPrefix = "github.com/narvi-dev/narvi/pkg/notify."

// NotifyCaller notifies the property named after the calling method.
// Called from SetFirst or First it notifies "First".
func (n *Notifier) NotifyCaller() {
	if property := callerProperty(); property != "" {
		n.Notify(property)
	}
}

// SetCaller is Set with the property named after the calling method:
//
//	func (p *Person) SetFirst(v string) { notify.SetCaller(&p.Notifier, v) }
func SetCaller[V any](n *Notifier, value V) bool {
	property := callerProperty()
	if property == "" {
		return false
	}
	return Set(n, property, value)
}

// callerProperty derives a property name from the first stack frame
// outside this package.
func callerProperty() string {
	pcs := make([]uintptr, 16)
	frames := runtime.CallersFrames(pcs[:runtime.Callers(2, pcs)])
	for {
		frame, more := frames.Next()
		if frame.Function != "" && !strings.HasPrefix(frame.Function, pkgPrefix) {
			return propertyFromFunc(frame.Function)
		}
		if !more {
			return ""
		}
	}
}

// propertyFromFunc maps a qualified function name such as
// "example.com/model.(*Person).SetFirst.func1" to "First".
func propertyFromFunc(fn string) string {
	if i := strings.LastIndexByte(fn, '/'); i >= 0 {
		fn = fn[i+1:]
	}
	parts := strings.Split(fn, ".")
	name := ""
	for i := len(parts) - 1; i > 0; i-- {
		if !isClosureName(parts[i]) {
			name = parts[i]
			break
		}
	}
	name = strings.TrimSuffix(name, "-fm")

	if rest, ok := strings.CutPrefix(name, "Set"); ok && rest != "" {
		if r := []rune(rest)[0]; unicode.IsUpper(r) || r == '_' {
			return rest
		}
	}
	return name
}

// isClosureName reports whether part names a compiler generated closure
// or wrapper, like "func1", "gowrap2" or "1".
func isClosureName(part string) bool {
	for _, p := range []string{"func", "gowrap", "deferwrap"} {
		part = strings.TrimPrefix(part, p)
	}
	if part == "" {
		return true
	}
	for _, r := range part {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
