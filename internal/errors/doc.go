// Package errors provides structured, coded errors for narvi.
//
// Construction failures across the notification packages (a nil handler,
// a malformed property path, a binding between properties of different
// types) are reported as *NarviError values. Each error carries a code
// that maps to a registered message and explanation, and wraps one of the
// public sentinel errors so callers can still match with errors.Is.
//
// # Error Categories
//
//   - construction: invalid arguments to a subscribe or construct call
//   - path: malformed or non-observable property paths
//   - binding: property bindings that cannot be established
//   - config: configuration loading and validation
//   - cli: command line usage
//
// # Usage
//
//	err := errors.New("N010").
//	    WithDetail(`segment "Address" of "Customer.Address.Street"`).
//	    Wrap(notify.ErrSegmentNotNotifiable)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR N010: Path segment is not observable
//	//
//	//   segment "Address" of "Customer.Address.Street"
//	//
//	//   Hint: Embed notify.Notifier in the segment's type.
package errors
