package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryConstruction Category = "construction"
	CategoryPath         Category = "path"
	CategoryBinding      Category = "binding"
	CategoryConfig       Category = "config"
	CategoryCLI          Category = "cli"
)

// NarviError is a structured error with a code, explanation and fix hint.
type NarviError struct {
	// Code is a unique error identifier (e.g., "N001").
	Code string

	// Category is the error type (construction, path, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *NarviError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *NarviError) Unwrap() error {
	return e.Wrapped
}

// WithSuggestion adds a fix suggestion to the error.
func (e *NarviError) WithSuggestion(s string) *NarviError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *NarviError) WithDetail(d string) *NarviError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted explanation to the error.
func (e *NarviError) WithDetailf(format string, args ...any) *NarviError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *NarviError) Wrap(err error) *NarviError {
	e.Wrapped = err
	return e
}

// New creates a NarviError from a registered error code.
func New(code string) *NarviError {
	template, ok := registry[code]
	if !ok {
		return &NarviError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &NarviError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new NarviError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *NarviError {
	return &NarviError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a NarviError.
func FromError(err error, code string) *NarviError {
	if err == nil {
		return nil
	}
	if ne, ok := err.(*NarviError); ok {
		return ne
	}
	return New(code).Wrap(err)
}
