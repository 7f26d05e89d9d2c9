package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryNotFound        Category = "not_found"
	CategoryInvalidArgument Category = "invalid_argument"
	CategoryHostHook        Category = "host_hook"
	CategoryConfig          Category = "config"
	CategoryProtocol        Category = "protocol"
	CategoryRuntime         Category = "runtime"
)

// Error implements the error interface so a Category can be used as an
// errors.Is target.
func (c Category) Error() string {
	return string(c)
}

// Sentinels for errors.Is. A *HiveError matches the sentinel of its category.
var (
	ErrNotFound        error = CategoryNotFound
	ErrInvalidArgument error = CategoryInvalidArgument
	ErrHostHook        error = CategoryHostHook
	ErrConfig          error = CategoryConfig
	ErrProtocol        error = CategoryProtocol
	ErrRuntime         error = CategoryRuntime
)

// HiveError is a structured error with a registry code, category and hints.
type HiveError struct {
	// Code is a unique error identifier (e.g., "H001").
	Code string

	// Category is the error type (not_found, invalid_argument, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation, usually naming the offending value.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *HiveError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg = msg + ": " + e.Detail
	}
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, msg)
	}
	if e.Wrapped != nil {
		msg = msg + ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *HiveError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is the sentinel for this error's category, or a
// *HiveError with the same code.
func (e *HiveError) Is(target error) bool {
	switch t := target.(type) {
	case Category:
		return e.Category == t
	case *HiveError:
		return t.Code != "" && t.Code == e.Code
	}
	return false
}

// WithDetail adds a detailed explanation to the error.
func (e *HiveError) WithDetail(d string) *HiveError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detail to the error.
func (e *HiveError) WithDetailf(format string, args ...any) *HiveError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *HiveError) WithSuggestion(s string) *HiveError {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *HiveError) Wrap(err error) *HiveError {
	e.Wrapped = err
	return e
}

// New creates a HiveError from a registered error code.
func New(code string) *HiveError {
	template, ok := registry[code]
	if !ok {
		return &HiveError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &HiveError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
	}
}

// Newf creates a new HiveError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *HiveError {
	return &HiveError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps err in a HiveError with code. A HiveError that already
// carries a code is returned as is.
func FromError(err error, code string) *HiveError {
	if err == nil {
		return nil
	}
	if he, ok := err.(*HiveError); ok && he.Code != "" {
		return he
	}
	return New(code).Wrap(err)
}

// Code returns the registry code of err, or "" if err is not a *HiveError.
func Code(err error) string {
	for err != nil {
		if he, ok := err.(*HiveError); ok {
			return he.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}
