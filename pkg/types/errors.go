package types

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a class of failure.
type ErrorCode string

const (
	// S0xxx: structural errors
	ErrMalformedNode    ErrorCode = "S0101"
	ErrUnknownOperation ErrorCode = "S0102"
	ErrNestingTooDeep   ErrorCode = "S0103"
	ErrInvalidDocument  ErrorCode = "S0104"

	// T0xxx: type resolution errors
	ErrNoImplementation   ErrorCode = "T0101"
	ErrIndeterminateType  ErrorCode = "T0102"
	ErrTypeMismatch       ErrorCode = "T0103"
	ErrDuplicateOperation ErrorCode = "T0104"

	// D0xxx: evaluation domain errors
	ErrDomain        ErrorCode = "D0101"
	ErrRange         ErrorCode = "D0102"
	ErrInvalidNumber ErrorCode = "D0103"

	// U0xxx: missing variables
	ErrUndefinedVariable ErrorCode = "U0101"
)

// Error is a coded failure raised while building or evaluating an expression.
type Error struct {
	Code    ErrorCode
	Message string
	// Path locates the offending node inside a serialized expression ("$.lhs.arg").
	Path string
	Err  error
}

// NewError creates a new coded error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Errorf creates a new coded error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s at %s: %s", e.Code, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithPath sets the node path if none was recorded yet.
// The innermost path wins, so errors raised deep in a tree keep their location.
func (e *Error) WithPath(path string) *Error {
	if e.Path == "" {
		e.Path = path
	}
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// IsCode reports whether err (or any error it wraps) is an *Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	for err != nil {
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Err
	}
	return false
}

// CodeOf returns the code of the outermost *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
