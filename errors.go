package duckflat

import (
	"errors"
	"fmt"
)

// ErrorType represents different kinds of duckflat errors.
type ErrorType int

const (
	// ErrGeneric is a generic error.
	ErrGeneric ErrorType = iota
	// ErrConnection is an open or connect error.
	ErrConnection
	// ErrQuery is a query failure reported by the engine.
	ErrQuery
	// ErrUnsupportedType is a result column whose type has no flat tag.
	ErrUnsupportedType
	// ErrAlloc is a buffer allocation failure during marshaling.
	ErrAlloc
	// ErrClosed is an operation on a closed database or connection.
	ErrClosed
	// ErrEngine is an engine registration or loading error.
	ErrEngine
)

var errorTypeNames = [...]string{
	ErrGeneric:         "generic",
	ErrConnection:      "connection",
	ErrQuery:           "query",
	ErrUnsupportedType: "unsupported type",
	ErrAlloc:           "allocation",
	ErrClosed:          "closed",
	ErrEngine:          "engine",
}

// String returns the name of the error type.
func (t ErrorType) String() string {
	if t >= 0 && int(t) < len(errorTypeNames) {
		return errorTypeNames[t]
	}
	return fmt.Sprintf("ErrorType(%d)", int(t))
}

// Error is a duckflat-specific error type.
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("duckflat: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("duckflat: %s", e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new Error.
func NewError(typ ErrorType, message string) *Error {
	return &Error{
		Type:    typ,
		Message: message,
	}
}

// WrapError creates a new Error wrapping cause.
func WrapError(typ ErrorType, message string, cause error) *Error {
	return &Error{
		Type:    typ,
		Message: message,
		Err:     cause,
	}
}

// IsError checks if an error, or any error it wraps, is of a specific type.
func IsError(err error, typ ErrorType) bool {
	var flatErr *Error
	if !errors.As(err, &flatErr) {
		return false
	}
	return flatErr.Type == typ
}

// State is the two-valued status reported across the C boundary.
type State int32

const (
	// StateSuccess reports a completed call.
	StateSuccess State = 0
	// StateError reports a failed call.
	StateError State = 1
)

// String returns the state name.
func (s State) String() string {
	if s == StateSuccess {
		return "success"
	}
	return "error"
}

// StateOf collapses an error into a State.
func StateOf(err error) State {
	if err != nil {
		return StateError
	}
	return StateSuccess
}
