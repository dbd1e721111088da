package types

import (
	"errors"
	"fmt"
)

// ErrorKind represents a normalized error kind surfaced verbatim to callers.
type ErrorKind string

const (
	// ErrInvalidArgument indicates malformed input (empty name/role/description).
	ErrInvalidArgument ErrorKind = "INVALID_ARGUMENT"
	// ErrNotFound indicates a reference to an unknown team/agent/task ID.
	ErrNotFound ErrorKind = "NOT_FOUND"
	// ErrCyclicDependency indicates an assignment that would introduce a
	// dependency cycle. The rejection happens before any mutation.
	ErrCyclicDependency ErrorKind = "CYCLIC_DEPENDENCY"
	// ErrInvalidState indicates an operation that requires a state the
	// task or agent is not in.
	ErrInvalidState ErrorKind = "INVALID_STATE"
	// ErrDependencyNotSatisfied indicates execution attempted while a
	// dependency has not completed. Details list the unmet dependency IDs.
	ErrDependencyNotSatisfied ErrorKind = "DEPENDENCY_NOT_SATISFIED"
	// ErrIncompleteTasks indicates integration attempted while tasks remain
	// non-completed. Details list the offending task IDs.
	ErrIncompleteTasks ErrorKind = "INCOMPLETE_TASKS"
	// ErrNotReady indicates a result query for a task that has never
	// completed or failed.
	ErrNotReady ErrorKind = "NOT_READY"
	// ErrExecutionFailed indicates the external execution capability
	// returned an error or timed out. It is recorded on the task as its
	// failure reason rather than raised as a hard error.
	ErrExecutionFailed ErrorKind = "EXECUTION_FAILED"
)

// Error is a structured error with a kind, message, and optional details.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Details []string  `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given kind and message.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Errorf creates a new Error with a formatted message.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithDetails attaches detail entries (e.g. offending IDs) to the error.
func (e *Error) WithDetails(details ...string) *Error {
	e.Details = append(e.Details, details...)
	return e
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// GetKind extracts the error kind from an error, unwrapping as needed.
// Returns the empty kind for nil or unstructured errors.
func GetKind(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return GetKind(err) == kind
}

// AsError extracts a structured *Error from err, or wraps it as an
// EXECUTION_FAILED error when it is unstructured.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return NewError(ErrExecutionFailed, err.Error()).WithCause(err)
}
