package optimization

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Use errors.Is to classify an error returned by any
// package under internal/optimization.
var (
	// ErrInvalidArgument reports an absent required input or a dimension
	// mismatch detected at a call boundary.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNumericalDomain reports a non-finite function value (or a search that
	// cannot be bracketed) encountered during a search.
	ErrNumericalDomain = errors.New("numerical domain error")
	// ErrIterationLimit is the diagnostic attached to a non-converged Result.
	// It is never returned as the error of a Minimize call.
	ErrIterationLimit = errors.New("iteration limit reached before convergence")
)

// Error represents an optimization error with context
// that can be wrapped with additional information.
type Error struct {
	// Kind is one of the sentinel errors above.
	Kind error
	// Message describes the error that occurred.
	Message string
	// Op is the operation that caused the error.
	Op string
	// Component is the component where the error occurred.
	Component string
	// Err is the underlying error that triggered this one, if any.
	Err error
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var prefix string
	switch {
	case e.Component != "" && e.Op != "":
		prefix = fmt.Sprintf("%s: %s", e.Component, e.Op)
	case e.Component != "":
		prefix = e.Component
	case e.Op != "":
		prefix = e.Op
	}

	msg := e.Message
	if e.Kind != nil {
		if msg == "" {
			msg = e.Kind.Error()
		} else {
			msg = e.Kind.Error() + ": " + msg
		}
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if prefix != "" {
		return prefix + ": " + msg
	}
	return msg
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is the kind of this error.
func (e *Error) Is(target error) bool {
	return e != nil && e.Kind != nil && e.Kind == target
}

// WithOperation adds operation context to the error.
func (e *Error) WithOperation(op string) *Error {
	e.Op = op
	return e
}

// WithComponent adds component context to the error.
func (e *Error) WithComponent(component string) *Error {
	e.Component = component
	return e
}

// InvalidArgument creates an ErrInvalidArgument error with a formatted message.
func InvalidArgument(format string, args ...interface{}) *Error {
	return &Error{
		Kind:    ErrInvalidArgument,
		Message: fmt.Sprintf(format, args...),
	}
}

// NumericalDomain creates an ErrNumericalDomain error with a formatted message.
func NumericalDomain(format string, args ...interface{}) *Error {
	return &Error{
		Kind:    ErrNumericalDomain,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError wraps an existing error with additional context.
// If err is nil, WrapError returns nil.
func WrapError(err error, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Message: message,
		Err:     err,
	}
}

// WrapErrorf wraps an existing error with additional formatted context.
// If err is nil, WrapErrorf returns nil.
func WrapErrorf(err error, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// IsOptimizationError checks if an error is, or wraps, an *Error.
// If so, it returns the outermost one and true.
func IsOptimizationError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
