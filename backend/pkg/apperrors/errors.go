package apperrors

import (
	"errors"
	"fmt"
)

// Kind discriminates the error categories callers must handle distinctly.
type Kind string

const (
	// KindValidation marks requests rejected before any write (cardinality
	// violations, invalid enum values).
	KindValidation Kind = "validation"
	// KindNotFound covers both unknown ids and trees the caller has no
	// relation to; the two are deliberately indistinguishable so that
	// existence never leaks to unauthorized callers.
	KindNotFound Kind = "not_found"
	// KindForbidden means the caller has some access, but below the
	// required role.
	KindForbidden Kind = "forbidden"
	// KindConflict marks duplicate unique keys, e.g. a taken email.
	KindConflict Kind = "conflict"
)

// Error is the typed error carried across package boundaries.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match two taxonomy errors by kind and message, so the
// sentinel values below work through wrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(format string, args ...interface{}) *Error {
	return New(KindValidation, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...interface{}) *Error {
	return New(KindNotFound, fmt.Sprintf(format, args...))
}

func Forbidden(format string, args ...interface{}) *Error {
	return New(KindForbidden, fmt.Sprintf(format, args...))
}

func Conflict(format string, args ...interface{}) *Error {
	return New(KindConflict, fmt.Sprintf(format, args...))
}

// KindOf extracts the taxonomy kind from err, unwrapping as needed.
// Errors outside the taxonomy report an empty Kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Cardinality violations rejected by the relationship constraint gate.
var (
	// ErrParentLimitExceeded: a person already has two incoming PARENT_OF edges.
	ErrParentLimitExceeded = New(KindValidation, "person already has two parents")
	// ErrSpouseLimitExceeded: a person already participates in a SPOUSE_OF edge.
	ErrSpouseLimitExceeded = New(KindValidation, "person already has a spouse")
)
