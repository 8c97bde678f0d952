package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Kind classifies an application error into one of the expected,
// caller-recoverable outcomes or an opaque internal fault.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindUnauthorized
	KindInvalidStateTransition
	KindValidation
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindInvalidStateTransition:
		return "invalid_state_transition"
	case KindValidation:
		return "validation"
	default:
		return "internal"
	}
}

// AppError represents an application error
type AppError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error constructors
func NotFound(resource string, err error) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func Unauthorized(err error) *AppError {
	return &AppError{
		Kind:    KindUnauthorized,
		Message: "unauthorized",
		Err:     err,
	}
}

// InvalidStateTransition reports a lifecycle action attempted from a
// status outside its allowed source set.
func InvalidStateTransition(current, action string) *AppError {
	return &AppError{
		Kind:    KindInvalidStateTransition,
		Message: fmt.Sprintf("cannot %s order in status %s", action, current),
	}
}

func Validation(message string, err error) *AppError {
	return &AppError{
		Kind:    KindValidation,
		Message: message,
		Err:     err,
	}
}

// ValidationIDs reports a validation failure naming every offending
// identifier, not just the first.
func ValidationIDs(message string, ids []string) *AppError {
	return &AppError{
		Kind:    KindValidation,
		Message: fmt.Sprintf("%s: %s", message, strings.Join(ids, ", ")),
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Kind:    KindInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// KindOf returns the kind of err if it is (or wraps) an AppError, and
// KindInternal otherwise, so infrastructure faults are never mistaken
// for business-rule violations.
func KindOf(err error) Kind {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err classifies as the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
