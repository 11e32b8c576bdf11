package apperr

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	// ErrValidation marks a business-rule or input violation.
	ErrValidation = errors.New("validation error")

	// ErrPermission marks an author who may not perform the operation.
	ErrPermission = errors.New("permission denied")

	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when inserting a duplicate id.
	ErrAlreadyExists = errors.New("already exists")
)

// Error is a typed failure carrying one of the kinds above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Validation returns an ErrValidation failure.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// Permission returns an ErrPermission failure.
func Permission(format string, args ...any) *Error {
	return &Error{Kind: ErrPermission, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing record.
func NotFound(resource, id string) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf("%s %q not found", resource, id)}
}

// AlreadyExists reports a duplicate record id.
func AlreadyExists(resource, id string) *Error {
	return &Error{Kind: ErrAlreadyExists, Message: fmt.Sprintf("%s %q already exists", resource, id)}
}

func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }
func IsPermission(err error) bool { return errors.Is(err, ErrPermission) }
func IsNotFound(err error) bool   { return errors.Is(err, ErrNotFound) }
