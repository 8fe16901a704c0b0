package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrNotAuthorized    = errors.New("not authorized")
	ErrInvalidState     = errors.New("invalid state")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrDuplicate        = errors.New("duplicate resource")
	ErrValidation       = errors.New("validation error")
)

// AppError is a recoverable, per-request failure. The wrapped sentinel decides
// the HTTP status; Message is safe to surface verbatim to the caller.
type AppError struct {
	Err     error
	Message string
	Field   string // optional field causing a validation error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%v not found", resource),
	}
}

func NotAuthorized(message string) *AppError {
	return &AppError{
		Err:     ErrNotAuthorized,
		Message: message,
	}
}

func InvalidState(message string) *AppError {
	return &AppError{
		Err:     ErrInvalidState,
		Message: message,
	}
}

func CapacityExceeded(message string) *AppError {
	return &AppError{
		Err:     ErrCapacityExceeded,
		Message: message,
	}
}

func Duplicate(message string) *AppError {
	return &AppError{
		Err:     ErrDuplicate,
		Message: message,
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}
