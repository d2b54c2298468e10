package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// Common error codes
const (
	ErrValidation ErrorCode = iota + 1000
	ErrNotFound
	ErrSlotUnavailable
	ErrConflict
	ErrInvalidTransition
	ErrInternal
)

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
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

// Is matches two AppErrors by code so callers can use errors.Is with the
// sentinel constructors below.
func (e *AppError) Is(target error) bool {
	var appErr *AppError
	if !errors.As(target, &appErr) {
		return false
	}
	return e.Code == appErr.Code
}

// Error constructors
func NewValidation(message string, err error) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: message,
		Err:     err,
	}
}

func NewNotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func NewSlotUnavailable(message string) *AppError {
	return &AppError{
		Code:    ErrSlotUnavailable,
		Message: message,
	}
}

func NewConflict(message string, err error) *AppError {
	return &AppError{
		Code:    ErrConflict,
		Message: message,
		Err:     err,
	}
}

func NewInvalidTransition(message string) *AppError {
	return &AppError{
		Code:    ErrInvalidTransition,
		Message: message,
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// Sentinels for errors.Is checks
var (
	Validation        = &AppError{Code: ErrValidation, Message: "validation failed"}
	NotFound          = &AppError{Code: ErrNotFound, Message: "not found"}
	SlotUnavailable   = &AppError{Code: ErrSlotUnavailable, Message: "slot unavailable"}
	Conflict          = &AppError{Code: ErrConflict, Message: "conflict"}
	InvalidTransition = &AppError{Code: ErrInvalidTransition, Message: "invalid transition"}
	Internal          = &AppError{Code: ErrInternal, Message: "internal server error"}
)

// CodeOf returns the application error code, or ErrInternal for
// errors that did not originate from this package.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}
