// Package apperrors defines the failure kinds services return and the HTTP
// status each kind maps to at the transport boundary.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType is the stable machine-readable label of a failure.
type ErrorType string

const (
	ErrorTypeValidation      ErrorType = "validation_error"
	ErrorTypeNotFound        ErrorType = "not_found"
	ErrorTypeConflict        ErrorType = "conflict"
	ErrorTypeInvalidState    ErrorType = "invalid_state"
	ErrorTypeUnauthorized    ErrorType = "unauthorized"
	ErrorTypeForbidden       ErrorType = "forbidden"
	ErrorTypeTooManyRequests ErrorType = "too_many_requests"
	ErrorTypeInternal        ErrorType = "internal_error"
)

// FieldError describes one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError is a typed failure carrying a human-readable message.
type AppError struct {
	Type    ErrorType    `json:"type"`
	Message string       `json:"message"`
	Code    int          `json:"-"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func newError(t ErrorType, code int, message string) *AppError {
	return &AppError{Type: t, Message: message, Code: code}
}

// NewValidationError creates a validation failure with optional field errors.
func NewValidationError(message string, fields ...FieldError) *AppError {
	err := newError(ErrorTypeValidation, http.StatusBadRequest, message)
	err.Errors = fields
	return err
}

func NewNotFoundError(message string) *AppError {
	return newError(ErrorTypeNotFound, http.StatusNotFound, message)
}

func NewConflictError(message string) *AppError {
	return newError(ErrorTypeConflict, http.StatusBadRequest, message)
}

func NewInvalidStateError(message string) *AppError {
	return newError(ErrorTypeInvalidState, http.StatusBadRequest, message)
}

func NewUnauthorizedError(message string) *AppError {
	return newError(ErrorTypeUnauthorized, http.StatusUnauthorized, message)
}

func NewForbiddenError(message string) *AppError {
	return newError(ErrorTypeForbidden, http.StatusForbidden, message)
}

func NewTooManyRequestsError(message string) *AppError {
	return newError(ErrorTypeTooManyRequests, http.StatusTooManyRequests, message)
}

func NewInternalError(message string) *AppError {
	return newError(ErrorTypeInternal, http.StatusInternalServerError, message)
}

// GetAppError extracts an AppError from an error chain.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// Is reports whether err is an AppError of the given type.
func Is(err error, t ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == t
}

func IsNotFound(err error) bool     { return Is(err, ErrorTypeNotFound) }
func IsConflict(err error) bool     { return Is(err, ErrorTypeConflict) }
func IsForbidden(err error) bool    { return Is(err, ErrorTypeForbidden) }
func IsInvalidState(err error) bool { return Is(err, ErrorTypeInvalidState) }
func IsValidation(err error) bool   { return Is(err, ErrorTypeValidation) }
