package types

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a stable error code for programmatic handling.
type Code string

const (
	CodeValidation   Code = "validation"
	CodeNotFound     Code = "not_found"
	CodeMediaStore   Code = "media_store"
	CodePersistence  Code = "persistence"
	CodeUnauthorized Code = "unauthorized"
)

// FieldError names one field that failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError is the error taxonomy shared by the catalog and mutation engines.
type AppError struct {
	Code    Code
	Message string
	Fields  []FieldError
	Err     error
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			parts = append(parts, f.Field+": "+f.Message)
		}
		msg = fmt.Sprintf("%s (%s)", msg, strings.Join(parts, "; "))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *AppError) Unwrap() error { return e.Err }

// NewValidationError reports every failed field at once.
func NewValidationError(message string, fields ...FieldError) *AppError {
	return &AppError{Code: CodeValidation, Message: message, Fields: fields}
}

// NewNotFoundError reports a missing record.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message}
}

// NewMediaStoreError wraps a failed object storage operation.
func NewMediaStoreError(op string, err error) *AppError {
	return &AppError{Code: CodeMediaStore, Message: "media store " + op + " failed", Err: err}
}

// NewPersistenceError wraps a failed database write or read.
func NewPersistenceError(message string, err error) *AppError {
	return &AppError{Code: CodePersistence, Message: message, Err: err}
}

// IsCode checks if an error has the provided code (through unwrapping).
func IsCode(err error, code Code) bool {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// ValidationErrors accumulates field errors during a validation pass.
type ValidationErrors []FieldError

// Add records a field failure.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, FieldError{Field: field, Message: message})
}

// Has reports whether field already failed.
func (v ValidationErrors) Has(field string) bool {
	for _, f := range v {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Err returns nil when nothing failed.
func (v ValidationErrors) Err(message string) error {
	if len(v) == 0 {
		return nil
	}
	return NewValidationError(message, v...)
}

// CustomError is an HTTP-level failure raised by middleware and rendered by the app error handler.
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// Forbidden is a 403 CustomError.
func Forbidden(errorType, message string) *CustomError {
	return &CustomError{Code: 403, Message: message, Type: errorType}
}

// BadRequest is a 400 CustomError.
func BadRequest(errorType, message string) *CustomError {
	return &CustomError{Code: 400, Message: message, Type: errorType}
}
