package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the kind of failure that terminated a run
type ErrorType string

const (
	ErrTypeDataSource       ErrorType = "DATA_SOURCE"
	ErrTypeInvalidSelection ErrorType = "INVALID_SELECTION"
	ErrTypeTypeCoercion     ErrorType = "TYPE_COERCION"
	ErrTypeBinning          ErrorType = "BINNING"
	ErrTypeEmptyResult      ErrorType = "EMPTY_RESULT"
	ErrTypeConfig           ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an AppError of the same type.
// A target with an empty message acts as a kind sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if t.Message == "" {
		return e.Type == t.Type
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Kind sentinels for errors.Is
var (
	ErrDataSource       = &AppError{Type: ErrTypeDataSource}
	ErrInvalidSelection = &AppError{Type: ErrTypeInvalidSelection}
	ErrTypeCoercion     = &AppError{Type: ErrTypeTypeCoercion}
	ErrBinning          = &AppError{Type: ErrTypeBinning}
	ErrEmptyResult      = &AppError{Type: ErrTypeEmptyResult}
	ErrConfig           = &AppError{Type: ErrTypeConfig}
)

// Helper functions for common error types

// NewDataSourceError creates an error for a missing, unreadable or malformed input table
func NewDataSourceError(message string, cause error) *AppError {
	return NewAppError(ErrTypeDataSource, message, cause)
}

// NewInvalidSelectionError creates an error for a rejected factor or bin count
func NewInvalidSelectionError(message string) *AppError {
	return NewAppError(ErrTypeInvalidSelection, message, nil)
}

// NewTypeCoercionError creates an error for a value that does not parse under the inferred type
func NewTypeCoercionError(column string, row int, value string, cause error) *AppError {
	return NewAppError(ErrTypeTypeCoercion,
		fmt.Sprintf("column %q row %d: cannot convert %q", column, row, value), cause).
		WithContext("column", column).
		WithContext("row", row).
		WithContext("value", value)
}

// NewBinningError creates an error for a degenerate bin count or factor range
func NewBinningError(message string) *AppError {
	return NewAppError(ErrTypeBinning, message, nil)
}

// NewEmptyResultError creates an error raised when no bin can contribute to the result
func NewEmptyResultError(message string) *AppError {
	return NewAppError(ErrTypeEmptyResult, message, nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// TypeOf returns the ErrorType of the first AppError in err's chain, or "" if none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}
