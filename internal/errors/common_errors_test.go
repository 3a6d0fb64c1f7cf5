package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{name: "data source", errType: ErrTypeDataSource, expected: "DATA_SOURCE"},
		{name: "invalid selection", errType: ErrTypeInvalidSelection, expected: "INVALID_SELECTION"},
		{name: "type coercion", errType: ErrTypeTypeCoercion, expected: "TYPE_COERCION"},
		{name: "binning", errType: ErrTypeBinning, expected: "BINNING"},
		{name: "empty result", errType: ErrTypeEmptyResult, expected: "EMPTY_RESULT"},
		{name: "config", errType: ErrTypeConfig, expected: "CONFIG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name: "error without cause",
			appError: &AppError{
				Type:    ErrTypeBinning,
				Message: "bin count must be positive, got 0",
			},
			wantMessage: "[BINNING] bin count must be positive, got 0",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeDataSource,
				Message: `open "data/equity_data.csv"`,
				Cause:   fmt.Errorf("no such file or directory"),
			},
			wantMessage: `[DATA_SOURCE] open "data/equity_data.csv": no such file or directory`,
		},
		{
			name:        "error with empty message",
			appError:    &AppError{Type: ErrTypeEmptyResult},
			wantMessage: "[EMPTY_RESULT] ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("original error")
	err := NewDataSourceError("read table", cause)

	assert.Same(t, cause, err.Unwrap())
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, NewBinningError("no cause").Unwrap())
}

func TestAppError_Is(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		want     bool
	}{
		{name: "same kind", err: NewBinningError("degenerate range"), sentinel: ErrBinning, want: true},
		{name: "different kind", err: NewBinningError("degenerate range"), sentinel: ErrEmptyResult, want: false},
		{name: "wrapped", err: fmt.Errorf("stage failed: %w", NewInvalidSelectionError("factor")), sentinel: ErrInvalidSelection, want: true},
		{name: "plain error", err: errors.New("boom"), sentinel: ErrDataSource, want: false},
		{name: "coercion", err: NewTypeCoercionError("Mkt Cap", 2, "N/A", nil), sentinel: ErrTypeCoercion, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.sentinel))
		})
	}
}

func TestAppError_WithContext(t *testing.T) {
	err := &AppError{Type: ErrTypeConfig, Message: "bad config"}
	require.Nil(t, err.Context)

	got := err.WithContext("field", "Analysis.Bins").WithContext("value", 0)

	assert.Same(t, err, got)
	assert.Equal(t, "Analysis.Bins", got.Context["field"])
	assert.Equal(t, 0, got.Context["value"])
}

func TestNewTypeCoercionError(t *testing.T) {
	cause := errors.New("can't convert N/A to decimal")
	err := NewTypeCoercionError("Mkt Cap", 3, "N/A", cause)

	assert.Equal(t, ErrTypeTypeCoercion, err.Type)
	assert.Contains(t, err.Error(), `"Mkt Cap"`)
	assert.Contains(t, err.Error(), `"N/A"`)
	assert.Equal(t, "Mkt Cap", err.Context["column"])
	assert.Equal(t, 3, err.Context["row"])
	assert.Equal(t, "N/A", err.Context["value"])
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, ErrTypeEmptyResult, TypeOf(fmt.Errorf("reduce: %w", NewEmptyResultError("no bins"))))
	assert.Equal(t, ErrorType(""), TypeOf(errors.New("plain")))
	assert.Equal(t, ErrorType(""), TypeOf(nil))
}
