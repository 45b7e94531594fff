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
		{name: "parsing error type", errType: ErrTypeParsing, expected: "PARSING"},
		{name: "storage error type", errType: ErrTypeStorage, expected: "STORAGE"},
		{name: "validation error type", errType: ErrTypeValidation, expected: "VALIDATION"},
		{name: "not found error type", errType: ErrTypeNotFound, expected: "NOT_FOUND"},
		{name: "permission error type", errType: ErrTypePermission, expected: "PERMISSION"},
		{name: "config error type", errType: ErrTypeConfig, expected: "CONFIG"},
		{name: "schema error type", errType: ErrTypeSchema, expected: "SCHEMA"},
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
				Type:    ErrTypeSchema,
				Message: "unrecognized dataset header",
			},
			wantMessage: "[SCHEMA] unrecognized dataset header",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeStorage,
				Message: "failed to write report",
				Cause:   fmt.Errorf("disk full"),
			},
			wantMessage: "[STORAGE] failed to write report: disk full",
		},
		{
			name: "error with empty message",
			appError: &AppError{
				Type: ErrTypeValidation,
			},
			wantMessage: "[VALIDATION] ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	sentinel := errors.New("sentinel")
	err := NewParsingError("bad row", fmt.Errorf("line 3: %w", sentinel))

	assert.True(t, errors.Is(err, sentinel))
	assert.Nil(t, NewNotFoundError("input file").Unwrap())
}

func TestAppError_WithContext(t *testing.T) {
	err := &AppError{Type: ErrTypeNotFound, Message: "missing"}
	err.WithContext("path", "orders.csv").WithContext("line", 3)

	require.NotNil(t, err.Context)
	assert.Equal(t, "orders.csv", err.Context["path"])
	assert.Equal(t, 3, err.Context["line"])
}

func TestConstructors(t *testing.T) {
	cause := errors.New("cause")
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
	}{
		{name: "parsing", err: NewParsingError("p", cause), wantType: ErrTypeParsing},
		{name: "storage", err: NewStorageError("s", cause), wantType: ErrTypeStorage},
		{name: "validation", err: NewAppValidationError("v"), wantType: ErrTypeValidation},
		{name: "not found", err: NewNotFoundError("file"), wantType: ErrTypeNotFound},
		{name: "permission", err: NewPermissionError("denied"), wantType: ErrTypePermission},
		{name: "config", err: NewConfigError("c", cause), wantType: ErrTypeConfig},
		{name: "schema", err: NewSchemaError("h", cause), wantType: ErrTypeSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.NotNil(t, tt.err.Context)
			assert.True(t, IsType(fmt.Errorf("wrapped: %w", tt.err), tt.wantType))
		})
	}
	assert.Equal(t, "file not found", NewNotFoundError("file").Message)
	assert.False(t, IsType(cause, ErrTypeParsing))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain error", err: errors.New("boom"), want: "boom"},
		{
			name: "app error with path",
			err:  NewNotFoundError("input file").WithContext("path", "/data/orders.csv"),
			want: "input file not found (/data/orders.csv)",
		},
		{
			name: "app error reports innermost cause",
			err:  NewStorageError("failed to write report", fmt.Errorf("open: %w", errors.New("read-only file system"))),
			want: "failed to write report: read-only file system",
		},
		{
			name: "wrapped app error",
			err:  fmt.Errorf("run: %w", NewSchemaError("unrecognized header", nil)),
			want: "unrecognized header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}
