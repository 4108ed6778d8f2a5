package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		err      *StructuredError
		expected string
	}{
		{
			name:     "error without cause",
			err:      NotFound("recipe not found"),
			expected: "[NOT_FOUND] recipe not found",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeInternal, "insert failed", errors.New("connection reset")),
			expected: "[INTERNAL] insert failed: connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestInternalKeepsCause(t *testing.T) {
	cause := errors.New("server selection timeout")
	err := Internal(cause)

	assert.Equal(t, "server selection timeout", err.Message)
	assert.True(t, errors.Is(err, cause))
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("saving: %w", Conflict("email already registered"))

	assert.Equal(t, ErrCodeConflict, CodeOf(wrapped))
	assert.Equal(t, ErrCodeInternal, CodeOf(errors.New("plain")))
	assert.True(t, Is(wrapped, ErrCodeConflict))
	assert.False(t, Is(nil, ErrCodeConflict))

	var se *StructuredError
	require.True(t, errors.As(wrapped, &se))
	assert.Equal(t, "email already registered", se.Message)
}

func TestHTTPStatus(t *testing.T) {
	tests := map[ErrorCode]int{
		ErrCodeValidation:         http.StatusBadRequest,
		ErrCodeUnauthenticated:    http.StatusUnauthorized,
		ErrCodeInvalidToken:       http.StatusUnauthorized,
		ErrCodeInvalidCredentials: http.StatusUnauthorized,
		ErrCodeForbidden:          http.StatusForbidden,
		ErrCodeNotFound:           http.StatusNotFound,
		ErrCodeConflict:           http.StatusConflict,
		ErrCodeInternal:           http.StatusInternalServerError,
		ErrorCode("UNKNOWN"):      http.StatusInternalServerError,
	}
	for code, want := range tests {
		assert.Equal(t, want, HTTPStatus(code), string(code))
	}
}
