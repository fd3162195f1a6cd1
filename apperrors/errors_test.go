package apperrors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		code int
	}{
		{"not found", NewNotFoundError("Issue not found"), http.StatusNotFound},
		{"forbidden", NewForbiddenError("nope"), http.StatusForbidden},
		{"invalid state", NewInvalidStateError("not pending"), http.StatusBadRequest},
		{"conflict", NewConflictError("already voted"), http.StatusBadRequest},
		{"validation", NewValidationError("Validation failed"), http.StatusBadRequest},
		{"unauthorized", NewUnauthorizedError("Authentication required"), http.StatusUnauthorized},
		{"too many", NewTooManyRequestsError("slow down"), http.StatusTooManyRequests},
		{"internal", NewInternalError("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

func TestGetAppError_Wrapped(t *testing.T) {
	base := NewConflictError("Already voted on this issue")
	wrapped := fmt.Errorf("vote: %w", base)

	got := GetAppError(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, ErrorTypeConflict, got.Type)
	assert.True(t, IsConflict(wrapped))
	assert.False(t, IsNotFound(wrapped))
	assert.Nil(t, GetAppError(fmt.Errorf("plain")))
}

func TestValidationError_Fields(t *testing.T) {
	err := NewValidationError("Validation failed",
		FieldError{Field: "title", Message: "title is required"},
		FieldError{Field: "category", Message: "category must be one of ROAD WATER"},
	)

	assert.True(t, IsValidation(err))
	assert.Len(t, err.Errors, 2)
	assert.Equal(t, "validation_error: Validation failed", err.Error())
}
