package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodeMapping(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{NewInvalidInput("missing field"), http.StatusBadRequest},
		{NewUnauthorized(""), http.StatusUnauthorized},
		{NewQuotaExhausted("user-1"), http.StatusForbidden},
		{NewNotFound("User not found"), http.StatusNotFound},
		{NewConflict("Email already exists"), http.StatusConflict},
		{NewGenerationFailed(fmt.Errorf("timeout")), http.StatusInternalServerError},
		{NewNormalizationFailed("not JSON", nil), http.StatusInternalServerError},
		{NewValidationFailed("calories", "must be an integer or null"), http.StatusInternalServerError},
		{NewPersistenceFailed(fmt.Errorf("disk full")), http.StatusInternalServerError},
		{NewInternal(""), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.StatusCode(), "code %s", tt.err.Code)
	}
}

func TestWrapPassesAppErrorsThrough(t *testing.T) {
	original := NewQuotaExhausted("user-1")
	wrapped := Wrap(original, "something else")
	assert.Same(t, original, wrapped)

	plain := fmt.Errorf("connection refused")
	wrapped = Wrap(plain, "database unavailable")
	require.NotNil(t, wrapped)
	assert.Equal(t, CodeInternal, wrapped.Code)
	assert.ErrorIs(t, wrapped, plain)

	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestIsMatchesCode(t *testing.T) {
	err := NewValidationFailed("[0].dinner", "required key missing")
	assert.True(t, Is(err, CodeValidationFailed))
	assert.False(t, Is(err, CodeNormalizationFailed))
	assert.False(t, Is(fmt.Errorf("plain"), CodeValidationFailed))
}

func TestValidationFailedCarriesField(t *testing.T) {
	err := NewValidationFailed("calories", "must be an integer or null")
	assert.Equal(t, "calories", err.Metadata["field"])
}
