package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeValidation, http.StatusBadRequest},
		{CodeConflict, http.StatusConflict},
		{CodeUnavailable, http.StatusServiceUnavailable},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeInconsistent, http.StatusInternalServerError},
		{CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := NotFoundf("album %q not found", "paris-trip")

	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrValidation))

	wrapped := fmt.Errorf("load album: %w", err)
	assert.True(t, Is(wrapped, ErrNotFound))
}

func TestError_CauseIsPreserved(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := Unavailable(cause, "list photos")

	assert.Equal(t, "list photos: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, err.Code.Retryable())
}

func TestInconsistent_CarriesDetails(t *testing.T) {
	details := map[string]any{"failed": "link-tags"}
	err := Inconsistent(fmt.Errorf("disk full"), "create album", details)

	assert.Equal(t, CodeInconsistent, err.Code)
	assert.Equal(t, details, err.Details)
	assert.False(t, err.Code.Retryable())
}

func TestCode_Retryable(t *testing.T) {
	assert.True(t, CodeUnavailable.Retryable())
	assert.True(t, CodeRateLimited.Retryable())
	assert.False(t, CodeValidation.Retryable())
	assert.False(t, CodeInconsistent.Retryable())
	assert.False(t, CodeInternal.Retryable())
}
