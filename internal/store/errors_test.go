package store

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestError_IsMatchesVariants(t *testing.T) {
	err := ErrNotFound.WithMessage("album not found")
	if !errors.Is(err, ErrNotFound) {
		t.Fatal("WithMessage variant should match ErrNotFound")
	}
	if errors.Is(err, ErrAlreadyExists) {
		t.Fatal("not found should not match already exists")
	}

	wrapped := fmt.Errorf("get album: %w", ErrInvalidInput.WithCause(errors.New("no columns")))
	var storeErr *Error
	if !errors.As(wrapped, &storeErr) {
		t.Fatal("expected *Error in chain")
	}
	if storeErr.HTTPCode() != http.StatusBadRequest {
		t.Errorf("HTTPCode = %d", storeErr.HTTPCode())
	}
}
