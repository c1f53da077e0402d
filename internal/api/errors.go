package api

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/tripframe/tripframe-server/internal/errors"
	"github.com/tripframe/tripframe-server/internal/objectstore"
	"github.com/tripframe/tripframe-server/internal/store"
)

// APIError is a custom error type that implements huma.StatusError.
// It maps domain errors to HTTP responses with consistent structure.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
	// Retryable marks errors the client may retry unchanged.
	Retryable bool `json:"retryable,omitempty" doc:"Whether the request may be retried as is"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler configures huma to use domain errors.
// Call this after creating the huma.API but before registering routes.
func RegisterErrorHandler() {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		var problems []string
		for _, err := range errs {
			var domainErr *domainerrors.Error
			if errors.As(err, &domainErr) {
				return &APIError{
					status:    domainErr.HTTPStatus(),
					Code:      string(domainErr.Code),
					Message:   domainErr.Message,
					Details:   domainErr.Details,
					Retryable: domainErr.Code.Retryable(),
				}
			}

			if isNotFoundError(err) {
				return &APIError{
					status:  http.StatusNotFound,
					Code:    string(domainerrors.CodeNotFound),
					Message: err.Error(),
				}
			}

			if err != nil {
				problems = append(problems, err.Error())
			}
		}

		code := statusToCode(status)
		apiErr := &APIError{
			status:    status,
			Code:      string(code),
			Message:   message,
			Retryable: code.Retryable(),
		}
		// Request validation failures from huma carry one error per field.
		if status == http.StatusUnprocessableEntity && len(problems) > 0 {
			apiErr.Details = problems
		}
		return apiErr
	}
}

// isNotFoundError checks for store sentinels that escaped translation.
func isNotFoundError(err error) bool {
	return errors.Is(err, store.ErrNotFound) || errors.Is(err, objectstore.ErrNotFound)
}

// statusToCode maps HTTP status codes to our domain error codes.
func statusToCode(status int) domainerrors.Code {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusMethodNotAllowed:
		return domainerrors.CodeValidation
	case http.StatusNotFound:
		return domainerrors.CodeNotFound
	case http.StatusConflict:
		return domainerrors.CodeConflict
	case http.StatusTooManyRequests:
		return domainerrors.CodeRateLimited
	case http.StatusServiceUnavailable:
		return domainerrors.CodeUnavailable
	default:
		return domainerrors.CodeInternal
	}
}
