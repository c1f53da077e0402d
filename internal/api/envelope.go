package api

import (
	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/tripframe/tripframe-server/internal/errors"
	"github.com/tripframe/tripframe-server/internal/http/response"
)

// EnvelopeVersion is the envelope format version sent as "v".
const EnvelopeVersion = response.Version

// EnvelopeTransformer wraps every huma response body in response.Envelope,
// so operation responses and router fallbacks share one shape.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	switch body := v.(type) {
	case *APIError:
		return response.Envelope{
			V:         EnvelopeVersion,
			Error:     body.Message,
			Code:      body.Code,
			Details:   body.Details,
			Retryable: body.Retryable,
		}, nil
	case error:
		return response.Envelope{
			V:     EnvelopeVersion,
			Error: body.Error(),
			Code:  string(domainerrors.CodeInternal),
		}, nil
	case nil:
		return response.Envelope{V: EnvelopeVersion, Success: true}, nil
	default:
		return response.Envelope{
			V:       EnvelopeVersion,
			Success: len(status) == 0 || status[0] < '4',
			Data:    v,
		}, nil
	}
}
