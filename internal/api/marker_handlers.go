package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/tripframe/tripframe-server/internal/domain"
	domainerrors "github.com/tripframe/tripframe-server/internal/errors"
)

func (s *Server) registerMarkerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getUpdatedTime",
		Method:      http.MethodGet,
		Path:        "/api/v1/updated-time",
		Summary:     "Get last-write timestamps",
		Description: "Returns the marker record: the last committed write time per data domain. Clients compare it with their cached copies to decide whether to refetch.",
		Tags:        []string{"Freshness"},
	}, s.handleGetUpdatedTime)
}

// UpdatedTimeResponse is the marker record. An absent domain has never been written.
type UpdatedTimeResponse struct {
	Album  string `json:"album,omitempty" doc:"Last album write (UTC, millisecond precision)"`
	Travel string `json:"travel,omitempty" doc:"Last travel write (UTC, millisecond precision)"`
}

// UpdatedTimeOutput wraps the marker response for Huma.
type UpdatedTimeOutput struct {
	Body UpdatedTimeResponse
}

func (s *Server) handleGetUpdatedTime(ctx context.Context, _ *struct{}) (*UpdatedTimeOutput, error) {
	m, err := s.services.Markers.Read(ctx)
	if err != nil {
		return nil, domainerrors.Unavailable(err, "marker record unavailable")
	}
	return &UpdatedTimeOutput{
		Body: UpdatedTimeResponse{
			Album:  m.Get(domain.DomainAlbum),
			Travel: m.Get(domain.DomainTravel),
		},
	}, nil
}
