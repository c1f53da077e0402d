package api

import (
	"context"

	"github.com/tripframe/tripframe-server/internal/domain"
	"github.com/tripframe/tripframe-server/internal/service"
)

// MarkerReader reads the authoritative marker record.
type MarkerReader interface {
	Read(ctx context.Context) (domain.Marker, error)
}

// Services groups all business logic services used by the API server.
type Services struct {
	Album   *service.AlbumService
	Tag     *service.TagService
	Travel  *service.TravelService
	Photo   *service.PhotoService
	Markers MarkerReader
}
