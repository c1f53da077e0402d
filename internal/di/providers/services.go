package providers

import (
	"github.com/samber/do/v2"

	"github.com/tripframe/tripframe-server/internal/freshness"
	"github.com/tripframe/tripframe-server/internal/housekeeping"
	"github.com/tripframe/tripframe-server/internal/logger"
	"github.com/tripframe/tripframe-server/internal/marker"
	"github.com/tripframe/tripframe-server/internal/service"
	"github.com/tripframe/tripframe-server/internal/tagsync"
	"github.com/tripframe/tripframe-server/internal/validation"
)

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideAlbumService provides the album service.
func ProvideAlbumService(i do.Injector) (*service.AlbumService, error) {
	sync := do.MustInvoke[*tagsync.Synchronizer](i)
	housekeeper := do.MustInvoke[*housekeeping.Housekeeper](i)
	publisher := do.MustInvoke[*marker.Publisher](i)
	oracle := do.MustInvoke[*freshness.Oracle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAlbumService(sync, housekeeper, publisher, oracle, validator, log.Logger), nil
}

// ProvideTagService provides the tag service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	sync := do.MustInvoke[*tagsync.Synchronizer](i)
	publisher := do.MustInvoke[*marker.Publisher](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTagService(sync, publisher, log.Logger), nil
}

// ProvideTravelService provides the travel record service.
func ProvideTravelService(i do.Injector) (*service.TravelService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	publisher := do.MustInvoke[*marker.Publisher](i)
	oracle := do.MustInvoke[*freshness.Oracle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTravelService(storeHandle.Store, publisher, oracle, validator, log.Logger), nil
}

// ProvidePhotoService provides the photo service.
func ProvidePhotoService(i do.Injector) (*service.PhotoService, error) {
	albums := do.MustInvoke[*service.AlbumService](i)
	housekeeper := do.MustInvoke[*housekeeping.Housekeeper](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPhotoService(albums, housekeeper, validator, log.Logger), nil
}
