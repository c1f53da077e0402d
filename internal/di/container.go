// Package di provides dependency injection configuration for the Tripframe server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/tripframe/tripframe-server/internal/config"
	"github.com/tripframe/tripframe-server/internal/di/providers"
	"github.com/tripframe/tripframe-server/internal/freshness"
	"github.com/tripframe/tripframe-server/internal/housekeeping"
	"github.com/tripframe/tripframe-server/internal/logger"
	"github.com/tripframe/tripframe-server/internal/marker"
	"github.com/tripframe/tripframe-server/internal/objectstore"
	"github.com/tripframe/tripframe-server/internal/service"
	"github.com/tripframe/tripframe-server/internal/tagsync"
	"github.com/tripframe/tripframe-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSynchronizer)

	// Storage layer
	do.Provide(injector, providers.ProvideObjectStore)
	do.Provide(injector, providers.ProvideMarkerStore)
	do.Provide(injector, providers.ProvidePublisher)
	do.Provide(injector, providers.ProvideHousekeeper)

	// Cache layer
	do.Provide(injector, providers.ProvideCache)
	do.Provide(injector, providers.ProvideOracle)

	// Business services
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideAlbumService)
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvideTravelService)
	do.Provide(injector, providers.ProvidePhotoService)

	// Server
	do.Provide(injector, providers.ProvideRateLimiter)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns once the HTTP server is listening.
// Providers are lazy, so invoking them here surfaces wiring errors at startup.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[objectstore.Store](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.CacheHandle](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*tagsync.Synchronizer](injector)
	_ = do.MustInvoke[*marker.Store](injector)
	_ = do.MustInvoke[*marker.Publisher](injector)
	_ = do.MustInvoke[*housekeeping.Housekeeper](injector)
	_ = do.MustInvoke[*freshness.Oracle](injector)
	_ = do.MustInvoke[*validation.Validator](injector)

	// Business services
	_ = do.MustInvoke[*service.AlbumService](injector)
	_ = do.MustInvoke[*service.TagService](injector)
	_ = do.MustInvoke[*service.TravelService](injector)
	_ = do.MustInvoke[*service.PhotoService](injector)

	// Server
	_ = do.MustInvoke[*providers.RateLimiterHandle](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
