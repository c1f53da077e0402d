package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/do/v2"

	"github.com/tripframe/tripframe-server/internal/config"
	"github.com/tripframe/tripframe-server/internal/housekeeping"
	"github.com/tripframe/tripframe-server/internal/logger"
	"github.com/tripframe/tripframe-server/internal/marker"
	"github.com/tripframe/tripframe-server/internal/objectstore"
)

// ProvideObjectStore provides the photo object store. Without an endpoint
// photos live in process memory, which suits local development only.
func ProvideObjectStore(i do.Injector) (objectstore.Store, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.InMemoryObjectStore() {
		log.Warn("No S3 endpoint configured, photos and the marker record are kept in memory")
		return objectstore.NewMemory(), nil
	}

	store, err := objectstore.NewMinio(objectstore.MinioConfig{
		Endpoint:  cfg.ObjectStore.Endpoint,
		AccessKey: cfg.ObjectStore.AccessKey,
		SecretKey: cfg.ObjectStore.SecretKey,
		UseSSL:    cfg.ObjectStore.UseSSL,
		Bucket:    cfg.ObjectStore.Bucket,
		Region:    cfg.ObjectStore.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("object store: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()
	if err := store.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("object store bucket %q: %w", cfg.ObjectStore.Bucket, err)
	}

	log.WithField("bucket", cfg.ObjectStore.Bucket).Info("Object store initialized", "endpoint", cfg.ObjectStore.Endpoint)

	return store, nil
}

// ProvideMarkerStore provides the marker record store.
func ProvideMarkerStore(i do.Injector) (*marker.Store, error) {
	cfg := do.MustInvoke[*config.Config](i)
	objects := do.MustInvoke[objectstore.Store](i)

	return marker.NewStore(objects, cfg.ObjectStore.MarkerKey), nil
}

// ProvidePublisher provides the mutation timestamp publisher.
func ProvidePublisher(i do.Injector) (*marker.Publisher, error) {
	markers := do.MustInvoke[*marker.Store](i)
	log := do.MustInvoke[*logger.Logger](i)

	return marker.NewPublisher(markers, time.Now, log.WithComponent("marker").Logger), nil
}

// ProvideHousekeeper provides the object storage housekeeper.
func ProvideHousekeeper(i do.Injector) (*housekeeping.Housekeeper, error) {
	cfg := do.MustInvoke[*config.Config](i)
	objects := do.MustInvoke[objectstore.Store](i)
	log := do.MustInvoke[*logger.Logger](i)

	return housekeeping.New(objects, housekeeping.Config{
		PageSize:    cfg.ObjectStore.ListPageSize,
		Concurrency: cfg.ObjectStore.MoveConcurrency,
	}, log.WithComponent("housekeeping").Logger), nil
}
