// Package providers contains dependency injection providers for the Tripframe server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/tripframe/tripframe-server/internal/config"
	"github.com/tripframe/tripframe-server/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting Tripframe Server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"database_path", cfg.Data.DatabasePath,
		"cache_backend", cfg.Cache.Backend,
		"object_store", objectStoreLabel(cfg),
	)

	return log, nil
}

func objectStoreLabel(cfg *config.Config) string {
	if cfg.InMemoryObjectStore() {
		return "in-memory"
	}
	return cfg.ObjectStore.Endpoint + "/" + cfg.ObjectStore.Bucket
}
