package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do/v2"

	"github.com/tripframe/tripframe-server/internal/config"
	"github.com/tripframe/tripframe-server/internal/freshness"
	"github.com/tripframe/tripframe-server/internal/logger"
	"github.com/tripframe/tripframe-server/internal/marker"
	"github.com/tripframe/tripframe-server/internal/store"
	"github.com/tripframe/tripframe-server/internal/store/sqlite"
	"github.com/tripframe/tripframe-server/internal/tagsync"
)

// StoreHandle wraps the relational store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the relational database store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	db, err := sqlite.Open(cfg.Data.DatabasePath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", cfg.Data.DatabasePath)

	return &StoreHandle{Store: db}, nil
}

// ProvideSynchronizer provides the album/tag synchronizer.
func ProvideSynchronizer(i do.Injector) (*tagsync.Synchronizer, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return tagsync.New(storeHandle.Store, log.WithComponent("tagsync").Logger), nil
}

// CacheHandle wraps the list cache with its health probe and shutdown.
type CacheHandle struct {
	freshness.CacheStore
	ping  func(ctx context.Context) error
	close func() error
}

// Ping checks that the cache backend is reachable.
func (h *CacheHandle) Ping(ctx context.Context) error {
	return h.ping(ctx)
}

// Shutdown implements do.Shutdownable.
func (h *CacheHandle) Shutdown() error {
	return h.close()
}

// ProvideCache provides the list cache on the configured backend.
func ProvideCache(i do.Injector) (*CacheHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		cache := freshness.NewRedisCache(redis.NewClient(&redis.Options{
			Addr: cfg.Cache.RedisAddr,
			DB:   cfg.Cache.RedisDB,
		}), cfg.Cache.KeyPrefix, cfg.Cache.TTL)

		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()
		if err := cache.Ping(ctx); err != nil {
			// Reads fall back to the database while Redis is down.
			log.WithError(err).Warn("Redis unreachable at startup", "addr", cfg.Cache.RedisAddr)
		}

		log.Info("List cache initialized", "backend", "redis", "addr", cfg.Cache.RedisAddr, "prefix", cfg.Cache.KeyPrefix)
		return &CacheHandle{CacheStore: cache, ping: cache.Ping, close: cache.Close}, nil

	default:
		kv, err := store.New(cfg.Cache.Path, log.Logger)
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
		cache := freshness.NewBadgerCache(kv, cfg.Cache.TTL)

		log.Info("List cache initialized", "backend", "badger", "path", cfg.Cache.Path)
		return &CacheHandle{
			CacheStore: cache,
			ping: func(ctx context.Context) error {
				_, err := cache.Get(ctx, cacheProbeDomain, "")
				if errors.Is(err, freshness.ErrCacheMiss) {
					return nil
				}
				return err
			},
			close: kv.Close,
		}, nil
	}
}

// ProvideOracle provides the cache freshness oracle.
func ProvideOracle(i do.Injector) (*freshness.Oracle, error) {
	cache := do.MustInvoke[*CacheHandle](i)
	markers := do.MustInvoke[*marker.Store](i)
	log := do.MustInvoke[*logger.Logger](i)

	return freshness.NewOracle(cache, markers, log.WithComponent("freshness").Logger), nil
}
