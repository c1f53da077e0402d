package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/tripframe/tripframe-server/internal/api"
	"github.com/tripframe/tripframe-server/internal/config"
	"github.com/tripframe/tripframe-server/internal/logger"
	"github.com/tripframe/tripframe-server/internal/marker"
	"github.com/tripframe/tripframe-server/internal/ratelimit"
	"github.com/tripframe/tripframe-server/internal/service"
)

// RateLimiterHandle wraps the mutation rate limiter with Shutdownable.
type RateLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideRateLimiter provides the per-client limiter for mutating requests.
func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return &RateLimiterHandle{
		KeyedRateLimiter: ratelimit.New(cfg.Server.MutationRateLimit, cfg.Server.MutationBurst),
	}, nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	markers := do.MustInvoke[*marker.Store](i)
	limiter := do.MustInvoke[*RateLimiterHandle](i)

	services := &api.Services{
		Album:   do.MustInvoke[*service.AlbumService](i),
		Tag:     do.MustInvoke[*service.TagService](i),
		Travel:  do.MustInvoke[*service.TravelService](i),
		Photo:   do.MustInvoke[*service.PhotoService](i),
		Markers: markers,
	}

	handler := api.NewServer(services, api.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		Limiter:     limiter.KeyedRateLimiter,
		Checks: map[string]api.HealthCheck{
			"database": storeHandle.Ping,
			"cache":    cacheHandle.Ping,
			"marker": func(ctx context.Context) error {
				_, err := markers.Read(ctx)
				return err
			},
		},
	}, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
