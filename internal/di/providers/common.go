package providers

import (
	"time"

	"github.com/tripframe/tripframe-server/internal/domain"
)

const (
	// shutdownTimeout is the maximum time to wait for graceful shutdown of services.
	shutdownTimeout = 30 * time.Second

	// startupTimeout bounds connectivity checks made while wiring.
	startupTimeout = 10 * time.Second
)

// cacheProbeDomain is read by the cache health check. Nothing is stored under it.
const cacheProbeDomain domain.CacheDomain = "health-probe"
