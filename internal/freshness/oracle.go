package freshness

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tripframe/tripframe-server/internal/domain"
)

// MarkerReader reads the current marker record.
type MarkerReader interface {
	Read(ctx context.Context) (domain.Marker, error)
}

// Reasons reported with a decision.
const (
	ReasonNoEntry       = "no-entry"
	ReasonCacheError    = "cache-error"
	ReasonForced        = "forced"
	ReasonScopeChanged  = "scope-changed"
	ReasonMarkerError   = "marker-error"
	ReasonNeverWritten  = "never-written"
	ReasonMarkerAdvance = "marker-advanced"
	ReasonFresh         = "fresh"
)

// Decision is the outcome of a freshness check.
type Decision struct {
	Refetch bool
	Reason  string
	// Entry is the cached entry, nil when there is none.
	Entry *domain.CacheEntry
	// Marker is the domain's marker value when it was read.
	Marker     string
	MarkerRead bool
}

// Oracle decides whether cached data must be refetched.
type Oracle struct {
	cache   CacheStore
	markers MarkerReader
	logger  *slog.Logger
}

// NewOracle creates an oracle.
func NewOracle(cache CacheStore, markers MarkerReader, logger *slog.Logger) *Oracle {
	if logger == nil {
		logger = slog.Default()
	}
	return &Oracle{cache: cache, markers: markers, logger: logger}
}

// ShouldRefetch reports whether the cached entry for d must be refreshed.
// It never fails: any uncertainty answers true.
func (o *Oracle) ShouldRefetch(ctx context.Context, d domain.CacheDomain, scopeKey string, forced bool) bool {
	return o.Decide(ctx, d, scopeKey, forced).Refetch
}

// Decide runs the freshness check and reports why.
//
// The entry is fresh only when it exists, the caller did not force a
// refresh, its recorded scope matches, and the marker for its data domain was read
// and equals the entry's stored value exactly. Equality, not ordering, is
// the test: any write since the entry was stored changed the marker.
func (o *Oracle) Decide(ctx context.Context, d domain.CacheDomain, scopeKey string, forced bool) Decision {
	entry, err := o.cache.Get(ctx, d, scopeKey)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			o.logger.Warn("cache read failed, refetching", "cache_domain", string(d), "error", err)
			return Decision{Refetch: true, Reason: ReasonCacheError}
		}
		return Decision{Refetch: true, Reason: ReasonNoEntry}
	}

	dec := Decision{Entry: entry}
	if forced {
		dec.Refetch, dec.Reason = true, ReasonForced
		return dec
	}
	if entry.ScopeKey != scopeKey {
		dec.Refetch, dec.Reason = true, ReasonScopeChanged
		return dec
	}

	m, err := o.markers.Read(ctx)
	if err != nil {
		o.logger.Warn("marker read failed, refetching", "cache_domain", string(d), "error", err)
		dec.Refetch, dec.Reason = true, ReasonMarkerError
		return dec
	}
	dec.Marker, dec.MarkerRead = m.Get(d.DataDomain()), true

	switch {
	case dec.Marker == "":
		dec.Refetch, dec.Reason = true, ReasonNeverWritten
	case dec.Marker != entry.DBUpdatedTime:
		dec.Refetch, dec.Reason = true, ReasonMarkerAdvance
	default:
		dec.Reason = ReasonFresh
	}
	return dec
}
