package freshness

import (
	"context"
	"encoding/json"

	"github.com/tripframe/tripframe-server/internal/domain"
)

// Source says where a loaded value came from.
type Source string

// Sources.
const (
	SourceCache Source = "cache"
	SourceStore Source = "store"
	// SourceStale is a cached value served because the refetch failed.
	SourceStale Source = "stale-cache"
)

// Result is a loaded value and its provenance.
type Result[T any] struct {
	Value         T
	Source        Source
	DBUpdatedTime string
}

// Loader serves a cache domain through the oracle.
type Loader[T any] struct {
	oracle *Oracle
}

// NewLoader creates a loader bound to oracle.
func NewLoader[T any](oracle *Oracle) *Loader[T] {
	return &Loader[T]{oracle: oracle}
}

// Load returns the cached value when it is fresh and otherwise calls fetch.
//
// The marker is read before fetch runs and that value is stored with the
// result. A write racing with the fetch therefore leaves the entry tagged
// with the older marker, and the next check refetches. If fetch fails and
// an entry exists, the stale entry is served rather than failing the read.
func (l *Loader[T]) Load(ctx context.Context, d domain.CacheDomain, scopeKey string, forced bool, fetch func(context.Context) (T, error)) (Result[T], error) {
	o := l.oracle
	dec := o.Decide(ctx, d, scopeKey, forced)

	if !dec.Refetch {
		var v T
		err := json.Unmarshal(dec.Entry.Payload, &v)
		if err == nil {
			return Result[T]{Value: v, Source: SourceCache, DBUpdatedTime: dec.Entry.DBUpdatedTime}, nil
		}
		o.logger.Warn("cached payload unreadable, refetching", "cache_domain", string(d), "error", err)
	}

	marker, markerRead := dec.Marker, dec.MarkerRead
	if !markerRead {
		m, err := o.markers.Read(ctx)
		if err != nil {
			// An empty tag is never fresh, so the next load refetches.
			o.logger.Warn("marker read failed before fetch", "cache_domain", string(d), "error", err)
		} else {
			marker = m.Get(d.DataDomain())
		}
	}

	v, err := fetch(ctx)
	if err != nil {
		if stale, ok := l.stale(dec.Entry, scopeKey); ok {
			o.logger.Warn("fetch failed, serving stale cache",
				"cache_domain", string(d), "scope", scopeKey, "error", err)
			return stale, nil
		}
		return Result[T]{}, err
	}

	payload, err := json.Marshal(v)
	if err != nil {
		o.logger.Warn("cache payload encode failed", "cache_domain", string(d), "error", err)
		return Result[T]{Value: v, Source: SourceStore, DBUpdatedTime: marker}, nil
	}
	entry := &domain.CacheEntry{DBUpdatedTime: marker, ScopeKey: scopeKey, Payload: payload}
	if err := o.cache.Put(ctx, d, scopeKey, entry); err != nil {
		o.logger.Warn("cache write failed", "cache_domain", string(d), "error", err)
	}

	o.logger.Debug("cache refreshed", "cache_domain", string(d), "scope", scopeKey, "reason", dec.Reason)
	return Result[T]{Value: v, Source: SourceStore, DBUpdatedTime: marker}, nil
}

// stale decodes a previous entry for the same scope.
func (l *Loader[T]) stale(entry *domain.CacheEntry, scopeKey string) (Result[T], bool) {
	if entry == nil || entry.ScopeKey != scopeKey {
		return Result[T]{}, false
	}
	var v T
	if err := json.Unmarshal(entry.Payload, &v); err != nil {
		return Result[T]{}, false
	}
	return Result[T]{Value: v, Source: SourceStale, DBUpdatedTime: entry.DBUpdatedTime}, true
}
