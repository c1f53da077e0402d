package domain

import "encoding/json"

// DataDomain is an independently invalidated slice of data.
// Each one owns a field in the marker record.
type DataDomain string

// Data domains.
const (
	DomainAlbum  DataDomain = "album"
	DomainTravel DataDomain = "travel"
)

// CacheDomain names a client-side cache. Several caches may hang off one DataDomain.
type CacheDomain string

// Cache domains.
const (
	CacheAlbumsByYear       CacheDomain = "album-by-year"
	CacheAlbumsWithLocation CacheDomain = "albums-with-location"
	CacheTravelRecords      CacheDomain = "travel-records"
)

// DataDomain returns the data domain whose writes invalidate this cache.
func (c CacheDomain) DataDomain() DataDomain {
	switch c {
	case CacheTravelRecords:
		return DomainTravel
	default:
		return DomainAlbum
	}
}

// Marker maps each data domain to the ISO-8601 instant of its last write.
type Marker map[DataDomain]string

// Get returns the timestamp for d, or "" when the domain has never been written.
func (m Marker) Get(d DataDomain) string {
	if m == nil {
		return ""
	}
	return m[d]
}

// CacheEntry is a cached payload tagged with the marker value it was fetched under.
type CacheEntry struct {
	DBUpdatedTime string          `json:"dbUpdatedTime"`
	ScopeKey      string          `json:"scopeKey"`
	Payload       json.RawMessage `json:"payload"`
}
