// Package domain defines the album, tag, travel and freshness records shared across the server.
package domain

import (
	"strings"
	"time"
)

// Album is a dated collection of photos.
// ID doubles as the object-storage prefix that holds the album's photos,
// so an album with ID "paris-trip" owns every key under "paris-trip/".
type Album struct {
	ID          string    `json:"id"`
	Year        string    `json:"year"`
	AlbumName   string    `json:"albumName"`
	Description string    `json:"description,omitempty"`
	AlbumCover  string    `json:"albumCover,omitempty"` // Full object key, empty when the album has no photos
	IsPrivate   bool      `json:"isPrivate"`
	IsFeatured  bool      `json:"isFeatured"`
	Place       *Place    `json:"place,omitempty"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	CreatedBy   string    `json:"createdBy,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
	UpdatedBy   string    `json:"updatedBy,omitempty"`
}

// Prefix returns the object-storage prefix holding the album's photos.
func (a *Album) Prefix() string {
	return AlbumPrefix(a.ID)
}

// HasLocation reports whether the album carries coordinates.
func (a *Album) HasLocation() bool {
	return a.Place != nil && a.Place.Location != nil
}

// AlbumPrefix returns the object-storage prefix for an album ID.
func AlbumPrefix(albumID string) string {
	return strings.TrimSuffix(albumID, "/") + "/"
}

// AlbumPatch is a partial album update. Nil fields are left untouched.
// Tags follows the same rule: nil leaves membership alone, a non-nil
// (possibly empty) slice replaces it entirely.
type AlbumPatch struct {
	Year        *string  `json:"year,omitempty"`
	AlbumName   *string  `json:"albumName,omitempty"`
	Description *string  `json:"description,omitempty"`
	AlbumCover  *string  `json:"albumCover,omitempty"`
	IsPrivate   *bool    `json:"isPrivate,omitempty"`
	IsFeatured  *bool    `json:"isFeatured,omitempty"`
	Place       *Place   `json:"place,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// IsEmpty reports whether the patch carries nothing to write.
func (p *AlbumPatch) IsEmpty() bool {
	return p.Year == nil && p.AlbumName == nil && p.Description == nil &&
		p.AlbumCover == nil && p.IsPrivate == nil && p.IsFeatured == nil &&
		p.Place == nil && p.Tags == nil
}

// AlbumTag is an entry in the shared tag vocabulary.
// Tags are case-sensitive; "Beach" and "beach" are different tags.
type AlbumTag struct {
	Tag       string    `json:"tag"`
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy,omitempty"`
}

// AlbumTagsMap is one row of the album/tag join table.
type AlbumTagsMap struct {
	AlbumID string `json:"albumId"`
	Tag     string `json:"tag"`
}
