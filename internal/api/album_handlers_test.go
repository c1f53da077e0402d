package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripframe/tripframe-server/internal/domain"
)

func TestCreateAlbum(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Post("/api/v1/albums", map[string]any{
		"id":        "paris-trip",
		"year":      "2024",
		"albumName": "Paris",
		"place":     map[string]any{"displayName": "Paris", "location": map[string]any{"latitude": 48.85, "longitude": 2.35}},
		"tags":      []string{"city", " city ", "europe"},
	})

	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	env := decode[domain.Album](t, resp)
	assert.True(t, env.Success)
	assert.Equal(t, "paris-trip", env.Data.ID)
	assert.Equal(t, []string{"city", "europe"}, env.Data.Tags)
	assert.True(t, ts.mem.Has("paris-trip/"), "photo folder created")

	resp = ts.api.Post("/api/v1/albums", map[string]any{"id": "paris-trip", "year": "2024", "albumName": "Again"})
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, "CONFLICT", decode[any](t, resp).Code)
}

func TestCreateAlbum_Validation(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Post("/api/v1/albums", map[string]any{"year": "24", "albumName": "Short year"})
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
	env := decode[any](t, resp)
	assert.False(t, env.Success)
	assert.Equal(t, "VALIDATION", env.Code)

	resp = ts.api.Post("/api/v1/albums", map[string]any{"year": "2024"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code, resp.Body.String())
	env = decode[any](t, resp)
	assert.Equal(t, "VALIDATION", env.Code)
	assert.NotEmpty(t, env.Details, "schema problems are listed")

	marker := decode[UpdatedTimeResponse](t, ts.api.Get("/api/v1/updated-time"))
	assert.Empty(t, marker.Data.Album, "rejected writes publish nothing")
}

func TestGetAlbum_NotFound(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/v1/albums/missing")

	assert.Equal(t, http.StatusNotFound, resp.Code)
	env := decode[any](t, resp)
	assert.False(t, env.Success)
	assert.Equal(t, "NOT_FOUND", env.Code)
	assert.NotEmpty(t, env.Error)
}

func TestUpdateAlbum(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.createAlbum(t, "a1", "2024", "x", "y")

	resp := ts.api.Patch("/api/v1/albums/a1", "X-Actor: bob", map[string]any{
		"albumName": "Renamed",
		"tags":      []string{"z"},
	})

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	env := decode[domain.Album](t, resp)
	assert.Equal(t, "Renamed", env.Data.AlbumName)
	assert.Equal(t, []string{"z"}, env.Data.Tags)
	assert.Equal(t, "bob", env.Data.UpdatedBy)

	resp = ts.api.Patch("/api/v1/albums/missing", map[string]any{"albumName": "x"})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestUpdateAlbum_Cover(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.createAlbum(t, "a1", "2024")
	ts.putPhotos(t, "a1/p1.jpg")

	resp := ts.api.Patch("/api/v1/albums/a1", map[string]any{"albumCover": "other-album/nope.jpg"})
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
	assert.Equal(t, "VALIDATION", decode[any](t, resp).Code)

	resp = ts.api.Patch("/api/v1/albums/a1", map[string]any{"albumCover": "a1/p1.jpg"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "a1/p1.jpg", decode[domain.Album](t, resp).Data.AlbumCover)
}

func TestDeleteAlbum(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.createAlbum(t, "a1", "2024", "x")
	ts.putPhotos(t, "a1/p1.jpg", "a1/p2.jpg", "a1/p3.jpg")

	resp := ts.api.Delete("/api/v1/albums/a1")
	assert.Equal(t, http.StatusNoContent, resp.Code, resp.Body.String())
	assert.False(t, ts.mem.Has("a1/p3.jpg"))
	assert.False(t, ts.mem.Has("a1/"))

	resp = ts.api.Get("/api/v1/albums/a1")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Delete("/api/v1/albums/a1")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestListAlbumsByYear(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.createAlbum(t, "a1", "2024", "x")
	ts.createAlbum(t, "old", "2023")

	env := decode[AlbumListResponse](t, ts.api.Get("/api/v1/albums?year=2024"))
	assert.True(t, env.Success)
	assert.Equal(t, "store", env.Data.Source)
	require.Len(t, env.Data.Albums, 1)
	assert.Equal(t, "a1", env.Data.Albums[0].ID)

	env = decode[AlbumListResponse](t, ts.api.Get("/api/v1/albums?year=2024"))
	assert.Equal(t, "cache", env.Data.Source)
	assert.NotEmpty(t, env.Data.DBUpdatedTime)

	env = decode[AlbumListResponse](t, ts.api.Get("/api/v1/albums?year=2024&refresh=true"))
	assert.Equal(t, "store", env.Data.Source)

	env = decode[AlbumListResponse](t, ts.api.Get("/api/v1/albums?year=1999"))
	assert.NotNil(t, env.Data.Albums)
	assert.Empty(t, env.Data.Albums)

	resp := ts.api.Get("/api/v1/albums")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code, "year is required")
}

func TestListLocatedAlbums(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.createAlbum(t, "nowhere", "2024")
	resp := ts.api.Post("/api/v1/albums", map[string]any{
		"id":        "lyon",
		"year":      "2023",
		"albumName": "Lyon",
		"place":     map[string]any{"displayName": "Lyon", "location": map[string]any{"latitude": 45.76, "longitude": 4.84}},
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	env := decode[AlbumListResponse](t, ts.api.Get("/api/v1/albums/located"))

	require.Len(t, env.Data.Albums, 1)
	assert.Equal(t, "lyon", env.Data.Albums[0].ID)
}
