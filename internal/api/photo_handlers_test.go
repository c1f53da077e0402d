package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripframe/tripframe-server/internal/domain"
	"github.com/tripframe/tripframe-server/internal/objectstore"
)

func TestListPhotos(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.createAlbum(t, "a1", "2024")
	ts.putPhotos(t, "a1/p2.jpg", "a1/p1.jpg")

	env := decode[PhotoListResponse](t, ts.api.Get("/api/v1/albums/a1/photos"))

	require.Len(t, env.Data.Photos, 2)
	assert.Equal(t, "a1/p1.jpg", env.Data.Photos[0].Key)
	assert.Equal(t, "a1/p2.jpg", env.Data.Photos[1].Key)

	resp := ts.api.Get("/api/v1/albums/missing/photos")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestReconcileAndDeletePhotos(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.createAlbum(t, "a1", "2024")
	ts.putPhotos(t, "a1/p1.jpg", "a1/p2.jpg")

	env := decode[CoverResponse](t, ts.api.Post("/api/v1/albums/a1/cover/reconcile"))
	assert.Equal(t, "a1/p1.jpg", env.Data.AlbumCover)

	album := decode[domain.Album](t, ts.api.Get("/api/v1/albums/a1"))
	assert.Equal(t, "a1/p1.jpg", album.Data.AlbumCover)

	resp := ts.api.Delete("/api/v1/albums/a1/photos", map[string]any{"filenames": []string{"p1.jpg"}})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	env = decode[CoverResponse](t, resp)
	assert.Equal(t, "a1/p2.jpg", env.Data.AlbumCover)
	assert.False(t, ts.mem.Has("a1/p1.jpg"))

	resp = ts.api.Delete("/api/v1/albums/a1/photos", map[string]any{"filenames": []string{"../a2/p1.jpg"}})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestMovePhotos(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.createAlbum(t, "a", "2024")
	ts.createAlbum(t, "b", "2024")
	ts.putPhotos(t, "a/p1.jpg", "a/p2.jpg")

	resp := ts.api.Post("/api/v1/albums/a/photos/move", map[string]any{
		"destination": "b",
		"filenames":   []string{"p1.jpg"},
	})

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	env := decode[map[string]any](t, resp)
	assert.Equal(t, []any{"b/p1.jpg"}, env.Data["moved"])
	assert.Equal(t, "a/p2.jpg", env.Data["sourceCover"])
	assert.Equal(t, "b/p1.jpg", env.Data["destinationCover"])
}

func TestMovePhotos_PartialFailure(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.createAlbum(t, "a", "2024")
	ts.createAlbum(t, "b", "2024")
	ts.putPhotos(t, "a/p1.jpg", "a/p2.jpg")
	ts.mem.FailOn(objectstore.OpCopy, "a/p2.jpg", errors.New("slow down"))

	resp := ts.api.Post("/api/v1/albums/a/photos/move", map[string]any{
		"destination": "b",
		"filenames":   []string{"p1.jpg", "p2.jpg"},
	})

	assert.Equal(t, http.StatusServiceUnavailable, resp.Code, resp.Body.String())
	env := decode[any](t, resp)
	assert.False(t, env.Success)
	assert.Equal(t, "UNAVAILABLE", env.Code)
	assert.True(t, env.Retry)
	assert.Contains(t, string(env.Details), `"b/p1.jpg"`)
	assert.Contains(t, string(env.Details), `"a/p2.jpg"`)

	album := decode[domain.Album](t, ts.api.Get("/api/v1/albums/b"))
	assert.Equal(t, "b/p1.jpg", album.Data.AlbumCover, "covers are reconciled for what did move")
}
