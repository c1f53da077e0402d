package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTags(t *testing.T) {
	ts := setupTestServer(t, Options{})

	env := decode[ListTagsResponse](t, ts.api.Get("/api/v1/tags"))
	assert.NotNil(t, env.Data.Tags)
	assert.Empty(t, env.Data.Tags)

	ts.createAlbum(t, "a1", "2024", "sea", "city")
	ts.createAlbum(t, "a2", "2024", "city")

	env = decode[ListTagsResponse](t, ts.api.Get("/api/v1/tags"))
	require.Len(t, env.Data.Tags, 2)
	assert.Equal(t, "city", env.Data.Tags[0].Tag)
	assert.Equal(t, "sea", env.Data.Tags[1].Tag)
}

func TestGetTagAlbums(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.createAlbum(t, "a1", "2024", "city")
	ts.createAlbum(t, "a2", "2023", "city", "sea")
	ts.createAlbum(t, "a3", "2023")

	env := decode[TagAlbumsResponse](t, ts.api.Get("/api/v1/tags/city/albums"))

	require.Len(t, env.Data.Albums, 2)
	assert.Equal(t, "a1", env.Data.Albums[0].ID)
	assert.Equal(t, "a2", env.Data.Albums[1].ID)
	assert.Equal(t, []string{"city", "sea"}, env.Data.Albums[1].Tags)
}

func TestGetTagAlbums_EscapedTag(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.createAlbum(t, "a1", "2024", "rock & roll")

	env := decode[TagAlbumsResponse](t, ts.api.Get("/api/v1/tags/rock%20%26%20roll/albums"))

	require.Len(t, env.Data.Albums, 1)
	assert.Equal(t, "a1", env.Data.Albums[0].ID)
}

func TestDeleteTag(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.createAlbum(t, "a1", "2024", "city", "sea")

	resp := ts.api.Delete("/api/v1/tags/city")
	assert.Equal(t, http.StatusNoContent, resp.Code, resp.Body.String())

	album := decode[map[string]any](t, ts.api.Get("/api/v1/albums/a1"))
	assert.Equal(t, []any{"sea"}, album.Data["tags"])

	tags := decode[ListTagsResponse](t, ts.api.Get("/api/v1/tags"))
	require.Len(t, tags.Data.Tags, 1)

	resp = ts.api.Delete("/api/v1/tags/city")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", decode[any](t, resp).Code)
}
