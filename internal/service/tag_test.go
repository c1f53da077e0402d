package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripframe/tripframe-server/internal/domain"
	domainerrors "github.com/tripframe/tripframe-server/internal/errors"
)

func TestTagList(t *testing.T) {
	h := newHarness(t)
	h.createAlbum(t, "a1", "2024", "food", "beach")
	h.createAlbum(t, "a2", "2024", "food")

	tags, err := h.tags.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "beach", tags[0].Tag)
	assert.Equal(t, "food", tags[1].Tag)
}

func TestTagDelete(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.createAlbum(t, "a1", "2024", "food", "beach")
	h.createAlbum(t, "a2", "2024", "food")
	before := h.marker(t).Get(domain.DomainAlbum)

	require.NoError(t, h.tags.Delete(ctx, " food "))
	assert.NotEqual(t, before, h.marker(t).Get(domain.DomainAlbum))

	a1, err := h.albums.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, []string{"beach"}, a1.Tags)

	ids, err := h.tags.AlbumIDs(ctx, "food")
	require.NoError(t, err)
	assert.Empty(t, ids)

	err = h.tags.Delete(ctx, "food")
	requireCode(t, err, domainerrors.CodeNotFound)

	err = h.tags.Delete(ctx, "  ")
	requireCode(t, err, domainerrors.CodeValidation)
}

func TestTagDelete_MatchesStoredForm(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.createAlbum(t, "a1", "2024", "caf\u00e9", "beach")

	ids, err := h.tags.AlbumIDs(ctx, "cafe\u0301")
	require.NoError(t, err)
	assert.Equal(t, []string{"a1"}, ids)

	require.NoError(t, h.tags.Delete(ctx, "cafe\u0301"))

	a1, err := h.albums.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, []string{"beach"}, a1.Tags)
}
