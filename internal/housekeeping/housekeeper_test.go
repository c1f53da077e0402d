package housekeeping

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripframe/tripframe-server/internal/objectstore"
)

func setup(t *testing.T, keys ...string) (*Housekeeper, *objectstore.Memory) {
	t.Helper()
	mem := objectstore.NewMemory()
	for _, k := range keys {
		require.NoError(t, mem.Put(context.Background(), k, []byte(k), "image/jpeg"))
	}
	return New(mem, Config{PageSize: 2, Concurrency: 4}, nil), mem
}

// fakeCovers is an in-memory CoverStore.
type fakeCovers struct {
	covers map[string]string
	sets   int
}

func (f *fakeCovers) GetCover(_ context.Context, albumID string) (string, error) {
	return f.covers[albumID], nil
}

func (f *fakeCovers) SetCover(_ context.Context, albumID, key string) error {
	f.sets++
	f.covers[albumID] = key
	return nil
}

func TestListAlbumPhotos_PagesAndStripsFolderMarker(t *testing.T) {
	h, _ := setup(t, "trip/", "trip/1.jpg", "trip/2.jpg", "trip/3.jpg", "trip/4.jpg", "trip/5.jpg", "trip-2/x.jpg")

	photos, err := h.ListAlbumPhotos(context.Background(), "trip")
	require.NoError(t, err)

	keys := make([]string, len(photos))
	for i, p := range photos {
		keys[i] = p.Key
	}
	assert.Equal(t, []string{"trip/1.jpg", "trip/2.jpg", "trip/3.jpg", "trip/4.jpg", "trip/5.jpg"}, keys)
	assert.Equal(t, "1.jpg", photos[0].Filename())
	assert.Equal(t, int64(len("trip/1.jpg")), photos[0].Size)
}

func TestListAlbumPhotos_Empty(t *testing.T) {
	h, _ := setup(t, "trip/")

	photos, err := h.ListAlbumPhotos(context.Background(), "trip")
	require.NoError(t, err)
	assert.Empty(t, photos)
}

func TestListAlbumPhotos_ListFailurePropagates(t *testing.T) {
	h, mem := setup(t, "trip/1.jpg")
	boom := errors.New("boom")
	mem.FailOn(objectstore.OpList, "", boom)

	_, err := h.ListAlbumPhotos(context.Background(), "trip")
	assert.ErrorIs(t, err, boom)
}

func TestHasPhoto(t *testing.T) {
	h, _ := setup(t, "trip/", "trip/1.jpg", "trip/2.jpg", "trip/3.jpg", "trip-2/x.jpg")
	ctx := context.Background()

	tests := []struct {
		key  string
		want bool
	}{
		{"trip/3.jpg", true},
		{"trip/9.jpg", false},
		{"trip/", false},
		{"trip-2/x.jpg", false},
		{"x.jpg", false},
	}
	for _, tt := range tests {
		got, err := h.HasPhoto(ctx, "trip", tt.key)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.key)
	}
}

func TestCreateFolder(t *testing.T) {
	h, mem := setup(t)

	require.NoError(t, h.CreateFolder(context.Background(), "new-album"))
	assert.True(t, mem.Has("new-album/"))
}

func TestEmptyFolder_DeletesPastFirstPage(t *testing.T) {
	keys := []string{"trip/"}
	for i := range 7 {
		keys = append(keys, fmt.Sprintf("trip/%d.jpg", i))
	}
	h, mem := setup(t, append(keys, "other/keep.jpg")...)

	n, err := h.EmptyFolder(context.Background(), "trip")
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, []string{"other/keep.jpg"}, mem.Keys())
}

func TestEmptyFolder_Idempotent(t *testing.T) {
	h, _ := setup(t, "trip/1.jpg", "trip/2.jpg")
	ctx := context.Background()

	n, err := h.EmptyFolder(ctx, "trip/")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = h.EmptyFolder(ctx, "trip/")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = h.EmptyFolder(ctx, "trip/")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestEmptyFolder_RefusesRoot(t *testing.T) {
	h, mem := setup(t, "trip/1.jpg")

	_, err := h.EmptyFolder(context.Background(), "/")
	assert.Error(t, err)
	assert.True(t, mem.Has("trip/1.jpg"))
}

func TestEmptyFolder_DeleteFailureStops(t *testing.T) {
	h, mem := setup(t, "trip/1.jpg", "trip/2.jpg")
	mem.FailOn(objectstore.OpDelete, "trip/2.jpg", errors.New("denied"))

	_, err := h.EmptyFolder(context.Background(), "trip")
	require.Error(t, err)

	var batchErr *objectstore.BatchError
	require.True(t, errors.As(err, &batchErr))
	assert.Equal(t, []string{"trip/2.jpg"}, batchErr.Keys())
}

func TestMoveObjects(t *testing.T) {
	h, mem := setup(t, "a/1.jpg", "a/2.jpg", "a/3.jpg")

	moved, err := h.MoveObjects(context.Background(), "a", "b", []string{"1.jpg", "2.jpg", "3.jpg"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b/1.jpg", "b/2.jpg", "b/3.jpg"}, moved)
	assert.Equal(t, []string{"b/1.jpg", "b/2.jpg", "b/3.jpg"}, mem.Keys())
}

func TestMoveObjects_PartialFailure(t *testing.T) {
	h, mem := setup(t, "a/k1.jpg", "a/k2.jpg")
	mem.FailOn(objectstore.OpCopy, "a/k2.jpg", errors.New("copy refused"))

	moved, err := h.MoveObjects(context.Background(), "a", "b", []string{"k1.jpg", "k2.jpg"})
	require.Error(t, err)

	// k1 moved and is not rolled back.
	assert.Equal(t, []string{"b/k1.jpg"}, moved)
	assert.True(t, mem.Has("b/k1.jpg"))
	assert.False(t, mem.Has("a/k1.jpg"))

	// k2 untouched at the source.
	assert.True(t, mem.Has("a/k2.jpg"))
	assert.False(t, mem.Has("b/k2.jpg"))

	var moveErr *MoveError
	require.True(t, errors.As(err, &moveErr))
	require.Len(t, moveErr.Failed, 1)
	assert.Equal(t, "a/k2.jpg", moveErr.Failed[0].Key)
	assert.Equal(t, objectstore.OpCopy, moveErr.Failed[0].Op)
	assert.Contains(t, err.Error(), "a/k2.jpg")
}

func TestMoveObjects_ReportsEveryFailure(t *testing.T) {
	h, mem := setup(t, "a/1.jpg", "a/2.jpg", "a/3.jpg")
	copyErr := errors.New("copy refused")
	deleteErr := errors.New("delete refused")
	mem.FailOn(objectstore.OpCopy, "a/1.jpg", copyErr)
	mem.FailOn(objectstore.OpDelete, "a/3.jpg", deleteErr)

	moved, err := h.MoveObjects(context.Background(), "a", "b", []string{"1.jpg", "2.jpg", "3.jpg"})
	require.Error(t, err)
	assert.Equal(t, []string{"b/2.jpg"}, moved)

	assert.ErrorIs(t, err, copyErr)
	assert.ErrorIs(t, err, deleteErr)

	var moveErr *MoveError
	require.True(t, errors.As(err, &moveErr))
	require.Len(t, moveErr.Failed, 2)
	assert.Equal(t, "a/1.jpg", moveErr.Failed[0].Key)
	assert.Equal(t, "a/3.jpg", moveErr.Failed[1].Key)
	assert.Equal(t, objectstore.OpDelete, moveErr.Failed[1].Op)

	// A failed delete leaves the copy in place as well as the source.
	assert.True(t, mem.Has("a/3.jpg"))
	assert.True(t, mem.Has("b/3.jpg"))
}

func TestMoveObjects_RejectsBadInput(t *testing.T) {
	h, _ := setup(t)
	ctx := context.Background()

	_, err := h.MoveObjects(ctx, "a", "a/", []string{"1.jpg"})
	assert.Error(t, err)

	_, err = h.MoveObjects(ctx, "a", "b", []string{"nested/1.jpg"})
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestDeletePhotos(t *testing.T) {
	h, mem := setup(t, "a/", "a/1.jpg", "a/2.jpg")

	require.NoError(t, h.DeletePhotos(context.Background(), "a", []string{"1.jpg", "missing.jpg"}))
	assert.Equal(t, []string{"a/", "a/2.jpg"}, mem.Keys())
}

func TestReconcileCover_ParisTrip(t *testing.T) {
	h, _ := setup(t, "paris-trip/", "paris-trip/p1.jpg", "paris-trip/p2.jpg")
	ctx := context.Background()
	covers := &fakeCovers{covers: map[string]string{}}

	photos, err := h.ListAlbumPhotos(ctx, "paris-trip")
	require.NoError(t, err)
	require.Len(t, photos, 2)

	cover, err := h.ReconcileCover(ctx, "paris-trip", covers)
	require.NoError(t, err)
	assert.Equal(t, "paris-trip/p1.jpg", cover)
	assert.Equal(t, "paris-trip/p1.jpg", covers.covers["paris-trip"])

	require.NoError(t, h.DeletePhotos(ctx, "paris-trip", []string{"p1.jpg", "p2.jpg"}))

	cover, err = h.ReconcileCover(ctx, "paris-trip", covers)
	require.NoError(t, err)
	assert.Empty(t, cover)
	assert.Empty(t, covers.covers["paris-trip"])
}

func TestReconcileCover_NoChangeSkipsWrite(t *testing.T) {
	h, _ := setup(t, "a/1.jpg", "a/2.jpg")
	covers := &fakeCovers{covers: map[string]string{"a": "a/2.jpg"}}

	cover, err := h.ReconcileCover(context.Background(), "a", covers)
	require.NoError(t, err)
	assert.Equal(t, "a/2.jpg", cover)
	assert.Zero(t, covers.sets)
}

func TestReconcileCover_StaleCoverReplaced(t *testing.T) {
	h, _ := setup(t, "a/2.jpg", "a/3.jpg")
	covers := &fakeCovers{covers: map[string]string{"a": "a/1.jpg"}}

	cover, err := h.ReconcileCover(context.Background(), "a", covers)
	require.NoError(t, err)
	assert.Equal(t, "a/2.jpg", cover)
}
