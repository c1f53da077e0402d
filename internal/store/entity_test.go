package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tripframe/tripframe-server/internal/store"
)

type testDoc struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "cache"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestEntity_PutThenGet(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	docs := store.NewEntity[testDoc](s, "doc:")

	require.NoError(t, docs.Put(ctx, "1", &testDoc{ID: "1", Name: "first"}))

	got, err := docs.Get(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, "first", got.Name)
}

func TestEntity_PutOverwrites(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	docs := store.NewEntity[testDoc](s, "doc:")

	require.NoError(t, docs.Put(ctx, "1", &testDoc{ID: "1", Name: "first"}))
	require.NoError(t, docs.Put(ctx, "1", &testDoc{ID: "1", Name: "second"}))

	got, err := docs.Get(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, "second", got.Name)
}

func TestEntity_GetMissing(t *testing.T) {
	s := setupTestStore(t)
	docs := store.NewEntity[testDoc](s, "doc:")

	got, err := docs.Get(context.Background(), "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
	require.Nil(t, got)
}

func TestEntity_DeleteIsIdempotent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	docs := store.NewEntity[testDoc](s, "doc:")

	require.NoError(t, docs.Put(ctx, "1", &testDoc{ID: "1"}))
	require.NoError(t, docs.Delete(ctx, "1"))
	require.NoError(t, docs.Delete(ctx, "1"))

	_, err := docs.Get(ctx, "1")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntity_PrefixesAreIsolated(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	a := store.NewEntity[testDoc](s, "a:")
	b := store.NewEntity[testDoc](s, "b:")

	require.NoError(t, a.Put(ctx, "1", &testDoc{Name: "from a"}))

	_, err := b.Get(ctx, "1")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntity_TTLExpires(t *testing.T) {
	s, err := store.NewInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	docs := store.NewEntity[testDoc](s, "doc:").WithTTL(time.Second)

	require.NoError(t, docs.Put(ctx, "1", &testDoc{Name: "short-lived"}))
	_, err = docs.Get(ctx, "1")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, err := docs.Get(ctx, "1")
		return err != nil
	}, 5*time.Second, 100*time.Millisecond)
}

func TestEntity_CanceledContext(t *testing.T) {
	s := setupTestStore(t)
	docs := store.NewEntity[testDoc](s, "doc:")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, docs.Put(ctx, "1", &testDoc{}), context.Canceled)
}
