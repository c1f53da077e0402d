package service

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripframe/tripframe-server/internal/domain"
	domainerrors "github.com/tripframe/tripframe-server/internal/errors"
	"github.com/tripframe/tripframe-server/internal/freshness"
	"github.com/tripframe/tripframe-server/internal/housekeeping"
	"github.com/tripframe/tripframe-server/internal/marker"
	"github.com/tripframe/tripframe-server/internal/objectstore"
	"github.com/tripframe/tripframe-server/internal/store"
	"github.com/tripframe/tripframe-server/internal/store/sqlite"
	"github.com/tripframe/tripframe-server/internal/tagsync"
	"github.com/tripframe/tripframe-server/internal/validation"
)

const testMarkerKey = "test/db-updated-time.json"

// frozenNow is the publisher clock in service tests. Every write happens in
// the same millisecond, so markers only move because the publisher
// advances them.
func frozenNow() time.Time {
	return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
}

type harness struct {
	dbPath  string
	mem     *objectstore.Memory
	markers *marker.Store
	albums  *AlbumService
	tags    *TagService
	travel  *TravelService
	photos  *PhotoService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "tripframe.db")
	db, err := sqlite.Open(dbPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	kv, err := store.NewInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	mem := objectstore.NewMemory()
	markers := marker.NewStore(mem, testMarkerKey)
	publisher := marker.NewPublisher(markers, frozenNow, nil)
	oracle := freshness.NewOracle(freshness.NewBadgerCache(kv, 0), markers, nil)
	v := validation.New()
	hk := housekeeping.New(mem, housekeeping.Config{PageSize: 2, Concurrency: 2}, nil)

	albums := NewAlbumService(tagsync.New(db, nil), hk, publisher, oracle, v, nil)
	return &harness{
		dbPath:  dbPath,
		mem:     mem,
		markers: markers,
		albums:  albums,
		tags:    NewTagService(tagsync.New(db, nil), publisher, nil),
		travel:  NewTravelService(db, publisher, oracle, v, nil),
		photos:  NewPhotoService(albums, hk, v, nil),
	}
}

func (h *harness) marker(t *testing.T) domain.Marker {
	t.Helper()
	m, err := h.markers.Read(context.Background())
	require.NoError(t, err)
	return m
}

// dropTable removes table through a separate connection to break later writes.
func (h *harness) dropTable(t *testing.T, table string) {
	t.Helper()
	raw, err := sql.Open("sqlite", h.dbPath)
	require.NoError(t, err)
	defer raw.Close()
	_, err = raw.Exec("DROP TABLE " + table)
	require.NoError(t, err)
}

func (h *harness) putPhotos(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		require.NoError(t, h.mem.Put(context.Background(), k, []byte("jpeg"), "image/jpeg"))
	}
}

func (h *harness) createAlbum(t *testing.T, albumID, year string, tags ...string) *domain.Album {
	t.Helper()
	a, err := h.albums.Create(context.Background(), CreateAlbumRequest{
		ID:        albumID,
		Year:      year,
		AlbumName: albumID,
		Tags:      tags,
	}, "admin")
	require.NoError(t, err)
	return a
}

func requireCode(t *testing.T, err error, code domainerrors.Code) *domainerrors.Error {
	t.Helper()
	require.Error(t, err)
	var domainErr *domainerrors.Error
	require.True(t, errors.As(err, &domainErr), "expected domain error, got %T: %v", err, err)
	assert.Equal(t, code, domainErr.Code, domainErr.Error())
	return domainErr
}

func TestTranslate(t *testing.T) {
	boom := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want domainerrors.Code
	}{
		{"row missing", store.ErrNotFound.WithMessage("albums \"x\" not found"), domainerrors.CodeNotFound},
		{"object missing", objectstore.ErrNotFound, domainerrors.CodeNotFound},
		{"duplicate", store.ErrAlreadyExists.WithCause(boom), domainerrors.CodeConflict},
		{"bad input", store.ErrInvalidInput, domainerrors.CodeValidation},
		{"bad photo name", housekeeping.ErrInvalidName, domainerrors.CodeValidation},
		{"transient", boom, domainerrors.CodeUnavailable},
		{"inconsistent", &tagsync.InconsistentError{Saga: "update album", Subject: "a1", Failed: "link-tags", Completed: []string{"update-album-row"}, Err: boom}, domainerrors.CodeInconsistent},
		{"domain passes through", domainerrors.Validation("bad"), domainerrors.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireCode(t, translate(tt.err, "op"), tt.want)
		})
	}

	assert.NoError(t, translate(nil, "op"))
}

func TestTranslate_MoveErrorCarriesKeys(t *testing.T) {
	err := translate(&housekeeping.MoveError{
		Moved:  []string{"b/p1.jpg"},
		Failed: []objectstore.KeyError{{Key: "a/p2.jpg", Op: objectstore.OpCopy, Err: objectstore.ErrNotFound}},
	}, "move")

	domainErr := requireCode(t, err, domainerrors.CodeUnavailable)
	details, ok := domainErr.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"b/p1.jpg"}, details["moved"])
	assert.Contains(t, details["failed"], "a/p2.jpg")
}
