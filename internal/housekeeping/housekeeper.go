// Package housekeeping enumerates, deletes, and moves album photos in
// object storage. Album prefixes are "<albumID>/".
package housekeeping

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tripframe/tripframe-server/internal/domain"
	"github.com/tripframe/tripframe-server/internal/objectstore"
)

// Defaults for Config zero values.
const (
	DefaultConcurrency = 8
	DefaultMaxPasses   = 5

	// deleteChunk is the S3 multi-object delete cap.
	deleteChunk = 1000

	folderContentType = "application/x-directory"
)

// Errors returned by the housekeeper.
var (
	// ErrNotEmptied is returned when a prefix still has objects after every pass.
	ErrNotEmptied = errors.New("folder not emptied")
	// ErrInvalidName is returned for photo names that are empty or contain "/".
	ErrInvalidName = errors.New("invalid photo name")
)

// Config tunes the housekeeper.
type Config struct {
	PageSize    int // Listing page size; provider caps still apply
	Concurrency int // Parallel copy/delete pairs in MoveObjects
	MaxPasses   int // Re-enumeration passes in EmptyFolder
}

// Housekeeper performs object storage maintenance for albums.
type Housekeeper struct {
	store  objectstore.Store
	cfg    Config
	logger *slog.Logger
}

// New creates a housekeeper over store.
func New(store objectstore.Store, cfg Config, logger *slog.Logger) *Housekeeper {
	if cfg.PageSize <= 0 {
		cfg.PageSize = objectstore.DefaultPageSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.MaxPasses <= 0 {
		cfg.MaxPasses = DefaultMaxPasses
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Housekeeper{store: store, cfg: cfg, logger: logger}
}

// ListAlbumPhotos returns every photo under the album prefix in key order.
// The zero-byte folder marker is not a photo and is left out.
func (h *Housekeeper) ListAlbumPhotos(ctx context.Context, albumID string) ([]domain.Photo, error) {
	prefix := domain.AlbumPrefix(albumID)
	objects, err := h.listAll(ctx, prefix)
	if err != nil {
		return nil, err
	}

	photos := make([]domain.Photo, 0, len(objects))
	for _, o := range objects {
		if o.Key == prefix {
			continue
		}
		photos = append(photos, domain.Photo{
			Key:          o.Key,
			Size:         o.Size,
			LastModified: o.LastModified,
		})
	}
	return photos, nil
}

// HasPhoto reports whether key is a photo currently stored under the album.
func (h *Housekeeper) HasPhoto(ctx context.Context, albumID, key string) (bool, error) {
	prefix := domain.AlbumPrefix(albumID)
	if !strings.HasPrefix(key, prefix) || key == prefix {
		return false, nil
	}
	photos, err := h.ListAlbumPhotos(ctx, albumID)
	if err != nil {
		return false, err
	}
	return containsKey(photos, key), nil
}

// CreateFolder writes the zero-byte marker that makes an empty album's
// prefix enumerable.
func (h *Housekeeper) CreateFolder(ctx context.Context, albumID string) error {
	prefix := domain.AlbumPrefix(albumID)
	if err := h.store.Put(ctx, prefix, nil, folderContentType); err != nil {
		return fmt.Errorf("create folder %s: %w", prefix, err)
	}
	return nil
}

// EmptyFolder deletes every object under prefix, folder marker included,
// and returns how many were deleted. The prefix is enumerated to
// exhaustion before each delete and re-enumerated afterwards, so success
// means a listing came back empty. An already empty prefix is a no-op.
func (h *Housekeeper) EmptyFolder(ctx context.Context, prefix string) (int, error) {
	if strings.Trim(prefix, "/") == "" {
		return 0, fmt.Errorf("empty folder: refusing to empty the bucket root")
	}
	prefix = domain.AlbumPrefix(prefix)

	deleted := 0
	for pass := 1; pass <= h.cfg.MaxPasses; pass++ {
		objects, err := h.listAll(ctx, prefix)
		if err != nil {
			return deleted, err
		}
		if len(objects) == 0 {
			if deleted > 0 {
				h.logger.Info("folder emptied", "prefix", prefix, "deleted", deleted, "passes", pass)
			}
			return deleted, nil
		}

		keys := make([]string, len(objects))
		for i, o := range objects {
			keys[i] = o.Key
		}
		if err := h.deleteKeys(ctx, keys); err != nil {
			return deleted, fmt.Errorf("empty folder %s: %w", prefix, err)
		}
		deleted += len(keys)
	}

	return deleted, fmt.Errorf("%w: %s after %d passes", ErrNotEmptied, prefix, h.cfg.MaxPasses)
}

// DeletePhotos removes the named photos from the album. Absent photos are ignored.
func (h *Housekeeper) DeletePhotos(ctx context.Context, albumID string, filenames []string) error {
	keys, err := photoKeys(albumID, filenames)
	if err != nil {
		return err
	}
	return h.deleteKeys(ctx, keys)
}

// MoveError reports a move in which at least one photo failed. Moved
// photos are not rolled back.
type MoveError struct {
	Moved  []string
	Failed []objectstore.KeyError
}

func (e *MoveError) Error() string {
	keys := make([]string, len(e.Failed))
	for i, f := range e.Failed {
		keys[i] = f.Op + " " + f.Key
	}
	return fmt.Sprintf("move failed for %d of %d photo(s): %s",
		len(e.Failed), len(e.Failed)+len(e.Moved), strings.Join(keys, ", "))
}

// Unwrap exposes every per-key failure.
func (e *MoveError) Unwrap() []error {
	errs := make([]error, len(e.Failed))
	for i, f := range e.Failed {
		errs[i] = f
	}
	return errs
}

// MoveObjects moves the named photos between albums. Each photo is
// copied, and only a confirmed copy is followed by deleting the source.
// Pairs run concurrently up to the configured limit. Every pair is
// allowed to settle; any failure yields a *MoveError naming all failed keys.
func (h *Housekeeper) MoveObjects(ctx context.Context, srcAlbumID, dstAlbumID string, filenames []string) ([]string, error) {
	srcPrefix := domain.AlbumPrefix(srcAlbumID)
	dstPrefix := domain.AlbumPrefix(dstAlbumID)
	if srcPrefix == dstPrefix {
		return nil, fmt.Errorf("move photos: source and destination are both %s", srcPrefix)
	}
	if _, err := photoKeys(srcAlbumID, filenames); err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		moved  []string
		failed []objectstore.KeyError
	)

	var g errgroup.Group
	g.SetLimit(h.cfg.Concurrency)
	for _, name := range filenames {
		g.Go(func() error {
			src, dst := srcPrefix+name, dstPrefix+name

			if err := h.store.Copy(ctx, src, dst); err != nil {
				mu.Lock()
				failed = append(failed, objectstore.KeyError{Key: src, Op: objectstore.OpCopy, Err: err})
				mu.Unlock()
				return nil
			}
			if err := h.store.Delete(ctx, src); err != nil {
				mu.Lock()
				failed = append(failed, objectstore.KeyError{Key: src, Op: objectstore.OpDelete, Err: err})
				mu.Unlock()
				return nil
			}

			mu.Lock()
			moved = append(moved, dst)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	slices.Sort(moved)
	if len(failed) > 0 {
		slices.SortFunc(failed, func(a, b objectstore.KeyError) int { return strings.Compare(a.Key, b.Key) })
		h.logger.Warn("photo move partially failed",
			"from", srcPrefix, "to", dstPrefix, "moved", len(moved), "failed", len(failed))
		return moved, &MoveError{Moved: moved, Failed: failed}
	}
	return moved, nil
}

// CoverStore reads and writes an album's cover key.
type CoverStore interface {
	GetCover(ctx context.Context, albumID string) (string, error)
	SetCover(ctx context.Context, albumID, key string) error
}

// ReconcileCover re-derives the album cover from the photos currently in
// storage. With photos present and no usable cover, the first photo becomes
// the cover; with no photos left, the cover is cleared. Run it only after
// the storage mutation has been confirmed. Returns the resulting cover.
func (h *Housekeeper) ReconcileCover(ctx context.Context, albumID string, covers CoverStore) (string, error) {
	photos, err := h.ListAlbumPhotos(ctx, albumID)
	if err != nil {
		return "", err
	}
	cover, err := covers.GetCover(ctx, albumID)
	if err != nil {
		return "", err
	}

	want := cover
	switch {
	case len(photos) == 0:
		want = ""
	case cover == "" || !containsKey(photos, cover):
		want = photos[0].Key
	}

	if want == cover {
		return cover, nil
	}
	if err := covers.SetCover(ctx, albumID, want); err != nil {
		return cover, err
	}
	h.logger.Debug("album cover reconciled", "album_id", albumID, "from", cover, "to", want)
	return want, nil
}

func (h *Housekeeper) listAll(ctx context.Context, prefix string) ([]objectstore.Object, error) {
	var (
		all   []objectstore.Object
		token string
	)
	for {
		page, err := h.store.ListPage(ctx, prefix, token, h.cfg.PageSize)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", prefix, err)
		}
		all = append(all, page.Objects...)
		if !page.IsTruncated {
			return all, nil
		}
		if page.NextToken == "" || page.NextToken == token {
			return nil, fmt.Errorf("list %s: truncated page without a continuation token", prefix)
		}
		token = page.NextToken
	}
}

func (h *Housekeeper) deleteKeys(ctx context.Context, keys []string) error {
	for chunk := range slices.Chunk(keys, deleteChunk) {
		if err := h.store.DeleteMany(ctx, chunk); err != nil {
			return err
		}
	}
	return nil
}

func photoKeys(albumID string, filenames []string) ([]string, error) {
	prefix := domain.AlbumPrefix(albumID)
	keys := make([]string, len(filenames))
	for i, name := range filenames {
		if name == "" || strings.Contains(name, "/") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
		keys[i] = prefix + name
	}
	return keys, nil
}

func containsKey(photos []domain.Photo, key string) bool {
	return slices.ContainsFunc(photos, func(p domain.Photo) bool { return p.Key == key })
}
