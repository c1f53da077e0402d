package tagsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tripframe/tripframe-server/internal/domain"
	"github.com/tripframe/tripframe-server/internal/store"
	"github.com/tripframe/tripframe-server/internal/store/sqlite"
)

// inChunk bounds the number of bind variables in one IN (...) lookup.
const inChunk = 500

// Synchronizer writes albums together with their tag membership.
type Synchronizer struct {
	db     *sqlite.Store
	albums *sqlite.Table[domain.Album]
	tags   *sqlite.Table[domain.AlbumTag]
	links  *sqlite.Table[domain.AlbumTagsMap]
	logger *slog.Logger
}

// New creates a synchronizer over db.
func New(db *sqlite.Store, logger *slog.Logger) *Synchronizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synchronizer{
		db:     db,
		albums: sqlite.AlbumTable(db),
		tags:   sqlite.TagTable(db),
		links:  sqlite.TagMapTable(db),
		logger: logger,
	}
}

// CreateAlbum persists the album row, then the vocabulary entries and
// join rows for its tags in one batch.
func (s *Synchronizer) CreateAlbum(ctx context.Context, album *domain.Album) error {
	row, err := sqlite.AlbumRow(album)
	if err != nil {
		return err
	}

	saga := NewSaga("create album", album.ID).
		Step("insert-album-row", func(ctx context.Context) error {
			_, err := s.albums.Create(ctx, row)
			return err
		})
	if len(album.Tags) > 0 {
		saga.Step("link-tags", func(ctx context.Context) error {
			return s.linkTags(ctx, album.ID, album.Tags, album.CreatedAt, album.CreatedBy)
		})
	}

	return s.run(ctx, saga)
}

// UpdateAlbum writes the provided fields. When patch.Tags is non-nil the
// album's membership is replaced entirely: every join row is removed and
// the new set is linked.
func (s *Synchronizer) UpdateAlbum(ctx context.Context, id string, patch *domain.AlbumPatch, at time.Time, by string) error {
	row, err := sqlite.AlbumPatchRow(patch, at, by)
	if err != nil {
		return err
	}

	saga := NewSaga("update album", id).
		Step("update-album-row", func(ctx context.Context) error {
			_, err := s.albums.Update(ctx, id, row)
			return err
		})
	if patch.Tags != nil {
		saga.Step("unlink-tags", func(ctx context.Context) error {
			_, err := s.links.DeleteWhere(ctx, sqlite.Row{"albumId": sqlite.Text(id)})
			return err
		})
		if len(patch.Tags) > 0 {
			saga.Step("link-tags", func(ctx context.Context) error {
				return s.linkTags(ctx, id, patch.Tags, at, by)
			})
		}
	}

	return s.run(ctx, saga)
}

// DeleteAlbum removes the album's join rows and then its row.
// Returns store.ErrNotFound when the album does not exist.
func (s *Synchronizer) DeleteAlbum(ctx context.Context, id string) error {
	saga := NewSaga("delete album", id).
		Step("check-album-row", func(ctx context.Context) error {
			_, err := s.albums.GetByID(ctx, id)
			return err
		}).
		Step("unlink-tags", func(ctx context.Context) error {
			_, err := s.DeleteAlbumTags(ctx, id)
			return err
		}).
		Step("delete-album-row", func(ctx context.Context) error {
			_, err := s.albums.Delete(ctx, id)
			return err
		})

	return s.run(ctx, saga)
}

// DeleteAlbumTags removes every join row for the album. The vocabulary is untouched.
func (s *Synchronizer) DeleteAlbumTags(ctx context.Context, id string) (int64, error) {
	res, err := s.links.DeleteWhere(ctx, sqlite.Row{"albumId": sqlite.Text(id)})
	if err != nil {
		return 0, err
	}
	return res.RowsAffected, nil
}

// DeleteTag removes a tag from every album and then from the vocabulary.
// Join rows go first: a crash in between leaves an unused vocabulary
// entry, never a join row pointing at a missing tag.
// Returns store.ErrNotFound when neither table held the tag.
func (s *Synchronizer) DeleteTag(ctx context.Context, tag string) error {
	var removed int64
	saga := NewSaga("delete tag", tag).
		Step("unlink-tag", func(ctx context.Context) error {
			res, err := s.links.DeleteWhere(ctx, sqlite.Row{"tag": sqlite.Text(tag)})
			removed += res.RowsAffected
			return err
		}).
		Step("delete-vocabulary-row", func(ctx context.Context) error {
			res, err := s.tags.DeleteWhere(ctx, sqlite.Row{"tag": sqlite.Text(tag)})
			removed += res.RowsAffected
			return err
		})

	if err := s.run(ctx, saga); err != nil {
		return err
	}
	if removed == 0 {
		return store.ErrNotFound.WithMessage(fmt.Sprintf("tag %q not found", tag))
	}
	return nil
}

// GetAlbum returns one album with its tags.
func (s *Synchronizer) GetAlbum(ctx context.Context, id string) (*domain.Album, error) {
	album, err := s.albums.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	links, err := s.links.GetAll(ctx, sqlite.Row{"albumId": sqlite.Text(id)})
	if err != nil {
		return nil, err
	}
	for _, l := range links {
		album.Tags = append(album.Tags, l.Tag)
	}
	return album, nil
}

// GetAllAlbums returns the albums matching filter with their tags attached.
func (s *Synchronizer) GetAllAlbums(ctx context.Context, filter sqlite.Row) ([]*domain.Album, error) {
	albums, err := s.albums.GetAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := s.attachTags(ctx, albums); err != nil {
		return nil, err
	}
	return albums, nil
}

// AlbumsForTag returns every album carrying tag.
func (s *Synchronizer) AlbumsForTag(ctx context.Context, tag string) ([]*domain.Album, error) {
	ids, err := s.AlbumIDsForTag(ctx, tag)
	if err != nil {
		return nil, err
	}

	albums := []*domain.Album{}
	for start := 0; start < len(ids); start += inChunk {
		end := min(start+inChunk, len(ids))
		chunk, err := s.albums.GetIn(ctx, "id", ids[start:end])
		if err != nil {
			return nil, err
		}
		albums = append(albums, chunk...)
	}
	if err := s.attachTags(ctx, albums); err != nil {
		return nil, err
	}
	return albums, nil
}

// AlbumIDsForTag returns the IDs of albums linked to tag, in link order.
func (s *Synchronizer) AlbumIDsForTag(ctx context.Context, tag string) ([]string, error) {
	links, err := s.links.GetAll(ctx, sqlite.Row{"tag": sqlite.Text(tag)})
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(links))
	for i, l := range links {
		ids[i] = l.AlbumID
	}
	return ids, nil
}

// ListTags returns the vocabulary ordered by tag.
func (s *Synchronizer) ListTags(ctx context.Context) ([]*domain.AlbumTag, error) {
	return s.tags.GetAll(ctx, nil)
}

// linkTags upserts the vocabulary entries and join rows for tags as one
// batch. Both inserts ignore duplicates so a retry after a partial
// failure converges.
func (s *Synchronizer) linkTags(ctx context.Context, albumID string, tags []string, at time.Time, by string) error {
	var batch sqlite.Batch
	for _, tag := range tags {
		vocab, err := s.tags.InsertStatement(sqlite.TagRow(&domain.AlbumTag{Tag: tag, CreatedAt: at, CreatedBy: by}), sqlite.ConflictIgnore)
		if err != nil {
			return err
		}
		batch.Add(vocab)

		link, err := s.links.InsertStatement(sqlite.TagMapRow(albumID, tag), sqlite.ConflictIgnore)
		if err != nil {
			return err
		}
		batch.Add(link)
	}

	_, err := s.db.ExecBatch(ctx, &batch)
	return err
}

func (s *Synchronizer) attachTags(ctx context.Context, albums []*domain.Album) error {
	if len(albums) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Album, len(albums))
	ids := make([]string, len(albums))
	for i, a := range albums {
		byID[a.ID] = a
		ids[i] = a.ID
	}

	for start := 0; start < len(ids); start += inChunk {
		end := min(start+inChunk, len(ids))
		links, err := s.links.GetIn(ctx, "albumId", ids[start:end])
		if err != nil {
			return err
		}
		for _, l := range links {
			if a, ok := byID[l.AlbumID]; ok {
				a.Tags = append(a.Tags, l.Tag)
			}
		}
	}
	return nil
}

func (s *Synchronizer) run(ctx context.Context, saga *Saga) error {
	err := saga.Run(ctx)
	var inconsistent *InconsistentError
	if errors.As(err, &inconsistent) {
		s.logger.Error("tag membership left inconsistent",
			"saga", inconsistent.Saga,
			"subject", inconsistent.Subject,
			"failed_step", inconsistent.Failed,
			"completed_steps", inconsistent.Completed,
			"error", inconsistent.Err,
		)
	}
	return err
}
