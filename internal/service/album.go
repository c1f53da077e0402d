package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/tripframe/tripframe-server/internal/domain"
	domainerrors "github.com/tripframe/tripframe-server/internal/errors"
	"github.com/tripframe/tripframe-server/internal/freshness"
	"github.com/tripframe/tripframe-server/internal/housekeeping"
	"github.com/tripframe/tripframe-server/internal/id"
	"github.com/tripframe/tripframe-server/internal/store/sqlite"
	"github.com/tripframe/tripframe-server/internal/tagsync"
	"github.com/tripframe/tripframe-server/internal/util"
	"github.com/tripframe/tripframe-server/internal/validation"
)

// CreateAlbumRequest is the input for creating an album.
// ID is optional; when empty one is derived from the name.
type CreateAlbumRequest struct {
	ID          string        `json:"id,omitempty" validate:"omitempty,albumid,max=64"`
	Year        string        `json:"year" validate:"required,year"`
	AlbumName   string        `json:"albumName" validate:"required,max=200"`
	Description string        `json:"description,omitempty" validate:"max=2000"`
	IsPrivate   bool          `json:"isPrivate"`
	IsFeatured  bool          `json:"isFeatured"`
	Place       *domain.Place `json:"place,omitempty"`
	Tags        []string      `json:"tags,omitempty" validate:"max=50,dive,max=64"`
}

// UpdateAlbumRequest carries the fields to change. Nil fields are left
// alone; a non-nil Tags replaces the album's tag set, and an empty slice
// removes every tag.
type UpdateAlbumRequest struct {
	Year        *string       `json:"year,omitempty" validate:"omitempty,year"`
	AlbumName   *string       `json:"albumName,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string       `json:"description,omitempty" validate:"omitempty,max=2000"`
	AlbumCover  *string       `json:"albumCover,omitempty" validate:"omitempty,max=1024"`
	IsPrivate   *bool         `json:"isPrivate,omitempty"`
	IsFeatured  *bool         `json:"isFeatured,omitempty"`
	Place       *domain.Place `json:"place,omitempty"`
	Tags        []string      `json:"tags,omitempty" validate:"omitempty,max=50,dive,max=64"`
}

// AlbumList is a cached album listing with its provenance.
type AlbumList = freshness.Result[[]*domain.Album]

// AlbumService manages albums, their tag membership and their photo folders.
type AlbumService struct {
	sync        *tagsync.Synchronizer
	housekeeper *housekeeping.Housekeeper
	publisher   Publisher
	byYear      *freshness.Loader[[]*domain.Album]
	located     *freshness.Loader[[]*domain.Album]
	validator   *validation.Validator
	now         func() time.Time
	logger      *slog.Logger
}

// NewAlbumService creates an album service.
func NewAlbumService(sync *tagsync.Synchronizer, housekeeper *housekeeping.Housekeeper, publisher Publisher, oracle *freshness.Oracle, validator *validation.Validator, logger *slog.Logger) *AlbumService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AlbumService{
		sync:        sync,
		housekeeper: housekeeper,
		publisher:   publisher,
		byYear:      freshness.NewLoader[[]*domain.Album](oracle),
		located:     freshness.NewLoader[[]*domain.Album](oracle),
		validator:   validator,
		now:         time.Now,
		logger:      logger.With("component", "album_service"),
	}
}

// Create stores a new album. Its photo folder is created first so an
// album that exists is always enumerable in storage.
func (s *AlbumService) Create(ctx context.Context, req CreateAlbumRequest, actor string) (*domain.Album, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	albumID := req.ID
	if albumID == "" {
		generated, err := id.AlbumID(req.AlbumName)
		if err != nil {
			return nil, domainerrors.Internalf("generate album id: %v", err)
		}
		albumID = generated
	} else if _, err := s.sync.GetAlbum(ctx, albumID); err == nil {
		return nil, domainerrors.Conflictf("album %q already exists", albumID)
	} else if !sqlite.IsNotFound(err) {
		return nil, translate(err, "look up album %q", albumID)
	}

	now := s.now().UTC()
	album := &domain.Album{
		ID:          albumID,
		Year:        req.Year,
		AlbumName:   req.AlbumName,
		Description: req.Description,
		IsPrivate:   req.IsPrivate,
		IsFeatured:  req.IsFeatured,
		Place:       req.Place,
		Tags:        util.CleanTags(req.Tags),
		CreatedAt:   now,
		CreatedBy:   actor,
		UpdatedAt:   now,
		UpdatedBy:   actor,
	}

	if err := s.housekeeper.CreateFolder(ctx, albumID); err != nil {
		return nil, translate(err, "create folder for album %q", albumID)
	}

	if err := s.sync.CreateAlbum(ctx, album); err != nil {
		if committed(err) {
			publish(ctx, s.publisher, domain.DomainAlbum, s.logger)
		} else {
			s.logger.Warn("album not created, folder marker left in storage",
				"album_id", albumID, "error", err)
		}
		return nil, translate(err, "create album %q", albumID)
	}

	publish(ctx, s.publisher, domain.DomainAlbum, s.logger)
	s.logger.Info("album created", "album_id", albumID, "tags", len(album.Tags))
	return album, nil
}

// Update applies req to the album and returns the stored result.
func (s *AlbumService) Update(ctx context.Context, albumID string, req UpdateAlbumRequest, actor string) (*domain.Album, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	patch := &domain.AlbumPatch{
		Year:        req.Year,
		AlbumName:   req.AlbumName,
		Description: req.Description,
		AlbumCover:  req.AlbumCover,
		IsPrivate:   req.IsPrivate,
		IsFeatured:  req.IsFeatured,
		Place:       req.Place,
	}
	if req.Tags != nil {
		patch.Tags = util.CleanTags(req.Tags)
	}
	if patch.IsEmpty() {
		return nil, domainerrors.Validation("no fields to update")
	}
	if req.AlbumCover != nil && *req.AlbumCover != "" {
		if err := s.checkCover(ctx, albumID, *req.AlbumCover); err != nil {
			return nil, err
		}
	}

	if err := s.sync.UpdateAlbum(ctx, albumID, patch, s.now().UTC(), actor); err != nil {
		if committed(err) {
			publish(ctx, s.publisher, domain.DomainAlbum, s.logger)
		}
		return nil, translate(err, "update album %q", albumID)
	}
	publish(ctx, s.publisher, domain.DomainAlbum, s.logger)

	return s.Get(ctx, albumID)
}

// checkCover requires key to be a photo stored under the album.
func (s *AlbumService) checkCover(ctx context.Context, albumID, key string) error {
	album, err := s.sync.GetAlbum(ctx, albumID)
	if err != nil {
		return translate(err, "album %q", albumID)
	}
	if !strings.HasPrefix(key, album.Prefix()) {
		return domainerrors.Validationf("albumCover %q is outside %s", key, album.Prefix())
	}
	ok, err := s.housekeeper.HasPhoto(ctx, albumID, key)
	if err != nil {
		return translate(err, "check cover of album %q", albumID)
	}
	if !ok {
		return domainerrors.Validationf("albumCover %q is not a photo of album %q", key, albumID)
	}
	return nil
}

// Delete removes every photo under the album, then its tag links and row.
// Storage is emptied first: if that fails the album row still points at
// the remaining photos and the delete can be retried.
func (s *AlbumService) Delete(ctx context.Context, albumID string) error {
	if _, err := s.sync.GetAlbum(ctx, albumID); err != nil {
		return translate(err, "album %q", albumID)
	}

	removed, err := s.housekeeper.EmptyFolder(ctx, albumID)
	if err != nil {
		return translate(err, "empty folder of album %q", albumID)
	}

	if err := s.sync.DeleteAlbum(ctx, albumID); err != nil {
		if committed(err) {
			publish(ctx, s.publisher, domain.DomainAlbum, s.logger)
		}
		return translate(err, "delete album %q", albumID)
	}
	publish(ctx, s.publisher, domain.DomainAlbum, s.logger)

	s.logger.Info("album deleted", "album_id", albumID, "photos_removed", removed)
	return nil
}

// Get returns one album with its tags.
func (s *AlbumService) Get(ctx context.Context, albumID string) (*domain.Album, error) {
	album, err := s.sync.GetAlbum(ctx, albumID)
	if err != nil {
		return nil, translate(err, "album %q", albumID)
	}
	return album, nil
}

// ListByYear returns the albums of one year through the client cache.
// The year is the cache scope, so switching years refetches.
func (s *AlbumService) ListByYear(ctx context.Context, year string, forced bool) (AlbumList, error) {
	if err := s.validator.Var("year", year, "required,year"); err != nil {
		return AlbumList{}, err
	}

	res, err := s.byYear.Load(ctx, domain.CacheAlbumsByYear, year, forced, func(ctx context.Context) ([]*domain.Album, error) {
		return s.sync.GetAllAlbums(ctx, sqlite.Row{"year": sqlite.Text(year)})
	})
	if err != nil {
		return AlbumList{}, translate(err, "list albums for %s", year)
	}
	return res, nil
}

// ListWithLocation returns every album that has map coordinates.
func (s *AlbumService) ListWithLocation(ctx context.Context, forced bool) (AlbumList, error) {
	res, err := s.located.Load(ctx, domain.CacheAlbumsWithLocation, "", forced, func(ctx context.Context) ([]*domain.Album, error) {
		all, err := s.sync.GetAllAlbums(ctx, nil)
		if err != nil {
			return nil, err
		}
		located := make([]*domain.Album, 0, len(all))
		for _, a := range all {
			if a.HasLocation() {
				located = append(located, a)
			}
		}
		return located, nil
	})
	if err != nil {
		return AlbumList{}, translate(err, "list located albums")
	}
	return res, nil
}

// ListByTag returns the albums carrying tag. This read is not cached.
func (s *AlbumService) ListByTag(ctx context.Context, tag string) ([]*domain.Album, error) {
	albums, err := s.sync.AlbumsForTag(ctx, util.CleanTag(tag))
	if err != nil {
		return nil, translate(err, "list albums for tag %q", tag)
	}
	return albums, nil
}

// GetCover returns the album's cover key.
func (s *AlbumService) GetCover(ctx context.Context, albumID string) (string, error) {
	album, err := s.Get(ctx, albumID)
	if err != nil {
		return "", err
	}
	return album.AlbumCover, nil
}

// SetCover stores a new cover key, empty to clear it, and publishes the album marker.
func (s *AlbumService) SetCover(ctx context.Context, albumID, key string) error {
	patch := &domain.AlbumPatch{AlbumCover: &key}
	if err := s.sync.UpdateAlbum(ctx, albumID, patch, s.now().UTC(), ""); err != nil {
		return translate(err, "set cover of album %q", albumID)
	}
	publish(ctx, s.publisher, domain.DomainAlbum, s.logger)
	return nil
}

var _ housekeeping.CoverStore = (*AlbumService)(nil)
