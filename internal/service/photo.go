package service

import (
	"context"
	"log/slog"

	"github.com/tripframe/tripframe-server/internal/domain"
	domainerrors "github.com/tripframe/tripframe-server/internal/errors"
	"github.com/tripframe/tripframe-server/internal/housekeeping"
	"github.com/tripframe/tripframe-server/internal/validation"
)

// PhotoNames lists photo file names within one album.
type PhotoNames struct {
	Filenames []string `json:"filenames" validate:"required,min=1,max=1000,dive,filename"`
}

// MoveResult reports where moved photos ended up and the covers after reconciliation.
type MoveResult struct {
	Moved            []string `json:"moved"`
	SourceCover      string   `json:"sourceCover"`
	DestinationCover string   `json:"destinationCover"`
}

// PhotoService manages album photos in object storage. Cover changes go
// through the album service, which publishes the album marker.
type PhotoService struct {
	albums      *AlbumService
	housekeeper *housekeeping.Housekeeper
	validator   *validation.Validator
	logger      *slog.Logger
}

// NewPhotoService creates a photo service.
func NewPhotoService(albums *AlbumService, housekeeper *housekeeping.Housekeeper, validator *validation.Validator, logger *slog.Logger) *PhotoService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PhotoService{
		albums:      albums,
		housekeeper: housekeeper,
		validator:   validator,
		logger:      logger.With("component", "photo_service"),
	}
}

// List returns the album's photos in key order.
func (s *PhotoService) List(ctx context.Context, albumID string) ([]domain.Photo, error) {
	if _, err := s.albums.Get(ctx, albumID); err != nil {
		return nil, err
	}
	photos, err := s.housekeeper.ListAlbumPhotos(ctx, albumID)
	if err != nil {
		return nil, translate(err, "list photos of album %q", albumID)
	}
	return photos, nil
}

// Delete removes the named photos and reconciles the album cover.
// It returns the cover after reconciliation.
func (s *PhotoService) Delete(ctx context.Context, albumID string, req PhotoNames) (string, error) {
	if err := s.validator.Validate(req); err != nil {
		return "", err
	}
	if _, err := s.albums.Get(ctx, albumID); err != nil {
		return "", err
	}

	if err := s.housekeeper.DeletePhotos(ctx, albumID, req.Filenames); err != nil {
		return "", translate(err, "delete photos of album %q", albumID)
	}
	s.logger.Info("photos deleted", "album_id", albumID, "count", len(req.Filenames))

	return s.Reconcile(ctx, albumID)
}

// Move moves the named photos from one album to another and reconciles
// both covers. A partial failure still reconciles, since some photos moved,
// and then reports the failed keys.
func (s *PhotoService) Move(ctx context.Context, srcAlbumID, dstAlbumID string, req PhotoNames) (*MoveResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if srcAlbumID == dstAlbumID {
		return nil, domainerrors.Validation("source and destination album are the same")
	}
	for _, albumID := range []string{srcAlbumID, dstAlbumID} {
		if _, err := s.albums.Get(ctx, albumID); err != nil {
			return nil, err
		}
	}

	moved, moveErr := s.housekeeper.MoveObjects(ctx, srcAlbumID, dstAlbumID, req.Filenames)
	res := &MoveResult{Moved: moved}
	if res.Moved == nil {
		res.Moved = []string{}
	}

	if len(moved) > 0 {
		var err error
		if res.SourceCover, err = s.Reconcile(ctx, srcAlbumID); err != nil {
			return nil, err
		}
		if res.DestinationCover, err = s.Reconcile(ctx, dstAlbumID); err != nil {
			return nil, err
		}
	}

	if moveErr != nil {
		return res, translate(moveErr, "move photos from %q to %q", srcAlbumID, dstAlbumID)
	}
	s.logger.Info("photos moved", "from", srcAlbumID, "to", dstAlbumID, "count", len(moved))
	return res, nil
}

// Reconcile re-derives the album cover from the photos in storage and returns it.
func (s *PhotoService) Reconcile(ctx context.Context, albumID string) (string, error) {
	cover, err := s.housekeeper.ReconcileCover(ctx, albumID, s.albums)
	if err != nil {
		return "", translate(err, "reconcile cover of album %q", albumID)
	}
	return cover, nil
}
