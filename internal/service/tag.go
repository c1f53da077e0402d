package service

import (
	"context"
	"log/slog"

	"github.com/tripframe/tripframe-server/internal/domain"
	domainerrors "github.com/tripframe/tripframe-server/internal/errors"
	"github.com/tripframe/tripframe-server/internal/tagsync"
	"github.com/tripframe/tripframe-server/internal/util"
)

// TagService manages the shared tag vocabulary.
type TagService struct {
	sync      *tagsync.Synchronizer
	publisher Publisher
	logger    *slog.Logger
}

// NewTagService creates a tag service.
func NewTagService(sync *tagsync.Synchronizer, publisher Publisher, logger *slog.Logger) *TagService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TagService{
		sync:      sync,
		publisher: publisher,
		logger:    logger.With("component", "tag_service"),
	}
}

// List returns the vocabulary ordered by tag.
func (s *TagService) List(ctx context.Context) ([]*domain.AlbumTag, error) {
	tags, err := s.sync.ListTags(ctx)
	if err != nil {
		return nil, translate(err, "list tags")
	}
	return tags, nil
}

// AlbumIDs returns the ids of albums carrying tag.
func (s *TagService) AlbumIDs(ctx context.Context, tag string) ([]string, error) {
	ids, err := s.sync.AlbumIDsForTag(ctx, util.CleanTag(tag))
	if err != nil {
		return nil, translate(err, "albums for tag %q", tag)
	}
	return ids, nil
}

// Delete removes tag from every album and from the vocabulary.
// Album listings embed tags, so this publishes the album domain.
func (s *TagService) Delete(ctx context.Context, tag string) error {
	tag = util.CleanTag(tag)
	if tag == "" {
		return domainerrors.Validation("tag is required")
	}

	if err := s.sync.DeleteTag(ctx, tag); err != nil {
		if committed(err) {
			publish(ctx, s.publisher, domain.DomainAlbum, s.logger)
		}
		return translate(err, "delete tag %q", tag)
	}
	publish(ctx, s.publisher, domain.DomainAlbum, s.logger)

	s.logger.Info("tag deleted", "tag", tag)
	return nil
}
