package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/tripframe/tripframe-server/internal/domain"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags",
		Summary:     "List tags",
		Description: "Returns the shared tag vocabulary ordered by tag",
		Tags:        []string{"Tags"},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTag",
		Method:      http.MethodDelete,
		Path:        "/api/v1/tags/{tag}",
		Summary:     "Delete tag",
		Description: "Removes the tag from every album and from the vocabulary",
		Tags:        []string{"Tags"},
	}, s.handleDeleteTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTagAlbums",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/{tag}/albums",
		Summary:     "Get tag albums",
		Description: "Returns the albums carrying this tag",
		Tags:        []string{"Tags"},
	}, s.handleGetTagAlbums)
}

// === DTOs ===

// ListTagsResponse contains the tag vocabulary.
type ListTagsResponse struct {
	Tags []*domain.AlbumTag `json:"tags" doc:"List of tags"`
}

// ListTagsOutput wraps the list tags response for Huma.
type ListTagsOutput struct {
	Body ListTagsResponse
}

// TagPathInput identifies a tag.
type TagPathInput struct {
	Tag string `path:"tag" doc:"Tag, case-sensitive"`
}

// TagAlbumsResponse contains the albums carrying a tag.
type TagAlbumsResponse struct {
	Albums []*domain.Album `json:"albums" doc:"Albums with this tag"`
}

// TagAlbumsOutput wraps the tag albums response for Huma.
type TagAlbumsOutput struct {
	Body TagAlbumsResponse
}

// === Handlers ===

func (s *Server) handleListTags(ctx context.Context, _ *struct{}) (*ListTagsOutput, error) {
	tags, err := s.services.Tag.List(ctx)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []*domain.AlbumTag{}
	}
	return &ListTagsOutput{Body: ListTagsResponse{Tags: tags}}, nil
}

func (s *Server) handleDeleteTag(ctx context.Context, input *TagPathInput) (*struct{}, error) {
	if err := s.services.Tag.Delete(ctx, pathValue(input.Tag)); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleGetTagAlbums(ctx context.Context, input *TagPathInput) (*TagAlbumsOutput, error) {
	albums, err := s.services.Album.ListByTag(ctx, pathValue(input.Tag))
	if err != nil {
		return nil, err
	}
	return &TagAlbumsOutput{Body: TagAlbumsResponse{Albums: albums}}, nil
}
