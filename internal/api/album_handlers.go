package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/tripframe/tripframe-server/internal/domain"
	"github.com/tripframe/tripframe-server/internal/service"
)

func (s *Server) registerAlbumRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listAlbumsByYear",
		Method:      http.MethodGet,
		Path:        "/api/v1/albums",
		Summary:     "List albums by year",
		Description: "Returns the albums of one year. Served from the list cache while no album write has happened since it was filled.",
		Tags:        []string{"Albums"},
	}, s.handleListAlbumsByYear)

	huma.Register(s.api, huma.Operation{
		OperationID: "listLocatedAlbums",
		Method:      http.MethodGet,
		Path:        "/api/v1/albums/located",
		Summary:     "List albums with a location",
		Description: "Returns every album that has map coordinates",
		Tags:        []string{"Albums"},
	}, s.handleListLocatedAlbums)

	huma.Register(s.api, huma.Operation{
		OperationID: "getAlbum",
		Method:      http.MethodGet,
		Path:        "/api/v1/albums/{id}",
		Summary:     "Get album",
		Description: "Returns an album with its tags",
		Tags:        []string{"Albums"},
	}, s.handleGetAlbum)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createAlbum",
		Method:        http.MethodPost,
		Path:          "/api/v1/albums",
		Summary:       "Create album",
		Description:   "Creates an album, its photo folder and its tag links",
		Tags:          []string{"Albums"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateAlbum)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateAlbum",
		Method:      http.MethodPatch,
		Path:        "/api/v1/albums/{id}",
		Summary:     "Update album",
		Description: "Updates the provided fields. A tags array replaces the album's tags.",
		Tags:        []string{"Albums"},
	}, s.handleUpdateAlbum)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteAlbum",
		Method:      http.MethodDelete,
		Path:        "/api/v1/albums/{id}",
		Summary:     "Delete album",
		Description: "Deletes every photo of the album, then its tag links and the album",
		Tags:        []string{"Albums"},
	}, s.handleDeleteAlbum)
}

// === DTOs ===

// ListAlbumsByYearInput contains parameters for listing albums by year.
type ListAlbumsByYearInput struct {
	Year    string `query:"year" required:"true" doc:"Four-digit year"`
	Refresh bool   `query:"refresh" doc:"Bypass the list cache"`
}

// ListLocatedAlbumsInput contains parameters for listing located albums.
type ListLocatedAlbumsInput struct {
	Refresh bool `query:"refresh" doc:"Bypass the list cache"`
}

// AlbumListResponse is a cached album listing.
type AlbumListResponse struct {
	Albums        []*domain.Album `json:"albums" doc:"Albums"`
	Source        string          `json:"source" doc:"cache, store or stale-cache"`
	DBUpdatedTime string          `json:"dbUpdatedTime,omitempty" doc:"Album marker the listing corresponds to"`
}

// AlbumListOutput wraps the album list response for Huma.
type AlbumListOutput struct {
	Body AlbumListResponse
}

// AlbumPathInput identifies an album.
type AlbumPathInput struct {
	ID string `path:"id" doc:"Album ID"`
}

// AlbumOutput wraps an album for Huma.
type AlbumOutput struct {
	Body *domain.Album
}

// CreateAlbumRequest is the request body for creating an album.
type CreateAlbumRequest struct {
	ID          string        `json:"id,omitempty" maxLength:"64" doc:"Album ID; derived from the name when omitted"`
	Year        string        `json:"year" doc:"Four-digit year"`
	AlbumName   string        `json:"albumName" doc:"Display name"`
	Description string        `json:"description,omitempty" doc:"Free text"`
	IsPrivate   bool          `json:"isPrivate,omitempty" doc:"Hidden from public listings"`
	IsFeatured  bool          `json:"isFeatured,omitempty" doc:"Highlighted on the home page"`
	Place       *domain.Place `json:"place,omitempty" doc:"Where the album was taken"`
	Tags        []string      `json:"tags,omitempty" doc:"Tags; blanks and duplicates are dropped"`
}

// CreateAlbumInput wraps the create album request for Huma.
type CreateAlbumInput struct {
	Actor string `header:"X-Actor" doc:"Caller recorded as createdBy"`
	Body  CreateAlbumRequest
}

// UpdateAlbumRequest is the request body for updating an album.
type UpdateAlbumRequest struct {
	Year        *string       `json:"year,omitempty" doc:"Four-digit year"`
	AlbumName   *string       `json:"albumName,omitempty" doc:"Display name"`
	Description *string       `json:"description,omitempty" doc:"Free text"`
	AlbumCover  *string       `json:"albumCover,omitempty" doc:"Cover object key"`
	IsPrivate   *bool         `json:"isPrivate,omitempty" doc:"Hidden from public listings"`
	IsFeatured  *bool         `json:"isFeatured,omitempty" doc:"Highlighted on the home page"`
	Place       *domain.Place `json:"place,omitempty" doc:"Where the album was taken"`
	Tags        []string      `json:"tags,omitempty" doc:"Replaces all tags; an empty array removes them"`
}

// UpdateAlbumInput wraps the update album request for Huma.
type UpdateAlbumInput struct {
	ID    string `path:"id" doc:"Album ID"`
	Actor string `header:"X-Actor" doc:"Caller recorded as updatedBy"`
	Body  UpdateAlbumRequest
}

// === Handlers ===

func (s *Server) handleListAlbumsByYear(ctx context.Context, input *ListAlbumsByYearInput) (*AlbumListOutput, error) {
	res, err := s.services.Album.ListByYear(ctx, input.Year, input.Refresh)
	if err != nil {
		return nil, err
	}
	return albumList(res), nil
}

func (s *Server) handleListLocatedAlbums(ctx context.Context, input *ListLocatedAlbumsInput) (*AlbumListOutput, error) {
	res, err := s.services.Album.ListWithLocation(ctx, input.Refresh)
	if err != nil {
		return nil, err
	}
	return albumList(res), nil
}

func (s *Server) handleGetAlbum(ctx context.Context, input *AlbumPathInput) (*AlbumOutput, error) {
	album, err := s.services.Album.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &AlbumOutput{Body: album}, nil
}

func (s *Server) handleCreateAlbum(ctx context.Context, input *CreateAlbumInput) (*AlbumOutput, error) {
	album, err := s.services.Album.Create(ctx, service.CreateAlbumRequest{
		ID:          input.Body.ID,
		Year:        input.Body.Year,
		AlbumName:   input.Body.AlbumName,
		Description: input.Body.Description,
		IsPrivate:   input.Body.IsPrivate,
		IsFeatured:  input.Body.IsFeatured,
		Place:       input.Body.Place,
		Tags:        input.Body.Tags,
	}, input.Actor)
	if err != nil {
		return nil, err
	}
	return &AlbumOutput{Body: album}, nil
}

func (s *Server) handleUpdateAlbum(ctx context.Context, input *UpdateAlbumInput) (*AlbumOutput, error) {
	album, err := s.services.Album.Update(ctx, input.ID, service.UpdateAlbumRequest{
		Year:        input.Body.Year,
		AlbumName:   input.Body.AlbumName,
		Description: input.Body.Description,
		AlbumCover:  input.Body.AlbumCover,
		IsPrivate:   input.Body.IsPrivate,
		IsFeatured:  input.Body.IsFeatured,
		Place:       input.Body.Place,
		Tags:        input.Body.Tags,
	}, input.Actor)
	if err != nil {
		return nil, err
	}
	return &AlbumOutput{Body: album}, nil
}

func (s *Server) handleDeleteAlbum(ctx context.Context, input *AlbumPathInput) (*struct{}, error) {
	if err := s.services.Album.Delete(ctx, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func albumList(res service.AlbumList) *AlbumListOutput {
	albums := res.Value
	if albums == nil {
		albums = []*domain.Album{}
	}
	return &AlbumListOutput{
		Body: AlbumListResponse{
			Albums:        albums,
			Source:        string(res.Source),
			DBUpdatedTime: res.DBUpdatedTime,
		},
	}
}
