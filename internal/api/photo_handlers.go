package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/tripframe/tripframe-server/internal/domain"
	"github.com/tripframe/tripframe-server/internal/service"
)

func (s *Server) registerPhotoRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listAlbumPhotos",
		Method:      http.MethodGet,
		Path:        "/api/v1/albums/{id}/photos",
		Summary:     "List photos",
		Description: "Returns every photo stored under the album, in key order",
		Tags:        []string{"Photos"},
	}, s.handleListPhotos)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteAlbumPhotos",
		Method:      http.MethodDelete,
		Path:        "/api/v1/albums/{id}/photos",
		Summary:     "Delete photos",
		Description: "Deletes the named photos and re-derives the album cover",
		Tags:        []string{"Photos"},
	}, s.handleDeletePhotos)

	huma.Register(s.api, huma.Operation{
		OperationID: "moveAlbumPhotos",
		Method:      http.MethodPost,
		Path:        "/api/v1/albums/{id}/photos/move",
		Summary:     "Move photos",
		Description: "Moves the named photos to another album and re-derives both covers. A partial failure reports the moved and failed keys.",
		Tags:        []string{"Photos"},
	}, s.handleMovePhotos)

	huma.Register(s.api, huma.Operation{
		OperationID: "reconcileAlbumCover",
		Method:      http.MethodPost,
		Path:        "/api/v1/albums/{id}/cover/reconcile",
		Summary:     "Reconcile cover",
		Description: "Re-derives the album cover from the photos currently in storage",
		Tags:        []string{"Photos"},
	}, s.handleReconcileCover)
}

// === DTOs ===

// PhotoListResponse contains an album's photos.
type PhotoListResponse struct {
	Photos []domain.Photo `json:"photos" doc:"Photos in key order"`
}

// PhotoListOutput wraps the photo list response for Huma.
type PhotoListOutput struct {
	Body PhotoListResponse
}

// PhotoNamesRequest names photos within one album.
type PhotoNamesRequest struct {
	Filenames []string `json:"filenames" doc:"Photo file names without the album prefix"`
}

// DeletePhotosInput wraps the delete photos request for Huma.
type DeletePhotosInput struct {
	ID   string `path:"id" doc:"Album ID"`
	Body PhotoNamesRequest
}

// MovePhotosRequest is the request body for moving photos.
type MovePhotosRequest struct {
	Destination string   `json:"destination" doc:"Destination album ID"`
	Filenames   []string `json:"filenames" doc:"Photo file names without the album prefix"`
}

// MovePhotosInput wraps the move photos request for Huma.
type MovePhotosInput struct {
	ID   string `path:"id" doc:"Source album ID"`
	Body MovePhotosRequest
}

// MovePhotosOutput wraps the move result for Huma.
type MovePhotosOutput struct {
	Body *service.MoveResult
}

// CoverResponse contains an album's cover after reconciliation.
type CoverResponse struct {
	AlbumCover string `json:"albumCover" doc:"Cover object key, empty when the album has no photos"`
}

// CoverOutput wraps the cover response for Huma.
type CoverOutput struct {
	Body CoverResponse
}

// === Handlers ===

func (s *Server) handleListPhotos(ctx context.Context, input *AlbumPathInput) (*PhotoListOutput, error) {
	photos, err := s.services.Photo.List(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &PhotoListOutput{Body: PhotoListResponse{Photos: photos}}, nil
}

func (s *Server) handleDeletePhotos(ctx context.Context, input *DeletePhotosInput) (*CoverOutput, error) {
	cover, err := s.services.Photo.Delete(ctx, input.ID, service.PhotoNames{Filenames: input.Body.Filenames})
	if err != nil {
		return nil, err
	}
	return &CoverOutput{Body: CoverResponse{AlbumCover: cover}}, nil
}

func (s *Server) handleMovePhotos(ctx context.Context, input *MovePhotosInput) (*MovePhotosOutput, error) {
	res, err := s.services.Photo.Move(ctx, input.ID, input.Body.Destination, service.PhotoNames{Filenames: input.Body.Filenames})
	if err != nil {
		return nil, err
	}
	return &MovePhotosOutput{Body: res}, nil
}

func (s *Server) handleReconcileCover(ctx context.Context, input *AlbumPathInput) (*CoverOutput, error) {
	cover, err := s.services.Photo.Reconcile(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &CoverOutput{Body: CoverResponse{AlbumCover: cover}}, nil
}
