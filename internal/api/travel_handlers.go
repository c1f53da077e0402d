package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/tripframe/tripframe-server/internal/domain"
	"github.com/tripframe/tripframe-server/internal/service"
)

func (s *Server) registerTravelRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTravelRecords",
		Method:      http.MethodGet,
		Path:        "/api/v1/travel-records",
		Summary:     "List travel records",
		Description: "Returns every travel record, oldest trip first. Served from the list cache while no travel write has happened since it was filled.",
		Tags:        []string{"Travel"},
	}, s.handleListTravelRecords)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTravelRecord",
		Method:      http.MethodGet,
		Path:        "/api/v1/travel-records/{id}",
		Summary:     "Get travel record",
		Description: "Returns a travel record by ID. IDs contain '#', so escape it as %23.",
		Tags:        []string{"Travel"},
	}, s.handleGetTravelRecord)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createTravelRecord",
		Method:        http.MethodPost,
		Path:          "/api/v1/travel-records",
		Summary:       "Create travel record",
		Description:   "Records a trip leg. The ID defaults to <departure>#<destination>.",
		Tags:          []string{"Travel"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateTravelRecord)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateTravelRecord",
		Method:      http.MethodPatch,
		Path:        "/api/v1/travel-records/{id}",
		Summary:     "Update travel record",
		Description: "Updates the provided fields",
		Tags:        []string{"Travel"},
	}, s.handleUpdateTravelRecord)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTravelRecord",
		Method:      http.MethodDelete,
		Path:        "/api/v1/travel-records/{id}",
		Summary:     "Delete travel record",
		Description: "Deletes a travel record",
		Tags:        []string{"Travel"},
	}, s.handleDeleteTravelRecord)
}

// === DTOs ===

// ListTravelRecordsInput contains parameters for listing travel records.
type ListTravelRecordsInput struct {
	Refresh bool `query:"refresh" doc:"Bypass the list cache"`
}

// TravelListResponse is a cached travel listing.
type TravelListResponse struct {
	Records       []*domain.TravelRecord `json:"records" doc:"Travel records, oldest first"`
	Source        string                 `json:"source" doc:"cache, store or stale-cache"`
	DBUpdatedTime string                 `json:"dbUpdatedTime,omitempty" doc:"Travel marker the listing corresponds to"`
}

// TravelListOutput wraps the travel list response for Huma.
type TravelListOutput struct {
	Body TravelListResponse
}

// TravelPathInput identifies a travel record.
type TravelPathInput struct {
	ID string `path:"id" doc:"Travel record ID"`
}

// TravelRecordOutput wraps a travel record for Huma.
type TravelRecordOutput struct {
	Body *domain.TravelRecord
}

// CreateTravelRecordRequest is the request body for creating a travel record.
type CreateTravelRecordRequest struct {
	ID            string               `json:"id,omitempty" doc:"Record ID; defaults to <departure>#<destination>"`
	TravelDate    time.Time            `json:"travelDate" doc:"When the leg started"`
	Departure     domain.Place         `json:"departure" doc:"Where the leg started"`
	Destination   domain.Place         `json:"destination" doc:"Where the leg ended"`
	TransportType domain.TransportType `json:"transportType" enum:"flight,bus,train" doc:"How the leg was travelled"`
	Distance      *float64             `json:"distance,omitempty" doc:"Kilometres"`
}

// CreateTravelRecordInput wraps the create request for Huma.
type CreateTravelRecordInput struct {
	Actor string `header:"X-Actor" doc:"Caller recorded as createdBy"`
	Body  CreateTravelRecordRequest
}

// UpdateTravelRecordRequest is the request body for updating a travel record.
type UpdateTravelRecordRequest struct {
	TravelDate    *time.Time            `json:"travelDate,omitempty" doc:"When the leg started"`
	Departure     *domain.Place         `json:"departure,omitempty" doc:"Where the leg started"`
	Destination   *domain.Place         `json:"destination,omitempty" doc:"Where the leg ended"`
	TransportType *domain.TransportType `json:"transportType,omitempty" enum:"flight,bus,train" doc:"How the leg was travelled"`
	Distance      *float64              `json:"distance,omitempty" doc:"Kilometres"`
}

// UpdateTravelRecordInput wraps the update request for Huma.
type UpdateTravelRecordInput struct {
	ID    string `path:"id" doc:"Travel record ID"`
	Actor string `header:"X-Actor" doc:"Caller recorded as updatedBy"`
	Body  UpdateTravelRecordRequest
}

// === Handlers ===

func (s *Server) handleListTravelRecords(ctx context.Context, input *ListTravelRecordsInput) (*TravelListOutput, error) {
	res, err := s.services.Travel.List(ctx, input.Refresh)
	if err != nil {
		return nil, err
	}
	records := res.Value
	if records == nil {
		records = []*domain.TravelRecord{}
	}
	return &TravelListOutput{
		Body: TravelListResponse{
			Records:       records,
			Source:        string(res.Source),
			DBUpdatedTime: res.DBUpdatedTime,
		},
	}, nil
}

func (s *Server) handleGetTravelRecord(ctx context.Context, input *TravelPathInput) (*TravelRecordOutput, error) {
	record, err := s.services.Travel.Get(ctx, pathValue(input.ID))
	if err != nil {
		return nil, err
	}
	return &TravelRecordOutput{Body: record}, nil
}

func (s *Server) handleCreateTravelRecord(ctx context.Context, input *CreateTravelRecordInput) (*TravelRecordOutput, error) {
	record, err := s.services.Travel.Create(ctx, service.CreateTravelRequest{
		ID:            input.Body.ID,
		TravelDate:    input.Body.TravelDate,
		Departure:     input.Body.Departure,
		Destination:   input.Body.Destination,
		TransportType: input.Body.TransportType,
		Distance:      input.Body.Distance,
	}, input.Actor)
	if err != nil {
		return nil, err
	}
	return &TravelRecordOutput{Body: record}, nil
}

func (s *Server) handleUpdateTravelRecord(ctx context.Context, input *UpdateTravelRecordInput) (*TravelRecordOutput, error) {
	record, err := s.services.Travel.Update(ctx, pathValue(input.ID), service.UpdateTravelRequest{
		TravelDate:    input.Body.TravelDate,
		Departure:     input.Body.Departure,
		Destination:   input.Body.Destination,
		TransportType: input.Body.TransportType,
		Distance:      input.Body.Distance,
	}, input.Actor)
	if err != nil {
		return nil, err
	}
	return &TravelRecordOutput{Body: record}, nil
}

func (s *Server) handleDeleteTravelRecord(ctx context.Context, input *TravelPathInput) (*struct{}, error) {
	if err := s.services.Travel.Delete(ctx, pathValue(input.ID)); err != nil {
		return nil, err
	}
	return nil, nil
}
