package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/tripframe/tripframe-server/internal/domain"
	domainerrors "github.com/tripframe/tripframe-server/internal/errors"
	"github.com/tripframe/tripframe-server/internal/freshness"
	"github.com/tripframe/tripframe-server/internal/store/sqlite"
	"github.com/tripframe/tripframe-server/internal/validation"
)

// CreateTravelRequest is the input for recording a trip leg.
// ID is optional; when empty it is "<departure>#<destination>".
type CreateTravelRequest struct {
	ID            string               `json:"id,omitempty" validate:"omitempty,max=400"`
	TravelDate    time.Time            `json:"travelDate" validate:"required"`
	Departure     domain.Place         `json:"departure"`
	Destination   domain.Place         `json:"destination"`
	TransportType domain.TransportType `json:"transportType" validate:"required,oneof=flight bus train"`
	Distance      *float64             `json:"distance,omitempty" validate:"omitempty,gte=0"`
}

// UpdateTravelRequest carries the fields to change. Nil fields are left alone.
type UpdateTravelRequest struct {
	TravelDate    *time.Time            `json:"travelDate,omitempty"`
	Departure     *domain.Place         `json:"departure,omitempty"`
	Destination   *domain.Place         `json:"destination,omitempty"`
	TransportType *domain.TransportType `json:"transportType,omitempty" validate:"omitempty,oneof=flight bus train"`
	Distance      *float64              `json:"distance,omitempty" validate:"omitempty,gte=0"`
}

// TravelList is a cached travel listing with its provenance.
type TravelList = freshness.Result[[]*domain.TravelRecord]

// TravelService manages travel records.
type TravelService struct {
	records   *sqlite.Table[domain.TravelRecord]
	publisher Publisher
	loader    *freshness.Loader[[]*domain.TravelRecord]
	validator *validation.Validator
	now       func() time.Time
	logger    *slog.Logger
}

// NewTravelService creates a travel service.
func NewTravelService(db *sqlite.Store, publisher Publisher, oracle *freshness.Oracle, validator *validation.Validator, logger *slog.Logger) *TravelService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TravelService{
		records:   sqlite.TravelTable(db),
		publisher: publisher,
		loader:    freshness.NewLoader[[]*domain.TravelRecord](oracle),
		validator: validator,
		now:       time.Now,
		logger:    logger.With("component", "travel_service"),
	}
}

// Create stores a travel record.
func (s *TravelService) Create(ctx context.Context, req CreateTravelRequest, actor string) (*domain.TravelRecord, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	recordID := strings.TrimSpace(req.ID)
	if recordID == "" {
		recordID = domain.TravelRecordID(req.Departure.DisplayName, req.Destination.DisplayName)
	}

	now := s.now().UTC()
	record := &domain.TravelRecord{
		ID:            recordID,
		TravelDate:    req.TravelDate.UTC(),
		Departure:     req.Departure,
		Destination:   req.Destination,
		TransportType: req.TransportType,
		Distance:      req.Distance,
		CreatedAt:     now,
		CreatedBy:     actor,
		UpdatedAt:     now,
		UpdatedBy:     actor,
	}

	row, err := sqlite.TravelRow(record)
	if err != nil {
		return nil, domainerrors.Internalf("encode travel record: %v", err)
	}
	if _, err := s.records.Create(ctx, row); err != nil {
		return nil, translate(err, "create travel record %q", recordID)
	}
	publish(ctx, s.publisher, domain.DomainTravel, s.logger)

	s.logger.Info("travel record created", "travel_id", recordID)
	return record, nil
}

// Update applies req to the record and returns the stored result.
func (s *TravelService) Update(ctx context.Context, recordID string, req UpdateTravelRequest, actor string) (*domain.TravelRecord, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	patch := &domain.TravelPatch{
		TravelDate:    req.TravelDate,
		Departure:     req.Departure,
		Destination:   req.Destination,
		TransportType: req.TransportType,
		Distance:      req.Distance,
	}
	if patch.IsEmpty() {
		return nil, domainerrors.Validation("no fields to update")
	}

	row, err := sqlite.TravelPatchRow(patch, s.now().UTC(), actor)
	if err != nil {
		return nil, domainerrors.Internalf("encode travel patch: %v", err)
	}
	if _, err := s.records.Update(ctx, recordID, row); err != nil {
		return nil, translate(err, "update travel record %q", recordID)
	}
	publish(ctx, s.publisher, domain.DomainTravel, s.logger)

	return s.Get(ctx, recordID)
}

// Delete removes a travel record.
func (s *TravelService) Delete(ctx context.Context, recordID string) error {
	if _, err := s.records.Delete(ctx, recordID); err != nil {
		return translate(err, "delete travel record %q", recordID)
	}
	publish(ctx, s.publisher, domain.DomainTravel, s.logger)
	return nil
}

// Get returns one travel record.
func (s *TravelService) Get(ctx context.Context, recordID string) (*domain.TravelRecord, error) {
	record, err := s.records.GetByID(ctx, recordID)
	if err != nil {
		return nil, translate(err, "travel record %q", recordID)
	}
	return record, nil
}

// List returns every travel record, oldest trip first, through the client cache.
func (s *TravelService) List(ctx context.Context, forced bool) (TravelList, error) {
	res, err := s.loader.Load(ctx, domain.CacheTravelRecords, "", forced, func(ctx context.Context) ([]*domain.TravelRecord, error) {
		records, err := s.records.GetAll(ctx, nil)
		if err != nil {
			return nil, err
		}
		slices.SortStableFunc(records, func(a, b *domain.TravelRecord) int {
			return a.TravelDate.Compare(b.TravelDate)
		})
		return records, nil
	})
	if err != nil {
		return TravelList{}, translate(err, "list travel records")
	}
	return res, nil
}
