package sqlite

import (
	"fmt"
	"time"

	"github.com/tripframe/tripframe-server/internal/domain"
)

// TravelSchema maps domain.TravelRecord onto travel_records.
var TravelSchema = Schema[domain.TravelRecord]{
	Table: TableTravel,
	Key:   "id",
	Columns: []string{
		"id", "travelDate", "departure", "destination", "transportType",
		"distance", "createdAt", "createdBy", "updatedAt", "updatedBy",
	},
	Decode: RowToTravel,
}

// TravelTable returns the table service for travel records.
func TravelTable(s *Store) *Table[domain.TravelRecord] {
	return NewTable(s, TravelSchema)
}

// TravelRow flattens a travel record for insertion.
func TravelRow(r *domain.TravelRecord) (Row, error) {
	dep, err := JSON(r.Departure)
	if err != nil {
		return nil, err
	}
	dest, err := JSON(r.Destination)
	if err != nil {
		return nil, err
	}

	row := Row{
		"id":            Text(r.ID),
		"travelDate":    Time(r.TravelDate),
		"departure":     dep,
		"destination":   dest,
		"transportType": Text(string(r.TransportType)),
	}
	if r.Distance != nil {
		row["distance"] = Float(*r.Distance)
	}
	putTime(row, "createdAt", r.CreatedAt)
	putText(row, "createdBy", r.CreatedBy)
	putTime(row, "updatedAt", r.UpdatedAt)
	putText(row, "updatedBy", r.UpdatedBy)
	return row, nil
}

// TravelPatchRow flattens the provided fields of a patch plus the audit columns.
func TravelPatchRow(p *domain.TravelPatch, updatedAt time.Time, updatedBy string) (Row, error) {
	row := Row{"updatedAt": Time(updatedAt)}
	if updatedBy != "" {
		row["updatedBy"] = Text(updatedBy)
	}
	if p.TravelDate != nil {
		row["travelDate"] = Time(*p.TravelDate)
	}
	if p.Departure != nil {
		v, err := JSON(p.Departure)
		if err != nil {
			return nil, err
		}
		row["departure"] = v
	}
	if p.Destination != nil {
		v, err := JSON(p.Destination)
		if err != nil {
			return nil, err
		}
		row["destination"] = v
	}
	if p.TransportType != nil {
		row["transportType"] = Text(string(*p.TransportType))
	}
	if p.Distance != nil {
		row["distance"] = Float(*p.Distance)
	}
	return row, nil
}

// RowToTravel rebuilds a travel record from a scanned row.
func RowToTravel(rec Record) (*domain.TravelRecord, error) {
	r := &domain.TravelRecord{
		ID:            rec.Text("id"),
		TransportType: domain.TransportType(rec.Text("transportType")),
		CreatedBy:     rec.Text("createdBy"),
		UpdatedBy:     rec.Text("updatedBy"),
	}

	if _, err := rec.JSON("departure", &r.Departure); err != nil {
		return nil, err
	}
	if _, err := rec.JSON("destination", &r.Destination); err != nil {
		return nil, err
	}
	if d, ok := rec.Float("distance"); ok {
		r.Distance = &d
	}

	var err error
	if r.TravelDate, err = rec.Time("travelDate"); err != nil {
		return nil, err
	}
	if r.CreatedAt, err = rec.Time("createdAt"); err != nil {
		return nil, err
	}
	if r.UpdatedAt, err = rec.Time("updatedAt"); err != nil {
		return nil, err
	}
	if r.TravelDate.IsZero() {
		return nil, fmt.Errorf("travel record %q has no travel date", r.ID)
	}
	return r, nil
}
