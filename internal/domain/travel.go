package domain

import "time"

// TransportType is how a trip leg was travelled.
type TransportType string

// Supported transport types.
const (
	TransportFlight TransportType = "flight"
	TransportBus    TransportType = "bus"
	TransportTrain  TransportType = "train"
)

// Valid reports whether t is a known transport type.
func (t TransportType) Valid() bool {
	switch t {
	case TransportFlight, TransportBus, TransportTrain:
		return true
	}
	return false
}

// TravelRecord is one leg of a travel route.
type TravelRecord struct {
	ID            string        `json:"id"`
	TravelDate    time.Time     `json:"travelDate"`
	Departure     Place         `json:"departure"`
	Destination   Place         `json:"destination"`
	TransportType TransportType `json:"transportType"`
	Distance      *float64      `json:"distance,omitempty"` // Kilometres
	CreatedAt     time.Time     `json:"createdAt"`
	CreatedBy     string        `json:"createdBy,omitempty"`
	UpdatedAt     time.Time     `json:"updatedAt"`
	UpdatedBy     string        `json:"updatedBy,omitempty"`
}

// TravelRecordID composes a record ID from its endpoints.
func TravelRecordID(departure, destination string) string {
	return departure + "#" + destination
}

// TravelPatch is a partial travel record update. Nil fields are left untouched.
type TravelPatch struct {
	TravelDate    *time.Time     `json:"travelDate,omitempty"`
	Departure     *Place         `json:"departure,omitempty"`
	Destination   *Place         `json:"destination,omitempty"`
	TransportType *TransportType `json:"transportType,omitempty"`
	Distance      *float64       `json:"distance,omitempty"`
}

// IsEmpty reports whether the patch carries nothing to write.
func (p *TravelPatch) IsEmpty() bool {
	return p.TravelDate == nil && p.Departure == nil && p.Destination == nil &&
		p.TransportType == nil && p.Distance == nil
}
