package domain

// Place is a free-form location as returned by the geocoder.
type Place struct {
	DisplayName      string    `json:"displayName" validate:"required,max=200"`
	FormattedAddress string    `json:"formattedAddress,omitempty" validate:"max=500"`
	Location         *Location `json:"location,omitempty"`
}

// Location is a WGS84 coordinate pair.
type Location struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}
