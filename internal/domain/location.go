package domain

import "time"

// Location is a raw tracked position from locations.json.
// Locations are independent of steps.
type Location struct {
	Lat  float64   `json:"lat"`
	Lon  float64   `json:"lon"`
	Time time.Time `json:"time"`
}
