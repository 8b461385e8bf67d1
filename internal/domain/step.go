package domain

import "time"

// Step is a single recorded stop within a trip.
//
// Photos and Videos are filled by a second loading phase that looks up the
// step's media folder; they are empty, never nil, when no folder exists.
// CreationTime is kept exactly as the export rendered it because the upload
// endpoint expects the raw value back.
type Step struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Location     StepLocation  `json:"location"`
	StartTime    time.Time     `json:"start_time"`
	CreationTime string        `json:"creation_time"`
	TimezoneID   string        `json:"timezone_id"`
	Photos       []string      `json:"photos"`
	Videos       []string      `json:"videos"`
	Comments     []StepComment `json:"comments"`
}

// StepLocation is the human-described place a step was recorded at.
type StepLocation struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Name    string  `json:"name"`
	Country string  `json:"country"`
}

// Media holds the files found in a step's media folder.
type Media struct {
	Photos []string
	Videos []string
}
