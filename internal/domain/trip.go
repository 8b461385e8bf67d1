// Package domain contains the core data types for stepsync.
// This package has zero external dependencies and is imported by every other
// internal package (parse, service, repo, handler).
package domain

import "time"

// Trip is the top-level aggregate of an export. A trip exclusively owns its
// ordered steps.
//
// ID is not part of the export's trip.json; it is 0 after loading and may be
// reassigned by the caller before uploading steps to a different remote trip.
type Trip struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	StartDate      *time.Time `json:"start_date,omitempty"` // nil when absent from the export
	EndDate        *time.Time `json:"end_date,omitempty"`   // nil while the trip is ongoing
	CoverPhotoPath string     `json:"cover_photo_path"`
	Steps          []Step     `json:"steps"`
}

// StepByID returns the step with the given identifier.
func (t Trip) StepByID(id string) (Step, bool) {
	for _, s := range t.Steps {
		if s.ID == id {
			return s, true
		}
	}
	return Step{}, false
}
