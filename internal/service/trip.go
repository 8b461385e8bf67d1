// Package service contains the business logic for stepsync.
// Loaders turn an export directory into domain values; services validate
// inputs and orchestrate uploads and repo calls.
// Services depend on interfaces; no SQL or HTTP lives here.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkordes/stepsync/internal/domain"
)

// StepUploader sends one step to the remote steps API.
// upload.Client is the HTTP implementation.
type StepUploader interface {
	UploadStep(ctx context.Context, trip domain.Trip, step domain.Step, locationID int64) error
}

// TripService serves a single loaded export.
// The trip id is the only mutable state.
type TripService struct {
	mu        sync.RWMutex
	trip      domain.Trip
	locations []domain.Location
	uploader  StepUploader
}

// NewTripService constructs a TripService over an already loaded trip.
// locations may be nil when the export has none; uploader may be nil to
// disable uploads.
func NewTripService(trip domain.Trip, locations []domain.Location, uploader StepUploader) *TripService {
	if locations == nil {
		locations = []domain.Location{}
	}
	return &TripService{trip: trip, locations: locations, uploader: uploader}
}

// Trip returns the loaded trip.
func (s *TripService) Trip(ctx context.Context) (domain.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trip, nil
}

// Steps returns the trip's steps in export order.
func (s *TripService) Steps(ctx context.Context) ([]domain.Step, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trip.Steps, nil
}

// Step returns a single step by id.
// Returns domain.ErrNotFound if the trip has no such step.
func (s *TripService) Step(ctx context.Context, id string) (domain.Step, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	step, ok := s.trip.StepByID(id)
	if !ok {
		return domain.Step{}, fmt.Errorf("service.TripService.Step: step %s: %w", id, domain.ErrNotFound)
	}
	return step, nil
}

// Locations returns the tracked positions. Always non-nil.
func (s *TripService) Locations(ctx context.Context) ([]domain.Location, error) {
	return s.locations, nil
}

// SetTripID reassigns the remote trip id used for uploads.
// Nothing else about the trip changes.
func (s *TripService) SetTripID(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trip.ID = id
}

// UploadStep sends the step with stepID to the remote API under locationID.
// Returns domain.ErrValidation for a non-positive location id or when uploads
// are disabled, domain.ErrNotFound for an unknown step, and the uploader's
// error (wrapping domain.ErrNetwork) otherwise.
func (s *TripService) UploadStep(ctx context.Context, stepID string, locationID int64) error {
	if locationID <= 0 {
		return fmt.Errorf("service.TripService.UploadStep: %w: location_id must be positive", domain.ErrValidation)
	}
	if s.uploader == nil {
		return fmt.Errorf("service.TripService.UploadStep: %w: uploads are not configured", domain.ErrValidation)
	}

	s.mu.RLock()
	trip := s.trip
	s.mu.RUnlock()

	step, ok := trip.StepByID(stepID)
	if !ok {
		return fmt.Errorf("service.TripService.UploadStep: step %s: %w", stepID, domain.ErrNotFound)
	}
	if err := s.uploader.UploadStep(ctx, trip, step, locationID); err != nil {
		return fmt.Errorf("service.TripService.UploadStep: %w", err)
	}
	return nil
}
