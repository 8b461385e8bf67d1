package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/stepsync/internal/domain"
	"github.com/pkordes/stepsync/internal/repo"
)

// TripSource loads a trip from an export directory. *TripLoader satisfies it.
type TripSource interface {
	Load(dir string) (domain.Trip, error)
}

// LocationSource loads tracked positions. *LocationLoader satisfies it.
type LocationSource interface {
	Load(dir string) ([]domain.Location, error)
}

// ImportResult summarises one import.
type ImportResult struct {
	TripID    uuid.UUID
	Steps     int
	Comments  int
	Locations int64
}

// ImportService copies an export into Postgres.
type ImportService struct {
	trips     TripSource
	locations LocationSource
	tripRepo  repo.TripRepo
	locRepo   repo.LocationRepo
	log       *slog.Logger
}

// NewImportService constructs an ImportService backed by the provided loaders and repos.
func NewImportService(trips TripSource, locations LocationSource, tripRepo repo.TripRepo, locRepo repo.LocationRepo, log *slog.Logger) *ImportService {
	if log == nil {
		log = slog.Default()
	}
	return &ImportService{trips: trips, locations: locations, tripRepo: tripRepo, locRepo: locRepo, log: log}
}

// Import loads the export in dir, stamps it with remoteID and persists it.
// A missing locations.json is not an error; any other failure aborts the
// import before anything is written.
func (s *ImportService) Import(ctx context.Context, dir string, remoteID int64) (ImportResult, error) {
	trip, err := s.trips.Load(dir)
	if err != nil {
		return ImportResult{}, fmt.Errorf("service.ImportService.Import: %w", err)
	}
	trip.ID = remoteID

	locations, err := s.locations.Load(dir)
	if err != nil {
		if !errors.Is(err, domain.ErrFileNotFound) {
			return ImportResult{}, fmt.Errorf("service.ImportService.Import: %w", err)
		}
		s.log.InfoContext(ctx, "no locations file, importing trip only", "dir", dir)
		locations = nil
	}

	id, err := s.tripRepo.Create(ctx, trip)
	if err != nil {
		return ImportResult{}, fmt.Errorf("service.ImportService.Import: %w", err)
	}
	n, err := s.locRepo.CreateBatch(ctx, id, locations)
	if err != nil {
		return ImportResult{}, fmt.Errorf("service.ImportService.Import: %w", err)
	}

	res := ImportResult{TripID: id, Steps: len(trip.Steps), Locations: n}
	for _, step := range trip.Steps {
		res.Comments += len(step.Comments)
	}
	s.log.InfoContext(ctx, "trip imported",
		"trip_id", id,
		"remote_id", remoteID,
		"steps", res.Steps,
		"comments", res.Comments,
		"locations", res.Locations,
	)
	return res, nil
}
