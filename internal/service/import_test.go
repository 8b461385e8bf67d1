package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/stepsync/internal/domain"
	"github.com/pkordes/stepsync/internal/repo"
	"github.com/pkordes/stepsync/internal/service"
)

// ---- test doubles ----------------------------------------------------------

type mockTripSource struct {
	load func(dir string) (domain.Trip, error)
}

func (m *mockTripSource) Load(dir string) (domain.Trip, error) { return m.load(dir) }

type mockLocationSource struct {
	load func(dir string) ([]domain.Location, error)
}

func (m *mockLocationSource) Load(dir string) ([]domain.Location, error) { return m.load(dir) }

// mockTripRepo is a hand-written test double for repo.TripRepo.
type mockTripRepo struct {
	create  func(ctx context.Context, trip domain.Trip) (uuid.UUID, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	delete  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (uuid.UUID, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

// mockLocationRepo is a hand-written test double for repo.LocationRepo.
type mockLocationRepo struct {
	createBatch  func(ctx context.Context, tripID uuid.UUID, locs []domain.Location) (int64, error)
	listByTripID func(ctx context.Context, tripID uuid.UUID) ([]domain.Location, error)
}

func (m *mockLocationRepo) CreateBatch(ctx context.Context, tripID uuid.UUID, locs []domain.Location) (int64, error) {
	return m.createBatch(ctx, tripID, locs)
}
func (m *mockLocationRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Location, error) {
	return m.listByTripID(ctx, tripID)
}

// compile-time checks.
var (
	_ repo.TripRepo          = (*mockTripRepo)(nil)
	_ repo.LocationRepo      = (*mockLocationRepo)(nil)
	_ service.TripSource     = (*service.TripLoader)(nil)
	_ service.LocationSource = (*service.LocationLoader)(nil)
)

// ---- helpers ---------------------------------------------------------------

func importTrip() domain.Trip {
	trip := validTrip()
	trip.Steps[0].Comments = []domain.StepComment{{ID: "c1"}, {ID: "c2"}}
	return trip
}

func countingLocationRepo(got *[]domain.Location) *mockLocationRepo {
	return &mockLocationRepo{createBatch: func(_ context.Context, _ uuid.UUID, locs []domain.Location) (int64, error) {
		*got = locs
		return int64(len(locs)), nil
	}}
}

// ---- Import tests ----------------------------------------------------------

func TestImportService_Import_OK(t *testing.T) {
	rowID := uuid.New()
	var (
		stored  domain.Trip
		written []domain.Location
	)
	svc := service.NewImportService(
		&mockTripSource{load: func(string) (domain.Trip, error) { return importTrip(), nil }},
		&mockLocationSource{load: func(string) ([]domain.Location, error) {
			return []domain.Location{{Lat: 1}, {Lat: 2}, {Lat: 3}}, nil
		}},
		&mockTripRepo{create: func(_ context.Context, trip domain.Trip) (uuid.UUID, error) {
			stored = trip
			return rowID, nil
		}},
		countingLocationRepo(&written),
		nil,
	)

	res, err := svc.Import(context.Background(), "/exports/vietnam", 16537211)

	require.NoError(t, err)
	assert.Equal(t, service.ImportResult{TripID: rowID, Steps: 2, Comments: 2, Locations: 3}, res)
	assert.Equal(t, int64(16537211), stored.ID, "remote id is stamped before persisting")
	assert.Len(t, written, 3)
}

func TestImportService_Import_NoLocationsFile(t *testing.T) {
	var written []domain.Location
	svc := service.NewImportService(
		&mockTripSource{load: func(string) (domain.Trip, error) { return importTrip(), nil }},
		&mockLocationSource{load: func(dir string) ([]domain.Location, error) {
			return nil, fmt.Errorf("load: %w", domain.ErrFileNotFound)
		}},
		&mockTripRepo{create: func(context.Context, domain.Trip) (uuid.UUID, error) { return uuid.New(), nil }},
		countingLocationRepo(&written),
		nil,
	)

	res, err := svc.Import(context.Background(), "/exports/vietnam", 0)

	require.NoError(t, err)
	assert.Zero(t, res.Locations)
	assert.Empty(t, written)
}

func TestImportService_Import_TripLoadFails(t *testing.T) {
	svc := service.NewImportService(
		&mockTripSource{load: func(string) (domain.Trip, error) {
			return domain.Trip{}, &domain.MissingFieldError{Entity: "Trip", Key: "name"}
		}},
		&mockLocationSource{},
		&mockTripRepo{}, // must not be called
		&mockLocationRepo{},
		nil,
	)

	_, err := svc.Import(context.Background(), "/x", 0)

	assert.ErrorIs(t, err, domain.ErrMissingField)
}

func TestImportService_Import_BadLocationsAborts(t *testing.T) {
	svc := service.NewImportService(
		&mockTripSource{load: func(string) (domain.Trip, error) { return importTrip(), nil }},
		&mockLocationSource{load: func(string) ([]domain.Location, error) {
			return nil, fmt.Errorf("load: %w", domain.ErrParse)
		}},
		&mockTripRepo{}, // must not be called
		&mockLocationRepo{},
		nil,
	)

	_, err := svc.Import(context.Background(), "/x", 0)

	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestImportService_Import_RepoError(t *testing.T) {
	repoErr := errors.New("db exploded")
	svc := service.NewImportService(
		&mockTripSource{load: func(string) (domain.Trip, error) { return importTrip(), nil }},
		&mockLocationSource{load: func(string) ([]domain.Location, error) { return nil, nil }},
		&mockTripRepo{create: func(context.Context, domain.Trip) (uuid.UUID, error) { return uuid.Nil, repoErr }},
		&mockLocationRepo{},
		nil,
	)

	_, err := svc.Import(context.Background(), "/x", 0)

	// The service should propagate repo errors unchanged.
	assert.ErrorIs(t, err, repoErr)
}
