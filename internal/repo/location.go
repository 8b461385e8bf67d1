package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pkordes/stepsync/internal/domain"
)

// LocationRepo defines the persistence operations for tracked positions.
type LocationRepo interface {
	// CreateBatch bulk-inserts locations for a trip, keeping their order,
	// and returns the number of rows written.
	CreateBatch(ctx context.Context, tripID uuid.UUID, locations []domain.Location) (int64, error)

	// ListByTripID returns a trip's locations in their original order.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Location, error)
}

// pgLocationRepo is the Postgres implementation of LocationRepo.
type pgLocationRepo struct {
	db db
}

// NewLocationRepo constructs a LocationRepo backed by the provided db connection.
func NewLocationRepo(db db) LocationRepo {
	return &pgLocationRepo{db: db}
}

// CreateBatch uses COPY; exports routinely hold tens of thousands of points.
func (r *pgLocationRepo) CreateBatch(ctx context.Context, tripID uuid.UUID, locations []domain.Location) (int64, error) {
	if len(locations) == 0 {
		return 0, nil
	}
	n, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"locations"},
		[]string{"trip_id", "seq", "lat", "lon", "recorded_at"},
		pgx.CopyFromSlice(len(locations), func(i int) ([]any, error) {
			l := locations[i]
			return []any{tripID, int32(i), l.Lat, l.Lon, l.Time}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("repo.LocationRepo.CreateBatch: %w", err)
	}
	return n, nil
}

// ListByTripID returns the locations of a trip ordered by seq.
func (r *pgLocationRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Location, error) {
	const q = `
		SELECT lat, lon, recorded_at
		FROM locations
		WHERE trip_id = @trip_id
		ORDER BY seq`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.LocationRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	out := []domain.Location{}
	for rows.Next() {
		var l domain.Location
		if err := rows.Scan(&l.Lat, &l.Lon, &l.Time); err != nil {
			return nil, fmt.Errorf("repo.LocationRepo.ListByTripID: scan: %w", err)
		}
		l.Time = l.Time.UTC()
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.LocationRepo.ListByTripID: rows: %w", err)
	}
	return out, nil
}
