// Package repo contains all database access logic for stepsync imports.
// Each resource has its own file with an interface and a Postgres implementation.
// Only SQL and type mapping live here.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/stepsync/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// TripRepo defines the persistence operations for imported trips.
// The service layer depends on this interface, not the concrete Postgres implementation,
// which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts the trip with all its steps and comments and returns the
	// generated row id. Callers wanting atomicity pass a pgx.Tx to NewTripRepo.
	Create(ctx context.Context, trip domain.Trip) (uuid.UUID, error)

	// GetByID rebuilds a trip graph: steps in export order, comments oldest first.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// Delete removes a trip and everything it owns.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool or a pgx.Tx; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

// Create inserts the trip, its steps and their comments.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (uuid.UUID, error) {
	const q = `
		INSERT INTO trips (id, remote_id, name, start_date, end_date, cover_photo_path)
		VALUES (@id, @remote_id, @name, @start_date, @end_date, @cover_photo_path)`

	id := uuid.New()
	args := pgx.NamedArgs{
		"id":               id,
		"remote_id":        trip.ID,
		"name":             trip.Name,
		"start_date":       trip.StartDate, // nil becomes NULL
		"end_date":         trip.EndDate,
		"cover_photo_path": trip.CoverPhotoPath,
	}
	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return uuid.Nil, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}

	for i, step := range trip.Steps {
		stepRowID, err := r.insertStep(ctx, id, i, step)
		if err != nil {
			return uuid.Nil, fmt.Errorf("repo.TripRepo.Create: step %s: %w", step.ID, err)
		}
		for _, c := range step.Comments {
			if err := r.insertComment(ctx, stepRowID, c); err != nil {
				return uuid.Nil, fmt.Errorf("repo.TripRepo.Create: step %s comment %s: %w", step.ID, c.ID, err)
			}
		}
	}
	return id, nil
}

func (r *pgTripRepo) insertStep(ctx context.Context, tripID uuid.UUID, position int, s domain.Step) (uuid.UUID, error) {
	const q = `
		INSERT INTO steps (id, trip_id, position, step_id, name, description,
		                   location_name, country, lat, lon, start_time,
		                   creation_time, timezone_id, photos, videos)
		VALUES (@id, @trip_id, @position, @step_id, @name, @description,
		        @location_name, @country, @lat, @lon, @start_time,
		        @creation_time, @timezone_id, @photos, @videos)`

	id := uuid.New()
	args := pgx.NamedArgs{
		"id":            id,
		"trip_id":       tripID,
		"position":      position,
		"step_id":       s.ID,
		"name":          s.Name,
		"description":   s.Description,
		"location_name": s.Location.Name,
		"country":       s.Location.Country,
		"lat":           s.Location.Lat,
		"lon":           s.Location.Lon,
		"start_time":    s.StartTime,
		"creation_time": s.CreationTime,
		"timezone_id":   s.TimezoneID,
		"photos":        nonNil(s.Photos),
		"videos":        nonNil(s.Videos),
	}
	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (r *pgTripRepo) insertComment(ctx context.Context, stepRowID uuid.UUID, c domain.StepComment) error {
	const q = `
		INSERT INTO step_comments (id, step_id, comment_id, body, created_at,
		                           follower_id, username, first_name, last_name)
		VALUES (@id, @step_id, @comment_id, @body, @created_at,
		        @follower_id, @username, @first_name, @last_name)`

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{
		"id":          uuid.New(),
		"step_id":     stepRowID,
		"comment_id":  c.ID,
		"body":        c.Text,
		"created_at":  c.Date,
		"follower_id": c.Follower.UserID,
		"username":    c.Follower.Username,
		"first_name":  c.Follower.FirstName,
		"last_name":   c.Follower.LastName,
	})
	return err
}

// GetByID retrieves a trip with its steps and comments.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `
		SELECT remote_id, name, start_date, end_date, cover_photo_path
		FROM trips
		WHERE id = @id`

	var (
		t          domain.Trip
		start, end pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}).
		Scan(&t.ID, &t.Name, &start, &end, &t.CoverPhotoPath)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", domain.ErrNotFound)
		}
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	t.StartDate = optionalTime(start)
	t.EndDate = optionalTime(end)

	steps, rowIDs, err := r.listSteps(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: steps: %w", err)
	}
	comments, err := r.listComments(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: comments: %w", err)
	}
	for i := range steps {
		if cs, ok := comments[rowIDs[i]]; ok {
			steps[i].Comments = cs
		}
	}
	t.Steps = steps
	return t, nil
}

func (r *pgTripRepo) listSteps(ctx context.Context, tripID uuid.UUID) ([]domain.Step, []uuid.UUID, error) {
	const q = `
		SELECT id, step_id, name, description, location_name, country, lat, lon,
		       start_time, creation_time, timezone_id, photos, videos
		FROM steps
		WHERE trip_id = @trip_id
		ORDER BY position`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	steps := []domain.Step{}
	var ids []uuid.UUID
	for rows.Next() {
		var (
			s     domain.Step
			rowID pgtype.UUID
		)
		err := rows.Scan(&rowID, &s.ID, &s.Name, &s.Description, &s.Location.Name,
			&s.Location.Country, &s.Location.Lat, &s.Location.Lon, &s.StartTime,
			&s.CreationTime, &s.TimezoneID, &s.Photos, &s.Videos)
		if err != nil {
			return nil, nil, fmt.Errorf("scan: %w", err)
		}
		s.StartTime = s.StartTime.UTC()
		s.Photos = nonNil(s.Photos)
		s.Videos = nonNil(s.Videos)
		s.Comments = []domain.StepComment{}
		steps = append(steps, s)
		ids = append(ids, uuid.UUID(rowID.Bytes))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("rows: %w", err)
	}
	return steps, ids, nil
}

// listComments returns the trip's comments keyed by step row id.
func (r *pgTripRepo) listComments(ctx context.Context, tripID uuid.UUID) (map[uuid.UUID][]domain.StepComment, error) {
	const q = `
		SELECT c.step_id, c.comment_id, c.body, c.created_at,
		       c.follower_id, c.username, c.first_name, c.last_name
		FROM step_comments c
		JOIN steps s ON s.id = c.step_id
		WHERE s.trip_id = @trip_id
		ORDER BY c.created_at, c.comment_id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]domain.StepComment)
	for rows.Next() {
		var (
			c      domain.StepComment
			stepID pgtype.UUID
		)
		err := rows.Scan(&stepID, &c.ID, &c.Text, &c.Date,
			&c.Follower.UserID, &c.Follower.Username, &c.Follower.FirstName, &c.Follower.LastName)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		c.Date = c.Date.UTC()
		key := uuid.UUID(stepID.Bytes)
		out[key] = append(out[key], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// Delete removes a trip by primary key. Steps, comments and locations cascade.
func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func optionalTime(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time.UTC()
	return &t
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
