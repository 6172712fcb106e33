package sqldb

import (
	"context"
	"fmt"

	"github.com/Kerhoff/tripplanner/internal/models"
	"github.com/Kerhoff/tripplanner/internal/repository"
	"github.com/jmoiron/sqlx"
)

type tripRepository struct {
	db *sqlx.DB
}

// NewTripRepository creates a new trip repository
func NewTripRepository(db *sqlx.DB) repository.TripRepository {
	return &tripRepository{db: db}
}

const tripColumns = `id, name, start_date, end_date, note, created_at`

func (r *tripRepository) Create(ctx context.Context, trip *models.Trip) (*models.Trip, error) {
	trip.CreatedAt = models.Now()
	id, err := insertID(ctx, r.db, `
		INSERT INTO trips (name, start_date, end_date, note, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`,
		trip.Name, trip.StartDate, trip.EndDate, trip.Note, trip.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}
	trip.ID = id
	return trip, nil
}

func (r *tripRepository) GetByID(ctx context.Context, id int64) (*models.Trip, error) {
	trip := &models.Trip{}
	found, err := getOne(ctx, r.db, trip, `SELECT `+tripColumns+` FROM trips WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	if !found {
		return nil, nil
	}
	return trip, nil
}

func (r *tripRepository) List(ctx context.Context) ([]*models.Trip, error) {
	var trips []*models.Trip
	err := selectAll(ctx, r.db, &trips, `
		SELECT `+tripColumns+`
		FROM trips
		ORDER BY start_date IS NULL, start_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	return trips, nil
}

func (r *tripRepository) Update(ctx context.Context, trip *models.Trip) (*models.Trip, error) {
	err := execOne(ctx, r.db, `
		UPDATE trips SET name = ?, start_date = ?, end_date = ?, note = ?
		WHERE id = ?`,
		trip.Name, trip.StartDate, trip.EndDate, trip.Note, trip.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update trip %d: %w", trip.ID, err)
	}
	return trip, nil
}

// Delete removes the trip; every dependent row goes with it through ON DELETE CASCADE.
func (r *tripRepository) Delete(ctx context.Context, id int64) error {
	if err := execOne(ctx, r.db, `DELETE FROM trips WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete trip %d: %w", id, err)
	}
	return nil
}
