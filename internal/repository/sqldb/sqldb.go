// Package sqldb implements the repository interfaces on top of sqlx. Queries
// are written with ? placeholders and rebound for the connected driver, so the
// same code serves postgres (lib/pq) and sqlite (modernc).
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Kerhoff/tripplanner/internal/models"
	"github.com/Kerhoff/tripplanner/internal/repository"
	"github.com/jmoiron/sqlx"
)

const detailsColumns = `place_id, address, lat, lng, photo_url, rating, user_ratings_total, website, phone, google_url, opening_hours`

const detailsAssignments = `place_id = ?, address = ?, lat = ?, lng = ?, photo_url = ?, rating = ?,
	user_ratings_total = ?, website = ?, phone = ?, google_url = ?, opening_hours = ?`

func detailsArgs(d models.PlaceDetails) []any {
	return []any{
		d.PlaceID, d.Address, d.Lat, d.Lng, d.PhotoURL, d.Rating,
		d.UserRatingsTotal, d.Website, d.Phone, d.GoogleURL, d.OpeningHours,
	}
}

// insertID runs an INSERT ... RETURNING id and returns the new key.
func insertID(ctx context.Context, db *sqlx.DB, query string, args ...any) (int64, error) {
	var id int64
	if err := db.QueryRowxContext(ctx, db.Rebind(query), args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// execOne runs a statement that must touch exactly one row.
func execOne(ctx context.Context, db *sqlx.DB, query string, args ...any) error {
	result, err := db.ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// getOne loads a single row into dst. It reports false when there is no row.
func getOne(ctx context.Context, db *sqlx.DB, dst any, query string, args ...any) (bool, error) {
	err := db.GetContext(ctx, dst, db.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func selectAll(ctx context.Context, db *sqlx.DB, dst any, query string, args ...any) error {
	return db.SelectContext(ctx, dst, db.Rebind(query), args...)
}

func withArgs(head []any, tail ...any) []any {
	return append(head, tail...)
}

// NewRepositories wires every sqlx-backed repository onto one connection pool.
func NewRepositories(db *sqlx.DB) repository.Repositories {
	return repository.Repositories{
		Trips:     NewTripRepository(db),
		Settings:  NewTripSettingsRepository(db),
		Places:    NewPlaceRepository(db),
		Schedules: NewScheduleRepository(db),
		Posts:     NewSchedulePostRepository(db),
		Memos:     NewMemoRepository(db),
		Hotels:    NewHotelRepository(db),
		Flights:   NewFlightRepository(db),
		Photos:    NewPhotoRepository(db),
	}
}
