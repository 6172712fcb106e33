package sqldb

import (
	"context"
	"fmt"

	"github.com/Kerhoff/tripplanner/internal/models"
	"github.com/Kerhoff/tripplanner/internal/repository"
	"github.com/jmoiron/sqlx"
)

type placeRepository struct {
	db *sqlx.DB
}

// NewPlaceRepository creates a new place repository
func NewPlaceRepository(db *sqlx.DB) repository.PlaceRepository {
	return &placeRepository{db: db}
}

const placeColumns = `id, trip_id, name, category, notes, ` + detailsColumns + `, created_at`

func (r *placeRepository) Create(ctx context.Context, place *models.Place) (*models.Place, error) {
	place.CreatedAt = models.Now()
	args := withArgs([]any{place.TripID, place.Name, place.Category, place.Notes},
		detailsArgs(place.PlaceDetails)...)
	id, err := insertID(ctx, r.db, `
		INSERT INTO places (trip_id, name, category, notes, `+detailsColumns+`, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		append(args, place.CreatedAt)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create place: %w", err)
	}
	place.ID = id
	return place, nil
}

func (r *placeRepository) GetByID(ctx context.Context, id int64) (*models.Place, error) {
	place := &models.Place{}
	found, err := getOne(ctx, r.db, place, `SELECT `+placeColumns+` FROM places WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get place: %w", err)
	}
	if !found {
		return nil, nil
	}
	place.Category = models.NormalizeCategory(place.Category)
	return place, nil
}

// ListByTrip returns the trip's places, newest first. Categories are
// normalized before filtering so rows saved with legacy keys still match.
func (r *placeRepository) ListByTrip(ctx context.Context, tripID int64, filters repository.PlaceFilters) ([]*models.Place, error) {
	var rows []*models.Place
	err := selectAll(ctx, r.db, &rows, `
		SELECT `+placeColumns+`
		FROM places
		WHERE trip_id = ?
		ORDER BY id DESC`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to query places: %w", err)
	}

	places := rows[:0]
	for _, p := range rows {
		p.Category = models.NormalizeCategory(p.Category)
		if filters.Category != "" && p.Category != filters.Category {
			continue
		}
		places = append(places, p)
	}
	return places, nil
}

func (r *placeRepository) Update(ctx context.Context, place *models.Place) (*models.Place, error) {
	args := withArgs([]any{place.Name, place.Category, place.Notes}, detailsArgs(place.PlaceDetails)...)
	err := execOne(ctx, r.db, `
		UPDATE places SET name = ?, category = ?, notes = ?, `+detailsAssignments+`
		WHERE id = ?`,
		append(args, place.ID)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update place %d: %w", place.ID, err)
	}
	return place, nil
}

func (r *placeRepository) Delete(ctx context.Context, id int64) error {
	if err := execOne(ctx, r.db, `DELETE FROM places WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete place %d: %w", id, err)
	}
	return nil
}
