package sqldb

import (
	"context"
	"fmt"

	"github.com/Kerhoff/tripplanner/internal/models"
	"github.com/Kerhoff/tripplanner/internal/repository"
	"github.com/jmoiron/sqlx"
)

type tripSettingsRepository struct {
	db *sqlx.DB
}

// NewTripSettingsRepository creates a new trip settings repository
func NewTripSettingsRepository(db *sqlx.DB) repository.TripSettingsRepository {
	return &tripSettingsRepository{db: db}
}

func (r *tripSettingsRepository) GetByTripID(ctx context.Context, tripID int64) (*models.TripSettings, error) {
	settings := &models.TripSettings{}
	found, err := getOne(ctx, r.db, settings, `
		SELECT id, trip_id, warika_url, created_at, updated_at
		FROM trip_settings
		WHERE trip_id = ?`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to get trip settings: %w", err)
	}
	if !found {
		return nil, nil
	}
	return settings, nil
}

func (r *tripSettingsRepository) Upsert(ctx context.Context, settings *models.TripSettings) (*models.TripSettings, error) {
	now := models.Now()
	query := r.db.Rebind(`
		INSERT INTO trip_settings (trip_id, warika_url, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (trip_id) DO UPDATE SET warika_url = excluded.warika_url, updated_at = excluded.updated_at
		RETURNING id, created_at, updated_at`)
	err := r.db.QueryRowxContext(ctx, query, settings.TripID, settings.WarikaURL, now, now).
		Scan(&settings.ID, &settings.CreatedAt, &settings.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save trip settings: %w", err)
	}
	return settings, nil
}
