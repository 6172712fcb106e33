package sqldb

import (
	"context"
	"fmt"

	"github.com/Kerhoff/tripplanner/internal/models"
	"github.com/Kerhoff/tripplanner/internal/repository"
	"github.com/jmoiron/sqlx"
)

// photoTable names the table and foreign key column for an owner kind.
type photoTable struct {
	table  string
	column string
}

var photoTables = map[models.PhotoOwner]photoTable{
	models.PhotoOwnerPlace:        {"place_photos", "place_id"},
	models.PhotoOwnerSchedule:     {"schedule_photos", "schedule_id"},
	models.PhotoOwnerSchedulePost: {"schedule_post_photos", "post_id"},
	models.PhotoOwnerHotel:        {"hotel_photos", "hotel_id"},
}

func tableFor(owner models.PhotoOwner) (photoTable, error) {
	t, ok := photoTables[owner]
	if !ok {
		return photoTable{}, fmt.Errorf("unknown photo owner %q", owner)
	}
	return t, nil
}

type photoRepository struct {
	db *sqlx.DB
}

// NewPhotoRepository creates a repository over all four photo tables
func NewPhotoRepository(db *sqlx.DB) repository.PhotoRepository {
	return &photoRepository{db: db}
}

func (r *photoRepository) Add(ctx context.Context, photo *models.Photo) (*models.Photo, error) {
	t, err := tableFor(photo.Owner)
	if err != nil {
		return nil, err
	}
	photo.CreatedAt = models.Now()
	id, err := insertID(ctx, r.db,
		`INSERT INTO `+t.table+` (`+t.column+`, photo_url, created_at) VALUES (?, ?, ?) RETURNING id`,
		photo.OwnerID, photo.PhotoURL, photo.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add %s photo: %w", photo.Owner, err)
	}
	photo.ID = id
	return photo, nil
}

func (r *photoRepository) ListByOwner(ctx context.Context, owner models.PhotoOwner, ownerID int64) ([]*models.Photo, error) {
	grouped, err := r.ListByOwners(ctx, owner, []int64{ownerID})
	if err != nil {
		return nil, err
	}
	return grouped[ownerID], nil
}

func (r *photoRepository) ListByOwners(ctx context.Context, owner models.PhotoOwner, ownerIDs []int64) (map[int64][]*models.Photo, error) {
	grouped := make(map[int64][]*models.Photo, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return grouped, nil
	}
	t, err := tableFor(owner)
	if err != nil {
		return nil, err
	}

	query, args, err := sqlx.In(
		`SELECT id, `+t.column+` AS owner_id, photo_url, created_at FROM `+t.table+`
		WHERE `+t.column+` IN (?)
		ORDER BY id ASC`, ownerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build photo query: %w", err)
	}

	var photos []*models.Photo
	if err := selectAll(ctx, r.db, &photos, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query %s photos: %w", owner, err)
	}
	for _, p := range photos {
		p.Owner = owner
		grouped[p.OwnerID] = append(grouped[p.OwnerID], p)
	}
	return grouped, nil
}
