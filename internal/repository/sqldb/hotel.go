package sqldb

import (
	"context"
	"fmt"

	"github.com/Kerhoff/tripplanner/internal/models"
	"github.com/Kerhoff/tripplanner/internal/repository"
	"github.com/jmoiron/sqlx"
)

type hotelRepository struct {
	db *sqlx.DB
}

// NewHotelRepository creates a new hotel repository
func NewHotelRepository(db *sqlx.DB) repository.HotelRepository {
	return &hotelRepository{db: db}
}

const hotelColumns = `id, trip_id, name, address, map_url, website, checkin_date, checkout_date, notes, created_at`

func (r *hotelRepository) Create(ctx context.Context, hotel *models.Hotel) (*models.Hotel, error) {
	hotel.CreatedAt = models.Now()
	id, err := insertID(ctx, r.db, `
		INSERT INTO hotels (trip_id, name, address, map_url, website, checkin_date, checkout_date, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		hotel.TripID, hotel.Name, hotel.Address, hotel.MapURL, hotel.Website,
		hotel.CheckinDate, hotel.CheckoutDate, hotel.Notes, hotel.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create hotel: %w", err)
	}
	hotel.ID = id
	return hotel, nil
}

func (r *hotelRepository) GetByID(ctx context.Context, id int64) (*models.Hotel, error) {
	hotel := &models.Hotel{}
	found, err := getOne(ctx, r.db, hotel, `SELECT `+hotelColumns+` FROM hotels WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get hotel: %w", err)
	}
	if !found {
		return nil, nil
	}
	return hotel, nil
}

func (r *hotelRepository) ListByTrip(ctx context.Context, tripID int64) ([]*models.Hotel, error) {
	var hotels []*models.Hotel
	err := selectAll(ctx, r.db, &hotels, `
		SELECT `+hotelColumns+`
		FROM hotels
		WHERE trip_id = ?
		ORDER BY checkin_date IS NULL, checkin_date ASC, id ASC`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to query hotels: %w", err)
	}
	return hotels, nil
}

func (r *hotelRepository) Update(ctx context.Context, hotel *models.Hotel) (*models.Hotel, error) {
	err := execOne(ctx, r.db, `
		UPDATE hotels SET name = ?, address = ?, map_url = ?, website = ?, checkin_date = ?, checkout_date = ?, notes = ?
		WHERE id = ?`,
		hotel.Name, hotel.Address, hotel.MapURL, hotel.Website,
		hotel.CheckinDate, hotel.CheckoutDate, hotel.Notes, hotel.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update hotel %d: %w", hotel.ID, err)
	}
	return hotel, nil
}

func (r *hotelRepository) Delete(ctx context.Context, id int64) error {
	if err := execOne(ctx, r.db, `DELETE FROM hotels WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete hotel %d: %w", id, err)
	}
	return nil
}
