package repository

import (
	"context"
	"errors"

	"github.com/Kerhoff/tripplanner/internal/models"
)

// ErrNotFound is returned by Update and Delete when the row does not exist.
// Getters return nil, nil instead.
var ErrNotFound = errors.New("record not found")

// TripRepository defines the interface for trip data operations
type TripRepository interface {
	Create(ctx context.Context, trip *models.Trip) (*models.Trip, error)
	GetByID(ctx context.Context, id int64) (*models.Trip, error)
	List(ctx context.Context) ([]*models.Trip, error)
	Update(ctx context.Context, trip *models.Trip) (*models.Trip, error)
	Delete(ctx context.Context, id int64) error
}

// TripSettingsRepository defines the interface for per-trip settings
type TripSettingsRepository interface {
	GetByTripID(ctx context.Context, tripID int64) (*models.TripSettings, error)
	// Upsert inserts the settings row or overwrites the existing one for the trip.
	Upsert(ctx context.Context, settings *models.TripSettings) (*models.TripSettings, error)
}

// PlaceRepository defines the interface for place data operations
type PlaceRepository interface {
	Create(ctx context.Context, place *models.Place) (*models.Place, error)
	GetByID(ctx context.Context, id int64) (*models.Place, error)
	ListByTrip(ctx context.Context, tripID int64, filters PlaceFilters) ([]*models.Place, error)
	Update(ctx context.Context, place *models.Place) (*models.Place, error)
	Delete(ctx context.Context, id int64) error
}

// ScheduleRepository defines the interface for schedule data operations
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *models.Schedule) (*models.Schedule, error)
	GetByID(ctx context.Context, id int64) (*models.Schedule, error)
	ListByTrip(ctx context.Context, tripID int64) ([]*models.Schedule, error)
	// ListAll returns schedules across every trip, ordered by date then newest id.
	ListAll(ctx context.Context) ([]*models.Schedule, error)
	Update(ctx context.Context, schedule *models.Schedule) (*models.Schedule, error)
	Delete(ctx context.Context, id int64) error
}

// SchedulePostRepository defines the interface for schedule diary entries
type SchedulePostRepository interface {
	Create(ctx context.Context, post *models.SchedulePost) (*models.SchedulePost, error)
	GetByID(ctx context.Context, id int64) (*models.SchedulePost, error)
	ListBySchedule(ctx context.Context, scheduleID int64) ([]*models.SchedulePost, error)
	Update(ctx context.Context, post *models.SchedulePost) (*models.SchedulePost, error)
	Delete(ctx context.Context, id int64) error
}

// MemoRepository defines the interface for memo data operations
type MemoRepository interface {
	Create(ctx context.Context, memo *models.Memo) (*models.Memo, error)
	GetByID(ctx context.Context, id int64) (*models.Memo, error)
	ListByTrip(ctx context.Context, tripID int64, filters MemoFilters) ([]*models.Memo, error)
	Tabs(ctx context.Context, tripID int64) ([]string, error)
	Update(ctx context.Context, memo *models.Memo) (*models.Memo, error)
	Delete(ctx context.Context, id int64) error
}

// HotelRepository defines the interface for hotel data operations
type HotelRepository interface {
	Create(ctx context.Context, hotel *models.Hotel) (*models.Hotel, error)
	GetByID(ctx context.Context, id int64) (*models.Hotel, error)
	ListByTrip(ctx context.Context, tripID int64) ([]*models.Hotel, error)
	Update(ctx context.Context, hotel *models.Hotel) (*models.Hotel, error)
	Delete(ctx context.Context, id int64) error
}

// FlightRepository defines the interface for flight data operations
type FlightRepository interface {
	Create(ctx context.Context, flight *models.Flight) (*models.Flight, error)
	GetByID(ctx context.Context, id int64) (*models.Flight, error)
	ListByTrip(ctx context.Context, tripID int64) ([]*models.Flight, error)
	Update(ctx context.Context, flight *models.Flight) (*models.Flight, error)
	Delete(ctx context.Context, id int64) error
}

// PhotoRepository defines the interface for the append-only photo tables
type PhotoRepository interface {
	Add(ctx context.Context, photo *models.Photo) (*models.Photo, error)
	ListByOwner(ctx context.Context, owner models.PhotoOwner, ownerID int64) ([]*models.Photo, error)
	// ListByOwners groups photos by owner id, each group in insertion order.
	ListByOwners(ctx context.Context, owner models.PhotoOwner, ownerIDs []int64) (map[int64][]*models.Photo, error)
}

// PlaceFilters represents filters for querying places
type PlaceFilters struct {
	Category string
}

// MemoFilters represents filters for querying memos
type MemoFilters struct {
	Tab string
}

// Repositories groups one implementation of every repository.
type Repositories struct {
	Trips     TripRepository
	Settings  TripSettingsRepository
	Places    PlaceRepository
	Schedules ScheduleRepository
	Posts     SchedulePostRepository
	Memos     MemoRepository
	Hotels    HotelRepository
	Flights   FlightRepository
	Photos    PhotoRepository
}
