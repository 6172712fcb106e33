package sqldb

import (
	"context"
	"fmt"

	"github.com/Kerhoff/tripplanner/internal/models"
	"github.com/Kerhoff/tripplanner/internal/repository"
	"github.com/jmoiron/sqlx"
)

type flightRepository struct {
	db *sqlx.DB
}

// NewFlightRepository creates a new flight repository
func NewFlightRepository(db *sqlx.DB) repository.FlightRepository {
	return &flightRepository{db: db}
}

const flightColumns = `id, trip_id, airline, flight_number, departure_airport, departure_time,
	arrival_airport, arrival_time, reservation_code, seat, terminal, gate, notes, created_at`

func (r *flightRepository) Create(ctx context.Context, flight *models.Flight) (*models.Flight, error) {
	flight.CreatedAt = models.Now()
	id, err := insertID(ctx, r.db, `
		INSERT INTO flights (trip_id, airline, flight_number, departure_airport, departure_time,
			arrival_airport, arrival_time, reservation_code, seat, terminal, gate, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		flight.TripID, flight.Airline, flight.FlightNumber, flight.DepartureAirport, flight.DepartureTime,
		flight.ArrivalAirport, flight.ArrivalTime, flight.ReservationCode, flight.Seat, flight.Terminal,
		flight.Gate, flight.Notes, flight.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create flight: %w", err)
	}
	flight.ID = id
	return flight, nil
}

func (r *flightRepository) GetByID(ctx context.Context, id int64) (*models.Flight, error) {
	flight := &models.Flight{}
	found, err := getOne(ctx, r.db, flight, `SELECT `+flightColumns+` FROM flights WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get flight: %w", err)
	}
	if !found {
		return nil, nil
	}
	return flight, nil
}

func (r *flightRepository) ListByTrip(ctx context.Context, tripID int64) ([]*models.Flight, error) {
	var flights []*models.Flight
	err := selectAll(ctx, r.db, &flights, `
		SELECT `+flightColumns+`
		FROM flights
		WHERE trip_id = ?
		ORDER BY departure_time ASC, id ASC`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to query flights: %w", err)
	}
	return flights, nil
}

func (r *flightRepository) Update(ctx context.Context, flight *models.Flight) (*models.Flight, error) {
	err := execOne(ctx, r.db, `
		UPDATE flights SET airline = ?, flight_number = ?, departure_airport = ?, departure_time = ?,
			arrival_airport = ?, arrival_time = ?, reservation_code = ?, seat = ?, terminal = ?, gate = ?, notes = ?
		WHERE id = ?`,
		flight.Airline, flight.FlightNumber, flight.DepartureAirport, flight.DepartureTime,
		flight.ArrivalAirport, flight.ArrivalTime, flight.ReservationCode, flight.Seat, flight.Terminal,
		flight.Gate, flight.Notes, flight.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update flight %d: %w", flight.ID, err)
	}
	return flight, nil
}

func (r *flightRepository) Delete(ctx context.Context, id int64) error {
	if err := execOne(ctx, r.db, `DELETE FROM flights WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete flight %d: %w", id, err)
	}
	return nil
}
