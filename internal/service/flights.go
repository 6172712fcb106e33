package service

import (
	"context"
	"strings"

	"github.com/Kerhoff/tripplanner/internal/models"
)

// FlightInput is the flight form. Times are free text.
type FlightInput struct {
	Airline          string `form:"airline" validate:"required_without=FlightNumber"`
	FlightNumber     string `form:"flight_number"`
	DepartureAirport string `form:"departure_airport"`
	DepartureTime    string `form:"departure_time"`
	ArrivalAirport   string `form:"arrival_airport"`
	ArrivalTime      string `form:"arrival_time"`
	ReservationCode  string `form:"reservation_code"`
	Seat             string `form:"seat"`
	Terminal         string `form:"terminal"`
	Gate             string `form:"gate"`
	Notes            string `form:"notes"`
}

func (in *FlightInput) normalize() {
	for _, f := range []*string{
		&in.Airline, &in.FlightNumber, &in.DepartureAirport, &in.DepartureTime,
		&in.ArrivalAirport, &in.ArrivalTime, &in.ReservationCode, &in.Seat,
		&in.Terminal, &in.Gate, &in.Notes,
	} {
		*f = strings.TrimSpace(*f)
	}
	in.FlightNumber = strings.ToUpper(in.FlightNumber)
	in.DepartureAirport = strings.ToUpper(in.DepartureAirport)
	in.ArrivalAirport = strings.ToUpper(in.ArrivalAirport)
}

func (in *FlightInput) apply(f *models.Flight) {
	f.Airline = in.Airline
	f.FlightNumber = in.FlightNumber
	f.DepartureAirport = in.DepartureAirport
	f.DepartureTime = in.DepartureTime
	f.ArrivalAirport = in.ArrivalAirport
	f.ArrivalTime = in.ArrivalTime
	f.ReservationCode = in.ReservationCode
	f.Seat = in.Seat
	f.Terminal = in.Terminal
	f.Gate = in.Gate
	f.Notes = in.Notes
}

// ListFlights returns the trip's flights in departure order.
func (s *Service) ListFlights(ctx context.Context, tripID int64) ([]*models.Flight, error) {
	return s.Flights.ListByTrip(ctx, tripID)
}

// GetFlight returns the flight or an ErrNotFound error.
func (s *Service) GetFlight(ctx context.Context, id int64) (*models.Flight, error) {
	flight, err := s.Flights.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if flight == nil {
		return nil, notFound("flight", id)
	}
	return flight, nil
}

// CreateFlight inserts a flight.
func (s *Service) CreateFlight(ctx context.Context, tripID int64, in FlightInput) (*models.Flight, error) {
	in.normalize()
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}
	if _, err := s.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}

	flight := &models.Flight{TripID: tripID}
	in.apply(flight)
	return s.Flights.Create(ctx, flight)
}

// UpdateFlight overwrites the flight.
func (s *Service) UpdateFlight(ctx context.Context, id int64, in FlightInput) (*models.Flight, error) {
	in.normalize()
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}
	flight, err := s.GetFlight(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(flight)
	return s.Flights.Update(ctx, flight)
}

// DeleteFlight removes the flight.
func (s *Service) DeleteFlight(ctx context.Context, id int64) (*models.Flight, error) {
	flight, err := s.GetFlight(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.Flights.Delete(ctx, id); err != nil {
		return nil, err
	}
	return flight, nil
}
