package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Kerhoff/tripplanner/internal/models"
	"github.com/Kerhoff/tripplanner/internal/repository"
)

// TripInput is the trip form.
type TripInput struct {
	Name      string `form:"name" validate:"required"`
	StartDate string `form:"start_date" validate:"omitempty,date"`
	EndDate   string `form:"end_date" validate:"omitempty,date,notbefore=StartDate"`
	Note      string `form:"note"`
}

// SettingsInput is the trip settings form.
type SettingsInput struct {
	WarikaURL string `form:"warika_url" validate:"omitempty,url"`
}

func (in *TripInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.StartDate = strings.TrimSpace(in.StartDate)
	in.EndDate = strings.TrimSpace(in.EndDate)
	in.Note = strings.TrimSpace(in.Note)
}

func (in *TripInput) apply(trip *models.Trip) {
	// Both dates passed validation.
	trip.Name = in.Name
	trip.StartDate, _ = models.ParseDate(in.StartDate)
	trip.EndDate, _ = models.ParseDate(in.EndDate)
	trip.Note = in.Note
}

// ListTrips returns every trip, upcoming start dates first.
func (s *Service) ListTrips(ctx context.Context) ([]*models.Trip, error) {
	trips, err := s.Trips.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	return trips, nil
}

// GetTrip returns the trip or an ErrNotFound error.
func (s *Service) GetTrip(ctx context.Context, id int64) (*models.Trip, error) {
	trip, err := s.Trips.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get trip %d: %w", id, err)
	}
	if trip == nil {
		return nil, notFound("trip", id)
	}
	return trip, nil
}

// CreateTrip validates and inserts a trip.
func (s *Service) CreateTrip(ctx context.Context, in TripInput) (*models.Trip, error) {
	in.normalize()
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	trip := &models.Trip{}
	in.apply(trip)
	trip, err := s.Trips.Create(ctx, trip)
	if err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	s.logger.Infof("Created trip %q (trip_id=%d)", trip.Name, trip.ID)
	return trip, nil
}

// UpdateTrip overwrites every editable trip field.
func (s *Service) UpdateTrip(ctx context.Context, id int64, in TripInput) (*models.Trip, error) {
	in.normalize()
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	trip, err := s.GetTrip(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(trip)
	if trip, err = s.Trips.Update(ctx, trip); err != nil {
		return nil, err
	}
	return trip, nil
}

// DeleteTrip removes the trip and, through cascading keys, everything in it.
func (s *Service) DeleteTrip(ctx context.Context, id int64) error {
	if err := s.Trips.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Infof("Deleted trip %d", id)
	return nil
}

// GetSettings returns the trip settings, or an empty unsaved value when the
// trip has none yet.
func (s *Service) GetSettings(ctx context.Context, tripID int64) (*models.TripSettings, error) {
	settings, err := s.Settings.GetByTripID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return &models.TripSettings{TripID: tripID}, nil
	}
	return settings, nil
}

// SaveSettings creates or replaces the single settings row of a trip.
func (s *Service) SaveSettings(ctx context.Context, tripID int64, in SettingsInput) (*models.TripSettings, error) {
	in.WarikaURL = strings.TrimSpace(in.WarikaURL)
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}
	if _, err := s.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}

	settings := &models.TripSettings{TripID: tripID}
	if in.WarikaURL != "" {
		settings.WarikaURL = &in.WarikaURL
	}
	return s.Settings.Upsert(ctx, settings)
}

// TripOverview is everything shown on a trip's landing page.
type TripOverview struct {
	Trip         *models.Trip
	Settings     *models.TripSettings
	NextSchedule *models.Schedule
	Counts       TripCounts
}

// TripCounts holds the number of rows of each kind in a trip.
type TripCounts struct {
	Places    int
	Schedules int
	Memos     int
	Hotels    int
	Flights   int
}

// GetTripOverview loads a trip with its settings and summary counts.
func (s *Service) GetTripOverview(ctx context.Context, id int64) (*TripOverview, error) {
	trip, err := s.GetTrip(ctx, id)
	if err != nil {
		return nil, err
	}
	settings, err := s.GetSettings(ctx, id)
	if err != nil {
		return nil, err
	}

	places, err := s.Places.ListByTrip(ctx, id, repository.PlaceFilters{})
	if err != nil {
		return nil, err
	}
	schedules, err := s.Schedules.ListByTrip(ctx, id)
	if err != nil {
		return nil, err
	}
	memos, err := s.Memos.ListByTrip(ctx, id, repository.MemoFilters{})
	if err != nil {
		return nil, err
	}
	hotels, err := s.Hotels.ListByTrip(ctx, id)
	if err != nil {
		return nil, err
	}
	flights, err := s.Flights.ListByTrip(ctx, id)
	if err != nil {
		return nil, err
	}

	return &TripOverview{
		Trip:         trip,
		Settings:     settings,
		NextSchedule: NextSchedule(schedules, s.today()),
		Counts: TripCounts{
			Places:    len(places),
			Schedules: len(schedules),
			Memos:     len(memos),
			Hotels:    len(hotels),
			Flights:   len(flights),
		},
	}, nil
}

// Home is the landing page: every trip plus the next schedule across trips.
type Home struct {
	Trips        []*models.Trip
	NextSchedule *models.Schedule
	NextTrip     *models.Trip
}

// GetHome loads the landing page.
func (s *Service) GetHome(ctx context.Context) (*Home, error) {
	trips, err := s.ListTrips(ctx)
	if err != nil {
		return nil, err
	}
	schedules, err := s.Schedules.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	home := &Home{Trips: trips, NextSchedule: NextSchedule(schedules, s.today())}
	if home.NextSchedule != nil {
		for _, t := range trips {
			if t.ID == home.NextSchedule.TripID {
				home.NextTrip = t
				break
			}
		}
	}
	return home, nil
}

// NextSchedule picks the schedule to highlight from rows ordered by date. It
// is the first one dated today or later, else the first dated one, else the
// first one.
func NextSchedule(schedules []*models.Schedule, today models.Date) *models.Schedule {
	for _, sc := range schedules {
		if d, ok := sc.ParsedDate(); ok && !d.Before(today) {
			return sc
		}
	}
	for _, sc := range schedules {
		if sc.Date != "" {
			return sc
		}
	}
	if len(schedules) > 0 {
		return schedules[0]
	}
	return nil
}
