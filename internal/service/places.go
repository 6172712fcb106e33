package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Kerhoff/tripplanner/internal/models"
	"github.com/Kerhoff/tripplanner/internal/repository"
)

// PlaceInput is the place form. Details holds whatever the browser already
// resolved through autocomplete.
type PlaceInput struct {
	Name     string              `form:"name" validate:"required"`
	Category string              `form:"category"`
	Notes    string              `form:"notes"`
	Details  models.PlaceDetails `validate:"-"`
	Lookup   LookupInput         `validate:"-"`
	Photos   PhotoInput          `validate:"-"`
}

func (in *PlaceInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = models.NormalizeCategory(in.Category)
	in.Notes = strings.TrimSpace(in.Notes)
	in.Details = cleanDetails(in.Details)
}

// PlaceView is a place with its photo gallery.
type PlaceView struct {
	*models.Place
	Gallery []string
}

// ListPlaces returns the trip's places, optionally narrowed to one category.
func (s *Service) ListPlaces(ctx context.Context, tripID int64, category string) ([]*PlaceView, error) {
	if category != "" {
		category = models.NormalizeCategory(category)
	}
	places, err := s.Places.ListByTrip(ctx, tripID, repository.PlaceFilters{Category: category})
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(places))
	for i, p := range places {
		ids[i] = p.ID
	}
	photos, err := s.galleries(ctx, models.PhotoOwnerPlace, ids)
	if err != nil {
		return nil, err
	}

	views := make([]*PlaceView, len(places))
	for i, p := range places {
		views[i] = &PlaceView{Place: p, Gallery: models.Gallery(photos[p.ID], p.PhotoURL)}
	}
	return views, nil
}

// GetPlace returns a place with its gallery or an ErrNotFound error.
func (s *Service) GetPlace(ctx context.Context, id int64) (*PlaceView, error) {
	place, err := s.Places.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if place == nil {
		return nil, notFound("place", id)
	}
	photos, err := s.Photos.ListByOwner(ctx, models.PhotoOwnerPlace, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load place photos: %w", err)
	}
	return &PlaceView{Place: place, Gallery: models.Gallery(photos, place.PhotoURL)}, nil
}

// CreatePlace validates the form, optionally enriches it, inserts one place
// row and then attaches photos. Enrichment and photo failures are reported in
// Effects and never prevent the insert.
func (s *Service) CreatePlace(ctx context.Context, tripID int64, in PlaceInput) (*models.Place, *Effects, error) {
	in.normalize()
	if err := s.validate.Validate(in); err != nil {
		return nil, nil, err
	}
	if _, err := s.GetTrip(ctx, tripID); err != nil {
		return nil, nil, err
	}

	eff := &Effects{}
	place := &models.Place{
		TripID:       tripID,
		Name:         in.Name,
		Category:     in.Category,
		Notes:        in.Notes,
		PlaceDetails: s.enrichDetails(ctx, in.Name, in.Details, in.Lookup, eff),
	}

	place, err := s.Places.Create(ctx, place)
	if err != nil {
		return nil, nil, err
	}
	s.attachPhotos(ctx, models.PhotoOwnerPlace, place.ID, in.Photos, eff)

	s.logger.WithField("trip_id", tripID).Infof("Created place %q (place_id=%d)", place.Name, place.ID)
	return place, eff, nil
}

// UpdatePlace overwrites the place and appends any new photos.
func (s *Service) UpdatePlace(ctx context.Context, id int64, in PlaceInput) (*models.Place, *Effects, error) {
	in.normalize()
	if err := s.validate.Validate(in); err != nil {
		return nil, nil, err
	}
	place, err := s.Places.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if place == nil {
		return nil, nil, notFound("place", id)
	}

	eff := &Effects{}
	place.Name = in.Name
	place.Category = in.Category
	place.Notes = in.Notes
	place.PlaceDetails = s.enrichDetails(ctx, in.Name, in.Details, in.Lookup, eff)

	if place, err = s.Places.Update(ctx, place); err != nil {
		return nil, nil, err
	}
	s.attachPhotos(ctx, models.PhotoOwnerPlace, place.ID, in.Photos, eff)
	return place, eff, nil
}

// DeletePlace removes the place and its photos.
func (s *Service) DeletePlace(ctx context.Context, id int64) (*models.Place, error) {
	place, err := s.Places.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if place == nil {
		return nil, notFound("place", id)
	}
	if err := s.Places.Delete(ctx, id); err != nil {
		return nil, err
	}
	return place, nil
}
