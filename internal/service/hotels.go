package service

import (
	"context"
	"strings"

	"github.com/Kerhoff/tripplanner/internal/models"
)

// HotelInput is the hotel form.
type HotelInput struct {
	Name         string     `form:"name" validate:"required"`
	Address      string     `form:"address"`
	MapURL       string     `form:"map_url" validate:"omitempty,url"`
	Website      string     `form:"website" validate:"omitempty,url"`
	CheckinDate  string     `form:"checkin_date" validate:"omitempty,date"`
	CheckoutDate string     `form:"checkout_date" validate:"omitempty,date,notbefore=CheckinDate"`
	Notes        string     `form:"notes"`
	Photos       PhotoInput `validate:"-"`
}

func (in *HotelInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.MapURL = strings.TrimSpace(in.MapURL)
	in.Website = strings.TrimSpace(in.Website)
	in.CheckinDate = strings.TrimSpace(in.CheckinDate)
	in.CheckoutDate = strings.TrimSpace(in.CheckoutDate)
	in.Notes = strings.TrimSpace(in.Notes)
}

func (in *HotelInput) apply(h *models.Hotel) {
	h.Name = in.Name
	h.Address = in.Address
	h.MapURL = in.MapURL
	h.Website = in.Website
	h.CheckinDate, _ = models.ParseDate(in.CheckinDate)
	h.CheckoutDate, _ = models.ParseDate(in.CheckoutDate)
	h.Notes = in.Notes
}

// HotelView is a hotel with its photo gallery.
type HotelView struct {
	*models.Hotel
	Gallery []string
}

// ListHotels returns the trip's hotels in check-in order.
func (s *Service) ListHotels(ctx context.Context, tripID int64) ([]*HotelView, error) {
	hotels, err := s.Hotels.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(hotels))
	for i, h := range hotels {
		ids[i] = h.ID
	}
	photos, err := s.galleries(ctx, models.PhotoOwnerHotel, ids)
	if err != nil {
		return nil, err
	}

	views := make([]*HotelView, len(hotels))
	for i, h := range hotels {
		views[i] = &HotelView{Hotel: h, Gallery: models.Gallery(photos[h.ID], nil)}
	}
	return views, nil
}

// GetHotel returns the hotel or an ErrNotFound error.
func (s *Service) GetHotel(ctx context.Context, id int64) (*HotelView, error) {
	hotel, err := s.Hotels.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if hotel == nil {
		return nil, notFound("hotel", id)
	}
	photos, err := s.Photos.ListByOwner(ctx, models.PhotoOwnerHotel, id)
	if err != nil {
		return nil, err
	}
	return &HotelView{Hotel: hotel, Gallery: models.Gallery(photos, nil)}, nil
}

// CreateHotel inserts a hotel and attaches its photo.
func (s *Service) CreateHotel(ctx context.Context, tripID int64, in HotelInput) (*models.Hotel, *Effects, error) {
	in.normalize()
	if err := s.validate.Validate(in); err != nil {
		return nil, nil, err
	}
	if _, err := s.GetTrip(ctx, tripID); err != nil {
		return nil, nil, err
	}

	hotel := &models.Hotel{TripID: tripID}
	in.apply(hotel)
	hotel, err := s.Hotels.Create(ctx, hotel)
	if err != nil {
		return nil, nil, err
	}

	eff := &Effects{}
	s.attachPhotos(ctx, models.PhotoOwnerHotel, hotel.ID, in.Photos, eff)
	return hotel, eff, nil
}

// UpdateHotel overwrites the hotel and appends any new photos.
func (s *Service) UpdateHotel(ctx context.Context, id int64, in HotelInput) (*models.Hotel, *Effects, error) {
	in.normalize()
	if err := s.validate.Validate(in); err != nil {
		return nil, nil, err
	}
	hotel, err := s.Hotels.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if hotel == nil {
		return nil, nil, notFound("hotel", id)
	}

	in.apply(hotel)
	if hotel, err = s.Hotels.Update(ctx, hotel); err != nil {
		return nil, nil, err
	}

	eff := &Effects{}
	s.attachPhotos(ctx, models.PhotoOwnerHotel, hotel.ID, in.Photos, eff)
	return hotel, eff, nil
}

// DeleteHotel removes the hotel and its photos.
func (s *Service) DeleteHotel(ctx context.Context, id int64) (*models.Hotel, error) {
	hotel, err := s.Hotels.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if hotel == nil {
		return nil, notFound("hotel", id)
	}
	if err := s.Hotels.Delete(ctx, id); err != nil {
		return nil, err
	}
	return hotel, nil
}
