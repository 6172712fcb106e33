package api

import (
	"fmt"
	"net/http"

	"github.com/Kerhoff/tripplanner/internal/service"
)

func (s *Server) handleListHotels(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.requireID(w, r, "tripID")
	if !ok {
		return
	}
	s.renderHotels(w, r, http.StatusOK, tripID, service.HotelInput{}, nil)
}

func (s *Server) renderHotels(w http.ResponseWriter, r *http.Request, status int, tripID int64, form service.HotelInput, errs map[string]string) {
	trip, err := s.svc.GetTrip(r.Context(), tripID)
	if err != nil {
		s.fail(w, r, err, "load trip")
		return
	}
	hotels, err := s.svc.ListHotels(r.Context(), tripID)
	if err != nil {
		s.fail(w, r, err, "list hotels")
		return
	}
	s.render(w, r, status, "hotels", page{Trip: trip, Data: hotels, Form: form, Errors: errs})
}

func (s *Server) handleCreateHotel(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.requireID(w, r, "tripID")
	if !ok || !s.requireForm(w, r) {
		return
	}
	in, err := s.parseHotelInput(r)
	if err != nil {
		s.renderStatus(w, r, http.StatusBadRequest, "写真を読み取れませんでした。")
		return
	}

	hotel, eff, err := s.svc.CreateHotel(r.Context(), tripID, in)
	if errs, ok := formErrors(err); ok {
		s.renderHotels(w, r, http.StatusBadRequest, tripID, in, errs)
		return
	}
	if err != nil {
		s.fail(w, r, err, "create hotel")
		return
	}
	s.redirect(w, r, fmt.Sprintf("/trips/%d/hotels", hotel.TripID), eff.WarningMessages())
}

func (s *Server) handleEditHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireID(w, r, "id")
	if !ok {
		return
	}
	s.renderEditHotel(w, r, http.StatusOK, id, nil, nil)
}

func (s *Server) renderEditHotel(w http.ResponseWriter, r *http.Request, status int, id int64, form *service.HotelInput, errs map[string]string) {
	view, err := s.svc.GetHotel(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "load hotel")
		return
	}
	trip, err := s.svc.GetTrip(r.Context(), view.TripID)
	if err != nil {
		s.fail(w, r, err, "load trip")
		return
	}
	if form == nil {
		f := hotelForm(view.Hotel)
		form = &f
	}
	s.render(w, r, status, "hotel_edit", page{Trip: trip, Data: view, Form: *form, Errors: errs})
}

func (s *Server) handleUpdateHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireID(w, r, "id")
	if !ok || !s.requireForm(w, r) {
		return
	}
	in, err := s.parseHotelInput(r)
	if err != nil {
		s.renderStatus(w, r, http.StatusBadRequest, "写真を読み取れませんでした。")
		return
	}

	hotel, eff, err := s.svc.UpdateHotel(r.Context(), id, in)
	if errs, ok := formErrors(err); ok {
		s.renderEditHotel(w, r, http.StatusBadRequest, id, &in, errs)
		return
	}
	if err != nil {
		s.fail(w, r, err, "update hotel")
		return
	}
	s.redirect(w, r, fmt.Sprintf("/trips/%d/hotels", hotel.TripID), eff.WarningMessages())
}

func (s *Server) handleDeleteHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireID(w, r, "id")
	if !ok {
		return
	}
	hotel, err := s.svc.DeleteHotel(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "delete hotel")
		return
	}
	s.redirect(w, r, fmt.Sprintf("/trips/%d/hotels", hotel.TripID), nil)
}
