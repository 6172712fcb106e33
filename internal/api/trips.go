package api

import (
	"fmt"
	"net/http"

	"github.com/Kerhoff/tripplanner/internal/service"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.renderHome(w, r, http.StatusOK, service.TripInput{}, nil)
}

func (s *Server) renderHome(w http.ResponseWriter, r *http.Request, status int, form service.TripInput, errs map[string]string) {
	home, err := s.svc.GetHome(r.Context())
	if err != nil {
		s.fail(w, r, err, "load home")
		return
	}
	s.render(w, r, status, "home", page{Data: home, Form: form, Errors: errs})
}

func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	if !s.requireForm(w, r) {
		return
	}
	in := parseTripInput(r)

	trip, err := s.svc.CreateTrip(r.Context(), in)
	if errs, ok := formErrors(err); ok {
		s.renderHome(w, r, http.StatusBadRequest, in, errs)
		return
	}
	if err != nil {
		s.fail(w, r, err, "create trip")
		return
	}
	s.redirect(w, r, fmt.Sprintf("/trips/%d", trip.ID), nil)
}

func (s *Server) handleTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireID(w, r, "tripID")
	if !ok {
		return
	}
	s.renderTrip(w, r, http.StatusOK, id, nil, nil)
}

// renderTrip shows the overview. A nil form prefills the stored settings.
func (s *Server) renderTrip(w http.ResponseWriter, r *http.Request, status int, id int64, form *service.SettingsInput, errs map[string]string) {
	overview, err := s.svc.GetTripOverview(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "load trip")
		return
	}
	if form == nil {
		f := settingsForm(overview.Settings)
		form = &f
	}
	s.render(w, r, status, "trip", page{Trip: overview.Trip, Data: overview, Form: *form, Errors: errs})
}

func (s *Server) handleEditTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireID(w, r, "tripID")
	if !ok {
		return
	}
	trip, err := s.svc.GetTrip(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "load trip")
		return
	}
	s.render(w, r, http.StatusOK, "trip_edit", page{Trip: trip, Form: tripForm(trip)})
}

func (s *Server) handleUpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireID(w, r, "tripID")
	if !ok || !s.requireForm(w, r) {
		return
	}
	in := parseTripInput(r)

	trip, err := s.svc.UpdateTrip(r.Context(), id, in)
	if errs, ok := formErrors(err); ok {
		current, err := s.svc.GetTrip(r.Context(), id)
		if err != nil {
			s.fail(w, r, err, "load trip")
			return
		}
		s.render(w, r, http.StatusBadRequest, "trip_edit", page{Trip: current, Form: in, Errors: errs})
		return
	}
	if err != nil {
		s.fail(w, r, err, "update trip")
		return
	}
	s.redirect(w, r, fmt.Sprintf("/trips/%d", trip.ID), nil)
}

func (s *Server) handleDeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireID(w, r, "tripID")
	if !ok {
		return
	}
	if err := s.svc.DeleteTrip(r.Context(), id); err != nil {
		s.fail(w, r, err, "delete trip")
		return
	}
	s.redirect(w, r, "/", nil)
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireID(w, r, "tripID")
	if !ok || !s.requireForm(w, r) {
		return
	}
	in := service.SettingsInput{WarikaURL: field(r, "warika_url")}

	_, err := s.svc.SaveSettings(r.Context(), id, in)
	if errs, ok := formErrors(err); ok {
		s.renderTrip(w, r, http.StatusBadRequest, id, &in, errs)
		return
	}
	if err != nil {
		s.fail(w, r, err, "save trip settings")
		return
	}
	s.redirect(w, r, fmt.Sprintf("/trips/%d", id), nil)
}
