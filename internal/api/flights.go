package api

import (
	"fmt"
	"net/http"

	"github.com/Kerhoff/tripplanner/internal/service"
)

func (s *Server) handleListFlights(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.requireID(w, r, "tripID")
	if !ok {
		return
	}
	s.renderFlights(w, r, http.StatusOK, tripID, service.FlightInput{}, nil)
}

func (s *Server) renderFlights(w http.ResponseWriter, r *http.Request, status int, tripID int64, form service.FlightInput, errs map[string]string) {
	trip, err := s.svc.GetTrip(r.Context(), tripID)
	if err != nil {
		s.fail(w, r, err, "load trip")
		return
	}
	flights, err := s.svc.ListFlights(r.Context(), tripID)
	if err != nil {
		s.fail(w, r, err, "list flights")
		return
	}
	s.render(w, r, status, "flights", page{Trip: trip, Data: flights, Form: form, Errors: errs})
}

func (s *Server) handleCreateFlight(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.requireID(w, r, "tripID")
	if !ok || !s.requireForm(w, r) {
		return
	}
	in := parseFlightInput(r)

	flight, err := s.svc.CreateFlight(r.Context(), tripID, in)
	if errs, ok := formErrors(err); ok {
		s.renderFlights(w, r, http.StatusBadRequest, tripID, in, errs)
		return
	}
	if err != nil {
		s.fail(w, r, err, "create flight")
		return
	}
	s.redirect(w, r, fmt.Sprintf("/trips/%d/flights", flight.TripID), nil)
}

func (s *Server) handleEditFlight(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireID(w, r, "id")
	if !ok {
		return
	}
	s.renderEditFlight(w, r, http.StatusOK, id, nil, nil)
}

func (s *Server) renderEditFlight(w http.ResponseWriter, r *http.Request, status int, id int64, form *service.FlightInput, errs map[string]string) {
	flight, err := s.svc.GetFlight(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "load flight")
		return
	}
	trip, err := s.svc.GetTrip(r.Context(), flight.TripID)
	if err != nil {
		s.fail(w, r, err, "load trip")
		return
	}
	if form == nil {
		f := flightForm(flight)
		form = &f
	}
	s.render(w, r, status, "flight_edit", page{Trip: trip, Data: flight, Form: *form, Errors: errs})
}

func (s *Server) handleUpdateFlight(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireID(w, r, "id")
	if !ok || !s.requireForm(w, r) {
		return
	}
	in := parseFlightInput(r)

	flight, err := s.svc.UpdateFlight(r.Context(), id, in)
	if errs, ok := formErrors(err); ok {
		s.renderEditFlight(w, r, http.StatusBadRequest, id, &in, errs)
		return
	}
	if err != nil {
		s.fail(w, r, err, "update flight")
		return
	}
	s.redirect(w, r, fmt.Sprintf("/trips/%d/flights", flight.TripID), nil)
}

func (s *Server) handleDeleteFlight(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireID(w, r, "id")
	if !ok {
		return
	}
	flight, err := s.svc.DeleteFlight(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "delete flight")
		return
	}
	s.redirect(w, r, fmt.Sprintf("/trips/%d/flights", flight.TripID), nil)
}
