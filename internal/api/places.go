package api

import (
	"fmt"
	"net/http"

	"github.com/Kerhoff/tripplanner/internal/models"
	"github.com/Kerhoff/tripplanner/internal/service"
)

type placesPage struct {
	Places   []*service.PlaceView
	Category string
}

func (s *Server) handleListPlaces(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.requireID(w, r, "tripID")
	if !ok {
		return
	}
	s.renderPlaces(w, r, http.StatusOK, tripID, service.PlaceInput{}, nil)
}

func (s *Server) renderPlaces(w http.ResponseWriter, r *http.Request, status int, tripID int64, form service.PlaceInput, errs map[string]string) {
	trip, err := s.svc.GetTrip(r.Context(), tripID)
	if err != nil {
		s.fail(w, r, err, "load trip")
		return
	}

	category := r.URL.Query().Get("category")
	if category == "all" {
		category = ""
	}
	places, err := s.svc.ListPlaces(r.Context(), tripID, category)
	if err != nil {
		s.fail(w, r, err, "list places")
		return
	}
	if category != "" {
		category = models.NormalizeCategory(category)
	}
	if form.Category == "" {
		form.Category = category
	}

	s.render(w, r, status, "places", page{
		Trip:   trip,
		Data:   placesPage{Places: places, Category: category},
		Form:   form,
		Errors: errs,
	})
}

func (s *Server) handleCreatePlace(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.requireID(w, r, "tripID")
	if !ok || !s.requireForm(w, r) {
		return
	}
	in, err := s.parsePlaceInput(r)
	if err != nil {
		s.renderStatus(w, r, http.StatusBadRequest, "写真を読み取れませんでした。")
		return
	}

	place, eff, err := s.svc.CreatePlace(r.Context(), tripID, in)
	if errs, ok := formErrors(err); ok {
		s.renderPlaces(w, r, http.StatusBadRequest, tripID, in, errs)
		return
	}
	if err != nil {
		s.fail(w, r, err, "create place")
		return
	}
	s.redirect(w, r, fmt.Sprintf("/trips/%d/places", place.TripID), eff.WarningMessages())
}

func (s *Server) handleEditPlace(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireID(w, r, "id")
	if !ok {
		return
	}
	s.renderEditPlace(w, r, http.StatusOK, id, nil, nil)
}

// renderEditPlace shows the edit form. A nil form prefills the stored row.
func (s *Server) renderEditPlace(w http.ResponseWriter, r *http.Request, status int, id int64, form *service.PlaceInput, errs map[string]string) {
	view, err := s.svc.GetPlace(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "load place")
		return
	}
	trip, err := s.svc.GetTrip(r.Context(), view.TripID)
	if err != nil {
		s.fail(w, r, err, "load trip")
		return
	}
	if form == nil {
		f := placeForm(view.Place)
		form = &f
	}
	s.render(w, r, status, "place_edit", page{Trip: trip, Data: view, Form: *form, Errors: errs})
}

func (s *Server) handleUpdatePlace(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireID(w, r, "id")
	if !ok || !s.requireForm(w, r) {
		return
	}
	in, err := s.parsePlaceInput(r)
	if err != nil {
		s.renderStatus(w, r, http.StatusBadRequest, "写真を読み取れませんでした。")
		return
	}

	place, eff, err := s.svc.UpdatePlace(r.Context(), id, in)
	if errs, ok := formErrors(err); ok {
		s.renderEditPlace(w, r, http.StatusBadRequest, id, &in, errs)
		return
	}
	if err != nil {
		s.fail(w, r, err, "update place")
		return
	}
	s.redirect(w, r, fmt.Sprintf("/trips/%d/places", place.TripID), eff.WarningMessages())
}

func (s *Server) handleDeletePlace(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireID(w, r, "id")
	if !ok {
		return
	}
	place, err := s.svc.DeletePlace(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "delete place")
		return
	}
	s.redirect(w, r, fmt.Sprintf("/trips/%d/places", place.TripID), nil)
}
