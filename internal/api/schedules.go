package api

import (
	"fmt"
	"net/http"

	"github.com/Kerhoff/tripplanner/internal/models"
	"github.com/Kerhoff/tripplanner/internal/service"
)

// ---------------------------------------------------------------------------
// Schedules
// ---------------------------------------------------------------------------

func (s *Server) handleListSchedules(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.requireID(w, r, "tripID")
	if !ok {
		return
	}
	s.renderSchedules(w, r, http.StatusOK, tripID, service.ScheduleInput{}, nil)
}

func (s *Server) renderSchedules(w http.ResponseWriter, r *http.Request, status int, tripID int64, form service.ScheduleInput, errs map[string]string) {
	trip, err := s.svc.GetTrip(r.Context(), tripID)
	if err != nil {
		s.fail(w, r, err, "load trip")
		return
	}
	list, err := s.svc.ListSchedules(r.Context(), tripID)
	if err != nil {
		s.fail(w, r, err, "list schedules")
		return
	}
	s.render(w, r, status, "schedules", page{Trip: trip, Data: list, Form: form, Errors: errs})
}

func (s *Server) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.requireID(w, r, "tripID")
	if !ok || !s.requireForm(w, r) {
		return
	}
	in, err := s.parseScheduleInput(r)
	if err != nil {
		s.renderStatus(w, r, http.StatusBadRequest, "写真を読み取れませんでした。")
		return
	}

	sc, eff, err := s.svc.CreateSchedule(r.Context(), tripID, in)
	if errs, ok := formErrors(err); ok {
		s.renderSchedules(w, r, http.StatusBadRequest, tripID, in, errs)
		return
	}
	if err != nil {
		s.fail(w, r, err, "create schedule")
		return
	}
	s.redirect(w, r, fmt.Sprintf("/trips/%d/schedules", sc.TripID), eff.WarningMessages())
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireID(w, r, "id")
	if !ok {
		return
	}
	s.renderSchedule(w, r, http.StatusOK, id, service.PostInput{}, nil)
}

// renderSchedule shows the schedule detail page with its diary form.
func (s *Server) renderSchedule(w http.ResponseWriter, r *http.Request, status int, id int64, form service.PostInput, errs map[string]string) {
	detail, err := s.svc.GetScheduleDetail(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "load schedule")
		return
	}
	s.render(w, r, status, "schedule", page{Trip: detail.Trip, Data: detail, Form: form, Errors: errs})
}

func (s *Server) handleEditSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireID(w, r, "id")
	if !ok {
		return
	}
	s.renderEditSchedule(w, r, http.StatusOK, id, nil, nil)
}

func (s *Server) renderEditSchedule(w http.ResponseWriter, r *http.Request, status int, id int64, form *service.ScheduleInput, errs map[string]string) {
	view, err := s.svc.GetSchedule(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "load schedule")
		return
	}
	trip, err := s.svc.GetTrip(r.Context(), view.TripID)
	if err != nil {
		s.fail(w, r, err, "load trip")
		return
	}
	if form == nil {
		f := scheduleForm(view.Schedule)
		form = &f
	}
	s.render(w, r, status, "schedule_edit", page{Trip: trip, Data: view, Form: *form, Errors: errs})
}

func (s *Server) handleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireID(w, r, "id")
	if !ok || !s.requireForm(w, r) {
		return
	}
	in, err := s.parseScheduleInput(r)
	if err != nil {
		s.renderStatus(w, r, http.StatusBadRequest, "写真を読み取れませんでした。")
		return
	}

	sc, eff, err := s.svc.UpdateSchedule(r.Context(), id, in)
	if errs, ok := formErrors(err); ok {
		s.renderEditSchedule(w, r, http.StatusBadRequest, id, &in, errs)
		return
	}
	if err != nil {
		s.fail(w, r, err, "update schedule")
		return
	}
	s.redirect(w, r, fmt.Sprintf("/schedules/%d", sc.ID), eff.WarningMessages())
}

func (s *Server) handleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireID(w, r, "id")
	if !ok {
		return
	}
	sc, err := s.svc.DeleteSchedule(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "delete schedule")
		return
	}
	s.redirect(w, r, fmt.Sprintf("/trips/%d/schedules", sc.TripID), nil)
}

// ---------------------------------------------------------------------------
// Schedule posts
// ---------------------------------------------------------------------------

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	scheduleID, ok := s.requireID(w, r, "id")
	if !ok || !s.requireForm(w, r) {
		return
	}
	in, err := s.parsePostInput(r)
	if err != nil {
		s.renderStatus(w, r, http.StatusBadRequest, "写真を読み取れませんでした。")
		return
	}

	post, eff, err := s.svc.CreatePost(r.Context(), scheduleID, in)
	if errs, ok := formErrors(err); ok {
		s.renderSchedule(w, r, http.StatusBadRequest, scheduleID, in, errs)
		return
	}
	if err != nil {
		s.fail(w, r, err, "create post")
		return
	}
	s.redirect(w, r, fmt.Sprintf("/schedules/%d", post.ScheduleID), eff.WarningMessages())
}

func (s *Server) handleEditPost(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireID(w, r, "id")
	if !ok {
		return
	}
	s.renderEditPost(w, r, http.StatusOK, id, nil, nil)
}

func (s *Server) renderEditPost(w http.ResponseWriter, r *http.Request, status int, id int64, form *service.PostInput, errs map[string]string) {
	view, err := s.svc.GetPost(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "load post")
		return
	}
	trip, err := s.postTrip(r, view.SchedulePost)
	if err != nil {
		s.fail(w, r, err, "load trip")
		return
	}
	if form == nil {
		f := postForm(view.SchedulePost)
		form = &f
	}
	s.render(w, r, status, "post_edit", page{Trip: trip, Data: view, Form: *form, Errors: errs})
}

func (s *Server) postTrip(r *http.Request, post *models.SchedulePost) (*models.Trip, error) {
	sc, err := s.svc.GetSchedule(r.Context(), post.ScheduleID)
	if err != nil {
		return nil, err
	}
	return s.svc.GetTrip(r.Context(), sc.TripID)
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireID(w, r, "id")
	if !ok || !s.requireForm(w, r) {
		return
	}
	in, err := s.parsePostInput(r)
	if err != nil {
		s.renderStatus(w, r, http.StatusBadRequest, "写真を読み取れませんでした。")
		return
	}

	post, eff, err := s.svc.UpdatePost(r.Context(), id, in)
	if errs, ok := formErrors(err); ok {
		s.renderEditPost(w, r, http.StatusBadRequest, id, &in, errs)
		return
	}
	if err != nil {
		s.fail(w, r, err, "update post")
		return
	}
	s.redirect(w, r, fmt.Sprintf("/schedules/%d", post.ScheduleID), eff.WarningMessages())
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireID(w, r, "id")
	if !ok {
		return
	}
	post, err := s.svc.DeletePost(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "delete post")
		return
	}
	s.redirect(w, r, fmt.Sprintf("/schedules/%d", post.ScheduleID), nil)
}
