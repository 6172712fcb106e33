package api

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/Kerhoff/tripplanner/internal/service"
)

func (s *Server) handleListMemos(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.requireID(w, r, "tripID")
	if !ok {
		return
	}
	s.renderMemos(w, r, http.StatusOK, tripID, r.URL.Query().Get("tab"), service.MemoInput{}, nil)
}

func (s *Server) renderMemos(w http.ResponseWriter, r *http.Request, status int, tripID int64, tab string, form service.MemoInput, errs map[string]string) {
	trip, err := s.svc.GetTrip(r.Context(), tripID)
	if err != nil {
		s.fail(w, r, err, "load trip")
		return
	}
	list, err := s.svc.ListMemos(r.Context(), tripID, tab)
	if err != nil {
		s.fail(w, r, err, "list memos")
		return
	}
	if form.TabName == "" {
		form.TabName = list.ActiveTab
	}
	s.render(w, r, status, "memos", page{Trip: trip, Data: list, Form: form, Errors: errs})
}

// memosURL links back to the tab a memo lives in.
func memosURL(tripID int64, tab string) string {
	return fmt.Sprintf("/trips/%d/memos?tab=%s", tripID, url.QueryEscape(tab))
}

func (s *Server) handleCreateMemo(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.requireID(w, r, "tripID")
	if !ok || !s.requireForm(w, r) {
		return
	}
	in := parseMemoInput(r)

	memo, err := s.svc.CreateMemo(r.Context(), tripID, in)
	if errs, ok := formErrors(err); ok {
		s.renderMemos(w, r, http.StatusBadRequest, tripID, in.TabName, in, errs)
		return
	}
	if err != nil {
		s.fail(w, r, err, "create memo")
		return
	}
	s.redirect(w, r, memosURL(memo.TripID, memo.TabName), nil)
}

func (s *Server) handleEditMemo(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireID(w, r, "id")
	if !ok {
		return
	}
	s.renderEditMemo(w, r, http.StatusOK, id, nil, nil)
}

func (s *Server) renderEditMemo(w http.ResponseWriter, r *http.Request, status int, id int64, form *service.MemoInput, errs map[string]string) {
	memo, err := s.svc.GetMemo(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "load memo")
		return
	}
	trip, err := s.svc.GetTrip(r.Context(), memo.TripID)
	if err != nil {
		s.fail(w, r, err, "load trip")
		return
	}
	if form == nil {
		f := memoForm(memo)
		form = &f
	}
	s.render(w, r, status, "memo_edit", page{Trip: trip, Data: memo, Form: *form, Errors: errs})
}

func (s *Server) handleUpdateMemo(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireID(w, r, "id")
	if !ok || !s.requireForm(w, r) {
		return
	}
	in := parseMemoInput(r)

	memo, err := s.svc.UpdateMemo(r.Context(), id, in)
	if errs, ok := formErrors(err); ok {
		s.renderEditMemo(w, r, http.StatusBadRequest, id, &in, errs)
		return
	}
	if err != nil {
		s.fail(w, r, err, "update memo")
		return
	}
	s.redirect(w, r, memosURL(memo.TripID, memo.TabName), nil)
}

func (s *Server) handleDeleteMemo(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireID(w, r, "id")
	if !ok {
		return
	}
	memo, err := s.svc.DeleteMemo(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "delete memo")
		return
	}
	s.redirect(w, r, fmt.Sprintf("/trips/%d/memos", memo.TripID), nil)
}
