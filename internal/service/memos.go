package service

import (
	"context"
	"sort"
	"strings"

	"github.com/Kerhoff/tripplanner/internal/models"
	"github.com/Kerhoff/tripplanner/internal/repository"
)

// MemoInput is the memo form.
type MemoInput struct {
	TabName string `form:"tab_name"`
	Body    string `form:"body" validate:"required"`
}

func (in *MemoInput) normalize() {
	in.TabName = strings.TrimSpace(in.TabName)
	if in.TabName == "" {
		in.TabName = models.DefaultMemoTab
	}
	in.Body = strings.TrimSpace(in.Body)
}

// MemoList is the memos of a trip filtered to one tab, plus every tab name.
type MemoList struct {
	Memos     []*models.Memo
	Tabs      []string
	ActiveTab string
}

// ListMemos returns the trip's memos. An empty tab lists all of them.
func (s *Service) ListMemos(ctx context.Context, tripID int64, tab string) (*MemoList, error) {
	tab = strings.TrimSpace(tab)
	memos, err := s.Memos.ListByTrip(ctx, tripID, repository.MemoFilters{Tab: tab})
	if err != nil {
		return nil, err
	}
	tabs, err := s.Memos.Tabs(ctx, tripID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(tabs))
	names := make([]string, 0, len(tabs))
	for _, t := range tabs {
		if t == "" {
			t = models.DefaultMemoTab
		}
		if !seen[t] {
			seen[t] = true
			names = append(names, t)
		}
	}
	sort.Strings(names)

	for _, m := range memos {
		if m.TabName == "" {
			m.TabName = models.DefaultMemoTab
		}
	}
	return &MemoList{Memos: memos, Tabs: names, ActiveTab: tab}, nil
}

// GetMemo returns the memo or an ErrNotFound error.
func (s *Service) GetMemo(ctx context.Context, id int64) (*models.Memo, error) {
	memo, err := s.Memos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if memo == nil {
		return nil, notFound("memo", id)
	}
	return memo, nil
}

// CreateMemo adds a memo to a trip.
func (s *Service) CreateMemo(ctx context.Context, tripID int64, in MemoInput) (*models.Memo, error) {
	in.normalize()
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}
	if _, err := s.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}
	return s.Memos.Create(ctx, &models.Memo{TripID: tripID, TabName: in.TabName, Body: in.Body})
}

// UpdateMemo overwrites the memo.
func (s *Service) UpdateMemo(ctx context.Context, id int64, in MemoInput) (*models.Memo, error) {
	in.normalize()
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}
	memo, err := s.GetMemo(ctx, id)
	if err != nil {
		return nil, err
	}
	memo.TabName = in.TabName
	memo.Body = in.Body
	return s.Memos.Update(ctx, memo)
}

// DeleteMemo removes the memo.
func (s *Service) DeleteMemo(ctx context.Context, id int64) (*models.Memo, error) {
	memo, err := s.GetMemo(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.Memos.Delete(ctx, id); err != nil {
		return nil, err
	}
	return memo, nil
}
