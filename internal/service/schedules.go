package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Kerhoff/tripplanner/internal/models"
)

// ScheduleInput is the schedule form. The date is optional and kept as text.
type ScheduleInput struct {
	Title     string              `form:"title" validate:"required"`
	Date      string              `form:"date" validate:"omitempty,date"`
	StartTime string              `form:"start_time"`
	EndTime   string              `form:"end_time"`
	Detail    string              `form:"detail"`
	Details   models.PlaceDetails `validate:"-"`
	Lookup    LookupInput         `validate:"-"`
	Photos    PhotoInput          `validate:"-"`
}

func (in *ScheduleInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Date = strings.TrimSpace(in.Date)
	in.StartTime = strings.TrimSpace(in.StartTime)
	in.EndTime = strings.TrimSpace(in.EndTime)
	in.Detail = strings.TrimSpace(in.Detail)
	in.Details = cleanDetails(in.Details)
}

// PostInput is the diary entry form.
type PostInput struct {
	TimeLabel string     `form:"time_label"`
	Title     string     `form:"title" validate:"required_without=Body"`
	Body      string     `form:"body"`
	Photos    PhotoInput `validate:"-"`
}

func (in *PostInput) normalize() {
	in.TimeLabel = strings.TrimSpace(in.TimeLabel)
	in.Title = strings.TrimSpace(in.Title)
	in.Body = strings.TrimSpace(in.Body)
}

// ScheduleView is a schedule with its photo gallery.
type ScheduleView struct {
	*models.Schedule
	Gallery []string
}

// ScheduleList splits a trip's schedules around today.
type ScheduleList struct {
	Upcoming []*ScheduleView
	Past     []*ScheduleView
}

// ListSchedules returns the trip's schedules split into upcoming and past.
func (s *Service) ListSchedules(ctx context.Context, tripID int64) (*ScheduleList, error) {
	schedules, err := s.Schedules.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(schedules))
	for i, sc := range schedules {
		ids[i] = sc.ID
	}
	photos, err := s.galleries(ctx, models.PhotoOwnerSchedule, ids)
	if err != nil {
		return nil, err
	}

	upcoming, past := SplitSchedules(schedules, s.today())
	list := &ScheduleList{
		Upcoming: make([]*ScheduleView, len(upcoming)),
		Past:     make([]*ScheduleView, len(past)),
	}
	for i, sc := range upcoming {
		list.Upcoming[i] = &ScheduleView{Schedule: sc, Gallery: models.Gallery(photos[sc.ID], sc.PhotoURL)}
	}
	for i, sc := range past {
		list.Past[i] = &ScheduleView{Schedule: sc, Gallery: models.Gallery(photos[sc.ID], sc.PhotoURL)}
	}
	return list, nil
}

// SplitSchedules puts schedules dated before today in past, newest first.
// Everything else, including undated rows, goes to upcoming in date order
// with undated rows last.
func SplitSchedules(schedules []*models.Schedule, today models.Date) (upcoming, past []*models.Schedule) {
	for _, sc := range schedules {
		if d, ok := sc.ParsedDate(); ok && d.Before(today) {
			past = append(past, sc)
		} else {
			upcoming = append(upcoming, sc)
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		di, iok := upcoming[i].ParsedDate()
		dj, jok := upcoming[j].ParsedDate()
		switch {
		case iok && jok && !di.Equal(dj.Time):
			return di.Before(dj)
		case iok != jok:
			return iok
		default:
			return upcoming[i].ID < upcoming[j].ID
		}
	})
	sort.SliceStable(past, func(i, j int) bool {
		di, _ := past[i].ParsedDate()
		dj, _ := past[j].ParsedDate()
		if !di.Equal(dj.Time) {
			return dj.Before(di)
		}
		return past[i].ID > past[j].ID
	})
	return upcoming, past
}

// ScheduleDetail is a schedule with its diary posts.
type ScheduleDetail struct {
	Schedule *ScheduleView
	Trip     *models.Trip
	Posts    []*PostView
}

// PostView is a diary post with its photos.
type PostView struct {
	*models.SchedulePost
	Gallery []string
}

// GetSchedule returns the schedule with its gallery or an ErrNotFound error.
func (s *Service) GetSchedule(ctx context.Context, id int64) (*ScheduleView, error) {
	sc, err := s.Schedules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, notFound("schedule", id)
	}
	photos, err := s.Photos.ListByOwner(ctx, models.PhotoOwnerSchedule, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule photos: %w", err)
	}
	return &ScheduleView{Schedule: sc, Gallery: models.Gallery(photos, sc.PhotoURL)}, nil
}

// GetScheduleDetail loads a schedule, its trip and its posts.
func (s *Service) GetScheduleDetail(ctx context.Context, id int64) (*ScheduleDetail, error) {
	view, err := s.GetSchedule(ctx, id)
	if err != nil {
		return nil, err
	}
	trip, err := s.GetTrip(ctx, view.TripID)
	if err != nil {
		return nil, err
	}

	posts, err := s.Posts.ListBySchedule(ctx, id)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	photos, err := s.galleries(ctx, models.PhotoOwnerSchedulePost, ids)
	if err != nil {
		return nil, err
	}

	detail := &ScheduleDetail{Schedule: view, Trip: trip, Posts: make([]*PostView, len(posts))}
	for i, p := range posts {
		detail.Posts[i] = &PostView{SchedulePost: p, Gallery: models.Gallery(photos[p.ID], nil)}
	}
	return detail, nil
}

// CreateSchedule validates, optionally enriches, inserts one schedule row and
// then attaches photos.
func (s *Service) CreateSchedule(ctx context.Context, tripID int64, in ScheduleInput) (*models.Schedule, *Effects, error) {
	in.normalize()
	if err := s.validate.Validate(in); err != nil {
		return nil, nil, err
	}
	if _, err := s.GetTrip(ctx, tripID); err != nil {
		return nil, nil, err
	}

	eff := &Effects{}
	sc := &models.Schedule{
		TripID:       tripID,
		Title:        in.Title,
		Date:         in.Date,
		StartTime:    in.StartTime,
		EndTime:      in.EndTime,
		Detail:       in.Detail,
		PlaceDetails: s.enrichDetails(ctx, in.Title, in.Details, in.Lookup, eff),
	}

	sc, err := s.Schedules.Create(ctx, sc)
	if err != nil {
		return nil, nil, err
	}
	s.attachPhotos(ctx, models.PhotoOwnerSchedule, sc.ID, in.Photos, eff)

	s.logger.WithField("trip_id", tripID).Infof("Created schedule %q (schedule_id=%d)", sc.Title, sc.ID)
	return sc, eff, nil
}

// UpdateSchedule overwrites the schedule and appends any new photos.
func (s *Service) UpdateSchedule(ctx context.Context, id int64, in ScheduleInput) (*models.Schedule, *Effects, error) {
	in.normalize()
	if err := s.validate.Validate(in); err != nil {
		return nil, nil, err
	}
	sc, err := s.Schedules.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if sc == nil {
		return nil, nil, notFound("schedule", id)
	}

	eff := &Effects{}
	sc.Title = in.Title
	sc.Date = in.Date
	sc.StartTime = in.StartTime
	sc.EndTime = in.EndTime
	sc.Detail = in.Detail
	sc.PlaceDetails = s.enrichDetails(ctx, in.Title, in.Details, in.Lookup, eff)

	if sc, err = s.Schedules.Update(ctx, sc); err != nil {
		return nil, nil, err
	}
	s.attachPhotos(ctx, models.PhotoOwnerSchedule, sc.ID, in.Photos, eff)
	return sc, eff, nil
}

// DeleteSchedule removes the schedule with its posts and photos.
func (s *Service) DeleteSchedule(ctx context.Context, id int64) (*models.Schedule, error) {
	sc, err := s.Schedules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, notFound("schedule", id)
	}
	if err := s.Schedules.Delete(ctx, id); err != nil {
		return nil, err
	}
	return sc, nil
}

// GetPost returns the post with its gallery or an ErrNotFound error.
func (s *Service) GetPost(ctx context.Context, id int64) (*PostView, error) {
	post, err := s.Posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, notFound("post", id)
	}
	photos, err := s.Photos.ListByOwner(ctx, models.PhotoOwnerSchedulePost, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load post photos: %w", err)
	}
	return &PostView{SchedulePost: post, Gallery: models.Gallery(photos, nil)}, nil
}

// CreatePost adds a diary entry to a schedule and attaches its photo.
func (s *Service) CreatePost(ctx context.Context, scheduleID int64, in PostInput) (*models.SchedulePost, *Effects, error) {
	in.normalize()
	if err := s.validate.Validate(in); err != nil {
		return nil, nil, err
	}
	sc, err := s.Schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, nil, err
	}
	if sc == nil {
		return nil, nil, notFound("schedule", scheduleID)
	}

	post, err := s.Posts.Create(ctx, &models.SchedulePost{
		ScheduleID: scheduleID,
		TimeLabel:  in.TimeLabel,
		Title:      in.Title,
		Body:       in.Body,
	})
	if err != nil {
		return nil, nil, err
	}

	eff := &Effects{}
	s.attachPhotos(ctx, models.PhotoOwnerSchedulePost, post.ID, in.Photos, eff)
	return post, eff, nil
}

// UpdatePost overwrites the post and appends any new photos.
func (s *Service) UpdatePost(ctx context.Context, id int64, in PostInput) (*models.SchedulePost, *Effects, error) {
	in.normalize()
	if err := s.validate.Validate(in); err != nil {
		return nil, nil, err
	}
	post, err := s.Posts.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if post == nil {
		return nil, nil, notFound("post", id)
	}

	post.TimeLabel = in.TimeLabel
	post.Title = in.Title
	post.Body = in.Body
	if post, err = s.Posts.Update(ctx, post); err != nil {
		return nil, nil, err
	}

	eff := &Effects{}
	s.attachPhotos(ctx, models.PhotoOwnerSchedulePost, post.ID, in.Photos, eff)
	return post, eff, nil
}

// DeletePost removes the post and its photos.
func (s *Service) DeletePost(ctx context.Context, id int64) (*models.SchedulePost, error) {
	post, err := s.Posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, notFound("post", id)
	}
	if err := s.Posts.Delete(ctx, id); err != nil {
		return nil, err
	}
	return post, nil
}
