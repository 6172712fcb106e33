package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Kerhoff/tripplanner/internal/enrich"
	"github.com/Kerhoff/tripplanner/internal/metrics"
	"github.com/Kerhoff/tripplanner/internal/models"
	"github.com/Kerhoff/tripplanner/internal/repository"
	"github.com/Kerhoff/tripplanner/internal/storage"
	"github.com/Kerhoff/tripplanner/internal/validation"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

// Enricher resolves a place query to a details snapshot.
type Enricher interface {
	Lookup(ctx context.Context, q enrich.Query) (*models.PlaceDetails, error)
}

// Service is the central business logic layer that holds all repositories
// and the optional enrichment and storage clients.
type Service struct {
	logger   *logrus.Logger
	validate *validation.Validator
	enricher Enricher
	uploader storage.Uploader
	metrics  *metrics.Metrics
	now      func() time.Time

	Trips     repository.TripRepository
	Settings  repository.TripSettingsRepository
	Places    repository.PlaceRepository
	Schedules repository.ScheduleRepository
	Posts     repository.SchedulePostRepository
	Memos     repository.MemoRepository
	Hotels    repository.HotelRepository
	Flights   repository.FlightRepository
	Photos    repository.PhotoRepository
}

// New creates a new Service. A nil enricher or uploader disables that step.
func New(logger *logrus.Logger, repos repository.Repositories, enricher Enricher, uploader storage.Uploader, m *metrics.Metrics) *Service {
	return &Service{
		logger:    logger,
		validate:  validation.New(),
		enricher:  enricher,
		uploader:  uploader,
		metrics:   m,
		now:       time.Now,
		Trips:     repos.Trips,
		Settings:  repos.Settings,
		Places:    repos.Places,
		Schedules: repos.Schedules,
		Posts:     repos.Posts,
		Memos:     repos.Memos,
		Hotels:    repos.Hotels,
		Flights:   repos.Flights,
		Photos:    repos.Photos,
	}
}

// EnrichmentEnabled reports whether lookups can run.
func (s *Service) EnrichmentEnabled() bool {
	return s.enricher != nil
}

// UploadsEnabled reports whether photo files can be stored.
func (s *Service) UploadsEnabled() bool {
	return s.uploader != nil
}

// Effects describes the best-effort steps around a write. Warnings collects
// every enrichment or storage failure; none of them undo the write.
type Effects struct {
	Enriched    bool
	PhotosAdded int
	Warnings    *multierror.Error
}

func (e *Effects) warn(err error) {
	e.Warnings = multierror.Append(e.Warnings, err)
}

// WarningMessages returns one message per warning.
func (e *Effects) WarningMessages() []string {
	if e == nil || e.Warnings == nil {
		return nil
	}
	msgs := make([]string, 0, len(e.Warnings.Errors))
	for _, err := range e.Warnings.Errors {
		msgs = append(msgs, err.Error())
	}
	return msgs
}

// LookupInput asks for the details snapshot to be resolved server-side.
type LookupInput struct {
	Enabled      bool
	Query        string
	SessionToken string
	Bias         *enrich.LatLng
}

// PhotoInput carries the photos submitted with a form: at most one file to
// upload and any number of already public URLs.
type PhotoInput struct {
	File *storage.File
	URLs []string
}

// today returns the current calendar date.
func (s *Service) today() models.Date {
	t := s.now()
	return models.NewDate(t.Year(), t.Month(), t.Day())
}

// notFound wraps repository.ErrNotFound with the missing entity.
func notFound(entity string, id int64) error {
	return fmt.Errorf("%s %d: %w", entity, id, repository.ErrNotFound)
}

// enrichDetails runs the lookup when asked for and merges the result over the
// submitted snapshot. Failures become warnings and leave submitted unchanged.
func (s *Service) enrichDetails(ctx context.Context, fallbackQuery string, submitted models.PlaceDetails, in LookupInput, eff *Effects) models.PlaceDetails {
	if !in.Enabled || submitted.HasLocation() {
		return submitted
	}
	if s.enricher == nil {
		s.metrics.Enrichment(metrics.OutcomeDisabled)
		return submitted
	}

	q := enrich.Query{
		Text:         strings.TrimSpace(in.Query),
		SessionToken: in.SessionToken,
		Bias:         in.Bias,
	}
	if q.Text == "" {
		q.Text = fallbackQuery
	}
	if submitted.PlaceID != nil {
		q.PlaceID = *submitted.PlaceID
	}

	found, err := s.enricher.Lookup(ctx, q)
	if err != nil {
		outcome := metrics.OutcomeError
		if errors.Is(err, enrich.ErrNoMatch) {
			outcome = metrics.OutcomeNoMatch
		}
		s.metrics.Enrichment(outcome)
		s.logger.WithError(err).WithField("query", q.Text).Warn("Place enrichment failed")
		eff.warn(fmt.Errorf("place lookup for %q failed: %w", q.Text, err))
		return submitted
	}

	s.metrics.Enrichment(metrics.OutcomeSuccess)
	eff.Enriched = true
	return mergeDetails(submitted, *found)
}

// mergeDetails prefers fields from found and keeps submitted ones it lacks.
func mergeDetails(submitted, found models.PlaceDetails) models.PlaceDetails {
	out := submitted
	if found.PlaceID != nil {
		out.PlaceID = found.PlaceID
	}
	if found.Address != nil {
		out.Address = found.Address
	}
	if found.Lat != nil && found.Lng != nil {
		out.Lat, out.Lng = found.Lat, found.Lng
	}
	if found.PhotoURL != nil {
		out.PhotoURL = found.PhotoURL
	}
	if found.Rating != nil {
		out.Rating = found.Rating
	}
	if found.UserRatingsTotal != nil {
		out.UserRatingsTotal = found.UserRatingsTotal
	}
	if found.Website != nil {
		out.Website = found.Website
	}
	if found.Phone != nil {
		out.Phone = found.Phone
	}
	if found.GoogleURL != nil {
		out.GoogleURL = found.GoogleURL
	}
	if found.OpeningHours != nil {
		out.OpeningHours = found.OpeningHours
	}
	return out
}

// attachPhotos stores the submitted photos for an owner row that already
// exists. Every failure is a warning; nothing is rolled back.
func (s *Service) attachPhotos(ctx context.Context, owner models.PhotoOwner, ownerID int64, in PhotoInput, eff *Effects) {
	for _, url := range in.URLs {
		url = strings.TrimSpace(url)
		if url == "" {
			continue
		}
		s.addPhoto(ctx, owner, ownerID, url, eff)
	}

	if in.File == nil {
		return
	}
	if s.uploader == nil {
		s.metrics.Upload(metrics.OutcomeDisabled)
		eff.warn(errors.New("photo uploads are not configured; the photo was not saved"))
		return
	}

	url, err := s.uploader.Upload(ctx, fmt.Sprintf("%s/%d", owner, ownerID), *in.File)
	if err != nil {
		outcome := metrics.OutcomeError
		if errors.Is(err, storage.ErrTooLarge) || errors.Is(err, storage.ErrUnsupportedType) || errors.Is(err, storage.ErrEmpty) {
			outcome = metrics.OutcomeRejected
		}
		s.metrics.Upload(outcome)
		s.logger.WithError(err).WithFields(logrus.Fields{
			"owner":    owner,
			"owner_id": ownerID,
		}).Warn("Photo upload failed")
		eff.warn(fmt.Errorf("photo %q was not saved: %w", in.File.Name, err))
		return
	}
	s.metrics.Upload(metrics.OutcomeSuccess)
	s.addPhoto(ctx, owner, ownerID, url, eff)
}

func (s *Service) addPhoto(ctx context.Context, owner models.PhotoOwner, ownerID int64, url string, eff *Effects) {
	_, err := s.Photos.Add(ctx, &models.Photo{Owner: owner, OwnerID: ownerID, PhotoURL: url})
	if err != nil {
		s.logger.WithError(err).WithField("owner", owner).Error("Failed to save photo row")
		eff.warn(fmt.Errorf("photo could not be recorded: %w", err))
		return
	}
	eff.PhotosAdded++
}

// galleries loads the photo galleries for a set of owners in one query.
func (s *Service) galleries(ctx context.Context, owner models.PhotoOwner, ids []int64) (map[int64][]*models.Photo, error) {
	grouped, err := s.Photos.ListByOwners(ctx, owner, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s photos: %w", owner, err)
	}
	return grouped, nil
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

// cleanDetails trims the free-text snapshot fields and drops empty ones.
func cleanDetails(d models.PlaceDetails) models.PlaceDetails {
	d.PlaceID = trimmed(d.PlaceID)
	d.Address = trimmed(d.Address)
	d.PhotoURL = trimmed(d.PhotoURL)
	d.Website = trimmed(d.Website)
	d.Phone = trimmed(d.Phone)
	d.GoogleURL = trimmed(d.GoogleURL)
	d.OpeningHours = trimmed(d.OpeningHours)
	return d
}
