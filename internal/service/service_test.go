package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/Kerhoff/tripplanner/internal/config"
	"github.com/Kerhoff/tripplanner/internal/enrich"
	"github.com/Kerhoff/tripplanner/internal/metrics"
	"github.com/Kerhoff/tripplanner/internal/models"
	"github.com/Kerhoff/tripplanner/internal/repository"
	"github.com/Kerhoff/tripplanner/internal/repository/sqldb"
	"github.com/Kerhoff/tripplanner/internal/storage"
	"github.com/Kerhoff/tripplanner/internal/testutil"
	"github.com/Kerhoff/tripplanner/internal/validation"
	"github.com/Kerhoff/tripplanner/pkg/logger"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnricher struct {
	details *models.PlaceDetails
	err     error
	calls   []enrich.Query
}

func (f *fakeEnricher) Lookup(ctx context.Context, q enrich.Query) (*models.PlaceDetails, error) {
	f.calls = append(f.calls, q)
	if f.err != nil {
		return nil, f.err
	}
	d := *f.details
	return &d, nil
}

type fakeUploader struct {
	url     string
	err     error
	folders []string
}

func (f *fakeUploader) Upload(ctx context.Context, folder string, file storage.File) (string, error) {
	f.folders = append(f.folders, folder)
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type fixture struct {
	svc     *Service
	db      *config.Database
	metrics *metrics.Metrics
}

func setupService(t *testing.T, enricher Enricher, uploader storage.Uploader) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	m := metrics.New()
	svc := New(logger.Discard(), sqldb.NewRepositories(db.DB), enricher, uploader, m)
	svc.now = func() time.Time { return time.Date(2024, 4, 3, 9, 0, 0, 0, time.UTC) }
	return &fixture{svc: svc, db: db, metrics: m}
}

func (f *fixture) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, f.db.Get(&n, `SELECT COUNT(*) FROM `+table))
	return n
}

func (f *fixture) createTrip(t *testing.T) *models.Trip {
	t.Helper()
	trip, err := f.svc.CreateTrip(context.Background(), TripInput{
		Name:      "Kyoto 2024",
		StartDate: "2024-04-01",
		EndDate:   "2024-04-05",
	})
	require.NoError(t, err)
	return trip
}

func ptr[T any](v T) *T { return &v }

func TestKyotoExample(t *testing.T) {
	enricher := &fakeEnricher{details: &models.PlaceDetails{
		PlaceID: ptr("ChIJvUbrwCCoAWARX2QiHCsn5A4"),
		Lat:     ptr(35.0394),
		Lng:     ptr(135.7292),
	}}
	f := setupService(t, enricher, nil)
	ctx := context.Background()

	trip := f.createTrip(t)
	assert.Equal(t, models.NewDate(2024, time.April, 1), trip.StartDate)
	assert.Equal(t, 4, trip.Nights())

	place, eff, err := f.svc.CreatePlace(ctx, trip.ID, PlaceInput{
		Name:   "Kinkaku-ji",
		Lookup: LookupInput{Enabled: true},
		Photos: PhotoInput{URLs: []string{"https://example.test/kinkaku.jpg"}},
	})
	require.NoError(t, err)
	assert.True(t, eff.Enriched)
	assert.Equal(t, 1, eff.PhotosAdded)
	assert.Nil(t, eff.Warnings)
	require.Len(t, enricher.calls, 1)
	assert.Equal(t, "Kinkaku-ji", enricher.calls[0].Text)

	places, err := f.svc.ListPlaces(ctx, trip.ID, "")
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, place.ID, places[0].ID)
	require.True(t, places[0].HasLocation())
	assert.Equal(t, 35.0394, *places[0].Lat)
	assert.Equal(t, 135.7292, *places[0].Lng)
	assert.Equal(t, []string{"https://example.test/kinkaku.jpg"}, places[0].Gallery)

	require.NoError(t, f.svc.DeleteTrip(ctx, trip.ID))
	assert.Equal(t, 0, f.count(t, "places"))
	assert.Equal(t, 0, f.count(t, "place_photos"))
}

func TestCreatePlace_EnrichmentFailureStillInserts(t *testing.T) {
	enricher := &fakeEnricher{err: enrich.ErrQuotaExceeded}
	f := setupService(t, enricher, nil)
	ctx := context.Background()
	trip := f.createTrip(t)

	place, eff, err := f.svc.CreatePlace(ctx, trip.ID, PlaceInput{
		Name:   "Fushimi Inari",
		Lookup: LookupInput{Enabled: true},
	})
	require.NoError(t, err)
	assert.False(t, eff.Enriched)
	require.NotNil(t, eff.Warnings)
	assert.Len(t, eff.Warnings.Errors, 1)
	assert.ErrorIs(t, eff.Warnings, enrich.ErrQuotaExceeded)

	assert.Equal(t, 1, f.count(t, "places"))
	got, err := f.svc.GetPlace(ctx, place.ID)
	require.NoError(t, err)
	assert.True(t, got.PlaceDetails.IsEmpty())
	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.EnrichmentLookups.WithLabelValues(metrics.OutcomeError)))
}

func TestCreateSchedule_EnrichmentFailureStillInserts(t *testing.T) {
	f := setupService(t, &fakeEnricher{err: enrich.ErrNoMatch}, nil)
	ctx := context.Background()
	trip := f.createTrip(t)

	sc, eff, err := f.svc.CreateSchedule(ctx, trip.ID, ScheduleInput{
		Title:  "Arashiyama",
		Date:   "2024-04-02",
		Lookup: LookupInput{Enabled: true, Query: "Arashiyama bamboo grove"},
	})
	require.NoError(t, err)
	require.NotNil(t, eff.Warnings)
	assert.Equal(t, 1, f.count(t, "schedules"))
	assert.Nil(t, sc.Lat)
	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.EnrichmentLookups.WithLabelValues(metrics.OutcomeNoMatch)))
}

func TestCreatePlace_UploadFailureKeepsPlace(t *testing.T) {
	uploader := &fakeUploader{err: &storage.StorageError{Op: "upload", Key: "x", Err: errors.New("bucket unreachable")}}
	f := setupService(t, nil, uploader)
	ctx := context.Background()
	trip := f.createTrip(t)

	place, eff, err := f.svc.CreatePlace(ctx, trip.ID, PlaceInput{
		Name:   "Nishiki Market",
		Photos: PhotoInput{File: &storage.File{Name: "market.jpg", Data: []byte{1, 2, 3}}},
	})
	require.NoError(t, err)
	require.NotNil(t, place)
	assert.Equal(t, 0, eff.PhotosAdded)

	var se *storage.StorageError
	assert.ErrorAs(t, eff.Warnings, &se)

	assert.Equal(t, 1, f.count(t, "places"))
	assert.Equal(t, 0, f.count(t, "place_photos"))
	assert.Equal(t, []string{"places/" + strconv.FormatInt(place.ID, 10)}, uploader.folders)
	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.PhotoUploads.WithLabelValues(metrics.OutcomeError)))
}

func TestCreatePlace_UploadSuccess(t *testing.T) {
	uploader := &fakeUploader{url: "https://cdn.example.test/places/1/abc.jpg"}
	f := setupService(t, nil, uploader)
	ctx := context.Background()
	trip := f.createTrip(t)

	place, eff, err := f.svc.CreatePlace(ctx, trip.ID, PlaceInput{
		Name: "Ginkaku-ji",
		Photos: PhotoInput{
			File: &storage.File{Name: "a.jpg", Data: []byte{1}},
			URLs: []string{"https://example.test/1.jpg", " ", "https://example.test/1.jpg"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, eff.PhotosAdded)

	view, err := f.svc.GetPlace(ctx, place.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.test/1.jpg", "https://cdn.example.test/places/1/abc.jpg"}, view.Gallery)
}

func TestCreatePlace_UploadsDisabledWarns(t *testing.T) {
	f := setupService(t, nil, nil)
	trip := f.createTrip(t)

	_, eff, err := f.svc.CreatePlace(context.Background(), trip.ID, PlaceInput{
		Name:   "Pontocho",
		Photos: PhotoInput{File: &storage.File{Name: "a.jpg", Data: []byte{1}}},
	})
	require.NoError(t, err)
	assert.Len(t, eff.WarningMessages(), 1)
	assert.Equal(t, 1, f.count(t, "places"))
}

func TestCreatePlace_ValidationBeforeExternalCalls(t *testing.T) {
	enricher := &fakeEnricher{details: &models.PlaceDetails{}}
	uploader := &fakeUploader{url: "u"}
	f := setupService(t, enricher, uploader)
	trip := f.createTrip(t)

	_, _, err := f.svc.CreatePlace(context.Background(), trip.ID, PlaceInput{
		Name:   "   ",
		Lookup: LookupInput{Enabled: true},
		Photos: PhotoInput{File: &storage.File{Name: "a.jpg", Data: []byte{1}}},
	})
	require.Error(t, err)
	assert.ErrorAs(t, err, new(*validation.Error))
	assert.Empty(t, enricher.calls)
	assert.Empty(t, uploader.folders)
	assert.Equal(t, 0, f.count(t, "places"))
}

func TestCreatePlace_LookupRules(t *testing.T) {
	enricher := &fakeEnricher{details: &models.PlaceDetails{Address: ptr("Kyoto")}}
	f := setupService(t, enricher, nil)
	ctx := context.Background()
	trip := f.createTrip(t)

	// No lookup requested.
	_, eff, err := f.svc.CreatePlace(ctx, trip.ID, PlaceInput{Name: "A"})
	require.NoError(t, err)
	assert.False(t, eff.Enriched)

	// The browser already resolved a location.
	_, eff, err = f.svc.CreatePlace(ctx, trip.ID, PlaceInput{
		Name:    "B",
		Details: models.PlaceDetails{Lat: ptr(1.0), Lng: ptr(2.0)},
		Lookup:  LookupInput{Enabled: true},
	})
	require.NoError(t, err)
	assert.False(t, eff.Enriched)
	assert.Empty(t, enricher.calls)

	// A bare place id is looked up by id with the session token.
	place, eff, err := f.svc.CreatePlace(ctx, trip.ID, PlaceInput{
		Name:    "C",
		Details: models.PlaceDetails{PlaceID: ptr("pid-1"), Website: ptr("https://c.example")},
		Lookup:  LookupInput{Enabled: true, SessionToken: "tok"},
	})
	require.NoError(t, err)
	assert.True(t, eff.Enriched)
	require.Len(t, enricher.calls, 1)
	assert.Equal(t, "pid-1", enricher.calls[0].PlaceID)
	assert.Equal(t, "tok", enricher.calls[0].SessionToken)
	assert.Equal(t, "Kyoto", *place.Address)
	assert.Equal(t, "https://c.example", *place.Website)
}

func TestCreatePlace_EnrichmentDisabled(t *testing.T) {
	f := setupService(t, nil, nil)
	trip := f.createTrip(t)

	_, eff, err := f.svc.CreatePlace(context.Background(), trip.ID, PlaceInput{
		Name:   "Tofuku-ji",
		Lookup: LookupInput{Enabled: true},
	})
	require.NoError(t, err)
	assert.False(t, eff.Enriched)
	assert.Nil(t, eff.Warnings)
	assert.False(t, f.svc.EnrichmentEnabled())
}

func TestPlaceCategories(t *testing.T) {
	f := setupService(t, nil, nil)
	ctx := context.Background()
	trip := f.createTrip(t)

	for _, in := range []PlaceInput{
		{Name: "Ramen", Category: "restaurant"},
		{Name: "Kissa", Category: models.CategoryCafe},
		{Name: "Mystery", Category: "karaoke"},
	} {
		_, _, err := f.svc.CreatePlace(ctx, trip.ID, in)
		require.NoError(t, err)
	}

	all, err := f.svc.ListPlaces(ctx, trip.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	restaurants, err := f.svc.ListPlaces(ctx, trip.ID, "restaurant")
	require.NoError(t, err)
	require.Len(t, restaurants, 1)
	assert.Equal(t, models.CategoryRestaurant, restaurants[0].Category)

	other, err := f.svc.ListPlaces(ctx, trip.ID, models.CategoryOther)
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, "Mystery", other[0].Name)
}

func TestUpdatePlace(t *testing.T) {
	f := setupService(t, nil, nil)
	ctx := context.Background()
	trip := f.createTrip(t)

	place, _, err := f.svc.CreatePlace(ctx, trip.ID, PlaceInput{Name: "Old", Notes: "n"})
	require.NoError(t, err)

	_, _, err = f.svc.UpdatePlace(ctx, place.ID, PlaceInput{
		Name:     "New",
		Category: "izakaya",
		Details:  models.PlaceDetails{Address: ptr(" Gion ")},
	})
	require.NoError(t, err)

	got, err := f.svc.GetPlace(ctx, place.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)
	assert.Equal(t, models.CategoryIzakaya, got.Category)
	assert.Equal(t, "", got.Notes)
	assert.Equal(t, "Gion", *got.Address)

	_, _, err = f.svc.UpdatePlace(ctx, 9999, PlaceInput{Name: "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSaveSettings_Upserts(t *testing.T) {
	f := setupService(t, nil, nil)
	ctx := context.Background()
	trip := f.createTrip(t)

	empty, err := f.svc.GetSettings(ctx, trip.ID)
	require.NoError(t, err)
	assert.Zero(t, empty.ID)

	first, err := f.svc.SaveSettings(ctx, trip.ID, SettingsInput{WarikaURL: "https://warikan.example/a"})
	require.NoError(t, err)
	second, err := f.svc.SaveSettings(ctx, trip.ID, SettingsInput{WarikaURL: "https://warikan.example/b"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	assert.Equal(t, 1, f.count(t, "trip_settings"))
	got, err := f.svc.GetSettings(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://warikan.example/b", *got.WarikaURL)

	_, err = f.svc.SaveSettings(ctx, trip.ID, SettingsInput{WarikaURL: "not a url"})
	assert.ErrorAs(t, err, new(*validation.Error))

	_, err = f.svc.SaveSettings(ctx, 9999, SettingsInput{})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteTrip_Cascades(t *testing.T) {
	uploader := &fakeUploader{url: "https://cdn.example.test/x.jpg"}
	f := setupService(t, nil, uploader)
	ctx := context.Background()
	trip := f.createTrip(t)
	other := f.createTrip(t)
	photo := PhotoInput{URLs: []string{"https://example.test/p.jpg"}}

	_, err := f.svc.SaveSettings(ctx, trip.ID, SettingsInput{WarikaURL: "https://warikan.example/a"})
	require.NoError(t, err)
	_, _, err = f.svc.CreatePlace(ctx, trip.ID, PlaceInput{Name: "P", Photos: photo})
	require.NoError(t, err)
	sc, _, err := f.svc.CreateSchedule(ctx, trip.ID, ScheduleInput{Title: "S", Photos: photo})
	require.NoError(t, err)
	_, _, err = f.svc.CreatePost(ctx, sc.ID, PostInput{Body: "day one", Photos: photo})
	require.NoError(t, err)
	_, err = f.svc.CreateMemo(ctx, trip.ID, MemoInput{Body: "bring cash"})
	require.NoError(t, err)
	_, _, err = f.svc.CreateHotel(ctx, trip.ID, HotelInput{Name: "H", Photos: photo})
	require.NoError(t, err)
	_, err = f.svc.CreateFlight(ctx, trip.ID, FlightInput{FlightNumber: "NH 21"})
	require.NoError(t, err)
	_, err = f.svc.CreateMemo(ctx, other.ID, MemoInput{Body: "untouched"})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteTrip(ctx, trip.ID))

	for _, table := range []string{
		"trip_settings", "places", "place_photos", "schedules", "schedule_photos",
		"schedule_posts", "schedule_post_photos", "hotels", "hotel_photos", "flights",
	} {
		assert.Equal(t, 0, f.count(t, table), table)
	}
	assert.Equal(t, 1, f.count(t, "memos"))
	assert.Equal(t, 1, f.count(t, "trips"))

	err = f.svc.DeleteTrip(ctx, trip.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateTrip_Validation(t *testing.T) {
	f := setupService(t, nil, nil)

	_, err := f.svc.CreateTrip(context.Background(), TripInput{Name: "x", StartDate: "2024-04-05", EndDate: "2024-04-01"})
	var ve *validation.Error
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "end_date")

	_, err = f.svc.CreateTrip(context.Background(), TripInput{Name: "x", StartDate: "April"})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "start_date")
	assert.Equal(t, 0, f.count(t, "trips"))
}

func TestChildCreate_UnknownTrip(t *testing.T) {
	f := setupService(t, nil, nil)
	ctx := context.Background()

	_, _, err := f.svc.CreatePlace(ctx, 42, PlaceInput{Name: "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = f.svc.CreateMemo(ctx, 42, MemoInput{Body: "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, _, err = f.svc.CreatePost(ctx, 42, PostInput{Title: "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSchedules_RoundTripAndSplit(t *testing.T) {
	f := setupService(t, nil, nil)
	ctx := context.Background()
	trip := f.createTrip(t)

	for _, in := range []ScheduleInput{
		{Title: "Past early", Date: "2024-04-01"},
		{Title: "Past late", Date: "2024-04-02"},
		{Title: "Undated"},
		{Title: "Today", Date: "2024-04-03", StartTime: "10:00", EndTime: "12:00", Detail: "tea"},
		{Title: "Tomorrow", Date: "2024-04-04"},
	} {
		_, _, err := f.svc.CreateSchedule(ctx, trip.ID, in)
		require.NoError(t, err)
	}

	list, err := f.svc.ListSchedules(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Today", "Tomorrow", "Undated"}, scheduleTitles(list.Upcoming))
	assert.Equal(t, []string{"Past late", "Past early"}, scheduleTitles(list.Past))

	today := list.Upcoming[0]
	assert.Equal(t, "2024-04-03", today.Date)
	assert.Equal(t, "10:00", today.StartTime)
	assert.Equal(t, "12:00", today.EndTime)
	assert.Equal(t, "tea", today.Detail)

	overview, err := f.svc.GetTripOverview(ctx, trip.ID)
	require.NoError(t, err)
	require.NotNil(t, overview.NextSchedule)
	assert.Equal(t, "Today", overview.NextSchedule.Title)
	assert.Equal(t, 5, overview.Counts.Schedules)
}

func scheduleTitles(views []*ScheduleView) []string {
	titles := make([]string, len(views))
	for i, v := range views {
		titles[i] = v.Title
	}
	return titles
}

func TestPosts(t *testing.T) {
	f := setupService(t, nil, nil)
	ctx := context.Background()
	trip := f.createTrip(t)
	sc, _, err := f.svc.CreateSchedule(ctx, trip.ID, ScheduleInput{Title: "Day 1"})
	require.NoError(t, err)

	_, _, err = f.svc.CreatePost(ctx, sc.ID, PostInput{TimeLabel: "09:00"})
	var ve *validation.Error
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "title")

	post, _, err := f.svc.CreatePost(ctx, sc.ID, PostInput{TimeLabel: "09:00", Body: "Breakfast"})
	require.NoError(t, err)

	_, _, err = f.svc.UpdatePost(ctx, post.ID, PostInput{TimeLabel: "08:30", Title: "Breakfast", Body: "Onigiri"})
	require.NoError(t, err)

	detail, err := f.svc.GetScheduleDetail(ctx, sc.ID)
	require.NoError(t, err)
	require.Len(t, detail.Posts, 1)
	assert.Equal(t, "08:30", detail.Posts[0].TimeLabel)
	assert.Equal(t, "Onigiri", detail.Posts[0].Body)
	assert.Equal(t, trip.ID, detail.Trip.ID)

	deleted, err := f.svc.DeletePost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, sc.ID, deleted.ScheduleID)
	assert.Equal(t, 0, f.count(t, "schedule_posts"))
}

func TestMemos_Tabs(t *testing.T) {
	f := setupService(t, nil, nil)
	ctx := context.Background()
	trip := f.createTrip(t)

	for _, in := range []MemoInput{
		{Body: "pack adapter"},
		{TabName: "Food", Body: "yudofu"},
		{TabName: "Food", Body: "matcha"},
	} {
		_, err := f.svc.CreateMemo(ctx, trip.ID, in)
		require.NoError(t, err)
	}

	all, err := f.svc.ListMemos(ctx, trip.ID, "")
	require.NoError(t, err)
	assert.Len(t, all.Memos, 3)
	assert.ElementsMatch(t, []string{"Food", models.DefaultMemoTab}, all.Tabs)

	food, err := f.svc.ListMemos(ctx, trip.ID, "Food")
	require.NoError(t, err)
	require.Len(t, food.Memos, 2)
	assert.Equal(t, "matcha", food.Memos[0].Body)

	_, err = f.svc.CreateMemo(ctx, trip.ID, MemoInput{Body: "  "})
	assert.ErrorAs(t, err, new(*validation.Error))
}

func TestHotels(t *testing.T) {
	f := setupService(t, nil, nil)
	ctx := context.Background()
	trip := f.createTrip(t)

	_, _, err := f.svc.CreateHotel(ctx, trip.ID, HotelInput{Name: "Ryokan", CheckinDate: "2024-04-03", CheckoutDate: "2024-04-01"})
	var ve *validation.Error
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "checkout_date")

	hotel, _, err := f.svc.CreateHotel(ctx, trip.ID, HotelInput{
		Name:         "Ryokan",
		CheckinDate:  "2024-04-01",
		CheckoutDate: "2024-04-03",
		MapURL:       "https://maps.example/ryokan",
		Photos:       PhotoInput{URLs: []string{"https://example.test/room.jpg"}},
	})
	require.NoError(t, err)

	hotels, err := f.svc.ListHotels(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, hotels, 1)
	assert.Equal(t, hotel.ID, hotels[0].ID)
	assert.Equal(t, models.NewDate(2024, time.April, 1), hotels[0].CheckinDate)
	assert.Equal(t, []string{"https://example.test/room.jpg"}, hotels[0].Gallery)

	_, _, err = f.svc.UpdateHotel(ctx, hotel.ID, HotelInput{Name: "Ryokan Annex"})
	require.NoError(t, err)
	got, err := f.svc.GetHotel(ctx, hotel.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ryokan Annex", got.Name)
	assert.True(t, got.CheckinDate.IsZero())
}

func TestFlights(t *testing.T) {
	f := setupService(t, nil, nil)
	ctx := context.Background()
	trip := f.createTrip(t)

	_, err := f.svc.CreateFlight(ctx, trip.ID, FlightInput{Seat: "12A"})
	assert.ErrorAs(t, err, new(*validation.Error))

	flight, err := f.svc.CreateFlight(ctx, trip.ID, FlightInput{
		Airline:          "ANA",
		FlightNumber:     "nh 21",
		DepartureAirport: "hnd",
		DepartureTime:    "2024-04-01 08:00",
		ArrivalAirport:   "itm",
	})
	require.NoError(t, err)
	assert.Equal(t, "ANA NH 21", flight.Label())

	flights, err := f.svc.ListFlights(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, flights, 1)
	assert.Equal(t, "HND", flights[0].DepartureAirport)
	assert.Equal(t, "2024-04-01 08:00", flights[0].DepartureTime)

	_, err = f.svc.DeleteFlight(ctx, flight.ID)
	require.NoError(t, err)
	_, err = f.svc.GetFlight(ctx, flight.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetHome(t *testing.T) {
	f := setupService(t, nil, nil)
	ctx := context.Background()
	trip := f.createTrip(t)

	home, err := f.svc.GetHome(ctx)
	require.NoError(t, err)
	assert.Len(t, home.Trips, 1)
	assert.Nil(t, home.NextSchedule)

	_, _, err = f.svc.CreateSchedule(ctx, trip.ID, ScheduleInput{Title: "Kiyomizu", Date: "2024-04-04"})
	require.NoError(t, err)

	home, err = f.svc.GetHome(ctx)
	require.NoError(t, err)
	require.NotNil(t, home.NextSchedule)
	assert.Equal(t, "Kiyomizu", home.NextSchedule.Title)
	assert.Equal(t, trip.ID, home.NextTrip.ID)
}

func TestNextSchedule(t *testing.T) {
	today := models.NewDate(2024, time.April, 3)
	s := func(id int64, date string) *models.Schedule { return &models.Schedule{ID: id, Date: date} }

	tests := []struct {
		name      string
		schedules []*models.Schedule
		want      int64
	}{
		{"first on or after today", []*models.Schedule{s(1, ""), s(2, "2024-04-01"), s(3, "2024-04-03"), s(4, "2024-04-05")}, 3},
		{"all past picks first dated", []*models.Schedule{s(1, ""), s(2, "2024-03-01"), s(3, "2024-03-02")}, 2},
		{"undated only picks first", []*models.Schedule{s(7, ""), s(8, "")}, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextSchedule(tt.schedules, today)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.ID)
		})
	}

	assert.Nil(t, NextSchedule(nil, today))
}

func TestSplitSchedules(t *testing.T) {
	today := models.NewDate(2024, time.April, 3)
	in := []*models.Schedule{
		{ID: 1, Date: "2024-04-05"},
		{ID: 2, Date: ""},
		{ID: 3, Date: "2024-04-01"},
		{ID: 4, Date: "2024-04-03"},
		{ID: 5, Date: "someday"},
		{ID: 6, Date: "2024-04-01"},
	}

	upcoming, past := SplitSchedules(in, today)
	assert.Equal(t, []int64{4, 1, 2, 5}, scheduleIDs(upcoming))
	assert.Equal(t, []int64{6, 3}, scheduleIDs(past))
}

func scheduleIDs(schedules []*models.Schedule) []int64 {
	ids := make([]int64, len(schedules))
	for i, s := range schedules {
		ids[i] = s.ID
	}
	return ids
}
