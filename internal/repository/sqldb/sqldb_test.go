package sqldb

import (
	"context"
	"testing"
	"time"

	"github.com/Kerhoff/tripplanner/internal/models"
	"github.com/Kerhoff/tripplanner/internal/repository"
	"github.com/Kerhoff/tripplanner/internal/testutil"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepos(t *testing.T) (*sqlx.DB, repository.Repositories) {
	t.Helper()
	db := testutil.NewTestDB(t)
	return db.DB, NewRepositories(db.DB)
}

func createTrip(t *testing.T, repos repository.Repositories, name string) *models.Trip {
	t.Helper()
	trip, err := repos.Trips.Create(context.Background(), &models.Trip{
		Name:      name,
		StartDate: models.NewDate(2024, time.April, 1),
		EndDate:   models.NewDate(2024, time.April, 5),
	})
	require.NoError(t, err)
	return trip
}

func ptr[T any](v T) *T { return &v }

func TestTripRepo_CRUD(t *testing.T) {
	_, repos := setupRepos(t)
	ctx := context.Background()

	trip := createTrip(t, repos, "Kyoto 2024")
	require.NotZero(t, trip.ID)

	got, err := repos.Trips.GetByID(ctx, trip.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Kyoto 2024", got.Name)
	assert.Equal(t, "2024-04-01", got.StartDate.String())
	assert.Equal(t, "2024-04-05", got.EndDate.String())
	assert.WithinDuration(t, trip.CreatedAt.Time, got.CreatedAt.Time, time.Millisecond)

	got.Name = "Kyoto & Nara"
	got.EndDate = models.Date{}
	_, err = repos.Trips.Update(ctx, got)
	require.NoError(t, err)

	got, err = repos.Trips.GetByID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kyoto & Nara", got.Name)
	assert.True(t, got.EndDate.IsZero())

	missing, err := repos.Trips.GetByID(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = repos.Trips.Update(ctx, &models.Trip{ID: 9999, Name: "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repos.Trips.Delete(ctx, trip.ID))
	assert.ErrorIs(t, repos.Trips.Delete(ctx, trip.ID), repository.ErrNotFound)
}

func TestTripRepo_ListOrder(t *testing.T) {
	_, repos := setupRepos(t)
	ctx := context.Background()

	undated, err := repos.Trips.Create(ctx, &models.Trip{Name: "Someday"})
	require.NoError(t, err)
	older, err := repos.Trips.Create(ctx, &models.Trip{Name: "Sapporo", StartDate: models.NewDate(2023, time.February, 1)})
	require.NoError(t, err)
	newer := createTrip(t, repos, "Kyoto")

	trips, err := repos.Trips.List(ctx)
	require.NoError(t, err)
	require.Len(t, trips, 3)
	assert.Equal(t, []int64{newer.ID, older.ID, undated.ID}, []int64{trips[0].ID, trips[1].ID, trips[2].ID})
}

func TestPlaceRepo_DetailsRoundTrip(t *testing.T) {
	_, repos := setupRepos(t)
	ctx := context.Background()
	trip := createTrip(t, repos, "Kyoto")

	details := models.PlaceDetails{
		PlaceID:          ptr("ChIJ123"),
		Address:          ptr("1 Kinkakujicho"),
		Lat:              ptr(35.0394),
		Lng:              ptr(135.7292),
		PhotoURL:         ptr("https://example.test/p.jpg"),
		Rating:           ptr(4.5),
		UserRatingsTotal: ptr(61234),
		Website:          ptr("https://example.test"),
		Phone:            ptr("075-461-0013"),
		GoogleURL:        ptr("https://maps.google.com/?cid=1"),
		OpeningHours:     ptr("Mon: 9-17\nTue: 9-17"),
	}
	place, err := repos.Places.Create(ctx, &models.Place{
		TripID:       trip.ID,
		Name:         "Kinkaku-ji",
		Category:     models.CategorySpot,
		PlaceDetails: details,
	})
	require.NoError(t, err)

	places, err := repos.Places.ListByTrip(ctx, trip.ID, repository.PlaceFilters{})
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, place.ID, places[0].ID)
	assert.Equal(t, details, places[0].PlaceDetails)

	bare, err := repos.Places.Create(ctx, &models.Place{TripID: trip.ID, Name: "Bare", Category: models.CategoryOther})
	require.NoError(t, err)
	got, err := repos.Places.GetByID(ctx, bare.ID)
	require.NoError(t, err)
	assert.True(t, got.PlaceDetails.IsEmpty())
}

func TestPlaceRepo_LegacyCategoryFilter(t *testing.T) {
	db, repos := setupRepos(t)
	ctx := context.Background()
	trip := createTrip(t, repos, "Kyoto")

	_, err := db.Exec(db.Rebind(`INSERT INTO places (trip_id, name, category, notes, created_at) VALUES (?, ?, ?, '', ?)`),
		trip.ID, "Old cafe", "cafe", models.Now())
	require.NoError(t, err)

	cafes, err := repos.Places.ListByTrip(ctx, trip.ID, repository.PlaceFilters{Category: models.CategoryCafe})
	require.NoError(t, err)
	require.Len(t, cafes, 1)
	assert.Equal(t, models.CategoryCafe, cafes[0].Category)
}

func TestSettingsRepo_Upsert(t *testing.T) {
	db, repos := setupRepos(t)
	ctx := context.Background()
	trip := createTrip(t, repos, "Kyoto")

	first, err := repos.Settings.Upsert(ctx, &models.TripSettings{TripID: trip.ID, WarikaURL: ptr("https://a.example")})
	require.NoError(t, err)
	second, err := repos.Settings.Upsert(ctx, &models.TripSettings{TripID: trip.ID, WarikaURL: ptr("https://b.example")})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM trip_settings`))
	assert.Equal(t, 1, n)

	got, err := repos.Settings.GetByTripID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://b.example", *got.WarikaURL)
}

func TestScheduleRepo_Order(t *testing.T) {
	_, repos := setupRepos(t)
	ctx := context.Background()
	trip := createTrip(t, repos, "Kyoto")
	other := createTrip(t, repos, "Osaka")

	for _, sc := range []*models.Schedule{
		{TripID: trip.ID, Title: "b", Date: "2024-04-02"},
		{TripID: trip.ID, Title: "a", Date: "2024-04-01"},
		{TripID: other.ID, Title: "c", Date: "2024-04-01"},
	} {
		_, err := repos.Schedules.Create(ctx, sc)
		require.NoError(t, err)
	}

	byTrip, err := repos.Schedules.ListByTrip(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, byTrip, 2)
	assert.Equal(t, "a", byTrip[0].Title)

	all, err := repos.Schedules.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{all[0].Title, all[1].Title, all[2].Title})
}

func TestPhotoRepo_ListByOwners(t *testing.T) {
	_, repos := setupRepos(t)
	ctx := context.Background()
	trip := createTrip(t, repos, "Kyoto")

	p1, err := repos.Places.Create(ctx, &models.Place{TripID: trip.ID, Name: "one", Category: models.CategoryOther})
	require.NoError(t, err)
	p2, err := repos.Places.Create(ctx, &models.Place{TripID: trip.ID, Name: "two", Category: models.CategoryOther})
	require.NoError(t, err)

	for _, ph := range []*models.Photo{
		{Owner: models.PhotoOwnerPlace, OwnerID: p1.ID, PhotoURL: "a"},
		{Owner: models.PhotoOwnerPlace, OwnerID: p2.ID, PhotoURL: "b"},
		{Owner: models.PhotoOwnerPlace, OwnerID: p1.ID, PhotoURL: "c"},
	} {
		_, err := repos.Photos.Add(ctx, ph)
		require.NoError(t, err)
	}

	grouped, err := repos.Photos.ListByOwners(ctx, models.PhotoOwnerPlace, []int64{p1.ID, p2.ID})
	require.NoError(t, err)
	require.Len(t, grouped[p1.ID], 2)
	assert.Equal(t, "a", grouped[p1.ID][0].PhotoURL)
	assert.Equal(t, "c", grouped[p1.ID][1].PhotoURL)
	assert.Equal(t, models.PhotoOwnerPlace, grouped[p1.ID][0].Owner)
	require.Len(t, grouped[p2.ID], 1)

	empty, err := repos.Photos.ListByOwners(ctx, models.PhotoOwnerHotel, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = repos.Photos.Add(ctx, &models.Photo{Owner: "videos", OwnerID: 1, PhotoURL: "x"})
	assert.Error(t, err)
}

func TestPhotoRepo_OwnerMustExist(t *testing.T) {
	_, repos := setupRepos(t)

	_, err := repos.Photos.Add(context.Background(), &models.Photo{Owner: models.PhotoOwnerHotel, OwnerID: 12345, PhotoURL: "x"})
	assert.Error(t, err)
}

func TestCascade_DeleteTrip(t *testing.T) {
	db, repos := setupRepos(t)
	ctx := context.Background()
	trip := createTrip(t, repos, "Kyoto")

	place, err := repos.Places.Create(ctx, &models.Place{TripID: trip.ID, Name: "p", Category: models.CategoryOther})
	require.NoError(t, err)
	sc, err := repos.Schedules.Create(ctx, &models.Schedule{TripID: trip.ID, Title: "s"})
	require.NoError(t, err)
	post, err := repos.Posts.Create(ctx, &models.SchedulePost{ScheduleID: sc.ID, Body: "b"})
	require.NoError(t, err)
	hotel, err := repos.Hotels.Create(ctx, &models.Hotel{TripID: trip.ID, Name: "h", CheckinDate: models.NewDate(2024, time.April, 1)})
	require.NoError(t, err)
	_, err = repos.Flights.Create(ctx, &models.Flight{TripID: trip.ID, FlightNumber: "NH1"})
	require.NoError(t, err)
	_, err = repos.Memos.Create(ctx, &models.Memo{TripID: trip.ID, TabName: models.DefaultMemoTab, Body: "m"})
	require.NoError(t, err)
	_, err = repos.Settings.Upsert(ctx, &models.TripSettings{TripID: trip.ID})
	require.NoError(t, err)
	for _, ph := range []*models.Photo{
		{Owner: models.PhotoOwnerPlace, OwnerID: place.ID, PhotoURL: "1"},
		{Owner: models.PhotoOwnerSchedule, OwnerID: sc.ID, PhotoURL: "2"},
		{Owner: models.PhotoOwnerSchedulePost, OwnerID: post.ID, PhotoURL: "3"},
		{Owner: models.PhotoOwnerHotel, OwnerID: hotel.ID, PhotoURL: "4"},
	} {
		_, err := repos.Photos.Add(ctx, ph)
		require.NoError(t, err)
	}

	require.NoError(t, repos.Trips.Delete(ctx, trip.ID))

	for _, table := range []string{
		"trips", "trip_settings", "places", "place_photos", "schedules", "schedule_photos",
		"schedule_posts", "schedule_post_photos", "memos", "hotels", "hotel_photos", "flights",
	} {
		var n int
		require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM `+table))
		assert.Equal(t, 0, n, table)
	}
}

func TestCascade_DeleteSchedule(t *testing.T) {
	db, repos := setupRepos(t)
	ctx := context.Background()
	trip := createTrip(t, repos, "Kyoto")

	sc, err := repos.Schedules.Create(ctx, &models.Schedule{TripID: trip.ID, Title: "s"})
	require.NoError(t, err)
	post, err := repos.Posts.Create(ctx, &models.SchedulePost{ScheduleID: sc.ID, Title: "t"})
	require.NoError(t, err)
	_, err = repos.Photos.Add(ctx, &models.Photo{Owner: models.PhotoOwnerSchedulePost, OwnerID: post.ID, PhotoURL: "x"})
	require.NoError(t, err)

	require.NoError(t, repos.Schedules.Delete(ctx, sc.ID))

	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM schedule_post_photos`))
	assert.Zero(t, n)
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM trips`))
	assert.Equal(t, 1, n)
}

func TestMemoRepo_Tabs(t *testing.T) {
	_, repos := setupRepos(t)
	ctx := context.Background()
	trip := createTrip(t, repos, "Kyoto")

	for _, tab := range []string{"Food", "Shopping", "Food"} {
		_, err := repos.Memos.Create(ctx, &models.Memo{TripID: trip.ID, TabName: tab, Body: "x"})
		require.NoError(t, err)
	}

	tabs, err := repos.Memos.Tabs(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Food", "Shopping"}, tabs)

	food, err := repos.Memos.ListByTrip(ctx, trip.ID, repository.MemoFilters{Tab: "Food"})
	require.NoError(t, err)
	assert.Len(t, food, 2)
}

func TestMemoRepo_DefaultTabIncludesBlank(t *testing.T) {
	db, repos := setupRepos(t)
	ctx := context.Background()
	trip := createTrip(t, repos, "Kyoto")

	_, err := repos.Memos.Create(ctx, &models.Memo{TripID: trip.ID, TabName: models.DefaultMemoTab, Body: "passport"})
	require.NoError(t, err)
	_, err = db.Exec(db.Rebind(`INSERT INTO memos (trip_id, tab_name, body) VALUES (?, '', ?)`), trip.ID, "yen")
	require.NoError(t, err)
	_, err = repos.Memos.Create(ctx, &models.Memo{TripID: trip.ID, TabName: "Food", Body: "matcha"})
	require.NoError(t, err)

	memos, err := repos.Memos.ListByTrip(ctx, trip.ID, repository.MemoFilters{Tab: models.DefaultMemoTab})
	require.NoError(t, err)
	require.Len(t, memos, 2)
	assert.Equal(t, "yen", memos[0].Body)
	assert.Equal(t, "passport", memos[1].Body)
}

func TestHotelAndFlightRepo_RoundTrip(t *testing.T) {
	_, repos := setupRepos(t)
	ctx := context.Background()
	trip := createTrip(t, repos, "Kyoto")

	hotel, err := repos.Hotels.Create(ctx, &models.Hotel{
		TripID:       trip.ID,
		Name:         "Ryokan",
		CheckinDate:  models.NewDate(2024, time.April, 1),
		CheckoutDate: models.NewDate(2024, time.April, 3),
	})
	require.NoError(t, err)
	hotels, err := repos.Hotels.ListByTrip(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, hotels, 1)
	assert.Equal(t, hotel.CheckoutDate, hotels[0].CheckoutDate)

	flight := &models.Flight{
		TripID:           trip.ID,
		Airline:          "ANA",
		FlightNumber:     "NH21",
		DepartureAirport: "HND",
		DepartureTime:    "08:00",
		ArrivalAirport:   "ITM",
		ArrivalTime:      "09:10",
		ReservationCode:  "ABC123",
		Seat:             "12A",
		Terminal:         "2",
		Gate:             "55",
		Notes:            "window",
	}
	_, err = repos.Flights.Create(ctx, flight)
	require.NoError(t, err)
	got, err := repos.Flights.GetByID(ctx, flight.ID)
	require.NoError(t, err)
	got.CreatedAt = flight.CreatedAt
	assert.Equal(t, flight, got)
}
