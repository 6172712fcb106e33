package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/Kerhoff/tripplanner/internal/enrich"
	"github.com/Kerhoff/tripplanner/internal/models"
	"github.com/Kerhoff/tripplanner/internal/service"
	"github.com/Kerhoff/tripplanner/internal/storage"
	"github.com/go-chi/chi/v5"
)

// multipartMemory is how much of a multipart body is kept in memory before
// spilling to temp files.
const multipartMemory = 8 << 20

// pathID extracts a numeric URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, fmt.Errorf("missing %s in path", name)
	}
	return strconv.ParseInt(raw, 10, 64)
}

// requireID reads a numeric URL parameter. It renders a not-found page and
// returns false when the parameter is not a number.
func (s *Server) requireID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := pathID(r, name)
	if err != nil {
		s.renderStatus(w, r, http.StatusNotFound, msgNotFound)
		return 0, false
	}
	return id, true
}

// requireForm parses the request body, rendering 413 or 400 on failure.
func (s *Server) requireForm(w http.ResponseWriter, r *http.Request) bool {
	err := s.parseForm(w, r)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.renderStatus(w, r, http.StatusRequestEntityTooLarge, "送信されたデータが大きすぎます。")
		return false
	}
	s.logger.WithError(err).Warn("failed to parse form")
	s.renderStatus(w, r, http.StatusBadRequest, "フォームを読み取れませんでした。")
	return false
}

// parseForm reads urlencoded and multipart bodies alike. Body read errors,
// including *http.MaxBytesError, are returned as is.
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+multipartMemory)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return r.ParseForm()
	}
	return r.ParseMultipartForm(multipartMemory)
}

func field(r *http.Request, name string) string {
	return strings.TrimSpace(r.PostFormValue(name))
}

func optString(r *http.Request, name string) *string {
	if v := field(r, name); v != "" {
		return &v
	}
	return nil
}

func optFloat(r *http.Request, name string) *float64 {
	v, err := strconv.ParseFloat(field(r, name), 64)
	if err != nil {
		return nil
	}
	return &v
}

func optInt(r *http.Request, name string) *int {
	v, err := strconv.Atoi(field(r, name))
	if err != nil {
		return nil
	}
	return &v
}

// parseDetails reads the hidden place snapshot fields that browser-side
// autocomplete fills in. Unparseable numbers are dropped.
func parseDetails(r *http.Request) models.PlaceDetails {
	return models.PlaceDetails{
		PlaceID:          optString(r, "place_id"),
		Address:          optString(r, "address"),
		Lat:              optFloat(r, "lat"),
		Lng:              optFloat(r, "lng"),
		PhotoURL:         optString(r, "photo_url"),
		Rating:           optFloat(r, "rating"),
		UserRatingsTotal: optInt(r, "user_ratings_total"),
		Website:          optString(r, "website"),
		Phone:            optString(r, "phone"),
		GoogleURL:        optString(r, "google_url"),
		OpeningHours:     optString(r, "opening_hours"),
	}
}

func parseLookup(r *http.Request) service.LookupInput {
	in := service.LookupInput{
		Enabled:      field(r, "lookup") != "",
		Query:        field(r, "lookup_query"),
		SessionToken: field(r, "session_token"),
	}
	lat, lng := optFloat(r, "bias_lat"), optFloat(r, "bias_lng")
	if lat != nil && lng != nil {
		in.Bias = &enrich.LatLng{Lat: *lat, Lng: *lng}
	}
	return in
}

// parsePhotoURLs decodes the photo_urls JSON array. Anything that is not an
// array of strings yields no URLs.
func parsePhotoURLs(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var items []any
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	urls := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			urls = append(urls, s)
		}
	}
	return urls
}

// parsePhotos collects the photo_urls array and the optional "photo" file.
// The file is read up to one byte past the upload limit so oversize files are
// still rejected by storage rather than truncated silently.
func (s *Server) parsePhotos(r *http.Request) (service.PhotoInput, error) {
	in := service.PhotoInput{URLs: parsePhotoURLs(r.PostFormValue("photo_urls"))}

	file, header, err := r.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return in, nil
	}
	if err != nil {
		return in, fmt.Errorf("failed to read photo: %w", err)
	}
	defer file.Close()

	if header.Filename == "" {
		return in, nil
	}
	data, err := io.ReadAll(io.LimitReader(file, s.maxUploadBytes+1))
	if err != nil {
		return in, fmt.Errorf("failed to read photo: %w", err)
	}
	in.File = &storage.File{Name: header.Filename, Data: data}
	return in, nil
}

func parseTripInput(r *http.Request) service.TripInput {
	return service.TripInput{
		Name:      field(r, "name"),
		StartDate: field(r, "start_date"),
		EndDate:   field(r, "end_date"),
		Note:      field(r, "note"),
	}
}

func (s *Server) parsePlaceInput(r *http.Request) (service.PlaceInput, error) {
	photos, err := s.parsePhotos(r)
	return service.PlaceInput{
		Name:     field(r, "name"),
		Category: field(r, "category"),
		Notes:    field(r, "notes"),
		Details:  parseDetails(r),
		Lookup:   parseLookup(r),
		Photos:   photos,
	}, err
}

func (s *Server) parseScheduleInput(r *http.Request) (service.ScheduleInput, error) {
	photos, err := s.parsePhotos(r)
	return service.ScheduleInput{
		Title:     field(r, "title"),
		Date:      field(r, "date"),
		StartTime: field(r, "start_time"),
		EndTime:   field(r, "end_time"),
		Detail:    field(r, "detail"),
		Details:   parseDetails(r),
		Lookup:    parseLookup(r),
		Photos:    photos,
	}, err
}

func (s *Server) parsePostInput(r *http.Request) (service.PostInput, error) {
	photos, err := s.parsePhotos(r)
	return service.PostInput{
		TimeLabel: field(r, "time_label"),
		Title:     field(r, "title"),
		Body:      field(r, "body"),
		Photos:    photos,
	}, err
}

func parseMemoInput(r *http.Request) service.MemoInput {
	return service.MemoInput{
		TabName: field(r, "tab_name"),
		Body:    field(r, "body"),
	}
}

func (s *Server) parseHotelInput(r *http.Request) (service.HotelInput, error) {
	photos, err := s.parsePhotos(r)
	return service.HotelInput{
		Name:         field(r, "name"),
		Address:      field(r, "address"),
		MapURL:       field(r, "map_url"),
		Website:      field(r, "website"),
		CheckinDate:  field(r, "checkin_date"),
		CheckoutDate: field(r, "checkout_date"),
		Notes:        field(r, "notes"),
		Photos:       photos,
	}, err
}

func parseFlightInput(r *http.Request) service.FlightInput {
	return service.FlightInput{
		Airline:          field(r, "airline"),
		FlightNumber:     field(r, "flight_number"),
		DepartureAirport: field(r, "departure_airport"),
		DepartureTime:    field(r, "departure_time"),
		ArrivalAirport:   field(r, "arrival_airport"),
		ArrivalTime:      field(r, "arrival_time"),
		ReservationCode:  field(r, "reservation_code"),
		Seat:             field(r, "seat"),
		Terminal:         field(r, "terminal"),
		Gate:             field(r, "gate"),
		Notes:            field(r, "notes"),
	}
}

// The *Form helpers prefill edit forms from stored rows.

func tripForm(t *models.Trip) service.TripInput {
	return service.TripInput{Name: t.Name, StartDate: t.StartDate.String(), EndDate: t.EndDate.String(), Note: t.Note}
}

func settingsForm(ts *models.TripSettings) service.SettingsInput {
	var in service.SettingsInput
	if ts != nil && ts.WarikaURL != nil {
		in.WarikaURL = *ts.WarikaURL
	}
	return in
}

func placeForm(p *models.Place) service.PlaceInput {
	return service.PlaceInput{Name: p.Name, Category: p.Category, Notes: p.Notes, Details: p.PlaceDetails}
}

func scheduleForm(sc *models.Schedule) service.ScheduleInput {
	return service.ScheduleInput{
		Title:     sc.Title,
		Date:      sc.Date,
		StartTime: sc.StartTime,
		EndTime:   sc.EndTime,
		Detail:    sc.Detail,
		Details:   sc.PlaceDetails,
	}
}

func postForm(p *models.SchedulePost) service.PostInput {
	return service.PostInput{TimeLabel: p.TimeLabel, Title: p.Title, Body: p.Body}
}

func memoForm(m *models.Memo) service.MemoInput {
	return service.MemoInput{TabName: m.TabName, Body: m.Body}
}

func hotelForm(h *models.Hotel) service.HotelInput {
	return service.HotelInput{
		Name:         h.Name,
		Address:      h.Address,
		MapURL:       h.MapURL,
		Website:      h.Website,
		CheckinDate:  h.CheckinDate.String(),
		CheckoutDate: h.CheckoutDate.String(),
		Notes:        h.Notes,
	}
}

func flightForm(f *models.Flight) service.FlightInput {
	return service.FlightInput{
		Airline:          f.Airline,
		FlightNumber:     f.FlightNumber,
		DepartureAirport: f.DepartureAirport,
		DepartureTime:    f.DepartureTime,
		ArrivalAirport:   f.ArrivalAirport,
		ArrivalTime:      f.ArrivalTime,
		ReservationCode:  f.ReservationCode,
		Seat:             f.Seat,
		Terminal:         f.Terminal,
		Gate:             f.Gate,
		Notes:            f.Notes,
	}
}
