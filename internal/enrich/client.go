// Package enrich looks places up in the Google Places API (New) and turns the
// best match into a models.PlaceDetails snapshot.
package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Kerhoff/tripplanner/internal/config"
	"github.com/Kerhoff/tripplanner/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	defaultBurst   = 2
	defaultTimeout = 15 * time.Second

	// Bias radius in meters around Query.Bias.
	biasRadius = 50000.0

	photoMaxWidth = 800
)

// Field masks select only what goes into the snapshot.
var (
	detailFields = []string{
		"id", "formattedAddress", "location", "photos", "rating", "userRatingCount",
		"websiteUri", "nationalPhoneNumber", "googleMapsUri", "regularOpeningHours",
	}
	searchFieldMask = "places." + strings.Join(detailFields, ",places.")
	detailFieldMask = strings.Join(detailFields, ",")
)

var (
	ErrBadRequest    = errors.New("places: bad request")
	ErrForbidden     = errors.New("places: forbidden (check API key)")
	ErrQuotaExceeded = errors.New("places: quota exceeded")
	ErrServer        = errors.New("places: server error")
	ErrNoMatch       = errors.New("places: no match")
)

// LatLng is a coordinate pair used to bias a search.
type LatLng struct {
	Lat float64
	Lng float64
}

// Query describes one lookup. When PlaceID is set the place is fetched
// directly and Text is ignored.
type Query struct {
	Text         string
	PlaceID      string
	SessionToken string
	Bias         *LatLng
}

// Client is a rate-limited Places API client.
type Client struct {
	http     *http.Client
	limiter  *rate.Limiter
	baseURL  string
	apiKey   string
	language string
	logger   *logrus.Logger
}

// New creates a new Places client. A zero timeout uses the default.
func New(cfg config.PlacesConfig, timeout time.Duration, logger *logrus.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rps := cfg.RPS
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		http:     &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(rate.Limit(rps), defaultBurst),
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		language: cfg.Language,
		logger:   logger,
	}
}

// Lookup returns the best match for q. Fields the API does not return are
// left nil.
func (c *Client) Lookup(ctx context.Context, q Query) (*models.PlaceDetails, error) {
	if q.PlaceID != "" {
		return c.details(ctx, q)
	}
	if strings.TrimSpace(q.Text) == "" {
		return nil, ErrBadRequest
	}
	return c.search(ctx, q)
}

func (c *Client) search(ctx context.Context, q Query) (*models.PlaceDetails, error) {
	req := searchRequest{
		TextQuery:      q.Text,
		LanguageCode:   c.language,
		MaxResultCount: 1,
	}
	if q.Bias != nil {
		req.LocationBias = &locationBias{Circle: circle{
			Center: latLng{Latitude: q.Bias.Lat, Longitude: q.Bias.Lng},
			Radius: biasRadius,
		}}
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/v1/places:searchText", nil, searchFieldMask, payload)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if len(resp.Places) == 0 {
		return nil, ErrNoMatch
	}
	return c.toDetails(resp.Places[0]), nil
}

func (c *Client) details(ctx context.Context, q Query) (*models.PlaceDetails, error) {
	query := url.Values{}
	if c.language != "" {
		query.Set("languageCode", c.language)
	}
	if q.SessionToken != "" {
		query.Set("sessionToken", q.SessionToken)
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/v1/places/"+url.PathEscape(q.PlaceID), query, detailFieldMask, nil)
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, ErrNoMatch
		}
		return nil, err
	}

	var p rawPlace
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode place: %w", err)
	}
	return c.toDetails(p), nil
}

var errNotFound = errors.New("places: not found")

// doRequest executes an HTTP request with rate limiting.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, fieldMask string, payload []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
	}).Debug("places request")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, errNotFound
	case http.StatusTooManyRequests:
		return nil, ErrQuotaExceeded
	case http.StatusBadRequest:
		return nil, ErrBadRequest
	case http.StatusForbidden, http.StatusUnauthorized:
		return nil, ErrForbidden
	default:
		if resp.StatusCode >= 500 {
			return nil, ErrServer
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
}

func (c *Client) toDetails(p rawPlace) *models.PlaceDetails {
	d := &models.PlaceDetails{
		PlaceID:          optString(p.ID),
		Address:          optString(p.FormattedAddress),
		Rating:           p.Rating,
		UserRatingsTotal: p.UserRatingCount,
		Website:          optString(p.WebsiteURI),
		Phone:            optString(p.NationalPhoneNumber),
		GoogleURL:        optString(p.GoogleMapsURI),
	}
	if p.Location != nil {
		lat, lng := p.Location.Latitude, p.Location.Longitude
		d.Lat, d.Lng = &lat, &lng
	}
	if len(p.Photos) > 0 && p.Photos[0].Name != "" {
		d.PhotoURL = optString(c.photoURL(p.Photos[0].Name))
	}
	if p.RegularOpeningHours != nil {
		d.OpeningHours = optString(strings.Join(p.RegularOpeningHours.WeekdayDescriptions, "\n"))
	}
	return d
}

// photoURL builds the media URL for a photo resource name such as
// "places/abc/photos/xyz".
func (c *Client) photoURL(name string) string {
	q := url.Values{}
	q.Set("maxWidthPx", fmt.Sprint(photoMaxWidth))
	q.Set("key", c.apiKey)
	return c.baseURL + "/v1/" + name + "/media?" + q.Encode()
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Raw API types

type searchRequest struct {
	TextQuery      string        `json:"textQuery"`
	LanguageCode   string        `json:"languageCode,omitempty"`
	MaxResultCount int           `json:"maxResultCount,omitempty"`
	LocationBias   *locationBias `json:"locationBias,omitempty"`
}

type locationBias struct {
	Circle circle `json:"circle"`
}

type circle struct {
	Center latLng  `json:"center"`
	Radius float64 `json:"radius"`
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type searchResponse struct {
	Places []rawPlace `json:"places"`
}

type rawPlace struct {
	ID                  string   `json:"id"`
	FormattedAddress    string   `json:"formattedAddress"`
	Location            *latLng  `json:"location"`
	Rating              *float64 `json:"rating"`
	UserRatingCount     *int     `json:"userRatingCount"`
	WebsiteURI          string   `json:"websiteUri"`
	NationalPhoneNumber string   `json:"nationalPhoneNumber"`
	GoogleMapsURI       string   `json:"googleMapsUri"`
	RegularOpeningHours *struct {
		WeekdayDescriptions []string `json:"weekdayDescriptions"`
	} `json:"regularOpeningHours"`
	Photos []struct {
		Name string `json:"name"`
	} `json:"photos"`
}
