package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"autotrip/models"

	"github.com/phuslu/log"
)

// DefaultAPITimeout leaves room for long-running itinerary generation.
const DefaultAPITimeout = 120 * time.Second

// ─── Errors ───────────────────────────────────────────────────────────────────

// APIError is a non-2xx response from the planning backend.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error (%d) %s %s: %s", e.StatusCode, e.Method, e.Path, e.Body)
}

// ─── Client ───────────────────────────────────────────────────────────────────

// APIClient talks to the remote planning backend under <base>/api.
type APIClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type APIOption func(*APIClient)

// WithToken attaches a bearer token to every request.
func WithToken(token string) APIOption {
	return func(c *APIClient) {
		c.token = token
	}
}

func WithTimeout(d time.Duration) APIOption {
	return func(c *APIClient) {
		c.httpClient.Timeout = d
	}
}

func WithHTTPClient(hc *http.Client) APIOption {
	return func(c *APIClient) {
		c.httpClient = hc
	}
}

func NewAPIClient(baseURL string, opts ...APIOption) *APIClient {
	c := &APIClient{
		baseURL: baseURL + "/api",
		httpClient: &http.Client{
			Timeout: DefaultAPITimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *APIClient) doRequest(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Str("method", method).Str("path", path).Err(err).Msg("backend request failed")
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// there is no session to refresh; the 401 is only reported
		log.Warn().Str("path", path).Msg("Unauthorized access - authentication not implemented")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Body:       string(respBody),
		}
	}
	return respBody, nil
}

func (c *APIClient) doJSON(ctx context.Context, method, path string, payload, out any) error {
	body, err := c.doRequest(ctx, method, path, payload)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", path, err)
	}
	return nil
}

// ─── Payloads ─────────────────────────────────────────────────────────────────

type hotelSearchPayload struct {
	Destination      string   `json:"destination"`
	CheckIn          string   `json:"check_in"`
	CheckOut         string   `json:"check_out"`
	Travelers        int      `json:"travelers"`
	Budget           float64  `json:"budget"`
	Interests        []string `json:"interests"`
	StartingLocation string   `json:"starting_location,omitempty"`
}

type placesSearchPayload struct {
	Location string `json:"location"`
	Type     string `json:"type"`
}

type generatePayload struct {
	Origin         string        `json:"origin"`
	Location       string        `json:"location"`
	StartDate      string        `json:"start_date"`
	EndDate        string        `json:"end_date"`
	Budget         float64       `json:"budget"`
	Travelers      int           `json:"travelers"`
	Interests      []string      `json:"interests"`
	Specifications string        `json:"specifications,omitempty"`
	SelectedHotel  *models.Hotel `json:"selected_hotel,omitempty"`
}

type createTripPayload struct {
	Origin    string   `json:"origin"`
	Location  string   `json:"location"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Budget    float64  `json:"budget"`
	Travelers int      `json:"travelers"`
	Interests []string `json:"interests"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// ─── Operations ───────────────────────────────────────────────────────────────

// SearchHotels returns hotel candidates for the trip's destination and dates.
func (c *APIClient) SearchHotels(ctx context.Context, req models.TripRequest) ([]models.Hotel, error) {
	var hotels []models.Hotel
	err := c.doJSON(ctx, http.MethodPost, "/hotels/search", hotelSearchPayload{
		Destination:      req.Destination,
		CheckIn:          req.StartDate,
		CheckOut:         req.EndDate,
		Travelers:        req.Travelers,
		Budget:           req.Budget,
		Interests:        nonNil(req.Interests),
		StartingLocation: req.Origin,
	}, &hotels)
	if err != nil {
		return nil, fmt.Errorf("hotel search failed: %w", err)
	}
	if hotels == nil {
		hotels = []models.Hotel{}
	}
	return hotels, nil
}

// SearchPlaces returns the provider-defined place list untouched.
func (c *APIClient) SearchPlaces(ctx context.Context, location, placeType string) ([]map[string]any, error) {
	if placeType == "" {
		placeType = "attractions"
	}
	var places []map[string]any
	if err := c.doJSON(ctx, http.MethodPost, "/places/search", placesSearchPayload{
		Location: location,
		Type:     placeType,
	}, &places); err != nil {
		return nil, fmt.Errorf("places search failed: %w", err)
	}
	if places == nil {
		places = []map[string]any{}
	}
	return places, nil
}

// GenerateItinerary asks the backend to build a day-by-day itinerary.
func (c *APIClient) GenerateItinerary(ctx context.Context, req models.TripRequest) (*models.Itinerary, error) {
	var it models.Itinerary
	err := c.doJSON(ctx, http.MethodPost, "/itinerary/generate", generatePayload{
		Origin:         req.Origin,
		Location:       req.Destination,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Budget:         req.Budget,
		Travelers:      req.Travelers,
		Interests:      nonNil(req.Interests),
		Specifications: req.Specifications,
		SelectedHotel:  req.SelectedHotel,
	}, &it)
	if err != nil {
		return nil, fmt.Errorf("itinerary generation failed: %w", err)
	}
	return &it, nil
}

// CreateTrip stores the trip on the backend and returns the stored record.
func (c *APIClient) CreateTrip(ctx context.Context, req models.TripRequest) (*models.Trip, error) {
	var trip models.Trip
	err := c.doJSON(ctx, http.MethodPost, "/trips", createTripPayload{
		Origin:    req.Origin,
		Location:  req.Destination,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Budget:    req.Budget,
		Travelers: req.Travelers,
		Interests: nonNil(req.Interests),
	}, &trip)
	if err != nil {
		return nil, fmt.Errorf("create trip failed: %w", err)
	}
	return &trip, nil
}

func (c *APIClient) GetTrip(ctx context.Context, id string) (*models.Trip, error) {
	var trip models.Trip
	if err := c.doJSON(ctx, http.MethodGet, "/trips/"+url.PathEscape(id), nil, &trip); err != nil {
		return nil, fmt.Errorf("get trip failed: %w", err)
	}
	return &trip, nil
}

func (c *APIClient) ListTrips(ctx context.Context) ([]models.Trip, error) {
	var trips []models.Trip
	if err := c.doJSON(ctx, http.MethodGet, "/trips", nil, &trips); err != nil {
		return nil, fmt.Errorf("list trips failed: %w", err)
	}
	if trips == nil {
		trips = []models.Trip{}
	}
	return trips, nil
}

// ExportItineraryPDF returns the complete PDF document for it.
func (c *APIClient) ExportItineraryPDF(ctx context.Context, it *models.Itinerary) ([]byte, error) {
	data, err := c.doRequest(ctx, http.MethodPost, "/itinerary/export-pdf", it)
	if err != nil {
		return nil, fmt.Errorf("pdf export failed: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("pdf export failed: empty document")
	}
	return data, nil
}

// ExportItineraryCalendar returns the complete iCalendar file for it.
func (c *APIClient) ExportItineraryCalendar(ctx context.Context, it *models.Itinerary) ([]byte, error) {
	data, err := c.doRequest(ctx, http.MethodPost, "/itinerary/export-calendar", it)
	if err != nil {
		return nil, fmt.Errorf("calendar export failed: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("calendar export failed: empty document")
	}
	return data, nil
}

// LocationData fetches the aggregated data (center, hotels) for a place.
func (c *APIClient) LocationData(ctx context.Context, location string) (*models.LocationData, error) {
	var data models.LocationData
	if err := c.doJSON(ctx, http.MethodGet, "/aggregation/location-data/"+url.PathEscape(location), nil, &data); err != nil {
		return nil, fmt.Errorf("location data failed: %w", err)
	}
	return &data, nil
}
