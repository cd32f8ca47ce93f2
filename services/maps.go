package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"autotrip/models"

	"github.com/phuslu/log"
	"github.com/twpayne/go-polyline"
	"golang.org/x/time/rate"
)

// ErrMapsUnavailable is returned when no provider key is configured.
var ErrMapsUnavailable = errors.New("maps provider not available")

// ─── Types ────────────────────────────────────────────────────────────────────

// RouteRequest is a driving route through ordered points. Waypoints are
// visited in the given order and never optimized.
type RouteRequest struct {
	Origin      models.Coordinate
	Destination models.Coordinate
	Waypoints   []models.Coordinate
}

type RouteLeg struct {
	Start           models.Coordinate `json:"start"`
	End             models.Coordinate `json:"end"`
	DistanceMeters  int               `json:"distance_meters"`
	DistanceText    string            `json:"distance_text"`
	DurationSeconds int               `json:"duration_seconds"`
	DurationText    string            `json:"duration_text"`
}

// Route is the first route the provider returned.
type Route struct {
	Path []models.Coordinate `json:"path"`
	Legs []RouteLeg          `json:"legs"`
}

// ─── Client ───────────────────────────────────────────────────────────────────

// MapsClient calls the Google Maps Geocoding and Directions web services.
type MapsClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewMapsClient(apiKey, baseURL string, requestsPerSecond float64) *MapsClient {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 10
	}
	burst := int(requestsPerSecond)
	if burst < 2 {
		// both geocodes of an auto-route go out together
		burst = 2
	}

	c := &MapsClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}

	if apiKey == "" {
		log.Warn().Msg("⚠️  MAPS_API_KEY not set, map panel will report the map as unavailable")
	}
	return c
}

// Available reports whether the provider can be called at all.
func (c *MapsClient) Available() bool {
	return c != nil && c.apiKey != ""
}

func (c *MapsClient) get(ctx context.Context, path string, params url.Values, out any) error {
	if !c.Available() {
		return ErrMapsUnavailable
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("maps rate limit: %w", err)
	}

	params.Set("key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read maps response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("maps error (%d): %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse maps response: %w", err)
	}
	return nil
}

// ─── Geocoding ────────────────────────────────────────────────────────────────

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry struct {
			Location models.Coordinate `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves a place name to its first matching coordinate.
func (c *MapsClient) Geocode(ctx context.Context, address string) (models.Coordinate, error) {
	var resp geocodeResponse
	params := url.Values{}
	params.Set("address", address)

	if err := c.get(ctx, "/maps/api/geocode/json", params, &resp); err != nil {
		return models.Coordinate{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	if resp.Status != "OK" || len(resp.Results) == 0 {
		return models.Coordinate{}, fmt.Errorf("geocode %q: status %s %s", address, resp.Status, resp.ErrorMessage)
	}

	log.Debug().Str("address", address).Str("status", resp.Status).Msg("geocoded")
	return resp.Results[0].Geometry.Location, nil
}

// ─── Directions ───────────────────────────────────────────────────────────────

type directionsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
		Legs []struct {
			StartLocation models.Coordinate `json:"start_location"`
			EndLocation   models.Coordinate `json:"end_location"`
			Distance      struct {
				Value int    `json:"value"`
				Text  string `json:"text"`
			} `json:"distance"`
			Duration struct {
				Value int    `json:"value"`
				Text  string `json:"text"`
			} `json:"duration"`
		} `json:"legs"`
	} `json:"routes"`
}

// RouteStatusError carries the provider status of a failed directions call.
type RouteStatusError struct {
	Status string
}

func (e *RouteStatusError) Error() string {
	return "Directions request failed: " + e.Status
}

// Directions requests a driving route through req in order.
func (c *MapsClient) Directions(ctx context.Context, req RouteRequest) (*Route, error) {
	params := url.Values{}
	params.Set("origin", req.Origin.String())
	params.Set("destination", req.Destination.String())
	params.Set("mode", "driving")
	if len(req.Waypoints) > 0 {
		points := make([]string, 0, len(req.Waypoints)+1)
		points = append(points, "optimize:false")
		for _, w := range req.Waypoints {
			points = append(points, w.String())
		}
		params.Set("waypoints", strings.Join(points, "|"))
	}

	var resp directionsResponse
	if err := c.get(ctx, "/maps/api/directions/json", params, &resp); err != nil {
		return nil, fmt.Errorf("directions: %w", err)
	}
	if resp.Status != "OK" || len(resp.Routes) == 0 {
		status := resp.Status
		switch {
		case status == "OK":
			// an OK answer without routes means nothing connects the stops
			status = "ZERO_RESULTS"
		case status == "":
			status = "UNKNOWN_ERROR"
		}
		return nil, &RouteStatusError{Status: status}
	}

	first := resp.Routes[0]
	route := &Route{
		Legs: make([]RouteLeg, 0, len(first.Legs)),
	}
	for _, leg := range first.Legs {
		route.Legs = append(route.Legs, RouteLeg{
			Start:           leg.StartLocation,
			End:             leg.EndLocation,
			DistanceMeters:  leg.Distance.Value,
			DistanceText:    leg.Distance.Text,
			DurationSeconds: leg.Duration.Value,
			DurationText:    leg.Duration.Text,
		})
	}

	if first.OverviewPolyline.Points != "" {
		coords, _, err := polyline.DecodeCoords([]byte(first.OverviewPolyline.Points))
		if err != nil {
			return nil, fmt.Errorf("decode route polyline: %w", err)
		}
		route.Path = make([]models.Coordinate, 0, len(coords))
		for _, c := range coords {
			route.Path = append(route.Path, models.Coordinate{Lat: c[0], Lng: c[1]})
		}
	}

	return route, nil
}
