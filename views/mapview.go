package views

import (
	"context"
	"errors"
	"math"
	"strconv"

	"autotrip/models"
	"autotrip/services"

	"github.com/phuslu/log"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultZoom      = 12
	RouteColor       = "#ef4444"
	RouteWeight      = 6
	BoundsPadding    = 20
	PlaceholderImage = "/placeholder-hotel.jpg"
	NoRating         = "—"

	MapUnavailableMessage = "Map failed to load. Make sure MAPS_API_KEY is set."
	GeocodeStartFailed    = "Failed to geocode start location"
	GeocodeDestFailed     = "Failed to geocode destination"
)

// FallbackCenter is used when neither the server nor the stops give a center.
var FallbackCenter = models.Coordinate{Lat: 37.7749, Lng: -122.4194}

// MapProvider is the part of the maps client the view needs.
type MapProvider interface {
	Available() bool
	Geocode(ctx context.Context, address string) (models.Coordinate, error)
	Directions(ctx context.Context, req services.RouteRequest) (*services.Route, error)
}

type MapInput struct {
	Location        string
	Stops           []models.Coordinate
	Hotels          []models.Hotel
	StartLocation   string
	ShowRoute       bool
	ServerCenter    *models.Coordinate
	SelectedHotelID string
}

type Bounds struct {
	SouthWest models.Coordinate `json:"south_west"`
	NorthEast models.Coordinate `json:"north_east"`
}

type RouteOverlay struct {
	Color   string              `json:"color"`
	Weight  int                 `json:"weight"`
	Path    []models.Coordinate `json:"path"`
	Legs    []services.RouteLeg `json:"legs"`
	Bounds  Bounds              `json:"bounds"`
	Padding int                 `json:"padding"`
}

type Marker struct {
	HotelID     string            `json:"hotel_id"`
	Name        string            `json:"name"`
	Position    models.Coordinate `json:"position"`
	Image       string            `json:"image,omitempty"`
	Placeholder bool              `json:"placeholder"`
}

// MapHotelCard is the info card of the selected marker.
type MapHotelCard struct {
	HotelID string `json:"hotel_id"`
	Image   string `json:"image"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Rating  string `json:"rating"`
	Price   string `json:"price"`
}

type MapView struct {
	Available  bool                `json:"available"`
	Message    string              `json:"message,omitempty"`
	Location   string              `json:"location"`
	Center     models.Coordinate   `json:"center"`
	Zoom       int                 `json:"zoom"`
	Stops      []models.Coordinate `json:"stops,omitempty"`
	Route      *RouteOverlay       `json:"route,omitempty"`
	RouteError string              `json:"route_error,omitempty"`
	Markers    []Marker            `json:"markers"`
	Selected   *MapHotelCard       `json:"selected,omitempty"`
}

// BuildMapView resolves the center, the route and the hotel markers.
// Route failures are reported in RouteError and never remove markers.
func BuildMapView(ctx context.Context, provider MapProvider, in MapInput) MapView {
	view := MapView{
		Location: in.Location,
		Center:   resolveCenter(in),
		Zoom:     DefaultZoom,
		Stops:    in.Stops,
		Markers:  []Marker{},
	}

	if provider == nil || !provider.Available() {
		view.Message = MapUnavailableMessage
		return view
	}
	view.Available = true

	mapped := make([]models.Hotel, 0, len(in.Hotels))
	for _, h := range in.Hotels {
		if h.Coordinate == nil {
			continue
		}
		mapped = append(mapped, h)
		img := h.Image()
		view.Markers = append(view.Markers, Marker{
			HotelID:     h.ID,
			Name:        h.Name,
			Position:    *h.Coordinate,
			Image:       img,
			Placeholder: img == "",
		})
	}
	// the card opens from a marker, so unmapped hotels never get one
	view.Selected = selectedCard(mapped, in.SelectedHotelID)

	req, routeErr, ok := routeRequest(ctx, provider, in)
	if routeErr != "" {
		view.RouteError = routeErr
		return view
	}
	if !ok {
		return view
	}

	route, err := provider.Directions(ctx, req)
	if err != nil {
		var statusErr *services.RouteStatusError
		if errors.As(err, &statusErr) {
			view.RouteError = statusErr.Error()
		} else {
			view.RouteError = (&services.RouteStatusError{Status: "UNKNOWN_ERROR"}).Error()
		}
		log.Warn().Err(err).Str("location", in.Location).Msg("route request failed")
		return view
	}

	view.Route = &RouteOverlay{
		Color:   RouteColor,
		Weight:  RouteWeight,
		Path:    route.Path,
		Legs:    route.Legs,
		Bounds:  legBounds(route.Legs),
		Padding: BoundsPadding,
	}
	return view
}

func resolveCenter(in MapInput) models.Coordinate {
	if in.ServerCenter != nil && in.ServerCenter.Valid() {
		return *in.ServerCenter
	}
	if len(in.Stops) > 0 {
		return in.Stops[0]
	}
	return FallbackCenter
}

// routeRequest decides which route to ask for. ok is false when no route
// should be drawn; routeErr is set when the auto-route geocoding failed.
func routeRequest(ctx context.Context, provider MapProvider, in MapInput) (services.RouteRequest, string, bool) {
	if in.ShowRoute && in.StartLocation != "" && in.Location != "" {
		var origin, dest models.Coordinate
		var originErr, destErr error

		var g errgroup.Group
		g.Go(func() error {
			origin, originErr = provider.Geocode(ctx, in.StartLocation)
			return originErr
		})
		g.Go(func() error {
			dest, destErr = provider.Geocode(ctx, in.Location)
			return destErr
		})
		if err := g.Wait(); err != nil {
			log.Warn().Err(err).Str("from", in.StartLocation).Str("to", in.Location).Msg("auto-route geocoding failed")
			if originErr != nil {
				return services.RouteRequest{}, GeocodeStartFailed, false
			}
			return services.RouteRequest{}, GeocodeDestFailed, false
		}
		return services.RouteRequest{Origin: origin, Destination: dest}, "", true
	}

	if len(in.Stops) >= 2 {
		last := len(in.Stops) - 1
		return services.RouteRequest{
			Origin:      in.Stops[0],
			Destination: in.Stops[last],
			Waypoints:   append([]models.Coordinate(nil), in.Stops[1:last]...),
		}, "", true
	}
	return services.RouteRequest{}, "", false
}

func legBounds(legs []services.RouteLeg) Bounds {
	b := Bounds{
		SouthWest: models.Coordinate{Lat: math.Inf(1), Lng: math.Inf(1)},
		NorthEast: models.Coordinate{Lat: math.Inf(-1), Lng: math.Inf(-1)},
	}
	extend := func(c models.Coordinate) {
		b.SouthWest.Lat = math.Min(b.SouthWest.Lat, c.Lat)
		b.SouthWest.Lng = math.Min(b.SouthWest.Lng, c.Lng)
		b.NorthEast.Lat = math.Max(b.NorthEast.Lat, c.Lat)
		b.NorthEast.Lng = math.Max(b.NorthEast.Lng, c.Lng)
	}
	for _, leg := range legs {
		extend(leg.Start)
		extend(leg.End)
	}
	if len(legs) == 0 {
		return Bounds{}
	}
	return b
}

func selectedCard(hotels []models.Hotel, id string) *MapHotelCard {
	h, ok := FindHotel(hotels, id)
	if !ok {
		return nil
	}
	card := &MapHotelCard{
		HotelID: h.ID,
		Image:   h.Image(),
		Name:    h.Name,
		Address: h.Address,
		Rating:  NoRating,
	}
	if card.Image == "" {
		card.Image = PlaceholderImage
	}
	if h.Rating != nil {
		card.Rating = formatRating(*h.Rating)
	}
	if h.PricePerNight != 0 {
		card.Price = FormatMoney(h.PricePerNight)
	}
	return card
}

func formatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}
