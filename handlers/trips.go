package handlers

import (
	"context"
	"errors"
	"net/http"

	"autotrip/models"
	"autotrip/services"
	"autotrip/views"

	"github.com/gin-gonic/gin"
	"github.com/phuslu/log"
)

const (
	TripsErrorMessage = "Failed to load trips. Please try again."
	TripNotFound      = "Trip Not Found"
)

type tripsPage struct {
	Trips []models.Trip `json:"trips"`
	Error string        `json:"error,omitempty"`
}

type tripPage struct {
	Trip     *models.Trip         `json:"trip,omitempty"`
	View     *views.ItineraryView `json:"view,omitempty"`
	NotFound bool                 `json:"not_found"`
	Title    string               `json:"title"`
}

func (h *Handler) ListTripsHandler(c *gin.Context) {
	trips, err := services.Fetch(c.Request.Context(), h.cache, tripsKey, func(ctx context.Context) ([]models.Trip, error) {
		return h.api.ListTrips(ctx)
	})
	if err != nil {
		log.Warn().Err(err).Msg("⚠️  Trip list failed")
		render(c, http.StatusBadGateway, "trips.html", tripsPage{Trips: []models.Trip{}, Error: TripsErrorMessage})
		return
	}
	render(c, http.StatusOK, "trips.html", tripsPage{Trips: trips})
}

// TripHandler shows one stored trip with its itinerary.
func (h *Handler) TripHandler(c *gin.Context) {
	id := c.Param("id")
	trip, err := services.Fetch(c.Request.Context(), h.cache, tripsKey+"/"+id, func(ctx context.Context) (*models.Trip, error) {
		return h.api.GetTrip(ctx, id)
	})
	if err != nil {
		status := http.StatusBadGateway
		var apiErr *services.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			status = http.StatusNotFound
		}
		log.Warn().Str("trip", id).Err(err).Msg("⚠️  Trip lookup failed")
		render(c, status, "trip.html", tripPage{NotFound: true, Title: TripNotFound})
		return
	}

	page := tripPage{Trip: trip, Title: trip.Location}
	if trip.Itinerary != nil {
		v := views.BuildItineraryView(trip.Itinerary)
		page.View = &v
	}
	render(c, http.StatusOK, "trip.html", page)
}
