package handlers

import (
	"context"
	"net/http"
	"strings"

	"autotrip/database"
	"autotrip/models"
	"autotrip/services"
	"autotrip/views"

	"github.com/gin-gonic/gin"
	"github.com/phuslu/log"
)

// PlacesErrorMessage is shown when the places search fails.
const PlacesErrorMessage = "Failed to load places. Please try again."

// ─── Pages ────────────────────────────────────────────────────────────────────

type formPage struct {
	Steps     []views.StepState `json:"steps"`
	Form      views.IntakeForm  `json:"form"`
	Errors    views.FieldErrors `json:"errors,omitempty"`
	Interests []string          `json:"interests"`
}

type recommendationsPage struct {
	Steps   []views.StepState `json:"steps"`
	Session *database.Session `json:"session"`
	Nights  int               `json:"nights"`
	Hotels  views.HotelList   `json:"hotels"`
	Map     views.MapView     `json:"map"`
}

type mapPage struct {
	SessionID string        `json:"session_id"`
	Map       views.MapView `json:"map"`
}

type placesPage struct {
	SessionID string           `json:"session_id"`
	Location  string           `json:"location"`
	Type      string           `json:"type"`
	Places    []map[string]any `json:"places"`
	Error     string           `json:"error,omitempty"`
}

func newFormPage(form views.IntakeForm, errs views.FieldErrors) formPage {
	if form.Interests == nil {
		form.Interests = []string{}
	}
	return formPage{
		Steps:     views.Steps(database.StepDetails),
		Form:      form,
		Errors:    errs,
		Interests: views.Interests,
	}
}

// ─── Trip Details ─────────────────────────────────────────────────────────────

func (h *Handler) PlanFormHandler(c *gin.Context) {
	render(c, http.StatusOK, "form.html", newFormPage(views.IntakeForm{}, nil))
}

type toggleRequest struct {
	views.IntakeForm
	Interest string `form:"interest" json:"interest"`
}

// ToggleInterestHandler re-renders the form with one interest flipped.
func (h *Handler) ToggleInterestHandler(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	form := req.IntakeForm
	form.Toggle(req.Interest)
	render(c, http.StatusOK, "form.html", newFormPage(form, nil))
}

// CreatePlanHandler validates the form and opens a session on step 2.
func (h *Handler) CreatePlanHandler(c *gin.Context) {
	var form views.IntakeForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	req, errs := form.Submit()
	if errs != nil {
		render(c, http.StatusUnprocessableEntity, "form.html", newFormPage(form, errs))
		return
	}

	sess := database.NewSession(req)
	if err := h.store.Create(c.Request.Context(), sess); err != nil {
		log.Error().Err(err).Msg("❌ Failed to create session")
		fail(c, http.StatusInternalServerError, "Failed to save planning session")
		return
	}

	log.Info().Str("session", sess.ID).Str("destination", req.Destination).Msg("✅ Planning session created")
	redirectOr(c, http.StatusCreated, "/plan/"+sess.ID, sess)
}

// ─── Recommendations ──────────────────────────────────────────────────────────

// ShowPlanHandler renders the session's current step.
func (h *Handler) ShowPlanHandler(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}

	if sess.Step >= database.StepItinerary {
		render(c, http.StatusOK, "itinerary.html", h.itineraryPage(sess, ""))
		return
	}

	ctx := c.Request.Context()
	hotels, hotelsErr := h.hotels(ctx, sess)
	mapView := h.buildMap(ctx, sess, hotels, views.MapInput{
		StartLocation:   sess.Request.Origin,
		ShowRoute:       true,
		SelectedHotelID: sess.SelectedHotelID,
	})

	render(c, http.StatusOK, "recommendations.html", recommendationsPage{
		Steps:   views.Steps(database.StepRecommendations),
		Session: sess,
		Nights:  sess.Request.Nights(),
		Hotels:  views.BuildHotelList(hotels, sess.SelectedHotelID, false, hotelsErr),
		Map:     mapView,
	})
}

type selectHotelRequest struct {
	HotelID string `form:"hotel_id" json:"hotel_id"`
}

// SelectHotelHandler replaces the selected hotel. An empty ID clears it.
func (h *Handler) SelectHotelHandler(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}

	var req selectHotelRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if req.HotelID != "" {
		hotels, err := h.hotels(c.Request.Context(), sess)
		if err != nil {
			fail(c, http.StatusBadGateway, views.HotelsErrorMessage)
			return
		}
		if _, found := views.FindHotel(hotels, req.HotelID); !found {
			fail(c, http.StatusNotFound, "Hotel not found")
			return
		}
	}

	sess, ok = h.updateSession(c, func(s *database.Session) {
		s.SelectedHotelID = req.HotelID
	})
	if !ok {
		return
	}
	redirectOr(c, http.StatusOK, "/plan/"+sess.ID, sess)
}

// MapHandler renders the map panel on its own. stops switches to stops
// mode; route=0 disables the origin-to-destination route.
func (h *Handler) MapHandler(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}

	stops, err := models.ParseStops(c.Query("stops"))
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid stops: "+err.Error())
		return
	}

	defaultRoute := "1"
	if len(stops) > 0 {
		defaultRoute = "0"
	}
	showRoute := c.DefaultQuery("route", defaultRoute) == "1"

	selected := sess.SelectedHotelID
	if id, set := c.GetQuery("hotel"); set {
		selected = id
	}

	ctx := c.Request.Context()
	hotels, _ := h.hotels(ctx, sess)
	render(c, http.StatusOK, "map.html", mapPage{
		SessionID: sess.ID,
		Map: h.buildMap(ctx, sess, hotels, views.MapInput{
			Stops:           stops,
			StartLocation:   sess.Request.Origin,
			ShowRoute:       showRoute,
			SelectedHotelID: selected,
		}),
	})
}

// PlacesHandler lists places of one type around the destination.
func (h *Handler) PlacesHandler(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}

	placeType := strings.TrimSpace(c.DefaultQuery("type", "attractions"))
	if placeType == "" {
		placeType = "attractions"
	}
	page := placesPage{
		SessionID: sess.ID,
		Location:  sess.Request.Destination,
		Type:      placeType,
	}

	key := services.SessionKey(sess.ID, "places", placeType)
	places, err := services.Fetch(c.Request.Context(), h.cache, key, func(ctx context.Context) ([]map[string]any, error) {
		return h.api.SearchPlaces(ctx, sess.Request.Destination, placeType)
	})
	if err != nil {
		log.Warn().Str("session", sess.ID).Err(err).Msg("⚠️  Places search failed")
		page.Error = PlacesErrorMessage
		page.Places = []map[string]any{}
		render(c, http.StatusBadGateway, "places.html", page)
		return
	}
	page.Places = places
	render(c, http.StatusOK, "places.html", page)
}

// ─── Helpers ──────────────────────────────────────────────────────────────────

// hotels returns the session's hotel search, cached per session.
func (h *Handler) hotels(ctx context.Context, sess *database.Session) ([]models.Hotel, error) {
	key := services.SessionKey(sess.ID, "hotels")
	hotels, err := services.Fetch(ctx, h.cache, key, func(ctx context.Context) ([]models.Hotel, error) {
		return h.api.SearchHotels(ctx, sess.Request)
	})
	if err != nil {
		log.Warn().Str("session", sess.ID).Err(err).Msg("⚠️  Hotel search failed")
		return nil, err
	}
	return hotels, nil
}

// locationData is best effort; the map falls back without it.
func (h *Handler) locationData(ctx context.Context, sess *database.Session) *models.LocationData {
	key := services.SessionKey(sess.ID, "location", sess.Request.Destination)
	data, err := services.Fetch(ctx, h.cache, key, func(ctx context.Context) (*models.LocationData, error) {
		return h.api.LocationData(ctx, sess.Request.Destination)
	})
	if err != nil {
		log.Debug().Str("session", sess.ID).Err(err).Msg("location data unavailable")
		return nil
	}
	return data
}

// buildMap fills in the destination, the server center and the hotels.
// Searched hotels are preferred; the aggregated ones are the fallback.
func (h *Handler) buildMap(ctx context.Context, sess *database.Session, hotels []models.Hotel, in views.MapInput) views.MapView {
	in.Location = sess.Request.Destination
	in.Hotels = hotels
	if data := h.locationData(ctx, sess); data != nil {
		in.ServerCenter = data.Center
		if len(in.Hotels) == 0 {
			in.Hotels = data.Hotels
		}
	}
	return views.BuildMapView(ctx, h.maps, in)
}
