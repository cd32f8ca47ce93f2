package handlers

import (
	"context"
	"net/http"
	"time"

	"autotrip/database"
	"autotrip/models"
	"autotrip/services"
	"autotrip/views"

	"github.com/gin-gonic/gin"
	"github.com/phuslu/log"
)

const (
	GenerateErrorMessage = "Failed to generate itinerary. Please try again."
	SaveTripErrorMessage = "Failed to save trip. Please try again."
)

// tripsKey prefixes every cached trip query.
const tripsKey = "trips"

const storeWriteTimeout = 10 * time.Second

type itineraryPage struct {
	Steps     []views.StepState    `json:"steps"`
	SessionID string               `json:"session_id"`
	Status    string               `json:"status"`
	Error     string               `json:"error,omitempty"`
	Alert     string               `json:"alert,omitempty"`
	TripID    string               `json:"trip_id,omitempty"`
	View      *views.ItineraryView `json:"view,omitempty"`
}

func (h *Handler) itineraryPage(sess *database.Session, alert string) itineraryPage {
	page := itineraryPage{
		Steps:     views.Steps(database.StepItinerary),
		SessionID: sess.ID,
		Status:    sess.ItineraryStatus,
		Error:     sess.ItineraryError,
		Alert:     alert,
		TripID:    sess.TripID,
	}
	if sess.Itinerary != nil {
		v := views.BuildItineraryView(sess.Itinerary)
		page.View = &v
	}
	return page
}

// generation is what a finished itinerary request commits to the cache.
type generation struct {
	Itinerary *models.Itinerary
	Err       error
}

// GenerateItineraryHandler moves the session to step 3 and starts the
// generation in the background. A newer request supersedes an older one
// still in flight.
func (h *Handler) GenerateItineraryHandler(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}

	req := sess.Request
	if sess.SelectedHotelID != "" {
		if hotels, err := h.hotels(c.Request.Context(), sess); err == nil {
			if hotel, found := views.FindHotel(hotels, sess.SelectedHotelID); found {
				req = req.WithSelectedHotel(hotel)
			}
		}
	}

	// Begin shares the session lock with the job's commit
	key := services.SessionKey(sess.ID, "itinerary")
	var ticket uint64
	sess, ok = h.updateSession(c, func(s *database.Session) {
		ticket = h.cache.Begin(key)
		s.Step = database.StepItinerary
		s.ItineraryStatus = database.ItineraryPending
		s.ItineraryError = ""
		s.Itinerary = nil
	})
	if !ok {
		return
	}

	h.jobs.Add(1)
	go h.generate(sess.ID, key, ticket, req)

	log.Info().Str("session", sess.ID).Uint64("ticket", ticket).Msg("🧭 Itinerary generation started")
	redirectOr(c, http.StatusAccepted, "/plan/"+sess.ID, h.itineraryPage(sess, ""))
}

func (h *Handler) generate(sessionID, key string, ticket uint64, req models.TripRequest) {
	defer h.jobs.Done()

	ctx, cancel := context.WithTimeout(context.Background(), h.GenerateTimeout)
	defer cancel()

	it, err := h.api.GenerateItinerary(ctx, req)

	unlock := h.locks.lock(sessionID)
	defer unlock()

	if !h.cache.Commit(key, ticket, generation{Itinerary: it, Err: err}) {
		log.Info().Str("session", sessionID).Uint64("ticket", ticket).Msg("Discarding superseded itinerary")
		return
	}

	status, message := database.ItineraryReady, ""
	if err != nil {
		log.Error().Str("session", sessionID).Err(err).Msg("❌ Itinerary generation failed")
		status, message, it = database.ItineraryFailed, GenerateErrorMessage, nil
	}

	// a timed-out generation still records its failure
	writeCtx, cancelWrite := context.WithTimeout(context.WithoutCancel(ctx), storeWriteTimeout)
	defer cancelWrite()

	if err := h.store.UpdateItinerary(writeCtx, sessionID, status, message, it); err != nil {
		log.Error().Str("session", sessionID).Err(err).Msg("❌ Failed to store itinerary")
		return
	}
	if it != nil {
		h.cache.Invalidate(tripsKey)
		log.Info().Str("session", sessionID).Int("days", len(it.Days)).Int("items", it.ItemCount()).Msg("✅ Itinerary ready")
	}
}

// SaveTripHandler stores the session's trip on the backend.
func (h *Handler) SaveTripHandler(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}

	trip, err := h.api.CreateTrip(c.Request.Context(), sess.Request)
	if err != nil {
		log.Error().Str("session", sess.ID).Err(err).Msg("❌ Failed to create trip")
		fail(c, http.StatusBadGateway, SaveTripErrorMessage)
		return
	}
	h.cache.Invalidate(tripsKey)

	sess, ok = h.updateSession(c, func(s *database.Session) {
		s.TripID = trip.ID
	})
	if !ok {
		return
	}

	log.Info().Str("session", sess.ID).Str("trip", trip.ID).Msg("✅ Trip saved")
	redirectOr(c, http.StatusCreated, "/trips/"+trip.ID, trip)
}
