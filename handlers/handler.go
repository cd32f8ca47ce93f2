package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"autotrip/database"
	"autotrip/models"
	"autotrip/services"
	"autotrip/views"

	"github.com/gin-gonic/gin"
)

// Backend is the planning backend as the handlers use it.
type Backend interface {
	SearchHotels(ctx context.Context, req models.TripRequest) ([]models.Hotel, error)
	SearchPlaces(ctx context.Context, location, placeType string) ([]map[string]any, error)
	GenerateItinerary(ctx context.Context, req models.TripRequest) (*models.Itinerary, error)
	CreateTrip(ctx context.Context, req models.TripRequest) (*models.Trip, error)
	GetTrip(ctx context.Context, id string) (*models.Trip, error)
	ListTrips(ctx context.Context) ([]models.Trip, error)
	ExportItineraryPDF(ctx context.Context, it *models.Itinerary) ([]byte, error)
	ExportItineraryCalendar(ctx context.Context, it *models.Itinerary) ([]byte, error)
	LocationData(ctx context.Context, location string) (*models.LocationData, error)
}

// Handler serves the planning wizard, the trip pages and the exports.
type Handler struct {
	api   Backend
	maps  views.MapProvider
	cache *services.QueryCache
	store database.Store

	// GenerateTimeout bounds a background itinerary generation.
	GenerateTimeout time.Duration
	// Now is the clock used for export file names.
	Now func() time.Time

	jobs  sync.WaitGroup
	locks sessionLocks
}

// sessionLocks serialises read-modify-write cycles on one session. Entries
// are dropped once nobody holds or waits for them.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	sync.Mutex
	refs int
}

func (l *sessionLocks) lock(id string) (unlock func()) {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sessionLock)
	}
	sl, ok := l.locks[id]
	if !ok {
		sl = &sessionLock{}
		l.locks[id] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.Lock()
	return func() {
		sl.Unlock()
		l.mu.Lock()
		sl.refs--
		if sl.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func New(api Backend, maps views.MapProvider, cache *services.QueryCache, store database.Store) *Handler {
	return &Handler{
		api:             api,
		maps:            maps,
		cache:           cache,
		store:           store,
		GenerateTimeout: services.DefaultAPITimeout,
		Now:             time.Now,
	}
}

// Register mounts every route on r.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/plan")
	})

	plan := r.Group("/plan")
	{
		plan.GET("", h.PlanFormHandler)
		plan.POST("", h.CreatePlanHandler)
		plan.POST("/interests/toggle", h.ToggleInterestHandler)
		plan.GET("/:id", h.ShowPlanHandler)
		plan.POST("/:id/hotels/select", h.SelectHotelHandler)
		plan.GET("/:id/map", h.MapHandler)
		plan.GET("/:id/places", h.PlacesHandler)
		plan.POST("/:id/itinerary", h.GenerateItineraryHandler)
		plan.POST("/:id/trip", h.SaveTripHandler)
		plan.GET("/:id/export/pdf", h.ExportPDFHandler)
		plan.GET("/:id/export/calendar", h.ExportCalendarHandler)
		plan.GET("/:id/budget.pdf", h.BudgetSheetHandler)
	}

	r.GET("/trips", h.ListTripsHandler)
	r.GET("/trips/:id", h.TripHandler)

	api := r.Group("/api")
	{
		api.GET("/health", h.HealthHandler)
	}
}

// Wait blocks until every background generation has finished.
func (h *Handler) Wait() {
	h.jobs.Wait()
}
