package database

import (
	"context"
	"errors"
	"time"

	"autotrip/models"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when no planning session has the given ID.
var ErrSessionNotFound = errors.New("planning session not found")

// Wizard steps.
const (
	StepDetails         = 1
	StepRecommendations = 2
	StepItinerary       = 3
)

// Itinerary generation states.
const (
	ItineraryIdle    = "idle"
	ItineraryPending = "pending"
	ItineraryReady   = "ready"
	ItineraryFailed  = "failed"
)

// ─── Models ──────────────────────────────────────────────────────────────────

// Session is one run through the planning wizard.
type Session struct {
	ID              string             `json:"id"`
	Step            int                `json:"step"`
	Request         models.TripRequest `json:"request"`
	SelectedHotelID string             `json:"selected_hotel_id,omitempty"`
	Itinerary       *models.Itinerary  `json:"itinerary,omitempty"`
	ItineraryStatus string             `json:"itinerary_status"`
	ItineraryError  string             `json:"itinerary_error,omitempty"`
	TripID          string             `json:"trip_id,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// NewSession starts a session on the recommendations step.
func NewSession(req models.TripRequest) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:              uuid.New().String(),
		Step:            StepRecommendations,
		Request:         req,
		ItineraryStatus: ItineraryIdle,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Clone returns a copy that shares no mutable state with s.
func (s *Session) Clone() *Session {
	out := *s
	out.Request = s.Request.WithSelectedHotel(s.Request.SelectedHotel)
	if s.Itinerary != nil {
		it := *s.Itinerary
		it.Days = make([]models.ItineraryDay, len(s.Itinerary.Days))
		for i, d := range s.Itinerary.Days {
			d.Items = append([]models.ItineraryItem(nil), d.Items...)
			it.Days[i] = d
		}
		out.Itinerary = &it
	}
	return &out
}

// Store persists planning sessions.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, s *Session) error
	// UpdateItinerary writes only the itinerary columns of session id.
	UpdateItinerary(ctx context.Context, id, status, errMsg string, it *models.Itinerary) error
	Ping(ctx context.Context) error
	Close() error
	Kind() string
}
