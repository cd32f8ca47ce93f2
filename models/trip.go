package models

import (
	"encoding/json"
	"time"
)

// DateLayout is the wire format for every trip date.
const DateLayout = "2006-01-02"

// MinBudget is the smallest budget the intake form accepts.
const MinBudget = 100

// TripRequest is what the intake form emits. It is not modified after
// creation; WithSelectedHotel returns a copy.
type TripRequest struct {
	Origin         string   `json:"origin"`
	Destination    string   `json:"destination"`
	StartDate      string   `json:"start_date"`
	EndDate        string   `json:"end_date"`
	Budget         float64  `json:"budget"`
	Travelers      int      `json:"travelers"`
	Interests      []string `json:"interests"`
	Specifications string   `json:"specifications,omitempty"`
	SelectedHotel  *Hotel   `json:"selected_hotel,omitempty"`
}

// WithSelectedHotel returns a copy of r referencing h.
func (r TripRequest) WithSelectedHotel(h *Hotel) TripRequest {
	out := r
	out.Interests = append([]string(nil), r.Interests...)
	if h != nil {
		hc := *h
		out.SelectedHotel = &hc
	} else {
		out.SelectedHotel = nil
	}
	return out
}

// Nights is the number of nights between the start and end date.
func (r TripRequest) Nights() int {
	start, err1 := time.Parse(DateLayout, r.StartDate)
	end, err2 := time.Parse(DateLayout, r.EndDate)
	if err1 != nil || err2 != nil || end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours() / 24)
}

// Days counts both the start and the end day.
func (r TripRequest) Days() int {
	if _, err := time.Parse(DateLayout, r.StartDate); err != nil {
		return 0
	}
	return r.Nights() + 1
}

// Trip is a stored trip as returned by the backend.
type Trip struct {
	ID        string     `json:"id"`
	Origin    string     `json:"origin,omitempty"`
	Location  string     `json:"location"`
	StartDate string     `json:"start_date"`
	EndDate   string     `json:"end_date"`
	Duration  int        `json:"duration"`
	Budget    float64    `json:"budget"`
	Travelers int        `json:"travelers"`
	Interests []string   `json:"interests"`
	Itinerary *Itinerary `json:"itinerary,omitempty"`
}

type rawTrip struct {
	ID             json.RawMessage `json:"id"`
	Origin         string          `json:"origin"`
	StartLocation  string          `json:"starting_location"`
	Location       string          `json:"location"`
	Destination    string          `json:"destination"`
	StartDate      string          `json:"start_date"`
	StartDateCamel string          `json:"startDate"`
	EndDate        string          `json:"end_date"`
	EndDateCamel   string          `json:"endDate"`
	Duration       json.RawMessage `json:"duration"`
	Budget         json.RawMessage `json:"budget"`
	Travelers      json.RawMessage `json:"travelers"`
	Interests      []string        `json:"interests"`
	Itinerary      *Itinerary      `json:"itinerary"`
}

// UnmarshalJSON accepts both the camelCase and the snake_case trip shapes.
func (t *Trip) UnmarshalJSON(data []byte) error {
	var raw rawTrip
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := Trip{
		ID:        looseString(raw.ID),
		Origin:    firstNonEmpty(raw.Origin, raw.StartLocation),
		Location:  firstNonEmpty(raw.Location, raw.Destination),
		StartDate: firstNonEmpty(raw.StartDate, raw.StartDateCamel),
		EndDate:   firstNonEmpty(raw.EndDate, raw.EndDateCamel),
		Interests: raw.Interests,
		Itinerary: raw.Itinerary,
	}
	if out.Interests == nil {
		out.Interests = []string{}
	}
	if b, ok := looseNumber(raw.Budget); ok {
		out.Budget = b
	}
	if n, ok := looseNumber(raw.Travelers); ok {
		out.Travelers = int(n)
	}
	if d, ok := looseNumber(raw.Duration); ok {
		out.Duration = int(d)
	} else if out.Itinerary != nil {
		out.Duration = out.Itinerary.Duration
	}

	*t = out
	return nil
}
