package models

// Item categories as sent by the itinerary generator.
const (
	CategoryHotel      = "hotel"
	CategoryRestaurant = "restaurant"
	CategoryAttraction = "attraction"
	CategoryTransport  = "transport"
	CategoryMeal       = "meal"
)

// Itinerary is a generated multi-day plan. Days and items keep the order
// the generator produced.
type Itinerary struct {
	ID                 string         `json:"id"`
	Location           string         `json:"location"`
	Origin             string         `json:"origin,omitempty"`
	Duration           int            `json:"duration"`
	Days               []ItineraryDay `json:"days"`
	Summary            string         `json:"summary,omitempty"`
	TotalEstimatedCost *float64       `json:"total_estimated_cost,omitempty"`
	DataSources        string         `json:"data_sources,omitempty"`
}

type ItineraryDay struct {
	Day   int             `json:"day"`
	Date  string          `json:"date"`
	Items []ItineraryItem `json:"items"`
}

type ItineraryItem struct {
	ID          string   `json:"id"`
	Time        string   `json:"time"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Duration    string   `json:"duration"`
	Category    string   `json:"type"`
	Rating      *float64 `json:"rating,omitempty"`
	Cost        *float64 `json:"cost,omitempty"`
}

// CostValue returns the item cost, treating a missing cost as zero.
func (i ItineraryItem) CostValue() float64 {
	if i.Cost == nil {
		return 0
	}
	return *i.Cost
}

// ItemCount is the number of items across all days.
func (it *Itinerary) ItemCount() int {
	n := 0
	for _, d := range it.Days {
		n += len(d.Items)
	}
	return n
}
