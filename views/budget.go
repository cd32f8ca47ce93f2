package views

import (
	"math"

	"autotrip/models"
)

// BudgetBreakdown sums item costs per bucket. Total is the sum of the four
// buckets.
type BudgetBreakdown struct {
	Hotel       float64 `json:"hotel"`
	Meals       float64 `json:"meals"`
	Attractions float64 `json:"attractions"`
	Transport   float64 `json:"transport"`
	Total       float64 `json:"total"`
}

// BudgetTile is one entry of the breakdown grid.
type BudgetTile struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// Budget aggregates every item of every day in one pass. Missing costs
// count as zero; unknown categories are ignored.
func Budget(it *models.Itinerary) BudgetBreakdown {
	var b BudgetBreakdown
	if it == nil {
		return b
	}
	for _, day := range it.Days {
		for _, item := range day.Items {
			cost := item.CostValue()
			switch item.Category {
			case models.CategoryHotel:
				b.Hotel += cost
			case models.CategoryRestaurant, models.CategoryMeal:
				b.Meals += cost
			case models.CategoryAttraction:
				b.Attractions += cost
			case models.CategoryTransport:
				b.Transport += cost
			}
		}
	}
	b.Total = b.Hotel + b.Meals + b.Attractions + b.Transport
	return b
}

// DisplayTotal is the headline estimate. A non-zero backend total wins
// over the derived one; both are rounded up to whole units.
func DisplayTotal(it *models.Itinerary, b BudgetBreakdown) float64 {
	if it != nil && it.TotalEstimatedCost != nil && *it.TotalEstimatedCost != 0 {
		return math.Ceil(*it.TotalEstimatedCost)
	}
	return math.Ceil(b.Total)
}

// Tiles lists the non-empty buckets in fixed order.
func (b BudgetBreakdown) Tiles() []BudgetTile {
	all := []BudgetTile{
		{Label: "Hotel", Amount: b.Hotel},
		{Label: "Meals", Amount: b.Meals},
		{Label: "Attractions", Amount: b.Attractions},
		{Label: "Transport", Amount: b.Transport},
	}
	tiles := make([]BudgetTile, 0, len(all))
	for _, t := range all {
		if t.Amount > 0 {
			tiles = append(tiles, t)
		}
	}
	return tiles
}

// Heading is the itinerary page title.
func Heading(it *models.Itinerary) string {
	if it == nil {
		return ""
	}
	if it.Origin != "" {
		return "Trip from " + it.Origin + " to " + it.Location
	}
	return "Your " + it.Location + " Itinerary"
}
