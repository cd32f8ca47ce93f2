package views

import (
	"fmt"
	"math"

	"autotrip/models"
)

// CategoryStyle is the icon, label and colour of an item category.
type CategoryStyle struct {
	Icon  string `json:"icon"`
	Label string `json:"label"`
	Color string `json:"color"`
}

var (
	hotelStyle      = CategoryStyle{Icon: "🏨", Label: "Hotel", Color: "blue"}
	restaurantStyle = CategoryStyle{Icon: "🍽️", Label: "Restaurant", Color: "green"}
	attractionStyle = CategoryStyle{Icon: "🎯", Label: "Attraction", Color: "purple"}
	transportStyle  = CategoryStyle{Icon: "🚗", Label: "Transport", Color: "orange"}
	activityStyle   = CategoryStyle{Icon: "📍", Label: "Activity", Color: "gray"}
)

func CategoryStyleFor(category string) CategoryStyle {
	switch category {
	case models.CategoryHotel:
		return hotelStyle
	case models.CategoryRestaurant, models.CategoryMeal:
		return restaurantStyle
	case models.CategoryAttraction:
		return attractionStyle
	case models.CategoryTransport:
		return transportStyle
	default:
		return activityStyle
	}
}

// MaxStars is the length of every star row.
const MaxStars = 5

// Stars returns MaxStars flags, the first floor(rating) of them set.
func Stars(rating float64) []bool {
	filled := int(math.Floor(rating))
	stars := make([]bool, MaxStars)
	for i := 0; i < MaxStars && i < filled; i++ {
		stars[i] = true
	}
	return stars
}

type TimelineItem struct {
	Item      models.ItineraryItem `json:"item"`
	Style     CategoryStyle        `json:"style"`
	Stars     []bool               `json:"stars,omitempty"`
	CostLabel string               `json:"cost_label,omitempty"`
	Connector bool                 `json:"connector"`
}

type TimelineDay struct {
	Day   int            `json:"day"`
	Date  string         `json:"date"`
	Items []TimelineItem `json:"items"`
}

// Timeline lays the days out in order with their items in sequence order.
// Every item but the last of a day draws a connector to the next one.
func Timeline(it *models.Itinerary) []TimelineDay {
	if it == nil {
		return nil
	}
	days := make([]TimelineDay, 0, len(it.Days))
	for _, d := range it.Days {
		td := TimelineDay{Day: d.Day, Date: d.Date, Items: make([]TimelineItem, 0, len(d.Items))}
		for i, item := range d.Items {
			ti := TimelineItem{
				Item:      item,
				Style:     CategoryStyleFor(item.Category),
				Connector: i < len(d.Items)-1,
			}
			if item.Rating != nil {
				ti.Stars = Stars(*item.Rating)
			}
			if cost := item.CostValue(); cost > 0 {
				ti.CostLabel = FormatMoney(cost)
			}
			td.Items = append(td.Items, ti)
		}
		days = append(days, td)
	}
	return days
}

// FormatMoney renders an amount as "$N", dropping a zero fraction.
func FormatMoney(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("$%.0f", v)
	}
	return fmt.Sprintf("$%.2f", v)
}
