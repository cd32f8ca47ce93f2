package views

import (
	"strconv"
	"strings"

	"autotrip/models"
)

const (
	HotelsErrorMessage = "Failed to load hotels. Please try again."
	HotelsEmptyMessage = "No hotels found for this location."
	SelectedHotelNote  = "Selected hotel for your trip"

	inlineAmenities = 3
)

type ListState string

const (
	ListLoading ListState = "loading"
	ListError   ListState = "error"
	ListEmpty   ListState = "empty"
	ListReady   ListState = "list"
)

type Amenity struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// AmenityIcon picks the icon for an amenity name. Only the exact names
// wifi, parking and restaurant (any case) get their own icon.
func AmenityIcon(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "wifi":
		return "wifi"
	case "parking":
		return "car"
	case "restaurant":
		return "coffee"
	default:
		return "dot"
	}
}

type HotelCard struct {
	Hotel        models.Hotel `json:"hotel"`
	Price        string       `json:"price"`
	Stars        []bool       `json:"stars,omitempty"`
	Amenities    []Amenity    `json:"amenities"`
	MoreCount    int          `json:"more_count,omitempty"`
	AllAmenities []Amenity    `json:"all_amenities,omitempty"`
	Selected     bool         `json:"selected"`
}

// MoreLabel is "+N more" when amenities were cut from the inline row.
func (c HotelCard) MoreLabel() string {
	if c.MoreCount <= 0 {
		return ""
	}
	return "+" + strconv.Itoa(c.MoreCount) + " more"
}

type HotelList struct {
	State      ListState   `json:"state"`
	Message    string      `json:"message,omitempty"`
	Cards      []HotelCard `json:"cards,omitempty"`
	SelectedID string      `json:"selected_id,omitempty"`
}

// BuildHotelList renders the hotel panel. err and loading take precedence
// over the result list.
func BuildHotelList(hotels []models.Hotel, selectedID string, loading bool, err error) HotelList {
	switch {
	case loading:
		return HotelList{State: ListLoading}
	case err != nil:
		return HotelList{State: ListError, Message: HotelsErrorMessage}
	case len(hotels) == 0:
		return HotelList{State: ListEmpty, Message: HotelsEmptyMessage}
	}

	list := HotelList{State: ListReady, Cards: make([]HotelCard, 0, len(hotels))}
	for _, h := range hotels {
		card := HotelCard{
			Hotel:    h,
			Price:    FormatMoney(h.PricePerNight),
			Selected: selectedID != "" && h.ID == selectedID,
		}
		if h.Rating != nil {
			card.Stars = Stars(*h.Rating)
		}

		all := make([]Amenity, 0, len(h.Amenities))
		for _, a := range h.Amenities {
			all = append(all, Amenity{Name: a, Icon: AmenityIcon(a)})
		}
		if len(all) > inlineAmenities {
			card.Amenities = all[:inlineAmenities]
			card.MoreCount = len(all) - inlineAmenities
		} else {
			card.Amenities = all
		}
		if card.Selected {
			card.AllAmenities = all
			list.SelectedID = h.ID
		}
		list.Cards = append(list.Cards, card)
	}
	return list
}

// FindHotel returns the hotel with id, if present.
func FindHotel(hotels []models.Hotel, id string) (*models.Hotel, bool) {
	if id == "" {
		return nil, false
	}
	for i := range hotels {
		if hotels[i].ID == id {
			h := hotels[i]
			return &h, true
		}
	}
	return nil, false
}
