package models

import (
	"encoding/json"
)

// NoDistance is shown when a hotel carries no distance field at all.
const NoDistance = "N/A"

// Hotel is the canonical hotel shape. UnmarshalJSON folds every shape the
// backend has produced into it.
type Hotel struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Rating        *float64    `json:"rating,omitempty"`
	PricePerNight float64     `json:"price_per_night"`
	Address       string      `json:"address"`
	Amenities     []string    `json:"amenities"`
	Images        []string    `json:"images,omitempty"`
	Coordinate    *Coordinate `json:"coordinates,omitempty"`
	Distance      string      `json:"distance_from_center"`
}

type rawHotel struct {
	ID                 json.RawMessage `json:"id"`
	HotelID            json.RawMessage `json:"hotel_id"`
	Name               string          `json:"name"`
	Title              string          `json:"title"`
	Rating             json.RawMessage `json:"rating"`
	Price              json.RawMessage `json:"price"`
	PricePerNight      json.RawMessage `json:"price_per_night"`
	Address            string          `json:"address"`
	Amenities          []string        `json:"amenities"`
	Image              string          `json:"image"`
	Images             []string        `json:"images"`
	Photos             []string        `json:"photos"`
	Distance           json.RawMessage `json:"distance"`
	DistanceFromCenter json.RawMessage `json:"distance_from_center"`
	Lat                json.RawMessage `json:"lat"`
	Latitude           json.RawMessage `json:"latitude"`
	Lng                json.RawMessage `json:"lng"`
	Longitude          json.RawMessage `json:"longitude"`
	Location           json.RawMessage `json:"location"`
	Coordinates        json.RawMessage `json:"coordinates"`
}

type rawPoint struct {
	Lat       json.RawMessage `json:"lat"`
	Lng       json.RawMessage `json:"lng"`
	Latitude  json.RawMessage `json:"latitude"`
	Longitude json.RawMessage `json:"longitude"`
	Address   string          `json:"address"`
}

func (h *Hotel) UnmarshalJSON(data []byte) error {
	var raw rawHotel
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var location, coordinates rawPoint
	locationText := ""
	if isObject(raw.Location) {
		if err := json.Unmarshal(raw.Location, &location); err != nil {
			return err
		}
	} else {
		locationText = looseString(raw.Location)
	}
	if isObject(raw.Coordinates) {
		if err := json.Unmarshal(raw.Coordinates, &coordinates); err != nil {
			return err
		}
	}

	out := Hotel{
		ID:        firstNonEmpty(looseString(raw.ID), looseString(raw.HotelID)),
		Name:      firstNonEmpty(raw.Name, raw.Title, "Hotel"),
		Address:   firstNonEmpty(raw.Address, location.Address, locationText),
		Amenities: raw.Amenities,
		Distance:  firstNonEmpty(looseString(raw.DistanceFromCenter), looseString(raw.Distance), NoDistance),
	}
	if out.Amenities == nil {
		out.Amenities = []string{}
	}

	if r, ok := looseNumber(raw.Rating); ok {
		out.Rating = &r
	}

	// price_per_night wins when it carries a value; a zero falls through
	if p, ok := looseNumber(raw.PricePerNight); ok && p != 0 {
		out.PricePerNight = p
	} else if p, ok := looseNumber(raw.Price); ok {
		out.PricePerNight = p
	}

	if raw.Image != "" {
		out.Images = append(out.Images, raw.Image)
	}
	out.Images = append(out.Images, raw.Images...)
	out.Images = append(out.Images, raw.Photos...)

	lat, latOK := firstNumber(raw.Lat, raw.Latitude, location.Lat, coordinates.Lat, location.Latitude)
	lng, lngOK := firstNumber(raw.Lng, raw.Longitude, location.Lng, coordinates.Lng, location.Longitude)
	if latOK && lngOK {
		c := Coordinate{Lat: lat, Lng: lng}
		if c.Valid() {
			out.Coordinate = &c
		}
	}

	*h = out
	return nil
}

// firstNumber returns the first candidate that is a JSON number.
func firstNumber(candidates ...json.RawMessage) (float64, bool) {
	for _, c := range candidates {
		if f, ok := jsonNumber(c); ok {
			return f, true
		}
	}
	return 0, false
}

// Image returns the first known image URL, or "".
func (h Hotel) Image() string {
	if len(h.Images) == 0 {
		return ""
	}
	return h.Images[0]
}

// Mappable reports whether the hotel can be placed on the map.
func (h Hotel) Mappable() bool {
	return h.Coordinate != nil
}
