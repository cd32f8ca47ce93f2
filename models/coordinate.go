package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the point is finite and inside the lat/lng ranges.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

func (c Coordinate) String() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}

// ParseStops reads "lat,lng;lat,lng;..." into an ordered stop list.
func ParseStops(s string) ([]Coordinate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ";")
	stops := make([]Coordinate, 0, len(parts))
	for i, part := range parts {
		pair := strings.Split(strings.TrimSpace(part), ",")
		if len(pair) != 2 {
			return nil, fmt.Errorf("stop %d: expected lat,lng", i+1)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(pair[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("stop %d: invalid latitude: %w", i+1, err)
		}
		lng, err := strconv.ParseFloat(strings.TrimSpace(pair[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("stop %d: invalid longitude: %w", i+1, err)
		}
		c := Coordinate{Lat: lat, Lng: lng}
		if !c.Valid() {
			return nil, fmt.Errorf("stop %d: coordinate out of range", i+1)
		}
		stops = append(stops, c)
	}
	return stops, nil
}
