package models

import "encoding/json"

// LocationData is the aggregated location response. The backend either
// wraps the payload as {status, location, data, summary} or sends the
// data object bare.
type LocationData struct {
	Status   string      `json:"status"`
	Location string      `json:"location"`
	Center   *Coordinate `json:"center,omitempty"`
	Hotels   []Hotel     `json:"hotels"`
	Summary  string      `json:"summary,omitempty"`
}

type rawLocationPayload struct {
	BasicInfo struct {
		Coordinates struct {
			Lat json.RawMessage `json:"lat"`
			Lng json.RawMessage `json:"lng"`
		} `json:"coordinates"`
	} `json:"basic_info"`
	Hotels []Hotel `json:"hotels"`
}

func (l *LocationData) UnmarshalJSON(data []byte) error {
	var wrapper struct {
		Status   string          `json:"status"`
		Location string          `json:"location"`
		Data     json.RawMessage `json:"data"`
		Summary  json.RawMessage `json:"summary"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return err
	}

	body := wrapper.Data
	if !isObject(body) {
		body = data
	}

	var payload rawLocationPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return err
	}

	out := LocationData{
		Status:   wrapper.Status,
		Location: wrapper.Location,
		Hotels:   payload.Hotels,
		Summary:  looseString(wrapper.Summary),
	}
	if out.Hotels == nil {
		out.Hotels = []Hotel{}
	}

	lat, latOK := jsonNumber(payload.BasicInfo.Coordinates.Lat)
	lng, lngOK := jsonNumber(payload.BasicInfo.Coordinates.Lng)
	if latOK && lngOK {
		out.Center = &Coordinate{Lat: lat, Lng: lng}
	}

	*l = out
	return nil
}
