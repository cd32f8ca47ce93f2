package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// The backend has shipped several shapes over time. These helpers read a
// raw field leniently so the canonical types never carry the ambiguity.

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// jsonNumber accepts only a JSON number.
func jsonNumber(raw json.RawMessage) (float64, bool) {
	if isNull(raw) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	return f, true
}

// looseNumber accepts a JSON number or a numeric string like "120" or "$120".
func looseNumber(raw json.RawMessage) (float64, bool) {
	if f, ok := jsonNumber(raw); ok {
		return f, true
	}
	var s string
	if isNull(raw) || json.Unmarshal(raw, &s) != nil {
		return 0, false
	}
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// looseString accepts a JSON string or number and returns its text form.
func looseString(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if f, ok := jsonNumber(raw); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
