package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Price is a product price. Backend payloads are not strict about the field
// type (numbers, numeric strings, sometimes garbage), so decoding tolerates
// all of them: anything non-numeric or non-finite becomes 0. A price never
// fails to decode.
type Price float64

func (p *Price) UnmarshalJSON(data []byte) error {
	*p = 0
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	*p = Price(f)
	return nil
}

// Count is a non-negative integer counter with the same tolerant decoding as
// Price. Missing or malformed counters default to 0 instead of failing the
// whole payload.
type Count int

func (c *Count) UnmarshalJSON(data []byte) error {
	*c = 0
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	*c = Count(f)
	return nil
}

// flexID decodes an identifier that may arrive as a string or a number.
type flexID string

func (id *flexID) UnmarshalJSON(data []byte) error {
	*id = ""
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err == nil {
			*id = flexID(v)
		}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*id = flexID(n.String())
	}
	return nil
}
