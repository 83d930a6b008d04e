package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Amount is a monetary value that tolerates the backend's inconsistent
// number encoding: plain numbers, quoted numbers, empty strings, and null
// all decode, with the empty forms counting as zero.
type Amount float64

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" || raw == `""` {
		*a = 0
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*a = Amount(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*a = 0
		return nil
	}
	*a = Amount(f)
	return nil
}

// String formats the amount the way the forms display it, without a
// trailing ".0" for whole numbers.
func (a Amount) String() string {
	return strconv.FormatFloat(float64(a), 'f', -1, 64)
}
