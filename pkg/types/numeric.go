// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// OptFloat is a numeric field that upstream providers may send as a JSON
// number, a numeric string, null, or not at all. Values that cannot be parsed
// decode as absent instead of failing the surrounding document.
type OptFloat struct {
	value float64
	valid bool
}

// Float returns a present OptFloat holding v.
func Float(v float64) OptFloat {
	return OptFloat{value: v, valid: true}
}

// ParseFloat parses s as a decimal number. Empty, malformed or non-finite
// input (NaN, Inf) yields an absent value.
func ParseFloat(s string) OptFloat {
	s = strings.TrimSpace(s)
	if s == "" {
		return OptFloat{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return OptFloat{}
	}
	return Float(v)
}

// Get returns the value and whether it is present.
func (f OptFloat) Get() (float64, bool) {
	return f.value, f.valid
}

// Valid reports whether the value is present.
func (f OptFloat) Valid() bool { return f.valid }

// Or returns the value, or def when absent.
func (f OptFloat) Or(def float64) float64 {
	if !f.valid {
		return def
	}
	return f.value
}

// String renders the shortest decimal form of the value, or "N/A".
func (f OptFloat) String() string {
	if !f.valid {
		return "N/A"
	}
	return strconv.FormatFloat(f.value, 'f', -1, 64)
}

// MarshalJSON encodes a present value as a number and an absent one as
// null. Non-finite values have no JSON form and encode as null.
func (f OptFloat) MarshalJSON() ([]byte, error) {
	if !f.valid || math.IsNaN(f.value) || math.IsInf(f.value, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(f.value, 'f', -1, 64)), nil
}

// UnmarshalJSON accepts numbers, numeric strings and null. It never returns
// an error for an unparseable value; the field is left absent instead.
func (f *OptFloat) UnmarshalJSON(data []byte) error {
	*f = OptFloat{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*f = ParseFloat(s)
		return nil
	}
	*f = ParseFloat(string(data))
	return nil
}
