package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a JSON numeric input that also accepts numeric strings.
// Anything that does not parse as a finite number decodes to 0.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*n = 0
			return nil
		}
		data = []byte(strings.TrimSpace(s))
	}

	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		*n = 0
		return nil
	}
	*n = Number(v)
	return nil
}

// Float64 returns the value as float64.
func (n Number) Float64() float64 { return float64(n) }

// Int returns the value truncated to an int.
func (n Number) Int() int { return int(n) }

// Ptr returns a float pointer, nil for a nil receiver.
func (n *Number) Ptr() *float64 {
	if n == nil {
		return nil
	}
	v := float64(*n)
	return &v
}
