package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FlexFloat decodes a numeric field that the data source may deliver as a
// JSON number, a quoted number, null, or garbage. Anything that does not
// parse becomes zero; decoding never fails.
type FlexFloat float64

// UnmarshalJSON decodes a FlexFloat, coercing malformed values to zero.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		*f = 0
		return nil
	}

	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*f = 0
			return nil
		}
		raw = strings.TrimSpace(s)
	}

	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*f = 0
		return nil
	}

	*f = FlexFloat(val)
	return nil
}

// Float64 returns the plain float value.
func (f FlexFloat) Float64() float64 {
	return float64(f)
}
