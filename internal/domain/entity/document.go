package entity

import (
	"strconv"
	"strings"
)

// Document is the field view of a governed document. Values follow encoding/json
// decoding conventions (numbers are float64).
type Document map[string]interface{}

// Number returns the named field as a float64.
// The second result is false when the field is absent or not numeric.
func (d Document) Number(field string) (float64, bool) {
	val, ok := d[field]
	if !ok {
		return 0, false
	}
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case string:
		// numeric strings compare as numbers
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
