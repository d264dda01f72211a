package market

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// CoerceVolume converts an upstream volume field to a non-negative float.
// Anything missing, malformed, negative or non-finite becomes 0.
func CoerceVolume(v any) float64 {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	case json.Number:
		f = parseVolume(val.String())
	case string:
		f = parseVolume(val)
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

func parseVolume(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		// decimal rejects exponents like "1e+06" in some forms
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0
		}
		return f
	}
	if d.IsNegative() {
		return 0
	}
	return d.InexactFloat64()
}

// CoerceSeries applies CoerceVolume to every element and keeps at most the
// last count values.
func CoerceSeries[T any](raw []T, count int) []float64 {
	if count > 0 && len(raw) > count {
		raw = raw[len(raw)-count:]
	}
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = CoerceVolume(v)
	}
	return out
}
