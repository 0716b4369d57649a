package expr

import (
	"math"
	"strconv"
	"strings"
)

// IsTruthy reports whether a value counts as true: any nonzero value,
// including NaN, is true.
func IsTruthy(v float32) bool {
	return v != 0
}

func boolToFloat(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

// ToFloat32 converts a host value to float32.
// It handles the numeric kinds produced by YAML and JSON decoders, bools
// (1 or 0) and numeric strings. The second result is false when the value
// cannot be converted or does not fit in float32.
func ToFloat32(v any) (float32, bool) {
	var f float64
	switch val := v.(type) {
	case float32:
		return val, true
	case float64:
		f = val
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	case int32:
		f = float64(val)
	case uint:
		f = float64(val)
	case uint64:
		f = float64(val)
	case uint32:
		f = float64(val)
	case bool:
		return boolToFloat(val), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 32)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if !math.IsInf(f, 0) && math.Abs(f) > math.MaxFloat32 {
		return 0, false
	}
	return float32(f), true
}
