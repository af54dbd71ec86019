package output

import (
	"math"
	"strconv"
)

// RoundFloat rounds f to at most 6 decimal places.
func RoundFloat(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	return math.Round(f*1e6) / 1e6
}

// FormatFloat formats f rounded to 6 decimal places, without trailing
// zeros.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(RoundFloat(f), 'f', -1, 64)
}
