package util

import "math"

// SafeFloat replaces NaN and Inf with zero.
func SafeFloat(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// PercentChange returns the change from prev to cur as a percentage.
// Returns 0 when prev is not a positive finite number.
func PercentChange(prev, cur float64) float64 {
	if prev <= 0 || math.IsNaN(prev) || math.IsInf(prev, 0) {
		return 0
	}
	return SafeFloat((cur - prev) / prev * 100)
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
