package models

import "math"

// ClampInt limits v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// ClampFloat limits v to [lo, hi].
func ClampFloat(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// RoundInt rounds to the nearest integer, ties to even.
func RoundInt(v float64) int {
	return int(math.RoundToEven(v))
}
