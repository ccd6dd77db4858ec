// Package physics provides proximity tests and a broad-phase grid.
package physics

import "math"

// Near reports whether two points are strictly closer than threshold on both axes.
func Near(x1, y1, x2, y2, threshold float64) bool {
	return math.Abs(x1-x2) < threshold && math.Abs(y1-y2) < threshold
}

// WithinBox reports whether two points are within reach on both axes (inclusive).
func WithinBox(x1, y1, x2, y2, reach float64) bool {
	return math.Abs(x1-x2) <= reach && math.Abs(y1-y2) <= reach
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampInt restricts v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
