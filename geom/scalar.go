package geom

import "math"

// FullCircle is 360 degrees in radians.
const FullCircle = 2 * math.Pi

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// MoveTowards steps a toward b by at most step and holds at b once reached.
// A negative step does not move.
func MoveTowards(a, b, step float64) float64 {
	if step < 0 {
		step = 0
	}
	if a == b || math.Abs(b-a) <= step {
		return b
	}
	if b > a {
		return a + step
	}
	return a - step
}

// NormalizeAngle wraps a into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, FullCircle)
	if a < 0 {
		a += FullCircle
	}
	if a >= FullCircle {
		a = 0
	}
	return a
}
