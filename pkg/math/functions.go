package math

import "math"

// Clamp limits v to the range [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to the range [0, 1].
func Clamp01(v float32) float32 {
	return Clamp(v, 0, 1)
}

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

// Abs returns the absolute value of v.
func Abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// Sin returns the sine of v (radians).
func Sin(v float32) float32 {
	return float32(math.Sin(float64(v)))
}

// Cos returns the cosine of v (radians).
func Cos(v float32) float32 {
	return float32(math.Cos(float64(v)))
}

// Atan2 returns the arctangent of y/x, in radians.
func Atan2(y, x float32) float32 {
	return float32(math.Atan2(float64(y), float64(x)))
}

// Acos returns the arccosine of v, in radians.
func Acos(v float32) float32 {
	return float32(math.Acos(float64(v)))
}

// Sqrt returns the square root of v.
func Sqrt(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}

// Pi is the circle constant as float32.
const Pi = float32(math.Pi)

// SmoothNoise1D returns a bounded, continuous pseudo-noise value in [-1, 1]
// for the given time and seed. The same (t, seed) pair always produces the
// same value, which keeps procedural motion repeatable across runs.
func SmoothNoise1D(t, seed float32) float32 {
	// Sum of incommensurate sines; band-limited and cheap.
	a := math.Sin(float64(t*1.7 + seed*12.9898))
	b := math.Sin(float64(t*2.3 + seed*78.233))
	c := math.Sin(float64(t*0.9 + seed*37.719))
	return float32((a + b + c) / 3.0)
}
