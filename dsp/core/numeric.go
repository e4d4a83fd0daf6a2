package core

import "math"

// Clamp bounds value to [lo, hi]. Reversed bounds are swapped. NaN passes
// through; see [Sanitize].
func Clamp(value, lo, hi float64) float64 {
	if hi < lo {
		lo, hi = hi, lo
	}

	switch {
	case value < lo:
		return lo
	case value > hi:
		return hi
	default:
		return value
	}
}

// Sanitize is [Clamp] with NaN replaced by def (itself clamped). Infinite
// values land on the nearer bound.
func Sanitize(value, lo, hi, def float64) float64 {
	if value != value {
		value = def
	}

	return Clamp(value, lo, hi)
}

// IsFinite reports whether x is an ordinary number.
func IsFinite(x float64) bool {
	return !math.IsInf(x, 0) && !math.IsNaN(x)
}

// FlushDenormals returns 0 for magnitudes below 1e-30.
func FlushDenormals(x float64) float64 {
	if math.Abs(x) < 1e-30 {
		return 0
	}

	return x
}

// DBToLinear converts an amplitude level in dB to a gain factor. 0 dB is
// exactly 1 and -Inf dB is 0.
func DBToLinear(db float64) float64 {
	if db == 0 {
		return 1
	}

	return math.Pow(10, db/20)
}

// LinearToDB converts a gain factor to dB. Zero gives -Inf and negative
// gains give NaN.
func LinearToDB(gain float64) float64 {
	switch {
	case gain < 0:
		return math.NaN()
	case gain == 0:
		return math.Inf(-1)
	default:
		return 20 * math.Log10(gain)
	}
}
