package testutil

import (
	"math"
	"testing"
)

// RequireSliceNearlyEqual stops the test at the first sample where got and
// want differ by more than eps.
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()

	if n, m := len(got), len(want); n != m {
		t.Fatalf("got %d samples, want %d", n, m)
	}

	for i, w := range want {
		if d := math.Abs(got[i] - w); d > eps {
			t.Fatalf("sample %d: %v vs %v, |diff| %.3g exceeds %.3g", i, got[i], w, d, eps)
		}
	}
}

// RequireBlockEqual fails t unless got and want are bit-for-bit identical.
func RequireBlockEqual(t *testing.T, got, want [][]float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("channel count mismatch: got %d, want %d", len(got), len(want))
	}

	for c := range got {
		if len(got[c]) != len(want[c]) {
			t.Fatalf("channel %d: length mismatch: got %d, want %d", c, len(got[c]), len(want[c]))
		}

		for i := range got[c] {
			if math.Float64bits(got[c][i]) != math.Float64bits(want[c][i]) {
				t.Fatalf("channel %d index %d: got %v, want %v", c, i, got[c][i], want[c][i])
			}
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()

	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// SineFit is the least-squares fit of a single sinusoid of known frequency.
type SineFit struct {
	Amplitude float64
	// Lag is the phase lag relative to sin(omega*n), in radians.
	Lag float64
	// ResidualRMS is the RMS of everything the sinusoid does not explain.
	ResidualRMS float64
}

// FitSine fits a*sin(omega*(n+offset)) + b*cos(omega*(n+offset)) to signal,
// where offset is the index of signal[0] in the original stream. The signal
// should span an integer number of periods.
func FitSine(signal []float64, omega float64, offset int) SineFit {
	if len(signal) == 0 {
		return SineFit{}
	}

	var a, b float64

	for i, v := range signal {
		ph := omega * float64(i+offset)
		a += v * math.Sin(ph)
		b += v * math.Cos(ph)
	}

	scale := 2 / float64(len(signal))
	a *= scale
	b *= scale

	var residual float64

	for i, v := range signal {
		ph := omega * float64(i+offset)
		r := v - a*math.Sin(ph) - b*math.Cos(ph)
		residual += r * r
	}

	return SineFit{
		Amplitude:   math.Hypot(a, b),
		Lag:         math.Atan2(-b, a),
		ResidualRMS: math.Sqrt(residual / float64(len(signal))),
	}
}
