// Package window generates the cosine-sum windows used for tone analysis.
package window

import (
	"fmt"
	"math"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	// TypeBlackmanHarris4Term has -92 dB sidelobes; a bin-centred tone spans
	// seven bins.
	TypeBlackmanHarris4Term
)

// Cosine-sum terms a_k of w(x) = sum a_k cos(2 pi k x).
var terms = map[Type][]float64{
	TypeRectangular:         {1},
	TypeHann:                {0.5, -0.5},
	TypeBlackmanHarris4Term: {0.35875, -0.48829, 0.14128, -0.01168},
}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic generates the DFT-even form (period N rather than N-1), which
// is what coherent FFT analysis wants.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

func (t Type) String() string {
	switch t {
	case TypeRectangular:
		return "Rectangular"
	case TypeHann:
		return "Hann"
	case TypeBlackmanHarris4Term:
		return "Blackman-Harris"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// MainLobeHalfWidth returns the number of bins on each side of a bin-centred
// tone that carry its energy. Unknown types are treated as rectangular.
func (t Type) MainLobeHalfWidth() int {
	if a, ok := terms[t]; ok {
		return len(a)
	}

	return 1
}

// Generate returns length coefficients of window t. Unknown types produce a
// rectangular window.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	a, ok := terms[t]
	if !ok {
		a = terms[TypeRectangular]
	}

	period := float64(length - 1)
	if cfg.periodic || length == 1 {
		period = float64(length)
	}

	out := make([]float64, length)
	for n := range out {
		phase := 2 * math.Pi * float64(n) / period

		var w float64
		for k, ak := range a {
			w += ak * math.Cos(float64(k)*phase)
		}

		out[n] = w
	}

	return out
}

// CoherentGain returns mean(w), the amplitude a bin-centred tone keeps
// after windowing.
func CoherentGain(w []float64) float64 {
	if len(w) == 0 {
		return 0
	}

	var sum float64
	for _, v := range w {
		sum += v
	}

	return sum / float64(len(w))
}

// EnergySum returns sum(w^2), used to turn windowed bin energy back into
// signal power.
func EnergySum(w []float64) float64 {
	var sum float64
	for _, v := range w {
		sum += v * v
	}

	return sum
}
