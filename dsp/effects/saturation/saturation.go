package saturation

import (
	"fmt"
	"math"
	"strings"
)

// Algorithm selects one of the saturation curves.
type Algorithm int

const (
	// Tanh is the hyperbolic tangent soft clipper.
	Tanh Algorithm = iota
	// Arctan is the scaled arctangent curve.
	Arctan
	// HardClip limits samples to [-1, 1].
	HardClip
	// Sigmoid is the logistic function mapped to [-1, 1].
	Sigmoid
	// SineFold is a sine wavefolder.
	SineFold
)

// Count is the number of available algorithms.
const Count = 5

var names = [Count]string{
	"Tanh (Soft)",
	"ArcTan (Warm)",
	"Hard Clip",
	"Sigmoid",
	"Sine Fold",
}

var slugs = [Count]string{"tanh", "atan", "hardclip", "sigmoid", "sinefold"}

// Names returns the display names in index order.
func Names() []string {
	out := make([]string, Count)
	copy(out, names[:])

	return out
}

// String returns the display name of a.
func (a Algorithm) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}

	return names[a]
}

// Slug returns the short lowercase identifier of a.
func (a Algorithm) Slug() string {
	return slugs[a.Clamp()]
}

// Valid reports whether a is one of the defined algorithms.
func (a Algorithm) Valid() bool {
	return a >= Tanh && a <= SineFold
}

// Clamp returns the nearest defined algorithm.
func (a Algorithm) Clamp() Algorithm {
	if a < Tanh {
		return Tanh
	}

	if a > SineFold {
		return SineFold
	}

	return a
}

// ParseAlgorithm resolves a display name, slug or decimal index.
// Matching is case-insensitive.
func ParseAlgorithm(name string) (Algorithm, error) {
	key := strings.ToLower(strings.TrimSpace(name))

	for i := range Count {
		if key == slugs[i] || key == strings.ToLower(names[i]) {
			return Algorithm(i), nil
		}
	}

	if len(key) == 1 && key[0] >= '0' && key[0] < '0'+Count {
		return Algorithm(key[0] - '0'), nil
	}

	return Tanh, fmt.Errorf("saturation: unknown algorithm %q", name)
}

// Shape applies algorithm a to x. Undefined algorithms use the nearest defined one.
func Shape(a Algorithm, x float64) float64 {
	switch a.Clamp() {
	case Tanh:
		return math.Tanh(x)
	case Arctan:
		return ArcTan(x)
	case HardClip:
		return Clip(x)
	case Sigmoid:
		return Logistic(x)
	default:
		return math.Sin(x)
	}
}

// ArcTan returns (2/pi)*atan(x).
func ArcTan(x float64) float64 {
	return (2 / math.Pi) * math.Atan(x)
}

// Clip limits x to [-1, 1].
func Clip(x float64) float64 {
	if x > 1 {
		return 1
	}

	if x < -1 {
		return -1
	}

	return x
}

// Logistic returns 2/(1+exp(-x)) - 1.
func Logistic(x float64) float64 {
	return 2*(1/(1+mathExp(-x))) - 1
}

// Func returns the curve for a as a plain function value.
func Func(a Algorithm) func(float64) float64 {
	switch a.Clamp() {
	case Tanh:
		return math.Tanh
	case Arctan:
		return ArcTan
	case HardClip:
		return Clip
	case Sigmoid:
		return Logistic
	default:
		return math.Sin
	}
}

// DriveInPlace multiplies every sample by gain and shapes it with a.
// The curve is chosen once per call, not per sample.
func DriveInPlace(buf []float64, gain float64, a Algorithm) {
	switch a.Clamp() {
	case Tanh:
		for i, x := range buf {
			buf[i] = math.Tanh(x * gain)
		}
	case Arctan:
		for i, x := range buf {
			buf[i] = ArcTan(x * gain)
		}
	case HardClip:
		for i, x := range buf {
			buf[i] = Clip(x * gain)
		}
	case Sigmoid:
		for i, x := range buf {
			buf[i] = Logistic(x * gain)
		}
	default:
		for i, x := range buf {
			buf[i] = math.Sin(x * gain)
		}
	}
}
