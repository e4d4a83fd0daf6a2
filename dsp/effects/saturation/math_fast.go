//go:build fastmath

package saturation

import (
	"github.com/meko-christian/algo-approx"
)

// expLimit keeps the approximation inside its accurate range; the logistic
// curve is already saturated to +-1 in float64 well before this point.
const expLimit = 80.0

// mathExp computes e^x using fast approximation.
func mathExp(x float64) float64 {
	if x > expLimit {
		x = expLimit
	} else if x < -expLimit {
		x = -expLimit
	}

	return approx.FastExp(x)
}
