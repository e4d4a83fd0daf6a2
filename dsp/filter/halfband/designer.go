package halfband

import (
	"fmt"
	"math"
)

const (
	// DefaultTransition is the normalized transition bandwidth used by the
	// oversampling stage.
	DefaultTransition = 0.05
	// DefaultAttenuationDB is the stopband target used by the oversampling stage.
	DefaultAttenuationDB = 90.0

	maxCoefficientCount = 64
)

// DesignCoefficients computes polyphase halfband allpass coefficients for the
// given number of coefficients and normalized transition bandwidth.
// Even-indexed coefficients belong to the first branch, odd-indexed ones to
// the second.
func DesignCoefficients(numberOfCoeffs int, transition float64) ([]float64, error) {
	if err := validateDesignParams(numberOfCoeffs, transition); err != nil {
		return nil, err
	}

	el := newEllipse(numberOfCoeffs, transition)

	coeffs := make([]float64, numberOfCoeffs)
	for i := range coeffs {
		coeffs[i] = el.coefficient(i)
	}

	return coeffs, nil
}

// AttenuationFromOrderTBW computes stopband attenuation in dB for the given
// coefficient count and transition bandwidth.
func AttenuationFromOrderTBW(numberOfCoeffs int, transition float64) (float64, error) {
	if err := validateDesignParams(numberOfCoeffs, transition); err != nil {
		return 0, err
	}

	return newEllipse(numberOfCoeffs, transition).attenuation(), nil
}

// CoefficientCountFor returns the smallest coefficient count whose design
// reaches attenuationDB of stopband rejection at the given transition.
func CoefficientCountFor(attenuationDB, transition float64) (int, error) {
	if !isFinite(attenuationDB) || attenuationDB <= 0 {
		return 0, fmt.Errorf("halfband: attenuation must be finite and > 0: %g", attenuationDB)
	}

	for n := 1; n <= maxCoefficientCount; n++ {
		atten, err := AttenuationFromOrderTBW(n, transition)
		if err != nil {
			return 0, err
		}

		if atten >= attenuationDB {
			return n, nil
		}
	}

	return 0, fmt.Errorf("halfband: %g dB at transition %g needs more than %d coefficients",
		attenuationDB, transition, maxCoefficientCount)
}

// Design returns coefficients for the shortest filter that meets
// attenuationDB at the given transition.
func Design(attenuationDB, transition float64) ([]float64, error) {
	n, err := CoefficientCountFor(attenuationDB, transition)
	if err != nil {
		return nil, err
	}

	return DesignCoefficients(n, transition)
}

// GroupDelay returns the low-frequency group delay of one halfband filter
// built from coeffs, in samples at the oversampled rate.
func GroupDelay(coeffs []float64) float64 {
	// Each section is (a + z^-2)/(1 + a*z^-2) at the high rate; the second
	// branch carries an extra unit delay.
	branch := [2]float64{0, 1}
	for i, a := range coeffs {
		branch[i&1] += 2 * (1 - a) / (1 + a)
	}

	return (branch[0] + branch[1]) / 2
}

func validateDesignParams(numberOfCoeffs int, transition float64) error {
	if numberOfCoeffs < 1 {
		return fmt.Errorf("halfband: number of coefficients must be >= 1: %d", numberOfCoeffs)
	}

	if !isFinite(transition) || transition <= 0 || transition >= 0.5 {
		return fmt.Errorf("halfband: transition must be finite and in (0, 0.5): %g", transition)
	}

	return nil
}

func validateCoefficients(coeffs []float64) error {
	if len(coeffs) < 1 {
		return fmt.Errorf("halfband: coefficients must not be empty")
	}

	for i, c := range coeffs {
		if !isFinite(c) {
			return fmt.Errorf("halfband: coefficient[%d] is not finite", i)
		}

		if math.Abs(c) >= 1 {
			return fmt.Errorf("halfband: coefficient[%d] magnitude must be < 1 for stability: %g", i, c)
		}
	}

	return nil
}

// ellipse holds the elliptic modulus k and nome q of a design, plus the
// order of the equivalent elliptic lowpass.
type ellipse struct {
	k, q  float64
	order int
}

func newEllipse(count int, transition float64) ellipse {
	k := math.Tan((0.5 - transition) * math.Pi / 2)
	k *= k

	root := math.Sqrt(math.Sqrt(1 - k*k))
	e := (1 - root) / (2 * (1 + root))
	e4 := e * e * e * e

	return ellipse{
		k:     k,
		q:     e * (1 + e4*(2+e4*(15+150*e4))),
		order: 2*count + 1,
	}
}

func (el ellipse) attenuation() float64 {
	v := 4 * math.Pow(el.q, float64(el.order)/2)
	return 10 * math.Log10(1+1/v)
}

// coefficient returns the allpass coefficient of section idx.
func (el ellipse) coefficient(idx int) float64 {
	arg := float64(idx+1) * math.Pi / float64(el.order)

	// Jacobi theta series; terms decay as powers of q so both sums stop
	// once a term becomes negligible.
	var num, den float64
	for i, sign := 0, 1.0; ; i, sign = i+1, -sign {
		term := sign * math.Pow(el.q, float64(i*(i+1))) * math.Sin(float64(2*i+1)*arg)
		num += term

		if math.Abs(term) <= 1e-100 {
			break
		}
	}

	for i, sign := 1, -1.0; ; i, sign = i+1, -sign {
		term := sign * math.Pow(el.q, float64(i*i)) * math.Cos(float64(2*i)*arg)
		den += term

		if math.Abs(term) <= 1e-100 {
			break
		}
	}

	num *= math.Sqrt(math.Sqrt(el.q))
	den += 0.5

	w := num * num / (den * den)
	r := math.Sqrt((1-w*el.k)*(1-w/el.k)) / (1 + w)

	return (1 - r) / (1 + r)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
