package halfband

import "fmt"

// Upsampler doubles the sample rate of a single channel.
type Upsampler struct {
	coeffs []float64
	first  allpassChain
	second allpassChain
}

// NewUpsampler creates an upsampler from halfband allpass coefficients.
func NewUpsampler(coeffs []float64) (*Upsampler, error) {
	if err := validateCoefficients(coeffs); err != nil {
		return nil, err
	}

	owned := append([]float64(nil), coeffs...)
	first, second := splitBranches(owned)

	return &Upsampler{
		coeffs: owned,
		first:  newAllpassChain(first),
		second: newAllpassChain(second),
	}, nil
}

// ProcessSample consumes one input sample and returns the two output samples
// in time order.
func (u *Upsampler) ProcessSample(input float64) (out0, out1 float64) {
	return u.first.process(input), u.second.process(input)
}

// ProcessBlock upsamples src into dst. len(dst) must equal 2*len(src).
func (u *Upsampler) ProcessBlock(dst, src []float64) error {
	if len(dst) != 2*len(src) {
		return fmt.Errorf("halfband: upsampler length mismatch: src=%d dst=%d", len(src), len(dst))
	}

	if len(src) == 0 {
		return nil
	}

	for i, x := range src {
		dst[2*i] = u.first.process(x)
		dst[2*i+1] = u.second.process(x)
	}

	u.first.settle()
	u.second.settle()

	return nil
}

// Reset clears the filter history.
func (u *Upsampler) Reset() {
	u.first.reset()
	u.second.reset()
}

// Coefficients returns a copy of the configured coefficients.
func (u *Upsampler) Coefficients() []float64 {
	return append([]float64(nil), u.coeffs...)
}

// GroupDelay returns the low-frequency group delay in oversampled samples.
func (u *Upsampler) GroupDelay() float64 {
	return GroupDelay(u.coeffs)
}
