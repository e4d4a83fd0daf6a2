package halfband

import "fmt"

// Downsampler halves the sample rate of a single channel.
type Downsampler struct {
	coeffs []float64
	first  allpassChain
	second allpassChain
}

// NewDownsampler creates a decimator from halfband allpass coefficients.
func NewDownsampler(coeffs []float64) (*Downsampler, error) {
	if err := validateCoefficients(coeffs); err != nil {
		return nil, err
	}

	owned := append([]float64(nil), coeffs...)
	first, second := splitBranches(owned)

	return &Downsampler{
		coeffs: owned,
		first:  newAllpassChain(first),
		second: newAllpassChain(second),
	}, nil
}

// ProcessSample consumes two consecutive input samples and returns one
// output sample.
func (d *Downsampler) ProcessSample(in0, in1 float64) float64 {
	return 0.5 * (d.first.process(in1) + d.second.process(in0))
}

// ProcessBlock decimates src into dst. len(src) must equal 2*len(dst).
func (d *Downsampler) ProcessBlock(dst, src []float64) error {
	if len(src) != 2*len(dst) {
		return fmt.Errorf("halfband: downsampler length mismatch: src=%d dst=%d", len(src), len(dst))
	}

	if len(dst) == 0 {
		return nil
	}

	for i := range dst {
		dst[i] = 0.5 * (d.first.process(src[2*i+1]) + d.second.process(src[2*i]))
	}

	d.first.settle()
	d.second.settle()

	return nil
}

// Reset clears the filter history.
func (d *Downsampler) Reset() {
	d.first.reset()
	d.second.reset()
}

// Coefficients returns a copy of the configured coefficients.
func (d *Downsampler) Coefficients() []float64 {
	return append([]float64(nil), d.coeffs...)
}

// GroupDelay returns the low-frequency group delay in oversampled samples.
func (d *Downsampler) GroupDelay() float64 {
	return GroupDelay(d.coeffs)
}
