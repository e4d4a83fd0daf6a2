package halfband

import "github.com/cwbudde/algo-prism/dsp/core"

// allpassChain is a cascade of first-order allpass sections
// y[n] = a*(x[n] - y[n-1]) + x[n-1], running at the low rate.
type allpassChain struct {
	coeffs []float64
	xMem   []float64
	yMem   []float64
}

func newAllpassChain(coeffs []float64) allpassChain {
	return allpassChain{
		coeffs: coeffs,
		xMem:   make([]float64, len(coeffs)),
		yMem:   make([]float64, len(coeffs)),
	}
}

func (c *allpassChain) process(in float64) float64 {
	for i, a := range c.coeffs {
		out := a*(in-c.yMem[i]) + c.xMem[i]
		c.xMem[i] = in
		c.yMem[i] = out
		in = out
	}

	return in
}

// settle flushes denormal-range state after a block.
func (c *allpassChain) settle() {
	for i := range c.coeffs {
		c.xMem[i] = core.FlushDenormals(c.xMem[i])
		c.yMem[i] = core.FlushDenormals(c.yMem[i])
	}
}

func (c *allpassChain) reset() {
	core.Zero(c.xMem)
	core.Zero(c.yMem)
}

// splitBranches assigns even-indexed coefficients to the first polyphase
// branch and odd-indexed ones to the second.
func splitBranches(coeffs []float64) (first, second []float64) {
	first = make([]float64, 0, (len(coeffs)+1)/2)
	second = make([]float64, 0, len(coeffs)/2)

	for i, c := range coeffs {
		if i&1 == 0 {
			first = append(first, c)
		} else {
			second = append(second, c)
		}
	}

	return first, second
}
