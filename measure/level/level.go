// Package level reports sample-domain levels of rendered audio in dBFS.
package level

import "math"

// ClipThreshold is the full-scale magnitude at or above which a sample
// counts as clipped.
const ClipThreshold = 1.0

// Stats holds level statistics. dB fields are relative to full scale and
// -Inf for silence.
//
//nolint:revive
type Stats struct {
	Length         int
	DC             float64
	RMS            float64
	RMS_dB         float64
	Peak           float64
	PeakPos        int
	Peak_dB        float64
	CrestFactor    float64 // peak / RMS (linear)
	CrestFactor_dB float64
	ClippedSamples int
	NonFinite      int
}

func ampTodB(value float64) float64 {
	a := math.Abs(value)
	if a == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(a)
}

func emptyStats() Stats {
	return Stats{
		RMS_dB:         math.Inf(-1),
		Peak_dB:        math.Inf(-1),
		CrestFactor_dB: math.Inf(-1),
	}
}

// Calculate computes level statistics for one channel.
func Calculate(signal []float64) Stats {
	var m Meter

	m.Update(signal)

	return m.Result()
}

// Meter accumulates level statistics across blocks. Results are identical to
// [Calculate] over the concatenated blocks. NaN and Inf samples are counted in
// NonFinite and otherwise skipped.
type Meter struct {
	n         int
	sum       float64
	sumC      float64
	sumSq     float64
	peak      float64
	peakPos   int
	clipped   int
	nonFinite int
}

// Update adds a block of samples.
func (m *Meter) Update(samples []float64) {
	for _, x := range samples {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			m.nonFinite++
			continue
		}

		// Kahan summation keeps the DC estimate stable over long renders.
		y := x - m.sumC
		t := m.sum + y
		m.sumC = (t - m.sum) - y
		m.sum = t

		m.sumSq += x * x

		a := math.Abs(x)
		if a > m.peak {
			m.peak = a
			m.peakPos = m.n
		}

		if a >= ClipThreshold {
			m.clipped++
		}

		m.n++
	}
}

// Reset clears the accumulated state.
func (m *Meter) Reset() {
	*m = Meter{}
}

// Result returns the statistics accumulated so far.
func (m *Meter) Result() Stats {
	if m.n == 0 {
		s := emptyStats()
		s.NonFinite = m.nonFinite

		return s
	}

	nf := float64(m.n)
	rms := math.Sqrt(m.sumSq / nf)

	var crest, crestdB float64
	if rms > 0 {
		crest = m.peak / rms
		crestdB = 20 * math.Log10(crest)
	}

	return Stats{
		Length:         m.n,
		DC:             m.sum / nf,
		RMS:            rms,
		RMS_dB:         ampTodB(rms),
		Peak:           m.peak,
		PeakPos:        m.peakPos,
		Peak_dB:        ampTodB(m.peak),
		CrestFactor:    crest,
		CrestFactor_dB: crestdB,
		ClippedSamples: m.clipped,
		NonFinite:      m.nonFinite,
	}
}

// Meters tracks one Meter per channel.
type Meters []Meter

// NewMeters returns meters for n channels.
func NewMeters(n int) Meters {
	return make(Meters, max(n, 0))
}

// Update adds the first n samples of each channel. Extra channels in block are
// ignored.
func (ms Meters) Update(block [][]float64, n int) {
	for i := range ms {
		if i >= len(block) {
			return
		}

		ch := block[i]
		ms[i].Update(ch[:min(n, len(ch))])
	}
}

// Results returns one Stats per channel.
func (ms Meters) Results() []Stats {
	out := make([]Stats, len(ms))
	for i := range ms {
		out[i] = ms[i].Result()
	}

	return out
}
