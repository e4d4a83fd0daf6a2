package signal

import (
	"fmt"
	"math"
	"sync/atomic"
)

// Oscillator is a streaming sine source whose phase carries across blocks.
// Frequency and amplitude may be changed from another goroutine while Fill
// runs on the audio goroutine.
type Oscillator struct {
	sampleRate float64
	phase      float64
	freq       atomic.Uint64
	amp        atomic.Uint64
}

// NewOscillator returns an oscillator at freqHz with the given peak amplitude.
func NewOscillator(sampleRate, freqHz, amplitude float64) (*Oscillator, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("%w: sample rate %g", ErrInvalidArgument, sampleRate)
	}

	o := &Oscillator{sampleRate: sampleRate}
	if err := o.SetFrequency(freqHz); err != nil {
		return nil, err
	}

	if err := o.SetAmplitude(amplitude); err != nil {
		return nil, err
	}

	return o, nil
}

// SetFrequency changes the pitch without a phase discontinuity. Frequencies
// must lie in [0, Nyquist).
func (o *Oscillator) SetFrequency(freqHz float64) error {
	if !(freqHz >= 0 && freqHz < o.sampleRate/2) {
		return fmt.Errorf("%w: frequency %g at %g Hz", ErrInvalidArgument, freqHz, o.sampleRate)
	}

	o.freq.Store(math.Float64bits(freqHz))

	return nil
}

// Frequency returns the current frequency in Hz.
func (o *Oscillator) Frequency() float64 {
	return math.Float64frombits(o.freq.Load())
}

// SetAmplitude changes the peak level.
func (o *Oscillator) SetAmplitude(amplitude float64) error {
	if !(amplitude >= 0) || math.IsInf(amplitude, 0) {
		return fmt.Errorf("%w: amplitude %g", ErrInvalidArgument, amplitude)
	}

	o.amp.Store(math.Float64bits(amplitude))

	return nil
}

// Fill writes the next len(channels[0]) samples to every channel.
func (o *Oscillator) Fill(channels [][]float64) {
	if len(channels) == 0 {
		return
	}

	step := 2 * math.Pi * o.Frequency() / o.sampleRate
	amp := math.Float64frombits(o.amp.Load())
	phase := o.phase
	n := len(channels[0])

	first := channels[0]
	for i := range n {
		first[i] = amp * math.Sin(phase)

		phase += step
		if phase >= 2*math.Pi {
			phase -= 2 * math.Pi
		}
	}

	for _, ch := range channels[1:] {
		copy(ch, first)
	}

	o.phase = phase
}

// Reset restarts the waveform at phase zero.
func (o *Oscillator) Reset() {
	o.phase = 0
}
