package signal

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-prism/dsp/core"
)

// ErrInvalidArgument reports a non-positive length or rate, or a negative
// amplitude.
var ErrInvalidArgument = errors.New("signal: invalid argument")

// Generator creates deterministic multi-channel signals from a shared
// configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the noise seed. Channel c uses seed+c.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a generator. Sample rate and channel count come from
// the core processor options.
func NewGenerator(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g
}

// Config returns the generator configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Sine returns the same sine wave on every channel.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([][]float64, error) {
	if err := g.check(amplitude, samples); err != nil {
		return nil, err
	}

	if !(freqHz >= 0) {
		return nil, fmt.Errorf("%w: sine frequency %g", ErrInvalidArgument, freqHz)
	}

	out := make([][]float64, g.cfg.Channels)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate

	for c := range out {
		ch := make([]float64, samples)
		for i := range ch {
			ch[i] = amplitude * math.Sin(step*float64(i))
		}

		out[c] = ch
	}

	return out, nil
}

// WhiteNoise returns independent uniform noise in [-amplitude, amplitude]
// per channel.
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([][]float64, error) {
	if err := g.check(amplitude, samples); err != nil {
		return nil, err
	}

	out := make([][]float64, g.cfg.Channels)
	for c := range out {
		rng := rand.New(rand.NewSource(g.seed + int64(c)))

		ch := make([]float64, samples)
		for i := range ch {
			ch[i] = (rng.Float64()*2 - 1) * amplitude
		}

		out[c] = ch
	}

	return out, nil
}

func (g *Generator) check(amplitude float64, samples int) error {
	if samples <= 0 {
		return fmt.Errorf("%w: samples %d", ErrInvalidArgument, samples)
	}

	if !(amplitude >= 0) {
		return fmt.Errorf("%w: amplitude %g", ErrInvalidArgument, amplitude)
	}

	return nil
}

// Normalize scales every channel by one common factor so the loudest sample
// reaches targetPeak. Silent input is left unchanged.
func Normalize(block [][]float64, targetPeak float64) error {
	if !(targetPeak >= 0) {
		return fmt.Errorf("%w: target peak %g", ErrInvalidArgument, targetPeak)
	}

	peak := 0.0

	for _, ch := range block {
		for _, v := range ch {
			peak = math.Max(peak, math.Abs(v))
		}
	}

	if peak == 0 {
		return nil
	}

	scale := targetPeak / peak
	for _, ch := range block {
		for i := range ch {
			ch[i] *= scale
		}
	}

	return nil
}
