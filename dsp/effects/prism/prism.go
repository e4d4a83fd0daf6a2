package prism

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-prism/dsp/buffer"
	"github.com/cwbudde/algo-prism/dsp/core"
	"github.com/cwbudde/algo-prism/dsp/effects/saturation"
	"github.com/cwbudde/algo-prism/dsp/oversample"
	"github.com/cwbudde/algo-vecmath"
)

// ErrInvalidConfig indicates an unusable sample rate, channel count or block size.
var ErrInvalidConfig = errors.New("prism: invalid configuration")

// Option configures a Processor at construction.
type Option func(*config) error

type config struct {
	oversampler *oversample.Oversampler
	osOpts      []oversample.Option
}

// WithOversampler uses an existing oversampler instead of designing one.
func WithOversampler(o *oversample.Oversampler) Option {
	return func(cfg *config) error {
		if o == nil {
			return fmt.Errorf("prism: oversampler must not be nil")
		}

		cfg.oversampler = o

		return nil
	}
}

// WithOversamplingDesign sets the halfband transition bandwidth and stopband
// attenuation in dB.
func WithOversamplingDesign(transition, attenuationDB float64) Option {
	return func(cfg *config) error {
		cfg.osOpts = append(cfg.osOpts,
			oversample.WithTransition(transition),
			oversample.WithAttenuation(attenuationDB))

		return nil
	}
}

// Processor is the stereo saturation engine.
type Processor struct {
	os  *oversample.Oversampler
	dry *buffer.Channels

	chunk      [][]float64
	sampleRate float64
	channels   int
	maxBlock   int
	prepared   bool
}

// New creates an unprepared Processor.
func New(opts ...Option) (*Processor, error) {
	var cfg config

	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	ovs := cfg.oversampler
	if ovs == nil {
		var err error

		ovs, err = oversample.New(cfg.osOpts...)
		if err != nil {
			return nil, fmt.Errorf("prism: %w", err)
		}
	}

	return &Processor{
		os:  ovs,
		dry: buffer.NewChannels(0, 0),
	}, nil
}

// Prepare sizes all internal storage and clears state. Not real-time safe.
func (p *Processor) Prepare(sampleRate float64, numChannels, maxBlockSize int) error {
	cfg := core.ProcessorConfig{SampleRate: sampleRate, BlockSize: maxBlockSize, Channels: numChannels}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := p.os.Prepare(numChannels, maxBlockSize); err != nil {
		return fmt.Errorf("prism: %w", err)
	}

	p.dry.Prepare(numChannels, maxBlockSize)
	p.chunk = make([][]float64, numChannels)
	p.sampleRate = sampleRate
	p.channels = numChannels
	p.maxBlock = maxBlockSize
	p.prepared = true

	return nil
}

// Reset clears filter history and the dry buffer.
func (p *Processor) Reset() {
	p.os.Reset()
	p.dry.Zero()
}

// LatencySamples returns the oversampling round-trip delay of the wet path
// in host-rate samples.
func (p *Processor) LatencySamples() float64 {
	return p.os.Latency()
}

// TailSeconds returns 0; the effect has no tail beyond its latency.
func (p *Processor) TailSeconds() float64 {
	return 0
}

// SampleRate returns the prepared sample rate, or 0 before Prepare.
func (p *Processor) SampleRate() float64 {
	return p.sampleRate
}

// MaxBlockSize returns the prepared maximum block size.
func (p *Processor) MaxBlockSize() int {
	return p.maxBlock
}

// ProcessBlock runs the effect in place on the first numSamples samples of
// buf. Output channels at index >= numInputChannels are cleared first.
// Blocks longer than the prepared maximum are processed in chunks. An
// unprepared processor only clears the extra channels.
func (p *Processor) ProcessBlock(buf [][]float64, numInputChannels, numSamples int, s Settings) {
	if numSamples <= 0 {
		return
	}

	for _, ch := range buf {
		numSamples = min(numSamples, len(ch))
	}

	if numSamples == 0 {
		return
	}

	core.ZeroChannels(buf[min(max(numInputChannels, 0), len(buf)):], numSamples)

	if !p.prepared || p.maxBlock == 0 {
		return
	}

	coeffs := s.coefficients()
	active := buf[:min(len(buf), p.channels)]

	for off := 0; off < numSamples; off += p.maxBlock {
		n := min(p.maxBlock, numSamples-off)
		chunk := p.chunk[:len(active)]

		for c := range active {
			chunk[c] = active[c][off : off+n]
		}

		p.processChunk(chunk, n, coeffs)
	}

	for c := range p.chunk {
		p.chunk[c] = nil
	}
}

func (p *Processor) processChunk(chunk [][]float64, n int, k coefficients) {
	p.dry.CopyFrom(chunk, n)
	dry := p.dry.Views(n)

	wide := p.os.Upsample(chunk)
	for c := range wide {
		saturation.DriveInPlace(wide[c], k.inputGain, k.algorithm)
	}

	p.os.Downsample(wide, chunk)

	wetScale := k.outputGain * k.wet

	for c := range chunk {
		vecmath.ScaleBlock(chunk[c], chunk[c], wetScale)
		vecmath.ScaleBlock(dry[c], dry[c], k.dry)
		vecmath.AddBlockInPlace(chunk[c], dry[c])
	}
}
