package oversample

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-prism/dsp/buffer"
	"github.com/cwbudde/algo-prism/dsp/filter/halfband"
)

// Factor is the oversampling ratio.
const Factor = 2

// ErrInvalidSize indicates a negative channel count or block size.
var ErrInvalidSize = errors.New("oversample: invalid size")

type config struct {
	transition    float64
	attenuationDB float64
	coeffs        []float64
}

// Option configures the oversampling filter design.
type Option func(*config)

// WithTransition sets the normalized transition bandwidth in (0, 0.5).
func WithTransition(tbw float64) Option {
	return func(cfg *config) {
		cfg.transition = tbw
	}
}

// WithAttenuation sets the stopband target in dB.
func WithAttenuation(db float64) Option {
	return func(cfg *config) {
		cfg.attenuationDB = db
	}
}

// WithCoefficients bypasses the designer and uses an explicit coefficient set.
func WithCoefficients(coeffs []float64) Option {
	return func(cfg *config) {
		cfg.coeffs = append([]float64(nil), coeffs...)
	}
}

// Oversampler upsamples and downsamples planar blocks by Factor.
type Oversampler struct {
	coeffs   []float64
	up       []*halfband.Upsampler
	down     []*halfband.Downsampler
	wide     *buffer.Channels
	maxBlock int
}

// New designs the halfband filter pair. The default design has a transition
// of 0.05 and 90 dB of stopband rejection.
func New(opts ...Option) (*Oversampler, error) {
	cfg := config{
		transition:    halfband.DefaultTransition,
		attenuationDB: halfband.DefaultAttenuationDB,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	coeffs := cfg.coeffs
	if coeffs == nil {
		var err error

		coeffs, err = halfband.Design(cfg.attenuationDB, cfg.transition)
		if err != nil {
			return nil, fmt.Errorf("oversample: %w", err)
		}
	}

	if _, err := halfband.NewUpsampler(coeffs); err != nil {
		return nil, fmt.Errorf("oversample: %w", err)
	}

	return &Oversampler{
		coeffs: coeffs,
		wide:   buffer.NewChannels(0, 0),
	}, nil
}

// Prepare allocates filter state for numChannels channels and wide storage
// for blocks of up to maxBlockSize host samples. Filter history starts
// cleared. Not real-time safe.
func (o *Oversampler) Prepare(numChannels, maxBlockSize int) error {
	if numChannels < 0 || maxBlockSize < 0 {
		return fmt.Errorf("%w: channels=%d maxBlockSize=%d", ErrInvalidSize, numChannels, maxBlockSize)
	}

	up := make([]*halfband.Upsampler, numChannels)
	down := make([]*halfband.Downsampler, numChannels)

	for c := range numChannels {
		u, err := halfband.NewUpsampler(o.coeffs)
		if err != nil {
			return fmt.Errorf("oversample: %w", err)
		}

		d, err := halfband.NewDownsampler(o.coeffs)
		if err != nil {
			return fmt.Errorf("oversample: %w", err)
		}

		up[c], down[c] = u, d
	}

	o.up, o.down = up, down
	o.wide.Prepare(numChannels, Factor*maxBlockSize)
	o.maxBlock = maxBlockSize

	return nil
}

// Reset clears the history of every filter.
func (o *Oversampler) Reset() {
	for c := range o.up {
		o.up[c].Reset()
		o.down[c].Reset()
	}
}

// Upsample interpolates block into internal storage and returns per-channel
// views of Factor*n samples, where n is the shortest input channel clamped
// to MaxBlockSize. Channels beyond the prepared count are ignored. The views
// stay valid until the next call to Upsample or Prepare.
func (o *Oversampler) Upsample(block [][]float64) [][]float64 {
	nch := min(len(block), len(o.up))
	n := o.blockLen(block, nch)
	views := o.wide.Views(Factor * n)[:nch]

	if n == 0 {
		return views
	}

	for c := range nch {
		_ = o.up[c].ProcessBlock(views[c], block[c][:n])
	}

	return views
}

// Downsample decimates wide into block in place. It must be paired with the
// Upsample call that produced wide.
func (o *Oversampler) Downsample(wide, block [][]float64) {
	nch := min(len(wide), len(block), len(o.down))

	for c := range nch {
		n := min(len(wide[c])/Factor, len(block[c]))
		if n == 0 {
			continue
		}

		_ = o.down[c].ProcessBlock(block[c][:n], wide[c][:Factor*n])
	}
}

// Latency returns the up/down round-trip delay in host-rate samples.
func (o *Oversampler) Latency() float64 {
	return halfband.GroupDelay(o.coeffs) - 0.5
}

// Factor returns the oversampling ratio.
func (o *Oversampler) Factor() int {
	return Factor
}

// Channels returns the prepared channel count.
func (o *Oversampler) Channels() int {
	return len(o.up)
}

// MaxBlockSize returns the prepared maximum host block size.
func (o *Oversampler) MaxBlockSize() int {
	return o.maxBlock
}

// Coefficients returns a copy of the halfband coefficients.
func (o *Oversampler) Coefficients() []float64 {
	return append([]float64(nil), o.coeffs...)
}

func (o *Oversampler) blockLen(block [][]float64, nch int) int {
	if nch == 0 {
		return 0
	}

	n := o.maxBlock
	for c := range nch {
		n = min(n, len(block[c]))
	}

	return n
}
