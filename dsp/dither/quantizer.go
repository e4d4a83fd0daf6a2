package dither

import (
	"fmt"
	"math"
	"math/rand/v2"
)

const (
	defaultBitDepth = 16
	minBitDepth     = 8
	maxBitDepth     = 32
)

type config struct {
	bitDepth int
	typ      Type
	shaping  bool
	seed     uint64
}

// Option configures a [Quantizer].
type Option func(*config) error

// WithBitDepth sets the target bit depth (8 to 32, default 16).
func WithBitDepth(bits int) Option {
	return func(cfg *config) error {
		if bits < minBitDepth || bits > maxBitDepth {
			return fmt.Errorf("dither: bit depth must be in [%d, %d]: %d", minBitDepth, maxBitDepth, bits)
		}

		cfg.bitDepth = bits

		return nil
	}
}

// WithType sets the dither PDF (default [Triangular]).
func WithType(t Type) Option {
	return func(cfg *config) error {
		if !t.Valid() {
			return fmt.Errorf("dither: invalid type: %d", t)
		}

		cfg.typ = t

		return nil
	}
}

// WithNoiseShaping feeds the previous quantization error back into the next
// sample, moving the error spectrum toward high frequencies.
func WithNoiseShaping(enabled bool) Option {
	return func(cfg *config) error {
		cfg.shaping = enabled
		return nil
	}
}

// WithSeed makes the dither noise reproducible.
func WithSeed(seed uint64) Option {
	return func(cfg *config) error {
		cfg.seed = seed
		return nil
	}
}

// Quantizer maps one channel of samples to PCM codes. It is not safe for
// concurrent use; keep one per channel.
type Quantizer struct {
	bitDepth int
	typ      Type
	shaping  bool
	rng      *rand.Rand

	full  float64
	lo    int
	hi    int
	feedback float64
}

// NewQuantizer creates a quantizer. Without [WithSeed] the seed is 0.
func NewQuantizer(opts ...Option) (*Quantizer, error) {
	cfg := config{bitDepth: defaultBitDepth, typ: Triangular}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	full := math.Exp2(float64(cfg.bitDepth-1)) - 1

	return &Quantizer{
		bitDepth: cfg.bitDepth,
		typ:      cfg.typ,
		shaping:  cfg.shaping,
		rng:      rand.New(rand.NewPCG(cfg.seed, cfg.seed^0x9e3779b97f4a7c15)),
		full:     full,
		lo:       -int(full) - 1,
		hi:       int(full),
	}, nil
}

// ProcessInteger returns the PCM code for x. Codes are clamped to the
// signed range of the bit depth, so full scale maps to 2^(bits-1)-1.
func (q *Quantizer) ProcessInteger(x float64) int {
	if math.IsNaN(x) {
		x = 0
	}

	scaled := math.Max(-2, math.Min(2, x)) * q.full
	if q.shaping {
		scaled -= q.feedback
	}

	v := math.Round(scaled + q.noise())
	code := int(math.Max(float64(q.lo), math.Min(float64(q.hi), v)))

	if q.shaping {
		// Clipping is not fed back.
		q.feedback = v - scaled
	}

	return code
}

// ProcessInto writes the PCM codes of src to dst[i*stride+offset], which
// matches an interleaved buffer when stride is the channel count.
func (q *Quantizer) ProcessInto(dst []int, src []float64, offset, stride int) {
	for i, x := range src {
		dst[i*stride+offset] = q.ProcessInteger(x)
	}
}

func (q *Quantizer) noise() float64 {
	switch q.typ {
	case Rectangular:
		return q.rng.Float64() - 0.5
	case Triangular:
		return q.rng.Float64() - q.rng.Float64()
	default:
		return 0
	}
}

// Reset clears the error feedback state.
func (q *Quantizer) Reset() {
	q.feedback = 0
}

// BitDepth returns the target bit depth.
func (q *Quantizer) BitDepth() int { return q.bitDepth }

// Type returns the dither PDF.
func (q *Quantizer) Type() Type { return q.typ }

// FullScale returns the code for an input of 1.
func (q *Quantizer) FullScale() int { return q.hi }
