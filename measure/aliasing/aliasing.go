package aliasing

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-prism/dsp/window"
)

// ErrInvalidConfig indicates a missing sample rate or a fundamental outside
// (0, Nyquist).
var ErrInvalidConfig = errors.New("aliasing: invalid config")

// Config holds analysis parameters.
type Config struct {
	SampleRate      float64
	FFTSize         int
	FundamentalFreq float64
	// CaptureBins is the half-width of each harmonic group. 0 selects the
	// main-lobe half-width of the window.
	CaptureBins int
	// WindowType left at the zero value selects Blackman-Harris.
	WindowType window.Type
}

// Result holds aliasing measurement results. Ratios are relative to the
// fundamental's energy.
//
//nolint:revive
type Result struct {
	FundamentalFreq      float64
	FundamentalAmplitude float64
	Harmonics            int
	HarmonicRatio        float64
	Harmonic_dB          float64
	AliasRatio           float64
	Alias_dB             float64
	PeakAliasFreq        float64
	PeakAlias_dB         float64
}

// Analyzer runs repeated measurements with one FFT plan and reusable scratch.
type Analyzer struct {
	cfg   Config
	plan  *algofft.Plan[complex128]
	win   []float64
	winSq float64
	frame []float64
	in    []complex128
	out   []complex128
	re    []float64
	im    []float64
	pow   []float64
	mark  []int
}

// NewAnalyzer validates cfg and prepares an FFT plan. FFTSize defaults to
// 8192 and WindowType to Blackman-Harris.
func NewAnalyzer(cfg Config) (*Analyzer, error) {
	if cfg.FFTSize <= 0 {
		cfg.FFTSize = 8192
	}

	if cfg.WindowType == window.TypeRectangular {
		cfg.WindowType = window.TypeBlackmanHarris4Term
	}

	if cfg.CaptureBins <= 0 {
		cfg.CaptureBins = cfg.WindowType.MainLobeHalfWidth()
	}

	if !(cfg.SampleRate > 0) || math.IsInf(cfg.SampleRate, 0) {
		return nil, fmt.Errorf("%w: sample rate %g", ErrInvalidConfig, cfg.SampleRate)
	}

	if !(cfg.FundamentalFreq > 0 && cfg.FundamentalFreq < cfg.SampleRate/2) {
		return nil, fmt.Errorf("%w: fundamental %g Hz at %g Hz", ErrInvalidConfig, cfg.FundamentalFreq, cfg.SampleRate)
	}

	plan, err := algofft.NewPlan64(cfg.FFTSize)
	if err != nil {
		return nil, fmt.Errorf("aliasing: %w", err)
	}

	bins := cfg.FFTSize/2 + 1
	win := window.Generate(cfg.WindowType, cfg.FFTSize, window.WithPeriodic())

	return &Analyzer{
		cfg:   cfg,
		plan:  plan,
		win:   win,
		winSq: window.EnergySum(win),
		frame: make([]float64, cfg.FFTSize),
		in:    make([]complex128, cfg.FFTSize),
		out:   make([]complex128, cfg.FFTSize),
		re:    make([]float64, bins),
		im:    make([]float64, bins),
		pow:   make([]float64, bins),
		mark:  make([]int, bins),
	}, nil
}

// AnalyzeSignal is a one-shot measurement.
func AnalyzeSignal(signal []float64, cfg Config) (Result, error) {
	a, err := NewAnalyzer(cfg)
	if err != nil {
		return Result{}, err
	}

	return a.Analyze(signal)
}

// Analyze measures the last FFTSize samples of signal. Shorter signals are
// zero padded, which breaks coherence; pass at least FFTSize samples.
func (a *Analyzer) Analyze(signal []float64) (Result, error) {
	if len(signal) == 0 {
		return Result{}, fmt.Errorf("%w: empty signal", ErrInvalidConfig)
	}

	n := a.cfg.FFTSize
	if len(signal) > n {
		signal = signal[len(signal)-n:]
	}

	clear(a.frame[copy(a.frame, signal):])
	vecmath.MulBlockInPlace(a.frame, a.win)

	for i, x := range a.frame {
		a.in[i] = complex(x, 0)
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return Result{}, fmt.Errorf("aliasing: %w", err)
	}

	for i := range a.re {
		a.re[i] = real(a.out[i])
		a.im[i] = imag(a.out[i])
	}

	vecmath.Power(a.pow, a.re, a.im)

	return a.evaluate(), nil
}

// Group indices in mark: 0 unassigned, -1 DC, k>0 harmonic k.
func (a *Analyzer) evaluate() Result {
	cfg := a.cfg
	binHz := cfg.SampleRate / float64(cfg.FFTSize)
	maxBin := len(a.pow) - 1
	capture := cfg.CaptureBins

	clear(a.mark)
	markGroup(a.mark, 0, capture, -1)

	f0Bin := max(int(math.Round(cfg.FundamentalFreq/binHz)), 1)
	harmonics := 0

	for k := 1; k*f0Bin <= maxBin; k++ {
		markGroup(a.mark, k*f0Bin, capture, k)
		harmonics = k
	}

	var fund, harm, alias, peak float64

	peakBin := 0

	for i, p := range a.pow {
		switch g := a.mark[i]; {
		case g == 1:
			fund += p
		case g > 1:
			harm += p
		case g == 0:
			alias += p
			if p > peak {
				peak, peakBin = p, i
			}
		}
	}

	res := Result{
		FundamentalFreq: float64(f0Bin) * binHz,
		Harmonics:       max(harmonics-1, 0),
	}

	if fund <= 0 {
		return res
	}

	res.FundamentalAmplitude = math.Sqrt(4 * fund / (float64(cfg.FFTSize) * a.winSq))
	res.HarmonicRatio = math.Sqrt(harm / fund)
	res.Harmonic_dB = powerRatioToDB(harm / fund)
	res.AliasRatio = math.Sqrt(alias / fund)
	res.Alias_dB = powerRatioToDB(alias / fund)
	res.PeakAliasFreq = float64(peakBin) * binHz
	res.PeakAlias_dB = powerRatioToDB(peak / a.pow[f0Bin])

	return res
}

// markGroup labels [center-capture, center+capture] with g unless a lower
// harmonic already claimed the bin.
func markGroup(mark []int, center, capture, g int) {
	lo := max(center-capture, 0)
	hi := min(center+capture, len(mark)-1)

	for i := lo; i <= hi; i++ {
		if mark[i] == 0 {
			mark[i] = g
		}
	}
}

func powerRatioToDB(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}

	return 10 * math.Log10(v)
}

// CoherentFrequency returns the bin-centred frequency nearest to freq for the
// given sample rate and FFT size.
func CoherentFrequency(freq, sampleRate float64, fftSize int) float64 {
	binHz := sampleRate / float64(fftSize)
	return math.Max(1, math.Round(freq/binHz)) * binHz
}
