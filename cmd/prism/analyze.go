package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-prism/dsp/core"
	"github.com/cwbudde/algo-prism/dsp/effects/prism"
	"github.com/cwbudde/algo-prism/dsp/effects/saturation"
	"github.com/cwbudde/algo-prism/dsp/signal"
	"github.com/cwbudde/algo-prism/measure/aliasing"
)

type analyzeOptions struct {
	rate       float64
	freq       float64
	amplitude  float64
	driveDB    float64
	fftSize    int
	transition float64
	atten      float64
}

type analyzeRow struct {
	algorithm saturation.Algorithm
	naive     aliasing.Result
	over      aliasing.Result
}

func runAnalyze(args []string) error {
	fs, _ := newFlagSet("analyze")

	var opt analyzeOptions

	fs.Float64Var(&opt.rate, "rate", 48000, "host sample rate in Hz")
	fs.Float64Var(&opt.freq, "freq", 5000, "test tone frequency in Hz (snapped to an FFT bin)")
	fs.Float64Var(&opt.amplitude, "amp", 0.5, "test tone peak amplitude")
	fs.Float64Var(&opt.driveDB, "drive", 6, "input drive in dB")
	fs.IntVar(&opt.fftSize, "fft", 8192, "FFT size")
	fs.Float64Var(&opt.transition, "transition", 0.05, "halfband transition width, fraction of the oversampled rate")
	fs.Float64Var(&opt.atten, "atten", 90, "halfband stopband attenuation in dB")

	if err := fs.Parse(args); err != nil {
		return err
	}

	rows, err := analyze(opt)
	if err != nil {
		return err
	}

	return printAnalysis(os.Stdout, opt, rows)
}

func analyze(opt analyzeOptions) ([]analyzeRow, error) {
	if opt.fftSize <= 0 {
		return nil, fmt.Errorf("analyze: fft size must be > 0: %d", opt.fftSize)
	}

	f0 := aliasing.CoherentFrequency(opt.freq, opt.rate, opt.fftSize)

	an, err := aliasing.NewAnalyzer(aliasing.Config{SampleRate: opt.rate, FFTSize: opt.fftSize, FundamentalFreq: f0})
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	eng, err := prism.New(prism.WithOversamplingDesign(opt.transition, opt.atten))
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	// The leading half frame lets the filters settle before the measured frame.
	frames := opt.fftSize + opt.fftSize/2
	if err := eng.Prepare(opt.rate, 1, 1024); err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	gen := signal.NewGenerator([]core.ProcessorOption{core.WithSampleRate(opt.rate), core.WithChannels(1)})

	tone, err := gen.Sine(f0, opt.amplitude, frames)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	rows := make([]analyzeRow, 0, saturation.Count)
	work := make([]float64, frames)

	for a := range saturation.Count {
		alg := saturation.Algorithm(a)
		row := analyzeRow{algorithm: alg}

		copy(work, tone[0])
		saturation.DriveInPlace(work, core.DBToLinear(opt.driveDB), alg)

		if row.naive, err = an.Analyze(work); err != nil {
			return nil, fmt.Errorf("analyze: %w", err)
		}

		copy(work, tone[0])
		eng.Reset()
		eng.ProcessBlock([][]float64{work}, 1, frames, prism.Settings{
			InputDB:    opt.driveDB,
			MixPercent: prism.MaxMixPercent,
			Algorithm:  alg,
		})

		if row.over, err = an.Analyze(work); err != nil {
			return nil, fmt.Errorf("analyze: %w", err)
		}

		rows = append(rows, row)
	}

	return rows, nil
}

func printAnalysis(w io.Writer, opt analyzeOptions, rows []analyzeRow) error {
	if len(rows) == 0 {
		return nil
	}

	if _, err := fmt.Fprintf(w, "Tone %.2f Hz at %.0f Hz, amplitude %.3f, drive %.1f dB\n\n",
		rows[0].over.FundamentalFreq, opt.rate, opt.amplitude, opt.driveDB); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintf(tw, "Algorithm\tFundamental [dBFS]\tHarmonics [dB]\tAlias 1x [dB]\tAlias 2x [dB]\tGain [dB]\tPeak alias 2x [Hz]\n"); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(tw, "---------\t------------------\t--------------\t-------------\t-------------\t---------\t------------------\n"); err != nil {
		return err
	}

	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.1f\n",
			r.algorithm,
			core.LinearToDB(r.over.FundamentalAmplitude),
			r.over.Harmonic_dB,
			r.naive.Alias_dB,
			r.over.Alias_dB,
			r.naive.Alias_dB-r.over.Alias_dB,
			r.over.PeakAliasFreq,
		); err != nil {
			return err
		}
	}

	return tw.Flush()
}
