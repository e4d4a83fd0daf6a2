package main

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-prism/dsp/dither"
	"github.com/cwbudde/algo-prism/measure/level"
	"github.com/cwbudde/algo-prism/plugin"
	"github.com/cwbudde/algo-prism/plugin/automation"
)

type renderOptions struct {
	in, out    string
	statePath  string
	scriptPath string
	block      int
	jitter     bool
	seed       int64
	bits       int
	ditherName string
	shaping    bool
}

func runRender(args []string) error {
	fs, verbose := newFlagSet("render")

	var opt renderOptions

	fs.StringVar(&opt.in, "in", "", "input WAV file (mono or stereo)")
	fs.StringVar(&opt.out, "out", "", "output WAV file")
	fs.StringVar(&opt.statePath, "state", "", "state file to load before applying parameter flags")
	fs.StringVar(&opt.scriptPath, "automation", "", "Lua script defining automate(t, block)")
	fs.IntVar(&opt.block, "block", 512, "host block size")
	fs.BoolVar(&opt.jitter, "jitter", false, "randomize block sizes in [0, block]")
	fs.Int64Var(&opt.seed, "seed", 1, "seed for -jitter")
	fs.IntVar(&opt.bits, "bits", 0, "output bit depth, 16 or 24 (default: same as input)")
	fs.StringVar(&opt.ditherName, "dither", "tpdf", "output dither: none, rpdf, tpdf")
	fs.BoolVar(&opt.shaping, "shaping", false, "first-order noise shaping on output quantization")
	params := addParamFlags(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}

	if opt.in == "" || opt.out == "" {
		fs.Usage()
		return errors.New("render: -in and -out are required")
	}

	ditherType, err := dither.ParseType(opt.ditherName)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	log := newLogger(*verbose)

	src, err := readWAV(opt.in)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	fx, err := plugin.New(plugin.WithLogger(log))
	if err != nil {
		return err
	}

	if err := loadStateFile(fx, opt.statePath); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if err := params.apply(fx.Params()); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	var script *automation.Script
	if opt.scriptPath != "" {
		script, err = automation.LoadFile(opt.scriptPath, fx.Params())
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		defer script.Close()
	}

	outFile, inMeters, outMeters, err := render(fx, src, opt, script, log)
	if err != nil {
		return err
	}

	if err := writeWAV(opt.out, outFile, dither.WithType(ditherType), dither.WithNoiseShaping(opt.shaping)); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	log.WithFields(logrus.Fields{
		"function": "runRender",
		"out":      opt.out,
		"frames":   outFile.frames(),
		"rate":     outFile.sampleRate,
	}).Info("Render complete")

	return printLevels(os.Stdout, inMeters.Results(), outMeters.Results())
}

// render runs src through fx the way a host would, in place on a stereo copy.
func render(fx *plugin.Prism, src *audioFile, opt renderOptions, script *automation.Script,
	log *logrus.Logger,
) (*audioFile, level.Meters, level.Meters, error) {
	nin := len(src.channels)
	if !fx.SupportsLayout(nin, plugin.NumChannels) || nin > plugin.NumChannels {
		return nil, nil, nil, fmt.Errorf("render: %d input channels not supported", nin)
	}

	if opt.block <= 0 {
		return nil, nil, nil, fmt.Errorf("render: block size must be > 0: %d", opt.block)
	}

	if err := fx.Prepare(float64(src.sampleRate), opt.block); err != nil {
		return nil, nil, nil, err
	}
	defer fx.Release()

	frames := src.frames()
	buf := make([][]float64, plugin.NumChannels)

	for c := range buf {
		buf[c] = make([]float64, frames)
		if c < nin {
			copy(buf[c], src.channels[c])
		}
	}

	inMeters := level.NewMeters(nin)
	outMeters := level.NewMeters(plugin.NumChannels)
	inMeters.Update(src.channels, frames)

	sizes := newBlockSizer(opt.block, opt.jitter, opt.seed)
	view := make([][]float64, plugin.NumChannels)
	blocks := 0

	for pos := 0; pos < frames; blocks++ {
		n := min(sizes.next(), frames-pos)

		if script != nil {
			if err := script.Apply(float64(pos)/float64(src.sampleRate), blocks); err != nil {
				return nil, nil, nil, fmt.Errorf("render: %w", err)
			}
		}

		for c := range view {
			view[c] = buf[c][pos : pos+n]
		}

		fx.ProcessBlock(view, nin, n)
		outMeters.Update(view, n)

		pos += n
	}

	log.WithFields(logrus.Fields{
		"function":        "render",
		"blocks":          blocks,
		"latency_samples": fx.LatencySamples(),
	}).Debug("Processed blocks")

	bits := opt.bits
	if bits == 0 {
		bits = min(max(src.bitDepth, 16), 24)
	}

	return &audioFile{channels: buf, sampleRate: src.sampleRate, bitDepth: bits}, inMeters, outMeters, nil
}

// blockSizer yields host block sizes. With jitter, sizes are uniform in
// [0, max] so zero-length calls are exercised too.
type blockSizer struct {
	max int
	rng *rand.Rand
}

func newBlockSizer(maxBlock int, jitter bool, seed int64) *blockSizer {
	b := &blockSizer{max: maxBlock}
	if jitter {
		b.rng = rand.New(rand.NewSource(seed))
	}

	return b
}

func (b *blockSizer) next() int {
	if b.rng == nil {
		return b.max
	}

	return b.rng.Intn(b.max + 1)
}

func printLevels(w io.Writer, in, out []level.Stats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintf(tw, "Signal\tChannel\tPeak [dBFS]\tRMS [dBFS]\tCrest [dB]\tClipped\n"); err != nil {
		return err
	}

	rows := []struct {
		label string
		stats []level.Stats
	}{{"in", in}, {"out", out}}

	for _, r := range rows {
		for c, s := range r.stats {
			if _, err := fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\t%.2f\t%d\n",
				r.label, c, s.Peak_dB, s.RMS_dB, s.CrestFactor_dB, s.ClippedSamples); err != nil {
				return err
			}
		}
	}

	return tw.Flush()
}
