package prism

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-prism/dsp/effects/saturation"
	"github.com/cwbudde/algo-prism/dsp/oversample"
	"github.com/cwbudde/algo-prism/internal/testutil"
)

const testRate = 48000.0

func newPrepared(t testing.TB, maxBlock int) *Processor {
	t.Helper()

	p, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := p.Prepare(testRate, 2, maxBlock); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	return p
}

func TestSanitize(t *testing.T) {
	got := Settings{
		InputDB:    40,
		OutputDB:   math.Inf(-1),
		MixPercent: math.NaN(),
		Algorithm:  saturation.Algorithm(9),
	}.Sanitize()

	want := Settings{InputDB: 24, OutputDB: -24, MixPercent: 100, Algorithm: saturation.SineFold}
	if got != want {
		t.Fatalf("Sanitize() = %+v, want %+v", got, want)
	}

	if DefaultSettings().Sanitize() != DefaultSettings() {
		t.Fatal("defaults must already be in range")
	}
}

func TestPrepareValidation(t *testing.T) {
	p, _ := New()

	cases := []struct {
		rate     float64
		ch, size int
	}{
		{0, 2, 64},
		{math.NaN(), 2, 64},
		{testRate, -1, 64},
		{testRate, 2, -1},
	}

	for _, tc := range cases {
		if err := p.Prepare(tc.rate, tc.ch, tc.size); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("Prepare(%v, %d, %d) error = %v, want ErrInvalidConfig", tc.rate, tc.ch, tc.size, err)
		}
	}
}

func TestNewOptions(t *testing.T) {
	if _, err := New(WithOversampler(nil)); err == nil {
		t.Fatal("expected error for nil oversampler")
	}

	if _, err := New(WithOversamplingDesign(0.6, 90)); err == nil {
		t.Fatal("expected error for invalid design")
	}

	ovs, err := oversample.New(oversample.WithTransition(0.1), oversample.WithAttenuation(60))
	if err != nil {
		t.Fatalf("oversample.New() error = %v", err)
	}

	p, err := New(WithOversampler(ovs))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if p.LatencySamples() != ovs.Latency() {
		t.Fatalf("LatencySamples() = %v, want %v", p.LatencySamples(), ovs.Latency())
	}
}

func TestReportedTimes(t *testing.T) {
	p := newPrepared(t, 64)

	if p.TailSeconds() != 0 {
		t.Fatalf("TailSeconds() = %v, want 0", p.TailSeconds())
	}

	if p.SampleRate() != testRate {
		t.Fatalf("SampleRate() = %v, want %v", p.SampleRate(), testRate)
	}

	if p.LatencySamples() <= 0 {
		t.Fatalf("LatencySamples() = %v, want > 0", p.LatencySamples())
	}
}

func TestMixZeroIsExactlyDry(t *testing.T) {
	for alg := range saturation.Count {
		for _, drive := range []float64{-24, 0, 24} {
			p := newPrepared(t, 256)
			in := testutil.StereoBlock(997, testRate, 0.9, 256)
			buf := testutil.CloneBlock(in)

			s := Settings{InputDB: drive, OutputDB: 12, MixPercent: 0, Algorithm: saturation.Algorithm(alg)}
			p.ProcessBlock(buf, 2, 256, s)

			testutil.RequireBlockEqual(t, buf, in)
		}
	}
}

func TestHardClipNeutralSettingsAreTransparent(t *testing.T) {
	p := newPrepared(t, 128)
	in := testutil.StereoBlock(440, testRate, 1, 128)
	buf := testutil.CloneBlock(in)

	p.ProcessBlock(buf, 2, 128, Settings{MixPercent: 0, Algorithm: saturation.HardClip})

	testutil.RequireBlockEqual(t, buf, in)
}

func wetReference(t *testing.T, in [][]float64, drive float64, alg saturation.Algorithm) [][]float64 {
	t.Helper()

	ovs, err := oversample.New()
	if err != nil {
		t.Fatalf("oversample.New() error = %v", err)
	}

	if err := ovs.Prepare(len(in), len(in[0])); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	out := testutil.CloneBlock(in)
	wide := ovs.Upsample(out)

	for c := range wide {
		saturation.DriveInPlace(wide[c], math.Pow(10, drive/20), alg)
	}

	ovs.Downsample(wide, out)

	return out
}

func TestFullMixEqualsWetPath(t *testing.T) {
	in := testutil.StereoBlock(2500, testRate, 0.7, 512)
	want := wetReference(t, in, 12, saturation.Sigmoid)

	p := newPrepared(t, 512)
	buf := testutil.CloneBlock(in)
	p.ProcessBlock(buf, 2, 512, Settings{InputDB: 12, MixPercent: 100, Algorithm: saturation.Sigmoid})

	for c := range buf {
		testutil.RequireSliceNearlyEqual(t, buf[c], want[c], 1e-15)
	}
}

func TestOutputGainAppliesToWetOnly(t *testing.T) {
	in := testutil.StereoBlock(1200, testRate, 0.5, 256)
	wet := wetReference(t, in, 6, saturation.Arctan)

	p := newPrepared(t, 256)
	buf := testutil.CloneBlock(in)
	p.ProcessBlock(buf, 2, 256, Settings{InputDB: 6, OutputDB: -6, MixPercent: 50, Algorithm: saturation.Arctan})

	g := math.Pow(10, -6.0/20)
	for c := range buf {
		for i := range buf[c] {
			want := 0.5*in[c][i] + 0.5*g*wet[c][i]
			if math.Abs(buf[c][i]-want) > 1e-12 {
				t.Fatalf("channel %d sample %d = %v, want %v", c, i, buf[c][i], want)
			}
		}
	}
}

func TestZeroLengthBlockIsNoOp(t *testing.T) {
	a := newPrepared(t, 128)
	b := newPrepared(t, 128)
	s := Settings{InputDB: 9, MixPercent: 80, Algorithm: saturation.SineFold}

	warm := testutil.StereoBlock(700, testRate, 0.8, 128)
	a.ProcessBlock(testutil.CloneBlock(warm), 2, 128, s)
	b.ProcessBlock(testutil.CloneBlock(warm), 2, 128, s)

	untouched := testutil.StereoBlock(300, testRate, 0.4, 16)
	buf := testutil.CloneBlock(untouched)
	a.ProcessBlock(buf, 2, 0, s)
	testutil.RequireBlockEqual(t, buf, untouched)

	next := testutil.StereoBlock(1500, testRate, 0.6, 128)
	gotA := testutil.CloneBlock(next)
	gotB := testutil.CloneBlock(next)
	a.ProcessBlock(gotA, 2, 128, s)
	b.ProcessBlock(gotB, 2, 128, s)

	testutil.RequireBlockEqual(t, gotA, gotB)
}

func TestMissingInputChannelsAreCleared(t *testing.T) {
	p := newPrepared(t, 64)
	buf := testutil.StereoBlock(440, testRate, 0.5, 64)

	p.ProcessBlock(buf, 1, 64, DefaultSettings())

	for i, v := range buf[1] {
		if v != 0 {
			t.Fatalf("right sample %d = %v, want 0", i, v)
		}
	}

	testutil.RequireFinite(t, buf[0])
}

func TestUnpreparedPassesThrough(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	in := testutil.StereoBlock(440, testRate, 0.5, 32)
	buf := testutil.CloneBlock(in)
	p.ProcessBlock(buf, 1, 32, DefaultSettings())

	testutil.RequireSliceNearlyEqual(t, buf[0], in[0], 0)

	for i, v := range buf[1] {
		if v != 0 {
			t.Fatalf("right sample %d = %v, want 0", i, v)
		}
	}
}

func TestOversizedBlockIsChunked(t *testing.T) {
	const maxBlock = 64

	s := Settings{InputDB: 18, OutputDB: -3, MixPercent: 70, Algorithm: saturation.HardClip}
	in := testutil.StereoBlock(3100, testRate, 0.9, 200)

	whole := newPrepared(t, maxBlock)
	got := testutil.CloneBlock(in)
	whole.ProcessBlock(got, 2, 200, s)

	split := newPrepared(t, maxBlock)
	want := testutil.CloneBlock(in)

	for off := 0; off < 200; off += maxBlock {
		n := min(maxBlock, 200-off)
		split.ProcessBlock([][]float64{want[0][off : off+n], want[1][off : off+n]}, 2, n, s)
	}

	testutil.RequireBlockEqual(t, got, want)
}

func TestVariableBlockSizesMatchSingleBlock(t *testing.T) {
	s := Settings{InputDB: 6, MixPercent: 100, Algorithm: saturation.Tanh}
	in := testutil.StereoBlock(5000, testRate, 0.8, 512)

	ref := newPrepared(t, 512)
	want := testutil.CloneBlock(in)
	ref.ProcessBlock(want, 2, 512, s)

	p := newPrepared(t, 512)
	got := testutil.CloneBlock(in)
	off := 0

	for _, n := range []int{1, 0, 17, 128, 0, 3, 255, 108} {
		p.ProcessBlock([][]float64{got[0][off : off+n], got[1][off : off+n]}, 2, n, s)
		off += n
	}

	if off != 512 {
		t.Fatalf("test block sizes sum to %d, want 512", off)
	}

	testutil.RequireBlockEqual(t, got, want)
}

func TestTransparentRoundTrip(t *testing.T) {
	const (
		freq   = 1500.0
		n      = 9600
		warmup = 2400
	)

	p := newPrepared(t, 480)
	in := testutil.Sine(freq, testRate, 0.1, n)
	buf := [][]float64{append([]float64(nil), in...), append([]float64(nil), in...)}

	// Hard clip is the identity for |x| < 1.
	s := Settings{MixPercent: 100, Algorithm: saturation.HardClip}
	for off := 0; off < n; off += 480 {
		p.ProcessBlock([][]float64{buf[0][off : off+480], buf[1][off : off+480]}, 2, 480, s)
	}

	omega := 2 * math.Pi * freq / testRate
	fit := testutil.FitSine(buf[0][warmup:], omega, warmup)

	if math.Abs(fit.Amplitude-0.1) > 1e-4 {
		t.Fatalf("amplitude = %g, want 0.1", fit.Amplitude)
	}

	if db := 20 * math.Log10(fit.ResidualRMS/(0.1/math.Sqrt2)+1e-300); db > -60 {
		t.Fatalf("residual %.1f dB, want < -60 dB", db)
	}

	if lag := fit.Lag / omega; math.Abs(lag-p.LatencySamples()) > 0.05 {
		t.Fatalf("measured delay %.3f, reported %.3f", lag, p.LatencySamples())
	}
}

func TestExtremeDriveStaysFinite(t *testing.T) {
	for alg := range saturation.Count {
		p := newPrepared(t, 256)
		buf := testutil.StereoBlock(9000, testRate, 1, 256)
		buf[1][10] = 1e6

		p.ProcessBlock(buf, 2, 256, Settings{InputDB: 24, OutputDB: 24, MixPercent: 100, Algorithm: saturation.Algorithm(alg)})

		for c := range buf {
			testutil.RequireFinite(t, buf[c])
		}
	}
}

func TestProcessBlockDoesNotAllocate(t *testing.T) {
	p := newPrepared(t, 256)
	buf := testutil.StereoBlock(440, testRate, 0.5, 600)
	s := Settings{InputDB: 3, MixPercent: 60, Algorithm: saturation.Sigmoid}

	allocs := testing.AllocsPerRun(50, func() {
		p.ProcessBlock(buf, 2, 600, s)
	})

	if allocs != 0 {
		t.Fatalf("allocs per run = %v, want 0", allocs)
	}
}
