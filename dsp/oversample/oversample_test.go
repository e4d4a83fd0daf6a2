package oversample

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-prism/dsp/filter/halfband"
	"github.com/cwbudde/algo-prism/internal/testutil"
)

func newPrepared(t *testing.T, channels, maxBlock int) *Oversampler {
	t.Helper()

	o, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := o.Prepare(channels, maxBlock); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	return o
}

func TestNewRejectsInvalidDesign(t *testing.T) {
	if _, err := New(WithTransition(0.7)); err == nil {
		t.Fatal("expected error for transition >= 0.5")
	}

	if _, err := New(WithAttenuation(-3)); err == nil {
		t.Fatal("expected error for negative attenuation")
	}

	if _, err := New(WithCoefficients([]float64{1.5})); err == nil {
		t.Fatal("expected error for unstable coefficients")
	}
}

func TestNewDefaultMatchesHalfbandDesign(t *testing.T) {
	o, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	want, _ := halfband.Design(halfband.DefaultAttenuationDB, halfband.DefaultTransition)
	testutil.RequireSliceNearlyEqual(t, o.Coefficients(), want, 0)

	if o.Factor() != 2 {
		t.Fatalf("Factor() = %d, want 2", o.Factor())
	}
}

func TestPrepareRejectsNegativeSizes(t *testing.T) {
	o, _ := New()

	if err := o.Prepare(-1, 64); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("Prepare(-1, 64) error = %v, want ErrInvalidSize", err)
	}

	if err := o.Prepare(2, -64); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("Prepare(2, -64) error = %v, want ErrInvalidSize", err)
	}
}

func TestUpsampleViewLengths(t *testing.T) {
	o := newPrepared(t, 2, 64)
	block := testutil.StereoBlock(440, 48000, 0.5, 48)

	wide := o.Upsample(block)
	if len(wide) != 2 {
		t.Fatalf("channels = %d, want 2", len(wide))
	}

	for c := range wide {
		if len(wide[c]) != 96 {
			t.Fatalf("channel %d length = %d, want 96", c, len(wide[c]))
		}
	}
}

func TestUpsampleTruncatesToPreparedSize(t *testing.T) {
	o := newPrepared(t, 2, 32)
	block := testutil.StereoBlock(440, 48000, 0.5, 100)

	wide := o.Upsample(block)
	if len(wide[0]) != 64 {
		t.Fatalf("length = %d, want 64", len(wide[0]))
	}
}

func TestEmptyBlockLeavesStateUntouched(t *testing.T) {
	a := newPrepared(t, 2, 64)
	b := newPrepared(t, 2, 64)
	warm := testutil.StereoBlock(1000, 48000, 0.8, 64)

	for _, o := range []*Oversampler{a, b} {
		blk := testutil.CloneBlock(warm)
		o.Downsample(o.Upsample(blk), blk)
	}

	empty := [][]float64{{}, {}}
	if wide := a.Upsample(empty); len(wide[0]) != 0 {
		t.Fatalf("empty upsample returned %d samples", len(wide[0]))
	}

	a.Downsample([][]float64{{}, {}}, empty)

	if wide := a.Upsample(nil); len(wide) != 0 {
		t.Fatalf("nil upsample returned %d channels", len(wide))
	}

	next := testutil.StereoBlock(300, 48000, 0.3, 16)
	gotA := testutil.CloneBlock(next)
	gotB := testutil.CloneBlock(next)

	a.Downsample(a.Upsample(gotA), gotA)
	b.Downsample(b.Upsample(gotB), gotB)

	testutil.RequireBlockEqual(t, gotA, gotB)
}

func TestRoundTripLatencyAndLevel(t *testing.T) {
	const (
		sampleRate = 48000.0
		freq       = 750.0
		block      = 128
		total      = 128 * 150
		warmup     = 128 * 30
	)

	o := newPrepared(t, 2, block)
	src := testutil.Sine(freq, sampleRate, 0.5, total)
	out := make([]float64, total)
	copy(out, src)

	for start := 0; start < total; start += block {
		chunk := [][]float64{out[start : start+block], make([]float64, block)}
		o.Downsample(o.Upsample(chunk), chunk)
	}

	omega := 2 * math.Pi * freq / sampleRate
	fit := testutil.FitSine(out[warmup:], omega, warmup)

	if math.Abs(fit.Amplitude-0.5) > 0.5e-3 {
		t.Fatalf("amplitude = %g, want 0.5", fit.Amplitude)
	}

	if got := fit.Lag / omega; math.Abs(got-o.Latency()) > 0.05 {
		t.Fatalf("measured latency %.4f, reported %.4f", got, o.Latency())
	}
}

func TestResetRestoresInitialState(t *testing.T) {
	o := newPrepared(t, 1, 32)
	fresh := newPrepared(t, 1, 32)

	noise := [][]float64{testutil.Noise(5, 1, 32)}
	o.Downsample(o.Upsample(noise), noise)
	o.Reset()

	a := [][]float64{testutil.Sine(100, 48000, 1, 32)}
	b := testutil.CloneBlock(a)

	o.Downsample(o.Upsample(a), a)
	fresh.Downsample(fresh.Upsample(b), b)

	testutil.RequireBlockEqual(t, a, b)
}

func TestUnpreparedIsSafe(t *testing.T) {
	o, _ := New()
	block := testutil.StereoBlock(440, 48000, 0.5, 16)
	want := testutil.CloneBlock(block)

	wide := o.Upsample(block)
	if len(wide) != 0 {
		t.Fatalf("unprepared upsample returned %d channels", len(wide))
	}

	o.Downsample(wide, block)
	testutil.RequireBlockEqual(t, block, want)
}

func TestUpDownDoesNotAllocate(t *testing.T) {
	o := newPrepared(t, 2, 256)
	block := testutil.StereoBlock(440, 48000, 0.5, 256)

	allocs := testing.AllocsPerRun(100, func() {
		o.Downsample(o.Upsample(block), block)
	})

	if allocs != 0 {
		t.Fatalf("allocs per run = %v, want 0", allocs)
	}
}
