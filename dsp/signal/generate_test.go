package signal

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-prism/dsp/core"
)

func TestSineChannels(t *testing.T) {
	g := NewGenerator([]core.ProcessorOption{core.WithSampleRate(48000), core.WithChannels(2)})

	s, err := g.Sine(1000, 0.5, 64)
	if err != nil {
		t.Fatalf("Sine() error = %v", err)
	}

	if len(s) != 2 || len(s[0]) != 64 || len(s[1]) != 64 {
		t.Fatalf("shape = %d x %d", len(s), len(s[0]))
	}

	for i := range s[0] {
		want := 0.5 * math.Sin(2*math.Pi*1000*float64(i)/48000)
		if s[0][i] != want || s[1][i] != want {
			t.Fatalf("sample %d = %g/%g, want %g", i, s[0][i], s[1][i], want)
		}
	}
}

func TestWhiteNoiseDeterministic(t *testing.T) {
	opts := []core.ProcessorOption{core.WithChannels(2)}
	a, err := NewGenerator(opts, WithSeed(42)).WhiteNoise(1, 16)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}

	b, err := NewGenerator(opts, WithSeed(42)).WhiteNoise(1, 16)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}

	differ := false

	for i := range a[0] {
		if a[0][i] != b[0][i] || a[1][i] != b[1][i] {
			t.Fatalf("noise mismatch at %d", i)
		}

		if math.Abs(a[0][i]) > 1 {
			t.Fatalf("sample %d out of range: %g", i, a[0][i])
		}

		if a[0][i] != a[1][i] {
			differ = true
		}
	}

	if !differ {
		t.Fatal("channels should carry independent noise")
	}
}

func TestGeneratorValidation(t *testing.T) {
	g := NewGenerator(nil)

	if _, err := g.Sine(100, 1, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("zero samples err = %v", err)
	}

	if _, err := g.Sine(math.NaN(), 1, 8); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("NaN frequency err = %v", err)
	}

	if _, err := g.WhiteNoise(-1, 8); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("negative amplitude err = %v", err)
	}

	if cfg := g.Config(); cfg.SampleRate != 48000 || cfg.Channels != 2 {
		t.Fatalf("default config = %+v", cfg)
	}
}

func TestNormalize(t *testing.T) {
	block := [][]float64{{-0.5, 0.25}, {1, -0.1}}
	if err := Normalize(block, 0.8); err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	want := [][]float64{{-0.4, 0.2}, {0.8, -0.08}}
	for c := range want {
		for i := range want[c] {
			if math.Abs(block[c][i]-want[c][i]) > 1e-12 {
				t.Fatalf("block[%d][%d] = %g, want %g", c, i, block[c][i], want[c][i])
			}
		}
	}

	silent := [][]float64{{0, 0}}
	if err := Normalize(silent, 1); err != nil || silent[0][0] != 0 {
		t.Fatalf("silence: err = %v, value = %g", err, silent[0][0])
	}

	if err := Normalize(block, -1); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("negative target err = %v", err)
	}
}
