package level

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-prism/internal/testutil"
)

func TestCalculateEmpty(t *testing.T) {
	s := Calculate(nil)
	if s.Length != 0 || !math.IsInf(s.RMS_dB, -1) || !math.IsInf(s.Peak_dB, -1) {
		t.Fatalf("Calculate(nil) = %+v", s)
	}
}

func TestCalculateSilence(t *testing.T) {
	s := Calculate(make([]float64, 64))
	if s.Length != 64 || s.RMS != 0 || s.CrestFactor != 0 || !math.IsInf(s.Peak_dB, -1) {
		t.Fatalf("Calculate(silence) = %+v", s)
	}
}

func TestCalculateSine(t *testing.T) {
	sig := testutil.Sine(1000, 48000, 0.5, 48000)
	s := Calculate(sig)

	if math.Abs(s.Peak-0.5) > 1e-9 {
		t.Fatalf("Peak = %g, want 0.5", s.Peak)
	}

	if math.Abs(s.RMS-0.5/math.Sqrt2) > 1e-9 {
		t.Fatalf("RMS = %g, want %g", s.RMS, 0.5/math.Sqrt2)
	}

	if math.Abs(s.Peak_dB-20*math.Log10(0.5)) > 1e-6 {
		t.Fatalf("Peak_dB = %g", s.Peak_dB)
	}

	if math.Abs(s.CrestFactor_dB-10*math.Log10(2)) > 1e-6 {
		t.Fatalf("CrestFactor_dB = %g, want 3.01", s.CrestFactor_dB)
	}

	if math.Abs(s.DC) > 1e-12 {
		t.Fatalf("DC = %g", s.DC)
	}

	if s.ClippedSamples != 0 {
		t.Fatalf("ClippedSamples = %d", s.ClippedSamples)
	}
}

func TestCalculateCountsClipsAndNonFinite(t *testing.T) {
	s := Calculate([]float64{0.2, -1, 1.5, math.NaN(), 0, math.Inf(1), -0.99})

	if s.Length != 5 || s.NonFinite != 2 {
		t.Fatalf("Length = %d NonFinite = %d", s.Length, s.NonFinite)
	}

	if s.ClippedSamples != 2 {
		t.Fatalf("ClippedSamples = %d, want 2", s.ClippedSamples)
	}

	if s.Peak != 1.5 || s.PeakPos != 2 {
		t.Fatalf("Peak = %g at %d", s.Peak, s.PeakPos)
	}
}

func TestMeterMatchesCalculate(t *testing.T) {
	sig := testutil.Noise(3, 0.8, 1000)
	want := Calculate(sig)

	var m Meter
	for start := 0; start < len(sig); start += 37 {
		m.Update(sig[start:min(start+37, len(sig))])
	}

	if got := m.Result(); got != want {
		t.Fatalf("Meter = %+v, want %+v", got, want)
	}

	m.Reset()

	if m.Result().Length != 0 {
		t.Fatal("Reset did not clear the meter")
	}
}

func TestMetersPerChannel(t *testing.T) {
	ms := NewMeters(2)
	ms.Update([][]float64{{0.5, -0.25, 0.1}, {1, 1}}, 2)
	ms.Update([][]float64{{0.75}}, 1)

	res := ms.Results()
	if res[0].Length != 3 || res[0].Peak != 0.75 || res[0].PeakPos != 2 {
		t.Fatalf("left = %+v", res[0])
	}

	if res[1].Length != 2 || res[1].ClippedSamples != 2 {
		t.Fatalf("right = %+v", res[1])
	}

	if len(NewMeters(-1)) != 0 {
		t.Fatal("negative channel count should yield no meters")
	}
}
