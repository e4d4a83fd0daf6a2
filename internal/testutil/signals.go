package testutil

import (
	"math"
	"math/rand"
)

// Sine generates a deterministic sine wave starting at phase 0.
func Sine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate

	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// Noise generates white noise in [-amplitude, amplitude] with a fixed seed.
func Noise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))

	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// StereoBlock builds a two-channel block: a sine on the left and seeded noise
// on the right, so channel mix-ups are visible in tests.
func StereoBlock(freqHz, sampleRate, amplitude float64, length int) [][]float64 {
	return [][]float64{
		Sine(freqHz, sampleRate, amplitude, length),
		Noise(int64(length)+7, amplitude, length),
	}
}

// CloneBlock deep-copies a multi-channel block.
func CloneBlock(block [][]float64) [][]float64 {
	out := make([][]float64, len(block))
	for c, ch := range block {
		out[c] = append([]float64(nil), ch...)
	}

	return out
}
