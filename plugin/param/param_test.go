package param

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloatClampsAndFallsBack(t *testing.T) {
	f := NewFloat("input", "Input Drive", "dB", -24, 24, 0)

	f.Set(30)
	assert.Equal(t, 24.0, f.Value())

	f.Set(math.Inf(-1))
	assert.Equal(t, -24.0, f.Value())

	f.Set(math.NaN())
	assert.Equal(t, 0.0, f.Value())

	f.Set(-6.5)
	assert.Equal(t, -6.5, f.Value())

	f.Reset()
	assert.Equal(t, 0.0, f.Value())
}

func TestFloatNormalized(t *testing.T) {
	f := NewFloat("mix", "Mix", "%", 0, 100, 100)
	assert.Equal(t, 1.0, f.Normalized())

	f.SetNormalized(0.25)
	assert.Equal(t, 25.0, f.Value())
	assert.Equal(t, 0.25, f.Normalized())

	f.SetNormalized(-3)
	assert.Equal(t, 0.0, f.Value())

	f.SetNormalized(math.NaN())
	assert.Equal(t, 100.0, f.Value())
}

func TestFloatDefaultIsClamped(t *testing.T) {
	f := NewFloat("x", "X", "", 24, -24, 99)
	lo, hi := f.Range()
	assert.Equal(t, -24.0, lo)
	assert.Equal(t, 24.0, hi)
	assert.Equal(t, 24.0, f.Default())
}

func TestFloatFormat(t *testing.T) {
	f := NewFloat("output", "Output Level", "dB", -24, 24, -6)
	assert.Equal(t, "-6.0 dB", f.Format())
}

func TestChoiceIndexClamping(t *testing.T) {
	c := NewChoice("algo", "Algorithm", []string{"a", "b", "c", "d", "e"}, 0)

	c.SetIndex(7)
	assert.Equal(t, 4, c.Index())
	assert.Equal(t, "e", c.Selected())

	c.SetIndex(-2)
	assert.Equal(t, 0, c.Index())
}

func TestChoiceNormalizedRoundsHalfUp(t *testing.T) {
	c := NewChoice("algo", "Algorithm", []string{"a", "b", "c", "d", "e"}, 0)

	cases := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{0.124, 0},
		{0.125, 1},
		{0.375, 2},
		{0.5, 2},
		{0.625, 3},
		{0.874, 3},
		{0.875, 4},
		{1, 4},
		{2, 4},
		{-1, 0},
	}

	for _, tc := range cases {
		c.SetNormalized(tc.in)
		assert.Equal(t, tc.want, c.Index(), "SetNormalized(%v)", tc.in)
	}

	c.SetIndex(3)
	assert.Equal(t, 0.75, c.Normalized())
}

func TestChoicePlainRoundsHalfUp(t *testing.T) {
	c := NewChoice("algo", "Algorithm", []string{"a", "b", "c", "d", "e"}, 2)

	c.SetPlain(1.5)
	assert.Equal(t, 2, c.Index())

	c.SetPlain(1.49)
	assert.Equal(t, 1, c.Index())

	c.SetPlain(1e300)
	assert.Equal(t, 4, c.Index())

	c.SetPlain(math.NaN())
	assert.Equal(t, 2, c.Index())
}

func TestChoiceSingleOption(t *testing.T) {
	c := NewChoice("only", "Only", []string{"x"}, 3)
	assert.Equal(t, 0, c.Default())

	c.SetNormalized(0.9)
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, 0.0, c.Normalized())
}
