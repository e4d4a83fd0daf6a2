package param

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-prism/dsp/core"
)

// Parameter is the common view of Float and Choice parameters. Plain values
// are in display units; a Choice's plain value is its index.
type Parameter interface {
	Key() string
	Name() string
	Plain() float64
	SetPlain(v float64)
	Normalized() float64
	SetNormalized(v float64)
	DefaultPlain() float64
	Reset()
	Format() string

	attach(s *Surface)
}

// Float is a continuous parameter with a linear range.
type Float struct {
	key  string
	name string
	unit string
	min  float64
	max  float64
	def  float64

	bits  atomic.Uint64
	owner *Surface
}

// NewFloat returns a Float initialised to def, which is clamped into
// [min, max].
func NewFloat(key, name, unit string, min, max, def float64) *Float {
	if min > max {
		min, max = max, min
	}

	f := &Float{key: key, name: name, unit: unit, min: min, max: max}
	f.def = core.Sanitize(def, min, max, min)
	f.bits.Store(math.Float64bits(f.def))

	return f
}

func (f *Float) Key() string  { return f.key }
func (f *Float) Name() string { return f.name }
func (f *Float) Unit() string { return f.unit }

// Range returns the plain bounds.
func (f *Float) Range() (min, max float64) { return f.min, f.max }

// Default returns the default plain value.
func (f *Float) Default() float64 { return f.def }

// DefaultPlain implements Parameter.
func (f *Float) DefaultPlain() float64 { return f.def }

// Value returns the current plain value.
func (f *Float) Value() float64 {
	return math.Float64frombits(f.bits.Load())
}

// Plain implements Parameter.
func (f *Float) Plain() float64 { return f.Value() }

// Set stores v clamped to the range. NaN stores the default.
func (f *Float) Set(v float64) {
	f.store(core.Sanitize(v, f.min, f.max, f.def))
}

// SetPlain implements Parameter.
func (f *Float) SetPlain(v float64) { f.Set(v) }

// Normalized returns the value mapped linearly to [0, 1].
func (f *Float) Normalized() float64 {
	if f.max == f.min {
		return 0
	}

	return (f.Value() - f.min) / (f.max - f.min)
}

// SetNormalized stores min + v*(max-min) with v clamped to [0, 1].
func (f *Float) SetNormalized(v float64) {
	if math.IsNaN(v) {
		f.Reset()
		return
	}

	v = core.Clamp(v, 0, 1)
	f.store(core.Clamp(f.min+v*(f.max-f.min), f.min, f.max))
}

// Reset restores the default.
func (f *Float) Reset() { f.store(f.def) }

// Format renders the value with its unit.
func (f *Float) Format() string {
	if f.unit == "" {
		return fmt.Sprintf("%.1f", f.Value())
	}

	return fmt.Sprintf("%.1f %s", f.Value(), f.unit)
}

func (f *Float) attach(s *Surface) { f.owner = s }

func (f *Float) store(v float64) {
	next := math.Float64bits(v)
	if f.bits.Swap(next) != next && f.owner != nil {
		f.owner.changed(f.key, v)
	}
}

// Choice is a discrete parameter selecting one of a fixed list of names.
type Choice struct {
	key     string
	name    string
	choices []string
	def     int

	index atomic.Int64
	owner *Surface
}

// NewChoice returns a Choice initialised to def, which is clamped to a
// valid index. choices must not be empty.
func NewChoice(key, name string, choices []string, def int) *Choice {
	c := &Choice{key: key, name: name, choices: append([]string(nil), choices...)}
	c.def = c.clampIndex(def)
	c.index.Store(int64(c.def))

	return c
}

func (c *Choice) Key() string  { return c.key }
func (c *Choice) Name() string { return c.name }

// Choices returns a copy of the option names.
func (c *Choice) Choices() []string { return append([]string(nil), c.choices...) }

// Count returns the number of options.
func (c *Choice) Count() int { return len(c.choices) }

// Default returns the default index.
func (c *Choice) Default() int { return c.def }

// DefaultPlain implements Parameter.
func (c *Choice) DefaultPlain() float64 { return float64(c.def) }

// Index returns the selected index.
func (c *Choice) Index() int { return int(c.index.Load()) }

// Plain implements Parameter.
func (c *Choice) Plain() float64 { return float64(c.Index()) }

// Selected returns the name of the selected option.
func (c *Choice) Selected() string {
	if len(c.choices) == 0 {
		return ""
	}

	return c.choices[c.Index()]
}

// SetIndex selects i clamped to the valid range.
func (c *Choice) SetIndex(i int) { c.store(c.clampIndex(i)) }

// SetPlain rounds v half up to an index and clamps it. NaN selects the
// default.
func (c *Choice) SetPlain(v float64) {
	if math.IsNaN(v) {
		c.Reset()
		return
	}

	c.SetIndex(roundHalfUp(core.Clamp(v, -1, float64(len(c.choices)))))
}

// Normalized returns index/(N-1), or 0 for a single option.
func (c *Choice) Normalized() float64 {
	if len(c.choices) < 2 {
		return 0
	}

	return float64(c.Index()) / float64(len(c.choices)-1)
}

// SetNormalized selects round(v*(N-1)) with v clamped to [0, 1].
func (c *Choice) SetNormalized(v float64) {
	if math.IsNaN(v) {
		c.Reset()
		return
	}

	if len(c.choices) < 2 {
		c.SetIndex(0)
		return
	}

	c.SetIndex(roundHalfUp(core.Clamp(v, 0, 1) * float64(len(c.choices)-1)))
}

// Reset restores the default.
func (c *Choice) Reset() { c.store(c.def) }

// Format returns the selected name.
func (c *Choice) Format() string { return c.Selected() }

func (c *Choice) attach(s *Surface) { c.owner = s }

func (c *Choice) store(i int) {
	if c.index.Swap(int64(i)) != int64(i) && c.owner != nil {
		c.owner.changed(c.key, float64(i))
	}
}

func (c *Choice) clampIndex(i int) int {
	if i < 0 || len(c.choices) == 0 {
		return 0
	}

	return min(i, len(c.choices)-1)
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
