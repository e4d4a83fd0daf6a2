package buffer

// Channels holds numChannels planar float64 buffers of equal capacity backed
// by one contiguous allocation.
type Channels struct {
	backing  []float64
	data     [][]float64
	views    [][]float64
	capacity int
}

// NewChannels returns zero-filled storage for numChannels channels of
// capacity samples each. Negative sizes are treated as 0.
func NewChannels(numChannels, capacity int) *Channels {
	c := &Channels{}
	c.Prepare(numChannels, capacity)

	return c
}

// Prepare resizes the storage, reusing the backing array when it is large
// enough. Contents are zeroed. Not real-time safe.
func (c *Channels) Prepare(numChannels, capacity int) {
	if numChannels < 0 {
		numChannels = 0
	}

	if capacity < 0 {
		capacity = 0
	}

	total := numChannels * capacity
	if total <= cap(c.backing) {
		c.backing = c.backing[:total]
		clear(c.backing)
	} else {
		c.backing = make([]float64, total)
	}

	if numChannels <= cap(c.data) {
		c.data = c.data[:numChannels]
		c.views = c.views[:numChannels]
	} else {
		c.data = make([][]float64, numChannels)
		c.views = make([][]float64, numChannels)
	}

	for i := range c.data {
		lo, hi := i*capacity, (i+1)*capacity
		c.data[i] = c.backing[lo:hi:hi]
		c.views[i] = c.data[i]
	}

	c.capacity = capacity
}

// NumChannels returns the prepared channel count.
func (c *Channels) NumChannels() int {
	return len(c.data)
}

// Capacity returns the prepared per-channel length.
func (c *Channels) Capacity() int {
	return c.capacity
}

// Channel returns the full-capacity slice for channel i.
func (c *Channels) Channel(i int) []float64 {
	return c.data[i]
}

// Views returns per-channel slices of length min(n, Capacity()). The
// returned outer slice is reused by the next call to Views.
func (c *Channels) Views(n int) [][]float64 {
	n = c.clampLen(n)
	for i := range c.data {
		c.views[i] = c.data[i][:n]
	}

	return c.views
}

// CopyFrom copies the first n samples of each source channel into the
// matching storage channel and returns the number of samples copied per
// channel. Extra source channels are ignored.
func (c *Channels) CopyFrom(src [][]float64, n int) int {
	n = c.clampLen(n)

	for i := range min(len(src), len(c.data)) {
		copy(c.data[i][:n], src[i])
	}

	return n
}

// Zero clears every channel.
func (c *Channels) Zero() {
	clear(c.backing)
}

func (c *Channels) clampLen(n int) int {
	if n < 0 {
		return 0
	}

	return min(n, c.capacity)
}
