package core

// Zero clears buf.
func Zero(buf []float64) {
	clear(buf)
}

// ZeroChannels clears the first n samples of each channel, or the whole
// channel when it is shorter.
func ZeroChannels(chans [][]float64, n int) {
	if n <= 0 {
		return
	}

	for _, ch := range chans {
		clear(ch[:min(n, len(ch))])
	}
}
