package main

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cwbudde/algo-prism/dsp/signal"
	"github.com/cwbudde/algo-prism/plugin"
)

// source produces the next len(channels[0]) frames of input.
type source interface {
	Fill(channels [][]float64)
}

// loop replays a file from the start once it runs out.
type loop struct {
	file *audioFile
	pos  int
}

func (l *loop) Fill(channels [][]float64) {
	frames := l.file.frames()

	for c, ch := range channels {
		if c >= len(l.file.channels) || frames == 0 {
			clear(ch)
			continue
		}

		src, pos := l.file.channels[c], l.pos
		for i := range ch {
			ch[i] = src[pos]
			if pos++; pos == frames {
				pos = 0
			}
		}
	}

	if frames > 0 && len(channels) > 0 {
		l.pos = (l.pos + len(channels[0])) % frames
	}
}

func openSource(path string, freq, amplitude float64, rate int) (source, int, error) {
	if path != "" {
		f, err := readWAV(path)
		if err != nil {
			return nil, 0, err
		}

		if len(f.channels) > plugin.NumChannels {
			return nil, 0, fmt.Errorf("%s: %d channels not supported", path, len(f.channels))
		}

		if len(f.channels) == 1 {
			f.channels = append(f.channels, f.channels[0])
		}

		return &loop{file: f}, f.sampleRate, nil
	}

	osc, err := signal.NewOscillator(float64(rate), freq, amplitude)
	if err != nil {
		return nil, 0, err
	}

	return osc, rate, nil
}

// stream is the io.Reader the audio device pulls from. Each Read renders
// stereo float32 little-endian frames through the effect.
type stream struct {
	fx    plugin.Effect
	src   source
	block int
	buf   [][]float64
	view  [][]float64
}

func newStream(fx plugin.Effect, src source, block int) *stream {
	s := &stream{
		fx:    fx,
		src:   src,
		block: block,
		buf:   make([][]float64, plugin.NumChannels),
		view:  make([][]float64, plugin.NumChannels),
	}

	for c := range s.buf {
		s.buf[c] = make([]float64, block)
	}

	return s
}

func (s *stream) Read(p []byte) (int, error) {
	const frameBytes = 4 * plugin.NumChannels

	frames := len(p) / frameBytes
	written := 0

	for frames > 0 {
		n := min(frames, s.block)

		for c := range s.view {
			s.view[c] = s.buf[c][:n]
		}

		s.src.Fill(s.view)
		s.fx.ProcessBlock(s.view, plugin.NumChannels, n)

		for i := range n {
			for c := range s.view {
				binary.LittleEndian.PutUint32(p[written:], math.Float32bits(float32(s.view[c][i])))
				written += 4
			}
		}

		frames -= n
	}

	return written, nil
}
