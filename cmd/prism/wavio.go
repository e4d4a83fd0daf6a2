package main

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-prism/dsp/dither"
)

// audioFile is deinterleaved audio scaled to [-1, 1].
type audioFile struct {
	channels   [][]float64
	sampleRate int
	bitDepth   int
}

func (a *audioFile) frames() int {
	if len(a.channels) == 0 {
		return 0
	}

	return len(a.channels[0])
}

func readWAV(path string) (*audioFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%s: not a valid WAV file", path)
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	format := dec.Format()
	bitDepth := int(dec.SampleBitDepth())

	if bitDepth < 16 || format.NumChannels <= 0 {
		return nil, fmt.Errorf("%s: unsupported WAV format (%d bit, %d channels)", path, bitDepth, format.NumChannels)
	}

	bytesPerSample := (bitDepth-1)/8 + 1
	nsamples := int(dec.PCMLen()) / bytesPerSample
	nframes := nsamples / format.NumChannels

	buf := &audio.IntBuffer{
		Format:         format,
		Data:           make([]int, nframes*format.NumChannels),
		SourceBitDepth: bitDepth,
	}

	n, err := dec.PCMBuffer(buf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	nframes = n / format.NumChannels
	scale := math.Pow(2, float64(bitDepth-1))

	out := &audioFile{
		channels:   make([][]float64, format.NumChannels),
		sampleRate: format.SampleRate,
		bitDepth:   bitDepth,
	}

	for c := range out.channels {
		ch := make([]float64, nframes)
		for i := range ch {
			ch[i] = float64(buf.Data[i*format.NumChannels+c]) / scale
		}

		out.channels[c] = ch
	}

	return out, nil
}

// writeWAV quantizes a to its bit depth through one dither.Quantizer per
// channel. opts follow the bit depth and per-channel seed.
func writeWAV(path string, a *audioFile, opts ...dither.Option) (err error) {
	if len(a.channels) == 0 {
		return errors.New("no channels to write")
	}

	if a.bitDepth != 16 && a.bitDepth != 24 {
		return fmt.Errorf("unsupported bit depth %d", a.bitDepth)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	nch := len(a.channels)
	nframes := a.frames()

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: nch, SampleRate: a.sampleRate},
		Data:           make([]int, nframes*nch),
		SourceBitDepth: a.bitDepth,
	}

	for c, ch := range a.channels {
		chOpts := append([]dither.Option{dither.WithBitDepth(a.bitDepth), dither.WithSeed(uint64(c) + 1)}, opts...)

		q, err := dither.NewQuantizer(chOpts...)
		if err != nil {
			return err
		}

		q.ProcessInto(buf.Data, ch[:nframes], c, nch)
	}

	enc := wav.NewEncoder(f, a.sampleRate, a.bitDepth, nch, 1)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return nil
}
