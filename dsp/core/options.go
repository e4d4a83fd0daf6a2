package core

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig reports a stream description that cannot be prepared.
var ErrInvalidConfig = errors.New("core: invalid processor config")

// ProcessorConfig describes the stream a processor is prepared for.
// BlockSize is the largest block the host will deliver.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int
	Channels   int
}

// ProcessorOption adjusts a ProcessorConfig. Non-positive values are ignored.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig is stereo at 48 kHz with 512-sample blocks.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{SampleRate: 48000, BlockSize: 512, Channels: 2}
}

// WithSampleRate sets the sample rate in Hz.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 && IsFinite(sampleRate) {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the maximum block size.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// WithChannels sets the channel count.
func WithChannels(channels int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if channels > 0 {
			cfg.Channels = channels
		}
	}
}

// ApplyProcessorOptions returns the default config with opts applied in order.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// Validate accepts any finite positive sample rate and non-negative sizes.
// A zero block size or channel count prepares a processor that does nothing.
func (c ProcessorConfig) Validate() error {
	if !(c.SampleRate > 0) || !IsFinite(c.SampleRate) {
		return fmt.Errorf("%w: sample rate %g", ErrInvalidConfig, c.SampleRate)
	}

	if c.BlockSize < 0 || c.Channels < 0 {
		return fmt.Errorf("%w: channels=%d blockSize=%d", ErrInvalidConfig, c.Channels, c.BlockSize)
	}

	return nil
}
