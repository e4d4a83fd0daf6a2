package plugin

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-prism/dsp/effects/prism"
	"github.com/cwbudde/algo-prism/plugin/param"
	"github.com/cwbudde/algo-prism/plugin/state"
)

// NumChannels is the only supported bus width.
const NumChannels = 2

// Info describes static plugin properties.
type Info struct {
	Name         string
	AcceptsMIDI  bool
	ProducesMIDI bool
	TailSeconds  float64
	NumPrograms  int
}

// Effect is the capability set a host adapter needs.
type Effect interface {
	Info() Info
	SupportsLayout(numInputs, numOutputs int) bool
	Prepare(sampleRate float64, maxBlockSize int) error
	Release()
	Reset()
	ProcessBlock(buf [][]float64, numInputChannels, numSamples int)
	State() ([]byte, error)
	SetState(data []byte) error
	Params() *param.Surface
	LatencySamples() float64
}

// Option configures a Prism effect.
type Option func(*Prism)

// WithLogger directs control-thread logging to l.
func WithLogger(l *logrus.Logger) Option {
	return func(p *Prism) {
		if l != nil {
			p.log = l.WithField("component", "prism")
		}
	}
}

// WithEngineOptions passes options through to the signal path.
func WithEngineOptions(opts ...prism.Option) Option {
	return func(p *Prism) {
		p.engineOpts = append(p.engineOpts, opts...)
	}
}

// Prism is the Effect implementation for the saturation engine.
type Prism struct {
	surface *param.Surface
	snap    snapshotter
	engine  *prism.Processor
	log     *logrus.Entry

	engineOpts []prism.Option
}

var _ Effect = (*Prism)(nil)

// New creates an unprepared effect with default parameters.
func New(opts ...Option) (*Prism, error) {
	p := &Prism{log: logrus.WithField("component", "prism")}
	for _, opt := range opts {
		opt(p)
	}

	surface, err := NewLayout()
	if err != nil {
		return nil, err
	}

	snap, err := newSnapshotter(surface)
	if err != nil {
		return nil, err
	}

	engine, err := prism.New(p.engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("plugin: %w", err)
	}

	p.surface, p.snap, p.engine = surface, snap, engine

	return p, nil
}

// Info implements Effect.
func (p *Prism) Info() Info {
	return Info{Name: "Prism", TailSeconds: p.engine.TailSeconds(), NumPrograms: 1}
}

// SupportsLayout accepts any input width as long as the output is stereo.
func (p *Prism) SupportsLayout(numInputs, numOutputs int) bool {
	return numOutputs == NumChannels && numInputs >= 0
}

// Prepare sizes the engine for stereo blocks of up to maxBlockSize samples
// and clears its state.
func (p *Prism) Prepare(sampleRate float64, maxBlockSize int) error {
	if err := p.engine.Prepare(sampleRate, NumChannels, maxBlockSize); err != nil {
		p.log.WithFields(logrus.Fields{
			"function":       "Prepare",
			"sample_rate":    sampleRate,
			"max_block_size": maxBlockSize,
			"error":          err.Error(),
		}).Error("Failed to prepare engine")

		return fmt.Errorf("plugin: %w", err)
	}

	p.engine.Reset()

	p.log.WithFields(logrus.Fields{
		"function":        "Prepare",
		"sample_rate":     sampleRate,
		"max_block_size":  maxBlockSize,
		"latency_samples": p.engine.LatencySamples(),
	}).Info("Engine prepared")

	return nil
}

// Release is a no-op; buffers are kept for the next Prepare.
func (p *Prism) Release() {}

// Reset clears filter history.
func (p *Prism) Reset() {
	p.engine.Reset()
	p.log.WithField("function", "Reset").Debug("Engine reset")
}

// ProcessBlock snapshots the parameters once and runs the engine in place.
func (p *Prism) ProcessBlock(buf [][]float64, numInputChannels, numSamples int) {
	p.engine.ProcessBlock(buf, numInputChannels, numSamples, p.snap.settings())
}

// Settings returns the current parameter snapshot.
func (p *Prism) Settings() prism.Settings {
	return p.snap.settings()
}

// State exports every parameter value.
func (p *Prism) State() ([]byte, error) {
	data, err := state.Encode(p.surface.Values())
	if err != nil {
		return nil, fmt.Errorf("plugin: %w", err)
	}

	return data, nil
}

// SetState imports a state blob. Missing keys revert to defaults and unknown
// keys are ignored. Malformed data resets every parameter and is reported.
func (p *Prism) SetState(data []byte) error {
	values, err := state.Decode(data)
	if err != nil {
		p.surface.ResetAll()
		p.log.WithFields(logrus.Fields{
			"function": "SetState",
			"bytes":    len(data),
			"error":    err.Error(),
		}).Warn("Rejected state, parameters reset to defaults")

		return fmt.Errorf("plugin: %w", err)
	}

	p.surface.Restore(values)

	p.log.WithFields(logrus.Fields{
		"function": "SetState",
		"entries":  len(values),
	}).Debug("State restored")

	return nil
}

// Params returns the parameter surface.
func (p *Prism) Params() *param.Surface {
	return p.surface
}

// LatencySamples returns the wet-path delay in host samples.
func (p *Prism) LatencySamples() float64 {
	return p.engine.LatencySamples()
}
