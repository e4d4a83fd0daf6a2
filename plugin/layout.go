package plugin

import (
	"fmt"

	"github.com/cwbudde/algo-prism/dsp/effects/prism"
	"github.com/cwbudde/algo-prism/dsp/effects/saturation"
	"github.com/cwbudde/algo-prism/plugin/param"
)

// Parameter keys.
const (
	KeyInput  = "input"
	KeyOutput = "output"
	KeyMix    = "mix"
	KeyAlgo   = "algo"
)

// NewLayout returns a surface holding the four Prism parameters at their
// defaults.
func NewLayout() (*param.Surface, error) {
	s := param.NewSurface()

	err := s.Add(
		param.NewFloat(KeyInput, "Input Drive", "dB", prism.MinGainDB, prism.MaxGainDB, prism.DefaultGainDB),
		param.NewFloat(KeyOutput, "Output Level", "dB", prism.MinGainDB, prism.MaxGainDB, prism.DefaultGainDB),
		param.NewFloat(KeyMix, "Mix", "%", prism.MinMixPercent, prism.MaxMixPercent, prism.DefaultMixPercent),
		param.NewChoice(KeyAlgo, "Algorithm", saturation.Names(), int(saturation.Tanh)),
	)
	if err != nil {
		return nil, fmt.Errorf("plugin: %w", err)
	}

	return s, nil
}

// snapshotter reads the surface into engine settings with wait-free loads.
type snapshotter struct {
	input  *param.Float
	output *param.Float
	mix    *param.Float
	algo   *param.Choice
}

func newSnapshotter(s *param.Surface) (snapshotter, error) {
	snap := snapshotter{
		input:  s.Float(KeyInput),
		output: s.Float(KeyOutput),
		mix:    s.Float(KeyMix),
		algo:   s.Choice(KeyAlgo),
	}

	if snap.input == nil || snap.output == nil || snap.mix == nil || snap.algo == nil {
		return snapshotter{}, fmt.Errorf("plugin: surface is missing Prism parameters")
	}

	return snap, nil
}

func (s snapshotter) settings() prism.Settings {
	return prism.Settings{
		InputDB:    s.input.Value(),
		OutputDB:   s.output.Value(),
		MixPercent: s.mix.Value(),
		Algorithm:  saturation.Algorithm(s.algo.Index()),
	}
}
