package prism

import (
	"github.com/cwbudde/algo-prism/dsp/core"
	"github.com/cwbudde/algo-prism/dsp/effects/saturation"
)

const (
	MinGainDB     = -24.0
	MaxGainDB     = 24.0
	DefaultGainDB = 0.0

	MinMixPercent     = 0.0
	MaxMixPercent     = 100.0
	DefaultMixPercent = 100.0
)

// Settings is the parameter snapshot for one block.
type Settings struct {
	InputDB    float64
	OutputDB   float64
	MixPercent float64
	Algorithm  saturation.Algorithm
}

// DefaultSettings returns unity gains, a fully wet mix and the tanh curve.
func DefaultSettings() Settings {
	return Settings{
		InputDB:    DefaultGainDB,
		OutputDB:   DefaultGainDB,
		MixPercent: DefaultMixPercent,
		Algorithm:  saturation.Tanh,
	}
}

// Sanitize clamps every field to its range. NaN falls back to the default.
func (s Settings) Sanitize() Settings {
	return Settings{
		InputDB:    core.Sanitize(s.InputDB, MinGainDB, MaxGainDB, DefaultGainDB),
		OutputDB:   core.Sanitize(s.OutputDB, MinGainDB, MaxGainDB, DefaultGainDB),
		MixPercent: core.Sanitize(s.MixPercent, MinMixPercent, MaxMixPercent, DefaultMixPercent),
		Algorithm:  s.Algorithm.Clamp(),
	}
}

type coefficients struct {
	inputGain  float64
	outputGain float64
	wet        float64
	dry        float64
	algorithm  saturation.Algorithm
}

func (s Settings) coefficients() coefficients {
	s = s.Sanitize()
	wet := s.MixPercent / 100

	return coefficients{
		inputGain:  core.DBToLinear(s.InputDB),
		outputGain: core.DBToLinear(s.OutputDB),
		wet:        wet,
		dry:        1 - wet,
		algorithm:  s.Algorithm,
	}
}
