package main

import (
	"flag"
	"fmt"

	"github.com/cwbudde/algo-prism/dsp/effects/saturation"
	"github.com/cwbudde/algo-prism/plugin"
	"github.com/cwbudde/algo-prism/plugin/param"
	"github.com/cwbudde/algo-prism/plugin/preset"
)

// paramFlags binds the four effect parameters to command-line flags. Only
// flags given explicitly are applied, so they override a loaded state.
type paramFlags struct {
	fs     *flag.FlagSet
	input  float64
	output float64
	mix    float64
	algo   string
}

func addParamFlags(fs *flag.FlagSet) *paramFlags {
	p := &paramFlags{fs: fs}

	fs.Float64Var(&p.input, "input", 0, "input drive in dB [-24, 24]")
	fs.Float64Var(&p.output, "output", 0, "output level in dB [-24, 24]")
	fs.Float64Var(&p.mix, "mix", 100, "dry/wet mix in percent [0, 100]")
	fs.StringVar(&p.algo, "algo", "tanh", "algorithm: tanh, atan, hardclip, sigmoid, sinefold")

	return p
}

// apply writes explicitly set flags to the surface.
func (p *paramFlags) apply(s *param.Surface) error {
	var err error

	p.fs.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}

		switch f.Name {
		case "input":
			err = s.Set(plugin.KeyInput, p.input)
		case "output":
			err = s.Set(plugin.KeyOutput, p.output)
		case "mix":
			err = s.Set(plugin.KeyMix, p.mix)
		case "algo":
			var a saturation.Algorithm

			a, err = saturation.ParseAlgorithm(p.algo)
			if err == nil {
				err = s.Set(plugin.KeyAlgo, float64(a))
			}
		}
	})

	if err != nil {
		return fmt.Errorf("parameters: %w", err)
	}

	return nil
}

// loadStateFile reads a state file into fx when path is set.
func loadStateFile(fx *plugin.Prism, path string) error {
	if path == "" {
		return nil
	}

	values, err := preset.Load(path)
	if err != nil {
		return err
	}

	fx.Params().Restore(values)

	return nil
}
