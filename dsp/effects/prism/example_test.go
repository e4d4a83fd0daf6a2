package prism_test

import (
	"fmt"

	"github.com/cwbudde/algo-prism/dsp/effects/prism"
	"github.com/cwbudde/algo-prism/dsp/effects/saturation"
)

func ExampleProcessor_ProcessBlock() {
	p, err := prism.New()
	if err != nil {
		panic(err)
	}

	if err := p.Prepare(48000, 2, 64); err != nil {
		panic(err)
	}

	buf := [][]float64{{0.5, -0.25, 0.125}, {0, 0, 0}}

	s := prism.DefaultSettings()
	s.MixPercent = 0
	s.Algorithm = saturation.HardClip
	p.ProcessBlock(buf, 2, 3, s)

	fmt.Println(buf[0], buf[1])
	// Output: [0.5 -0.25 0.125] [0 0 0]
}
