// Package saturation provides the stateless waveshaping curves used by the
// Prism saturation effect.
//
// Every curve maps one sample to one sample, is deterministic, allocation
// free and returns a finite value for any finite input:
//
//	Tanh      tanh(x)                 smooth, asymptotic to +-1
//	Arctan    (2/pi)*atan(x)          softer knee than Tanh
//	HardClip  clamp(x, -1, 1)         hardest aliasing, flat beyond +-1
//	Sigmoid   2/(1+exp(-x)) - 1       logistic curve mapped to [-1, 1]
//	SineFold  sin(x)                  folds back beyond |x| > pi/2
//
// The curves are meant to run at the oversampled rate inside
// github.com/cwbudde/algo-prism/dsp/effects/prism. Build with the
// fastmath tag to use a polynomial exponential in the sigmoid.
package saturation
