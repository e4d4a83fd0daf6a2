// Package aliasing measures how much of a distorted tone's energy lands on
// bins that are not harmonics of the fundamental.
//
// A nonlinearity driven by a tone at f0 produces harmonics at k*f0. Those
// below Nyquist are wanted; those above fold back to frequencies that are
// generally not multiples of f0. With a coherent fundamental (an integer
// number of cycles per FFT frame) and the four-term Blackman-Harris window,
// each component occupies a narrow group of bins, so the energy outside the
// harmonic groups is the aliasing (plus noise).
package aliasing
