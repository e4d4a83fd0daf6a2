// Package halfband provides polyphase IIR halfband filters for 2x
// interpolation and decimation.
//
// The filters follow the HIIR structure: two parallel chains of first-order
// allpass sections running at the low rate, one per polyphase branch. The
// coefficients come from an elliptic halfband prototype designed with
// [DesignCoefficients]; [CoefficientCountFor] picks the shortest design that
// reaches a stopband target.
//
// Transition bandwidth is normalized to the oversampled rate: a transition
// of 0.05 places the passband edge at 0.225*fs and the stopband edge at
// 0.275*fs.
//
// [Upsampler] and [Downsampler] are single-channel and stateful. Their block
// methods never allocate and leave state untouched for empty input.
package halfband
