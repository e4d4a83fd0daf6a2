// Package oversample runs a multi-channel block at twice the host rate.
//
// An [Oversampler] pairs one halfband upsampler and one matched downsampler
// per channel. [Oversampler.Upsample] writes into storage sized by
// [Oversampler.Prepare] and returns views into it; the caller processes those
// views in place and hands them back to [Oversampler.Downsample]. Neither call
// allocates.
package oversample
