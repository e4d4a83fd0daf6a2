// Package dither converts floating-point samples in [-1, 1] to integer PCM
// codes, optionally adding dither noise and first-order error feedback.
package dither
