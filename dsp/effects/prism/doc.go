// Package prism implements the Prism stereo saturation signal path.
//
// Per block the [Processor] keeps a dry copy of the input, runs the block at
// twice the host rate through input gain and one of the curves from
// github.com/cwbudde/algo-prism/dsp/effects/saturation, decimates back in
// place and blends the result with the dry copy:
//
//	out = dry*(1-mix) + shaped*outputGain*mix
//
// Output gain is applied to the wet path only, so mix=0 reproduces the input
// exactly. Parameters arrive as a [Settings] snapshot taken once per block;
// the processor holds no parameter state of its own.
//
// ProcessBlock never allocates, blocks or panics. Prepare and Reset are
// control-thread operations.
package prism
