// Package buffer provides preallocated multi-channel sample storage for
// real-time processing. Storage is sized once by Prepare on the control
// thread; the per-block methods only reslice and never allocate.
package buffer
