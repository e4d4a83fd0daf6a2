// Package plugin wraps the Prism engine in a host-facing effect: a fixed
// stereo layout, the four-parameter surface and opaque state blobs.
//
// A host drives an [Effect] from two goroutines. The audio goroutine calls
// ProcessBlock; everything else (Prepare, Reset, SetState, parameter edits)
// happens on the control goroutine. Parameter values cross between them
// through the lock-free surface in package param.
package plugin
