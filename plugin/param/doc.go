// Package param implements a lock-free parameter surface shared between a
// control thread and a real-time audio thread.
//
// Values live in atomic words. Reads never block; writes clamp, store and
// then notify subscribers synchronously on the writing goroutine. A
// generation counter lets pollers detect changes without subscribing.
package param
