// Package signal provides deterministic test signals: one-shot sine and noise
// buffers and a phase-continuous streaming oscillator.
package signal
