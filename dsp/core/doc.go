// Package core holds the numeric helpers and stream configuration shared by
// the Prism signal path: range sanitizing, decibel conversion, channel
// clearing and the prepared-stream description.
package core
