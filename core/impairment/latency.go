// Package impairment provides the concrete LatencyModel, JitterModel, and
// PacketLossModel implementations consumed by core.Simulator. Importing
// this package registers its constructors into core's factory variables via
// init() (see register.go).
package impairment

import (
	"time"
)

// FixedLatency adds a constant delay to every event, configured in
// milliseconds.
type FixedLatency struct {
	delay time.Duration
}

// NewFixedLatency constructs a FixedLatency model from a millisecond delay.
func NewFixedLatency(delayMs uint64) *FixedLatency {
	return &FixedLatency{delay: time.Duration(delayMs) * time.Millisecond}
}

// Apply returns base plus the configured fixed delay.
func (f *FixedLatency) Apply(base time.Duration) time.Duration {
	return base + f.delay
}

// NoLatency leaves the base duration unchanged; the default when no
// latency is configured.
type NoLatency struct{}

// Apply returns base unchanged.
func (NoLatency) Apply(base time.Duration) time.Duration {
	return base
}
