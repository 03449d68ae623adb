package core

import "sync/atomic"

// Clock is a monotonic virtual nanosecond counter. It has no coupling to
// wall-clock time: all simulator timestamps and the rolling state hash are
// derived exclusively from this counter, never from time.Now. Live capture
// sources use system monotonic nanoseconds instead; the two never mix
// within one run.
type Clock struct {
	ns atomic.Uint64
}

// NewClock returns a Clock initialized to seed nanoseconds.
func NewClock(seed uint64) *Clock {
	c := &Clock{}
	c.ns.Store(seed)
	return c
}

// NowNs returns the current value with acquire semantics.
func (c *Clock) NowNs() uint64 {
	return c.ns.Load()
}

// Advance increments the counter by deltaNs with release semantics.
func (c *Clock) Advance(deltaNs uint64) {
	c.ns.Add(deltaNs)
}
