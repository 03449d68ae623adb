package core

import "net/netip"

// Event is an immutable value flowing through the pipeline: a timestamp and
// a payload, optionally tagged with source/destination endpoints. Payload
// bytes never mutate after construction; callers that need to retain a
// slice across calls may do so safely since nothing in core writes into it
// again.
type Event struct {
	TimestampNs uint64
	Payload     []byte
	Source      netip.AddrPort
	Destination netip.AddrPort
	hasSource   bool
	hasDest     bool
}

// NewEvent constructs a synthetic event with no endpoints, as produced by
// the simulator.
func NewEvent(timestampNs uint64, payload []byte) Event {
	return Event{TimestampNs: timestampNs, Payload: payload}
}

// NewNetworkEvent constructs an event tagged with source/destination
// endpoints, as produced by a live capture source.
func NewNetworkEvent(timestampNs uint64, payload []byte, src, dst netip.AddrPort) Event {
	return Event{
		TimestampNs: timestampNs,
		Payload:     payload,
		Source:      src,
		Destination: dst,
		hasSource:   true,
		hasDest:     true,
	}
}

// HasEndpoints reports whether Source/Destination are populated.
func (e Event) HasEndpoints() bool {
	return e.hasSource && e.hasDest
}
