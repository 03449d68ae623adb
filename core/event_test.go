package core

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEvent_NoEndpoints(t *testing.T) {
	// GIVEN a synthetic event as the simulator produces
	e := NewEvent(42, []byte("payload"))

	// THEN it carries no endpoints
	assert.False(t, e.HasEndpoints())
	assert.Equal(t, uint64(42), e.TimestampNs)
	assert.Equal(t, []byte("payload"), e.Payload)
}

func TestNewNetworkEvent_HasEndpoints(t *testing.T) {
	// GIVEN a captured event with endpoints
	src := netip.MustParseAddrPort("10.0.0.1:1883")
	dst := netip.MustParseAddrPort("10.0.0.2:1883")
	e := NewNetworkEvent(7, []byte("x"), src, dst)

	// THEN endpoints round-trip
	assert.True(t, e.HasEndpoints())
	assert.Equal(t, src, e.Source)
	assert.Equal(t, dst, e.Destination)
}

func TestEvent_PayloadLengthZeroAllowed(t *testing.T) {
	// Invariant: payload length >= 0 (empty is valid).
	e := NewEvent(0, nil)
	assert.Len(t, e.Payload, 0)
}
