package core

import (
	"errors"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vakthund/vakthund/core/signature"
)

func durationNs(ns int64) time.Duration {
	return time.Duration(ns) * time.Nanosecond
}

// fakePreventer records block calls, optionally failing them.
type fakePreventer struct {
	blocked []netip.Addr
	err     error
}

func (f *fakePreventer) BlockIP(addr netip.Addr) error {
	if f.err != nil {
		return f.err
	}
	f.blocked = append(f.blocked, addr)
	return nil
}

// mqttPublish frames payload as a minimal non-CONNECT MQTT packet the
// parser accepts: header 0x30, remaining length, payload.
func mqttPublish(payload []byte) []byte {
	return append([]byte{0x30, byte(len(payload))}, payload...)
}

func newTestProcessor(t *testing.T, preventer Preventer, patterns ...string) (*Processor, *DetectionMetrics) {
	t.Helper()
	engine := signature.New()
	for _, p := range patterns {
		require.NoError(t, engine.AddPattern([]byte(p)))
	}
	metrics := NewDetectionMetrics()
	target := netip.AddrFrom4([4]byte{127, 0, 0, 1})
	return NewProcessor(engine, preventer, target, metrics), metrics
}

func TestProcessor_MatchTriggersPrevention(t *testing.T) {
	preventer := &fakePreventer{}
	p, metrics := newTestProcessor(t, preventer, "malware")

	p.Process(NewEvent(1, mqttPublish([]byte("malware payload"))))

	require.Len(t, preventer.blocked, 1)
	assert.Equal(t, netip.AddrFrom4([4]byte{127, 0, 0, 1}), preventer.blocked[0])
	processed, matched, skipped := metrics.Counts()
	assert.Equal(t, uint64(1), processed)
	assert.Equal(t, uint64(1), matched)
	assert.Equal(t, uint64(0), skipped)
	assert.Greater(t, metrics.DetectionLatencyPercentile(50), 0.0)
}

func TestProcessor_CleanPayloadDoesNotBlock(t *testing.T) {
	preventer := &fakePreventer{}
	p, metrics := newTestProcessor(t, preventer, "malware")

	p.Process(NewEvent(1, mqttPublish([]byte("harmless telemetry"))))

	assert.Empty(t, preventer.blocked)
	processed, matched, _ := metrics.Counts()
	assert.Equal(t, uint64(1), processed)
	assert.Equal(t, uint64(0), matched)
}

func TestProcessor_UnparsableEventIsSkippedNotScanned(t *testing.T) {
	preventer := &fakePreventer{}
	// Pattern would match the raw bytes, but unparsed events are skipped,
	// never scanned raw.
	p, metrics := newTestProcessor(t, preventer, "\xff\xff")

	p.Process(NewEvent(1, []byte{0xFF}))

	assert.Empty(t, preventer.blocked)
	_, _, skipped := metrics.Counts()
	assert.Equal(t, uint64(1), skipped)
}

func TestProcessor_PreventionFailureDoesNotStopDetection(t *testing.T) {
	preventer := &fakePreventer{err: errors.New("no privileges")}
	p, metrics := newTestProcessor(t, preventer, "abc")

	// Must not panic or abort; the failure is logged and processing continues.
	p.Process(NewEvent(1, mqttPublish([]byte("abc"))))
	p.Process(NewEvent(2, mqttPublish([]byte("abc"))))

	processed, matched, _ := metrics.Counts()
	assert.Equal(t, uint64(2), processed)
	assert.Equal(t, uint64(2), matched)
}

func TestProcessor_NilPreventerLogsOnly(t *testing.T) {
	p, metrics := newTestProcessor(t, nil, "abc")
	p.Process(NewEvent(1, mqttPublish([]byte("abc"))))
	_, matched, _ := metrics.Counts()
	assert.Equal(t, uint64(1), matched)
}

func TestDetectionMetrics_PercentileInterpolates(t *testing.T) {
	m := NewDetectionMetrics()
	assert.Equal(t, 0.0, m.DetectionLatencyPercentile(99), "empty histogram")

	for _, ns := range []int64{100, 200, 300, 400} {
		m.ObserveDetectionLatency(durationNs(ns))
	}
	assert.Equal(t, 100.0, m.DetectionLatencyPercentile(0))
	assert.Equal(t, 400.0, m.DetectionLatencyPercentile(100))
	assert.Equal(t, 250.0, m.DetectionLatencyPercentile(50))
}
