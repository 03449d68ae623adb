package core

import (
	"net/netip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func sampleScenario() *Scenario {
	src := netip.MustParseAddrPort("192.168.1.10:5683")
	dst := netip.MustParseAddrPort("192.168.1.1:5683")
	ev := RecordEvent(NewNetworkEvent(1500, []byte("Event 0"), src, dst))
	synthetic := RecordEvent(NewEvent(3000, []byte("Event 1")))
	return &Scenario{
		Seed: 42,
		Config: SimulatorConfig{
			Seed:       42,
			EventCount: 2,
			Chaos:      ChaosConfig{FaultProbability: 0.1},
			Network:    NetworkModelConfig{LatencyMs: 100, JitterMs: 20},
		},
		Events: []ScenarioEvent{
			{Kind: ScenarioNetworkEvent, DelayNs: 1500, Event: &ev},
			{Kind: ScenarioNetworkDelay, DelayNs: 5000},
			{Kind: ScenarioPacketLoss, LossProbability: 0.25},
			{Kind: ScenarioFaultInjection, FaultTag: "latency_spike"},
			{Kind: ScenarioCustom, Custom: &CustomRecord{TypeName: "probe", Data: []byte{1, 2, 3}}},
			{Kind: ScenarioNetworkEvent, DelayNs: 1500, Event: &synthetic},
		},
		ExpectedHash: "deadbeef",
	}
}

func TestScenario_SaveLoadRoundTrip(t *testing.T) {
	// GIVEN a scenario exercising every event variant
	original := sampleScenario()
	path := filepath.Join(t.TempDir(), "scenario.yaml")

	// WHEN saved and loaded back
	require.NoError(t, original.Save(path))
	loaded, err := LoadScenario(path)
	require.NoError(t, err)

	// THEN save-then-load is the identity
	assert.Equal(t, original, loaded)
}

func TestScenario_LoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, writeFile(path, "seed: 1\nunknown_key: true\n"))

	_, err := LoadScenario(path)
	assert.Error(t, err)
}

func TestScenario_LoadMissingFileSurfacesError(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestScenarioEvent_UnmarshalRejectsUnknownKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad-kind.yaml")
	require.NoError(t, writeFile(path, "seed: 1\nconfig:\n  seed: 1\n  event_count: 0\n  chaos:\n    fault_probability: 0\n  network:\n    latency_ms: 0\n    jitter_ms: 0\nevents:\n  - Bogus: 1\nexpected_hash: \"\"\n"))

	_, err := LoadScenario(path)
	assert.ErrorContains(t, err, "unknown event kind")
}

func TestEventRecord_EndpointRoundTrip(t *testing.T) {
	src := netip.MustParseAddrPort("10.0.0.1:1883")
	dst := netip.MustParseAddrPort("10.0.0.2:1883")
	rec := RecordEvent(NewNetworkEvent(99, []byte("x"), src, dst))

	back, err := rec.ToEvent()
	require.NoError(t, err)
	assert.True(t, back.HasEndpoints())
	assert.Equal(t, src, back.Source)
	assert.Equal(t, dst, back.Destination)
}

func TestEventRecord_BadEndpointSurfacesError(t *testing.T) {
	rec := EventRecord{Timestamp: 1, Payload: []byte("x"), Source: "nonsense", Destination: "10.0.0.2:1"}
	_, err := rec.ToEvent()
	assert.Error(t, err)
}
