package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vakthund/vakthund/core"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 4096, cfg.Core.EventBus.Capacity)
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
core:
  event_bus:
    capacity: 256
simulator:
  seed: 7
  event_count: 500
  chaos:
    fault_probability: 0.2
  network:
    latency_ms: 50
    jitter_ms: 10
monitor:
  thresholds:
    packet_rate: 1000
    data_volume: 5000000
    connection_rate: 100
    port_entropy: 2.5
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 256, cfg.Core.EventBus.Capacity)
	assert.Equal(t, uint64(7), cfg.Simulator.Seed)
	assert.Equal(t, 500, cfg.Simulator.EventCount)
	assert.Equal(t, 0.2, cfg.Simulator.Chaos.FaultProbability)
	assert.Equal(t, uint64(50), cfg.Simulator.Network.LatencyMs)
	assert.Equal(t, 1000.0, cfg.Monitor.Thresholds.PacketRate)
	// Untouched sections keep their defaults.
	assert.Equal(t, "eth0", cfg.Capture.Interface)
}

func TestLoadConfig_RejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "core:\n  event_bus:\n    capcity: 256\n")
	_, err := LoadConfig(path)
	assert.Error(t, err, "typos must cause errors")
}

func TestLoadConfig_RejectsNonPowerOfTwoCapacity(t *testing.T) {
	path := writeConfig(t, "core:\n  event_bus:\n    capacity: 1000\n")
	_, err := LoadConfig(path)
	assert.True(t, errors.Is(err, core.ErrInvalidCapacity))
}

func TestLoadConfig_RejectsOutOfRangeFaultProbability(t *testing.T) {
	path := writeConfig(t, "simulator:\n  seed: 1\n  event_count: 10\n  chaos:\n    fault_probability: 1.5\n")
	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "fault_probability")
}

func TestLoadConfig_MissingFileSurfacesError(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
