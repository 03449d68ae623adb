package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vakthund/vakthund/core"
)

// EventBusConfig sizes the SPSC event bus.
type EventBusConfig struct {
	// Capacity must be a power of two.
	Capacity int `yaml:"capacity"`
}

// CoreConfig holds pipeline-wide settings.
type CoreConfig struct {
	EventBus EventBusConfig `yaml:"event_bus"`
}

// CaptureConfig holds live-capture settings.
type CaptureConfig struct {
	Mode         string `yaml:"mode"`
	Interface    string `yaml:"interface"`
	BufferSize   int    `yaml:"buffer_size"`
	Promiscuous  bool   `yaml:"promiscuous"`
	MaxLatencyMs int    `yaml:"max_latency_ms"`
}

// ThresholdsConfig carries monitor thresholds. Consumed by telemetry;
// informational to the core, but parsed strictly so typos still fail.
type ThresholdsConfig struct {
	PacketRate     float64 `yaml:"packet_rate"`
	DataVolume     float64 `yaml:"data_volume"`
	ConnectionRate float64 `yaml:"connection_rate"`
	PortEntropy    float64 `yaml:"port_entropy"`
}

// MonitorConfig wraps the monitor thresholds.
type MonitorConfig struct {
	Thresholds ThresholdsConfig `yaml:"thresholds"`
}

// VakthundConfig is the full configuration tree.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type VakthundConfig struct {
	Core      CoreConfig           `yaml:"core"`
	Capture   CaptureConfig        `yaml:"capture"`
	Simulator core.SimulatorConfig `yaml:"simulator"`
	Monitor   MonitorConfig        `yaml:"monitor"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() VakthundConfig {
	return VakthundConfig{
		Core: CoreConfig{EventBus: EventBusConfig{Capacity: 4096}},
		Capture: CaptureConfig{
			Mode:         "simulated",
			Interface:    "eth0",
			BufferSize:   1 << 20,
			Promiscuous:  true,
			MaxLatencyMs: 100,
		},
		Simulator: core.DefaultSimulatorConfig(),
	}
}

// LoadConfig reads a YAML config file over the defaults. Unknown keys are
// rejected (typos must cause errors). An empty path returns the defaults.
func LoadConfig(path string) (VakthundConfig, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c VakthundConfig) validate() error {
	capacity := c.Core.EventBus.Capacity
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		return fmt.Errorf("%w: core.event_bus.capacity=%d", core.ErrInvalidCapacity, capacity)
	}
	p := c.Simulator.Chaos.FaultProbability
	if p < 0 || p > 1 {
		return fmt.Errorf("simulator.chaos.fault_probability must be in [0, 1], got %g", p)
	}
	return nil
}
