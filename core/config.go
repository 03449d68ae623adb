package core

// SimulatorConfig parameterizes one reproducible simulation run. It is
// embedded verbatim in scenario files and bug reports, so its YAML shape is
// part of the on-disk format (see scenario.go).
type SimulatorConfig struct {
	// Seed drives the virtual clock's start value and every RNG in the run.
	Seed uint64 `yaml:"seed"`

	// EventCount is the number of events to simulate.
	EventCount int `yaml:"event_count"`

	// Chaos configures fault injection.
	Chaos ChaosConfig `yaml:"chaos"`

	// Network configures the latency and jitter impairment models.
	Network NetworkModelConfig `yaml:"network"`
}

// ChaosConfig configures fault injection. Chaos is enabled whenever
// FaultProbability is above zero.
type ChaosConfig struct {
	// FaultProbability in [0.0, 1.0].
	FaultProbability float64 `yaml:"fault_probability"`
}

// NetworkModelConfig configures the network impairment models.
type NetworkModelConfig struct {
	// LatencyMs is the fixed per-event latency in milliseconds.
	LatencyMs uint64 `yaml:"latency_ms"`

	// JitterMs is the maximum uniform jitter in milliseconds.
	JitterMs uint64 `yaml:"jitter_ms"`
}

// DefaultSimulatorConfig mirrors the defaults a bare `simulate` invocation
// gets: seed 42, ten thousand events, no chaos, no impairments.
func DefaultSimulatorConfig() SimulatorConfig {
	return SimulatorConfig{
		Seed:       42,
		EventCount: 10000,
	}
}
