package core

import "math/rand"

// Ceilings for fuzz-derived configurations.
const (
	fuzzMinEvents        = 100
	fuzzMaxFaultProb     = 0.5
	fuzzMaxLatencyMs     = 1000
	fuzzBaseJitterCeilMs = 200
)

// GenerateFuzzConfig derives a SimulatorConfig from a seed: event count in
// [100, maxEvents], fault probability in [0, 0.5], latency in [0, 1000]ms,
// and jitter in [0, ceiling]ms where the ceiling shrinks linearly as
// latency approaches its own ceiling
// (ceiling = 200ms * (1 - 0.5*latency/1000ms)), so high-latency configs
// stay realistic instead of stacking maximal jitter on top. Each seed
// yields exactly one reproducible configuration.
func GenerateFuzzConfig(seed uint64, maxEvents int) SimulatorConfig {
	rng := rand.New(rand.NewSource(int64(seed)))

	if maxEvents < fuzzMinEvents {
		maxEvents = fuzzMinEvents
	}
	eventCount := fuzzMinEvents + rng.Intn(maxEvents-fuzzMinEvents+1)
	faultProb := rng.Float64() * fuzzMaxFaultProb
	latencyMs := uint64(rng.Intn(fuzzMaxLatencyMs + 1))

	jitterCeilMs := float64(fuzzBaseJitterCeilMs) *
		(1 - 0.5*float64(latencyMs)/float64(fuzzMaxLatencyMs))
	jitterMs := uint64(rng.Float64() * jitterCeilMs)

	return SimulatorConfig{
		Seed:       seed,
		EventCount: eventCount,
		Chaos:      ChaosConfig{FaultProbability: faultProb},
		Network:    NetworkModelConfig{LatencyMs: latencyMs, JitterMs: jitterMs},
	}
}
