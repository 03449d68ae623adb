package core

import (
	"encoding/binary"
	"hash/fnv"
	"io"
	"math/rand"
)

// SimulationKey uniquely identifies a reproducible simulation run. Two runs
// with the same SimulationKey and identical configuration MUST produce
// bit-for-bit identical results.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// Subsystem names used to derive isolated RNG streams from the master seed.
const (
	// SubsystemSimulator is the stream for the simulator's own chaos-roll
	// randomness. It is seeded with the master seed
	// directly, matching the top-level --seed behavior a user expects.
	SubsystemSimulator = "simulator"

	// SubsystemJitter is the stream for the jitter impairment model.
	SubsystemJitter = "jitter"

	// SubsystemLoss is the stream for the packet-loss impairment model.
	SubsystemLoss = "loss"
)

// PartitionedRNG hands out one deterministic RNG stream per subsystem, so
// that jitter draws and loss draws never perturb each other's sequence no
// matter how calls interleave. Every RNG used anywhere in a run must come
// through this type; no subsystem may seed itself from OS entropy or a
// thread-local source, or the run's state hash stops being reproducible.
//
// Thread-safety: NOT thread-safe. Each stream is owned by exactly one task
// in the runtime. The impairment models that draw from a stream take no
// lock of their own, so a stream must not be drawn from by two goroutines
// at once.
type PartitionedRNG struct {
	key     SimulationKey
	streams map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:     key,
		streams: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns the named subsystem's RNG stream, creating it on
// first use. The same name always returns the same *rand.Rand instance.
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if stream, ok := p.streams[name]; ok {
		return stream
	}
	stream := rand.New(rand.NewSource(p.streamSeed(name)))
	p.streams[name] = stream
	return stream
}

// streamSeed derives the seed for a named stream. The simulator stream
// uses the master key as-is; every other stream folds the key's bytes and
// the subsystem name through FNV-1a, so distinct names land on unrelated
// sequences even for adjacent master seeds.
func (p *PartitionedRNG) streamSeed(name string) int64 {
	if name == SubsystemSimulator {
		return int64(p.key)
	}
	h := fnv.New64a()
	var keyBytes [8]byte
	binary.LittleEndian.PutUint64(keyBytes[:], uint64(p.key))
	h.Write(keyBytes[:])
	io.WriteString(h, name)
	return int64(h.Sum64())
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}
