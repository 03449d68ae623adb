package core

import "time"

// LatencyModel applies a fixed or computed delay to the simulator's base
// per-event delay. Implementations live in core/impairment.
type LatencyModel interface {
	// Apply returns base plus whatever this model adds.
	Apply(base time.Duration) time.Duration
}

// JitterModel applies additional randomized delay on top of a base value.
// Implementations live in core/impairment.
type JitterModel interface {
	// Apply returns base plus a (possibly zero) randomized addition.
	Apply(base time.Duration) time.Duration
}

// PacketLossModel decides whether a simulated event should be dropped
// before it reaches the bus. Implementations live in core/impairment.
type PacketLossModel interface {
	// ShouldDrop reports whether the next event should be dropped.
	ShouldDrop() bool
}

// NewLatencyModelFunc is a factory for LatencyModel implementations,
// registered by core/impairment's init(). This breaks the import cycle
// between core (interface owner) and core/impairment (implementation
// owner): production code imports core/impairment for its side-effecting
// registration; core itself never imports core/impairment.
var NewLatencyModelFunc func(delayMs uint64) LatencyModel

// NewJitterModelFunc is a factory for JitterModel implementations,
// registered by core/impairment's init().
var NewJitterModelFunc func(maxJitterMs uint64, rng SeedFunc) JitterModel

// NewPacketLossModelFunc is a factory for PacketLossModel implementations,
// registered by core/impairment's init().
var NewPacketLossModelFunc func(dropProbability float64, rng SeedFunc) PacketLossModel

// SeedFunc returns the *rand.Rand (as an opaque Source64-compatible value)
// a model should draw from, isolated per subsystem. It is typically
// (*PartitionedRNG).ForSubsystem bound to a specific subsystem name.
type SeedFunc = func() RandSource

// RandSource is the minimal surface impairment models need from
// math/rand.Rand, kept narrow here so core does not import math/rand
// itself (the concrete *rand.Rand from PartitionedRNG satisfies it).
// core/impairment adapts it to the source type gonum's distributions
// draw from.
type RandSource interface {
	Int63() int64
	Seed(seed int64)
	Float64() float64
}

// MustNewLatencyModel calls NewLatencyModelFunc with a nil guard. Panics
// with an actionable message if core/impairment has not been imported.
func MustNewLatencyModel(delayMs uint64) LatencyModel {
	if NewLatencyModelFunc == nil {
		panic("core.NewLatencyModelFunc not registered: import core/impairment to register it " +
			"(add: import _ \"github.com/vakthund/vakthund/core/impairment\")")
	}
	return NewLatencyModelFunc(delayMs)
}

// MustNewJitterModel calls NewJitterModelFunc with a nil guard.
func MustNewJitterModel(maxJitterMs uint64, rng SeedFunc) JitterModel {
	if NewJitterModelFunc == nil {
		panic("core.NewJitterModelFunc not registered: import core/impairment to register it " +
			"(add: import _ \"github.com/vakthund/vakthund/core/impairment\")")
	}
	return NewJitterModelFunc(maxJitterMs, rng)
}

// MustNewPacketLossModel calls NewPacketLossModelFunc with a nil guard.
func MustNewPacketLossModel(dropProbability float64, rng SeedFunc) PacketLossModel {
	if NewPacketLossModelFunc == nil {
		panic("core.NewPacketLossModelFunc not registered: import core/impairment to register it " +
			"(add: import _ \"github.com/vakthund/vakthund/core/impairment\")")
	}
	return NewPacketLossModelFunc(dropProbability, rng)
}
