package core

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionedRNG_SameSubsystemCached(t *testing.T) {
	p := NewPartitionedRNG(NewSimulationKey(42))
	a := p.ForSubsystem(SubsystemJitter)
	b := p.ForSubsystem(SubsystemJitter)
	assert.Same(t, a, b)
}

func TestPartitionedRNG_SubsystemsAreIsolated(t *testing.T) {
	// Jitter and loss draws must diverge even with the same master seed,
	// so consuming one sequence never perturbs the other.
	p := NewPartitionedRNG(NewSimulationKey(7))
	jitter := p.ForSubsystem(SubsystemJitter)
	loss := p.ForSubsystem(SubsystemLoss)

	assert.NotEqual(t, jitter.Int63(), loss.Int63())
}

func TestPartitionedRNG_SimulatorSubsystemUsesMasterSeedDirectly(t *testing.T) {
	key := NewSimulationKey(123)
	p1 := NewPartitionedRNG(key)
	want := rand.New(rand.NewSource(int64(key)))

	assert.Equal(t, want.Int63(), p1.ForSubsystem(SubsystemSimulator).Int63())
}

func TestPartitionedRNG_Deterministic(t *testing.T) {
	// For the same key, repeated ForSubsystem draws across fresh instances
	// produce identical sequences (the determinism contract the whole
	// simulator depends on).
	key := NewSimulationKey(99)

	p1 := NewPartitionedRNG(key)
	p2 := NewPartitionedRNG(key)

	r1 := p1.ForSubsystem(SubsystemJitter)
	r2 := p2.ForSubsystem(SubsystemJitter)

	for i := 0; i < 10; i++ {
		assert.Equal(t, r1.Int63(), r2.Int63())
	}
}
