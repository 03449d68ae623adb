// register.go wires core/impairment's constructors into core's registration
// variables (NewLatencyModelFunc, NewJitterModelFunc, NewPacketLossModelFunc).
// This init() runs when any package imports core/impairment, breaking the
// import cycle between core (interface owner) and core/impairment
// (implementation owner).
package impairment

import "github.com/vakthund/vakthund/core"

func init() {
	core.NewLatencyModelFunc = func(delayMs uint64) core.LatencyModel {
		if delayMs == 0 {
			return NoLatency{}
		}
		return NewFixedLatency(delayMs)
	}
	core.NewJitterModelFunc = func(maxJitterMs uint64, rng core.SeedFunc) core.JitterModel {
		if maxJitterMs == 0 {
			return NoJitter{}
		}
		return NewRandomJitter(maxJitterMs, rng)
	}
	core.NewPacketLossModelFunc = func(dropProbability float64, rng core.SeedFunc) core.PacketLossModel {
		if dropProbability <= 0 {
			return NoLoss{}
		}
		return NewProbabilisticLoss(dropProbability, rng)
	}
}
