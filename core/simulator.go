package core

import (
	"encoding/hex"
	"fmt"
	"time"

	"lukechampine.com/blake3"
)

// faultTag is appended to an event body when chaos injection fires.
const faultTag = " [FAULT INJECTED]"

// droppedSentinel is folded into the state hash in place of a lost event so
// the hash reflects the drop.
var droppedSentinel = []byte("DROPPED")

// baseEventDelay is the fixed per-event base delay the latency model is
// applied to.
const baseEventDelay = 100 * time.Millisecond

// chaosThreshold is the per-event probability roll below which a fault is
// injected when chaos is enabled.
const chaosThreshold = 0.1

// Simulator generates a deterministic event stream under virtual time.
// Given the same (seed, impairments, chaos flag, event count) it produces
// the same event sequence, the same clock trajectory, and the same final
// hash on any platform; every random draw comes from RNGs partitioned off
// the top-level seed, never from OS entropy.
//
// Owned by exactly one producer task. Not safe for concurrent use.
type Simulator struct {
	config   SimulatorConfig
	clock    *Clock
	rng      *PartitionedRNG
	hasher   *blake3.Hasher
	latency  LatencyModel
	jitter   JitterModel
	loss     PacketLossModel
	bus      *Bus
	log      []ScenarioEvent
	chaos    bool
	lossProb float64
}

// NewSimulator constructs a Simulator from cfg, optionally attached to a
// bus (nil means generated events are hashed and logged but not enqueued).
// Chaos injection is enabled whenever cfg.Chaos.FaultProbability > 0. The
// packet-loss model defaults to never dropping; see SetPacketLossModel.
func NewSimulator(cfg SimulatorConfig, bus *Bus) *Simulator {
	rng := NewPartitionedRNG(NewSimulationKey(int64(cfg.Seed)))
	return &Simulator{
		config:  cfg,
		clock:   NewClock(cfg.Seed),
		rng:     rng,
		hasher:  blake3.New(32, nil),
		latency: MustNewLatencyModel(cfg.Network.LatencyMs),
		jitter: MustNewJitterModel(cfg.Network.JitterMs, func() RandSource {
			return rng.ForSubsystem(SubsystemJitter)
		}),
		loss: MustNewPacketLossModel(0, func() RandSource {
			return rng.ForSubsystem(SubsystemLoss)
		}),
		bus:   bus,
		chaos: cfg.Chaos.FaultProbability > 0,
	}
}

// SetPacketLossModel replaces the packet-loss model. Callers that want a
// deterministic drop sequence must build the model from this simulator's
// partitioned RNG (see NewLossModel).
func (s *Simulator) SetPacketLossModel(m PacketLossModel) {
	s.loss = m
}

// NewLossModel builds a loss model with the given drop probability, seeded
// from this simulator's partitioned RNG so the drop sequence is part of the
// run's deterministic fingerprint. The probability is also remembered for
// the timeline's PacketLoss records.
func (s *Simulator) NewLossModel(dropProbability float64) PacketLossModel {
	s.lossProb = dropProbability
	return MustNewPacketLossModel(dropProbability, func() RandSource {
		return s.rng.ForSubsystem(SubsystemLoss)
	})
}

// Clock exposes the simulator's virtual clock, read-only by convention.
func (s *Simulator) Clock() *Clock {
	return s.clock
}

// SimulateEvent runs the per-event procedure for the given event id:
// consult loss, advance the clock by latency+jitter, roll for chaos, build
// the event, push it to the bus (blocking on backpressure), fold the body
// into the state hash, and record the timeline entry. Returns the event
// and true, or the zero Event and false when the loss model dropped it.
func (s *Simulator) SimulateEvent(id int) (Event, bool) {
	body := fmt.Sprintf("Event %d", id)

	if s.loss.ShouldDrop() {
		s.hasher.Write(droppedSentinel)
		s.log = append(s.log, ScenarioEvent{
			Kind:            ScenarioPacketLoss,
			LossProbability: s.lossProb,
		})
		return Event{}, false
	}

	delay := s.latency.Apply(baseEventDelay)
	totalDelay := s.jitter.Apply(delay)
	s.clock.Advance(uint64(totalDelay.Nanoseconds()))

	if s.chaos && s.rng.ForSubsystem(SubsystemSimulator).Float64() < chaosThreshold {
		body += faultTag
	}

	event := NewEvent(s.clock.NowNs(), []byte(body))

	if s.bus != nil {
		s.bus.SendBlocking(event)
	}

	s.hasher.Write(event.Payload)
	rec := RecordEvent(event)
	s.log = append(s.log, ScenarioEvent{
		Kind:    ScenarioNetworkEvent,
		DelayNs: uint64(totalDelay.Nanoseconds()),
		Event:   &rec,
	})
	return event, true
}

// Run simulates cfg.EventCount events and returns the final state hash.
func (s *Simulator) Run() string {
	for id := 0; id < s.config.EventCount; id++ {
		s.SimulateEvent(id)
	}
	return s.FinalizeHash()
}

// FinalizeHash returns the hex-encoded BLAKE3-256 digest of the state
// accumulated so far. It does not consume the hasher, so it may be called
// mid-run for progress fingerprints and again at the end.
func (s *Simulator) FinalizeHash() string {
	return hex.EncodeToString(s.hasher.Sum(nil))
}

// EventLog returns the recorded timeline. The returned slice is the
// simulator's own backing store; callers must not mutate it.
func (s *Simulator) EventLog() []ScenarioEvent {
	return s.log
}

// LastPayload returns the payload of the most recent non-dropped event, or
// nil when no event has been generated. Used for bug-report context.
func (s *Simulator) LastPayload() []byte {
	for i := len(s.log) - 1; i >= 0; i-- {
		if s.log[i].Kind == ScenarioNetworkEvent {
			return s.log[i].Event.Payload
		}
	}
	return nil
}

// BuildScenario packages the run so far into a replayable Scenario whose
// expected hash is the current state hash.
func (s *Simulator) BuildScenario() *Scenario {
	return &Scenario{
		Seed:         s.config.Seed,
		Config:       s.config,
		Events:       s.log,
		ExpectedHash: s.FinalizeHash(),
	}
}
