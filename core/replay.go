package core

import (
	"encoding/hex"

	"lukechampine.com/blake3"
)

// ReplayEngine walks a recorded scenario deterministically: each NextEvent
// call advances the position and the clock by the recorded delay and
// returns the recorded event. No RNG is consulted and no impairments are
// re-applied — latency, jitter, drops, and faults are already baked into
// the recorded delays and payloads. Single-consumer.
//
// The engine maintains its own rolling state hash, folding each replayed
// payload (and a drop sentinel per recorded loss) exactly as the original
// run did, so FinalizeHash after a full replay must equal the scenario's
// expected hash.
type ReplayEngine struct {
	scenario *Scenario
	clock    *Clock
	hasher   *blake3.Hasher
	position int
}

// NewReplayEngine constructs a replay over scenario using clock for delay
// accounting. The clock is typically seeded with the scenario's seed so the
// replayed timestamps line up with the original run's.
func NewReplayEngine(scenario *Scenario, clock *Clock) *ReplayEngine {
	return &ReplayEngine{
		scenario: scenario,
		clock:    clock,
		hasher:   blake3.New(32, nil),
	}
}

// NextEvent returns the next recorded network event, advancing the clock by
// each entry's recorded delay along the way. Non-event entries are consumed
// in order: NetworkDelay advances the clock, PacketLoss folds the drop
// sentinel into the hash, FaultInjection and Custom entries are skipped
// (faults are already present in the recorded payloads). Returns false when
// the timeline is exhausted or an entry fails to decode.
func (r *ReplayEngine) NextEvent() (Event, bool) {
	for r.position < len(r.scenario.Events) {
		entry := r.scenario.Events[r.position]
		r.position++

		switch entry.Kind {
		case ScenarioNetworkEvent:
			r.clock.Advance(entry.DelayNs)
			event, err := entry.Event.ToEvent()
			if err != nil {
				return Event{}, false
			}
			r.hasher.Write(event.Payload)
			return event, true
		case ScenarioNetworkDelay:
			r.clock.Advance(entry.DelayNs)
		case ScenarioPacketLoss:
			r.hasher.Write(droppedSentinel)
		case ScenarioFaultInjection, ScenarioCustom:
			// No pipeline effect on replay.
		}
	}
	return Event{}, false
}

// Position returns the number of timeline entries consumed so far.
func (r *ReplayEngine) Position() int {
	return r.position
}

// FinalizeHash returns the hex-encoded BLAKE3-256 digest of everything
// replayed so far.
func (r *ReplayEngine) FinalizeHash() string {
	return hex.EncodeToString(r.hasher.Sum(nil))
}
