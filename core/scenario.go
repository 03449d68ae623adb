package core

import (
	"bytes"
	"fmt"
	"net/netip"
	"os"

	"gopkg.in/yaml.v3"
)

// ScenarioEventKind discriminates the ScenarioEvent sum type.
type ScenarioEventKind string

// Scenario event kinds. The string values are the YAML map keys of the
// on-disk format, so they are part of the scenario file contract.
const (
	ScenarioNetworkEvent   ScenarioEventKind = "NetworkEvent"
	ScenarioNetworkDelay   ScenarioEventKind = "NetworkDelay"
	ScenarioPacketLoss     ScenarioEventKind = "PacketLoss"
	ScenarioFaultInjection ScenarioEventKind = "FaultInjection"
	ScenarioCustom         ScenarioEventKind = "Custom"
)

// ScenarioEvent is one entry of a scenario's recorded timeline. Exactly one
// variant is populated, selected by Kind. In YAML each entry is a
// single-key mapping whose key is the kind:
//
//	- NetworkEvent: {delay_ns: 100000000, event: {timestamp: ..., payload: !!binary ...}}
//	- NetworkDelay: 5000
//	- PacketLoss: 0.25
//	- FaultInjection: latency_spike
//	- Custom: {type_name: ..., data: !!binary ...}
type ScenarioEvent struct {
	Kind ScenarioEventKind

	// NetworkEvent fields.
	DelayNs uint64
	Event   *EventRecord

	// PacketLoss probability.
	LossProbability float64

	// FaultInjection tag.
	FaultTag string

	// Custom payload.
	Custom *CustomRecord
}

// EventRecord is the serialized form of an Event inside a scenario file.
type EventRecord struct {
	Timestamp   uint64 `yaml:"timestamp"`
	Payload     []byte `yaml:"payload"`
	Source      string `yaml:"source,omitempty"`
	Destination string `yaml:"destination,omitempty"`
}

// CustomRecord is an opaque extension entry carried through scenario files
// untouched.
type CustomRecord struct {
	TypeName string `yaml:"type_name"`
	Data     []byte `yaml:"data"`
}

// RecordEvent converts an Event to its serialized form.
func RecordEvent(e Event) EventRecord {
	rec := EventRecord{Timestamp: e.TimestampNs, Payload: e.Payload}
	if e.HasEndpoints() {
		rec.Source = e.Source.String()
		rec.Destination = e.Destination.String()
	}
	return rec
}

// ToEvent converts a serialized record back to an Event. Endpoint strings
// that fail to parse surface an error rather than silently producing a
// synthetic event.
func (r EventRecord) ToEvent() (Event, error) {
	if r.Source == "" && r.Destination == "" {
		return NewEvent(r.Timestamp, r.Payload), nil
	}
	src, err := netip.ParseAddrPort(r.Source)
	if err != nil {
		return Event{}, fmt.Errorf("scenario event source: %w", err)
	}
	dst, err := netip.ParseAddrPort(r.Destination)
	if err != nil {
		return Event{}, fmt.Errorf("scenario event destination: %w", err)
	}
	return NewNetworkEvent(r.Timestamp, r.Payload, src, dst), nil
}

type networkEventRecord struct {
	DelayNs uint64      `yaml:"delay_ns"`
	Event   EventRecord `yaml:"event"`
}

// MarshalYAML renders the populated variant as a single-key mapping.
func (e ScenarioEvent) MarshalYAML() (interface{}, error) {
	switch e.Kind {
	case ScenarioNetworkEvent:
		if e.Event == nil {
			return nil, fmt.Errorf("scenario: NetworkEvent entry with nil event")
		}
		return map[string]networkEventRecord{
			string(ScenarioNetworkEvent): {DelayNs: e.DelayNs, Event: *e.Event},
		}, nil
	case ScenarioNetworkDelay:
		return map[string]uint64{string(ScenarioNetworkDelay): e.DelayNs}, nil
	case ScenarioPacketLoss:
		return map[string]float64{string(ScenarioPacketLoss): e.LossProbability}, nil
	case ScenarioFaultInjection:
		return map[string]string{string(ScenarioFaultInjection): e.FaultTag}, nil
	case ScenarioCustom:
		if e.Custom == nil {
			return nil, fmt.Errorf("scenario: Custom entry with nil record")
		}
		return map[string]CustomRecord{string(ScenarioCustom): *e.Custom}, nil
	default:
		return nil, fmt.Errorf("scenario: unknown event kind %q", e.Kind)
	}
}

// UnmarshalYAML decodes a single-key mapping into the matching variant.
func (e *ScenarioEvent) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return fmt.Errorf("scenario: event entry must be a single-key mapping")
	}
	key := node.Content[0].Value
	value := node.Content[1]

	switch ScenarioEventKind(key) {
	case ScenarioNetworkEvent:
		var rec networkEventRecord
		if err := value.Decode(&rec); err != nil {
			return fmt.Errorf("scenario: NetworkEvent entry: %w", err)
		}
		*e = ScenarioEvent{Kind: ScenarioNetworkEvent, DelayNs: rec.DelayNs, Event: &rec.Event}
	case ScenarioNetworkDelay:
		var delay uint64
		if err := value.Decode(&delay); err != nil {
			return fmt.Errorf("scenario: NetworkDelay entry: %w", err)
		}
		*e = ScenarioEvent{Kind: ScenarioNetworkDelay, DelayNs: delay}
	case ScenarioPacketLoss:
		var p float64
		if err := value.Decode(&p); err != nil {
			return fmt.Errorf("scenario: PacketLoss entry: %w", err)
		}
		*e = ScenarioEvent{Kind: ScenarioPacketLoss, LossProbability: p}
	case ScenarioFaultInjection:
		var tag string
		if err := value.Decode(&tag); err != nil {
			return fmt.Errorf("scenario: FaultInjection entry: %w", err)
		}
		*e = ScenarioEvent{Kind: ScenarioFaultInjection, FaultTag: tag}
	case ScenarioCustom:
		var rec CustomRecord
		if err := value.Decode(&rec); err != nil {
			return fmt.Errorf("scenario: Custom entry: %w", err)
		}
		*e = ScenarioEvent{Kind: ScenarioCustom, Custom: &rec}
	default:
		return fmt.Errorf("scenario: unknown event kind %q", key)
	}
	return nil
}

// Scenario is the on-disk artifact that makes a run replayable: the seed
// and configuration that produced it, the recorded event timeline, and the
// final state hash the replay must reproduce.
type Scenario struct {
	Seed         uint64          `yaml:"seed"`
	Config       SimulatorConfig `yaml:"config"`
	Events       []ScenarioEvent `yaml:"events"`
	ExpectedHash string          `yaml:"expected_hash"`
}

// Save serializes the scenario as YAML to path.
func (s *Scenario) Save(path string) error {
	out, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling scenario: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing scenario %s: %w", path, err)
	}
	return nil
}

// LoadScenario reads a scenario file. Unknown keys are rejected so a typo
// in a hand-edited scenario fails loudly instead of replaying garbage.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	return &s, nil
}
