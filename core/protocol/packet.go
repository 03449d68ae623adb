// Package protocol implements the zero-copy MQTT, CoAP, and Modbus header
// parsers the detection worker feeds on. Each parser is pure and
// stateless: same input byte slice always yields the same parsed view or
// the same error, with no hidden state.
package protocol

import "errors"

// Errors shared across all three parsers where the failure mode is the
// same (e.g. a buffer too short for a header). The MQTT- and CoAP-specific
// failures (malformed remaining length, bad CoAP version) get their own
// sentinels in those parsers' files; Modbus uses only the shared ones.
var (
	// ErrInsufficientData is returned when a buffer is too short to contain
	// a fixed header or a field the header says follows it (CoAP token,
	// MQTT CONNECT topic, Modbus data up to the declared MBAP length).
	ErrInsufficientData = errors.New("protocol: insufficient data")

	// ErrPacketIncomplete is returned by ParseMQTT when the remaining length
	// declares more bytes than the buffer actually contains.
	ErrPacketIncomplete = errors.New("protocol: packet incomplete")

	// ErrMalformedPacket is returned when header fields fail a structural
	// sanity check (e.g. a non-zero Modbus protocol ID).
	ErrMalformedPacket = errors.New("protocol: malformed packet")
)

// Packet is the uniform accessor the signature engine scans, satisfied by
// MQTTPacket, CoAPPacket, and ModbusPacket. RuleID is carried for
// log/signature attribution only; it never changes parsing or scanning
// semantics.
type Packet interface {
	// Payload returns the zero-copy slice of application data the
	// signature engine should scan.
	Payload() []byte

	// RuleID returns a short string identifying the packet for log
	// correlation, e.g. "MQTT_<hex topic>" or "COAP_GENERIC".
	RuleID() string
}

// parser is the common shape of the three concrete parsers' Parse methods,
// used only by ParseAny's first-match-wins loop.
type parser func(data []byte) (Packet, error)

// ParseAny tries MQTT, then CoAP, then Modbus, and returns the first
// parser that succeeds. It returns ErrNoParserMatched if all three fail;
// the caller (core.Processor) is responsible for skipping the event rather
// than scanning it raw.
func ParseAny(data []byte) (Packet, error) {
	for _, p := range []parser{
		func(d []byte) (Packet, error) { return ParseMQTT(d) },
		func(d []byte) (Packet, error) { return ParseCoAP(d) },
		func(d []byte) (Packet, error) { return ParseModbus(d) },
	} {
		if pkt, err := p(data); err == nil {
			return pkt, nil
		}
	}
	return nil, ErrNoParserMatched
}

// ErrNoParserMatched is returned by ParseAny when none of MQTT, CoAP, or
// Modbus could parse the buffer.
var ErrNoParserMatched = errors.New("protocol: no parser matched")
