package protocol

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrRemainingLengthMalformed is returned when MQTT's variable-length
// "remaining length" field continues past its four-byte limit without
// terminating.
var ErrRemainingLengthMalformed = errors.New("protocol: mqtt remaining length malformed")

// mqttConnect is the fixed header byte for an MQTT CONNECT packet, the only
// header value with special handling (topic extraction).
const mqttConnect = 0x10

// mqttTopicLen is the fixed topic-field length extracted from a CONNECT
// packet's variable header.
const mqttTopicLen = 4

// MQTTPacket is a zero-copy view into an MQTT packet's fixed header and
// payload.
type MQTTPacket struct {
	Header  byte
	Topic   []byte
	payload []byte
}

// Payload returns the packet's application data.
func (p MQTTPacket) Payload() []byte { return p.payload }

// RuleID returns "MQTT_<hex topic>" for CONNECT packets with a topic, else
// "MQTT_GENERIC", for log and signature attribution.
func (p MQTTPacket) RuleID() string {
	if p.Header == mqttConnect && len(p.Topic) == mqttTopicLen {
		return fmt.Sprintf("MQTT_%s", hex.EncodeToString(p.Topic))
	}
	return "MQTT_GENERIC"
}

// decodeRemainingLength decodes MQTT's variable-length "remaining length"
// field (1-4 bytes, 7 data bits each, high bit continuation). Returns the
// decoded value and the number of bytes consumed.
func decodeRemainingLength(data []byte) (value uint32, consumed int, err error) {
	var multiplier uint32 = 1
	for i := 0; i < len(data); i++ {
		b := data[i]
		value += uint32(b&0x7F) * multiplier
		consumed++
		if multiplier > 128*128*128 {
			return 0, 0, ErrRemainingLengthMalformed
		}
		if b&0x80 == 0 {
			return value, consumed, nil
		}
		multiplier *= 128
	}
	return 0, 0, ErrRemainingLengthMalformed
}

// ParseMQTT parses an MQTT packet: a 1-byte fixed header followed by a
// 1-4 byte "remaining length" field. For a CONNECT header (0x10), the
// first 4 bytes of the variable section are treated as the topic; for any
// other header, the topic is empty and everything past the fixed header is
// payload.
func ParseMQTT(data []byte) (MQTTPacket, error) {
	if len(data) < 2 {
		return MQTTPacket{}, ErrInsufficientData
	}
	header := data[0]

	remainingLength, lengthFieldSize, err := decodeRemainingLength(data[1:])
	if err != nil {
		return MQTTPacket{}, err
	}
	fixedHeaderLength := 1 + lengthFieldSize

	if len(data) < fixedHeaderLength+int(remainingLength) {
		return MQTTPacket{}, ErrPacketIncomplete
	}

	if header == mqttConnect {
		if remainingLength < mqttTopicLen {
			return MQTTPacket{}, ErrInsufficientData
		}
		topic := data[fixedHeaderLength : fixedHeaderLength+mqttTopicLen]
		payload := data[fixedHeaderLength+mqttTopicLen : fixedHeaderLength+int(remainingLength)]
		return MQTTPacket{Header: header, Topic: topic, payload: payload}, nil
	}

	payload := data[fixedHeaderLength : fixedHeaderLength+int(remainingLength)]
	return MQTTPacket{Header: header, payload: payload}, nil
}
