package protocol

import (
	"encoding/binary"
	"errors"
)

// ErrInvalidVersion is returned when a CoAP header's version field is not 1,
// the only version accepted.
var ErrInvalidVersion = errors.New("protocol: coap invalid version")

// coapHeaderLen is CoAP's fixed 4-byte header:
// version(2b)|type(2b)|tkl(4b) | code(1B) | messageId(2B).
const coapHeaderLen = 4

// coapPayloadMarker delimits the end of the options region from the start
// of the payload.
const coapPayloadMarker = 0xFF

// CoAPPacket is a zero-copy view into a CoAP packet's header, options, and
// payload.
type CoAPPacket struct {
	Version      uint8
	Type         uint8
	TokenLength  uint8
	Code         uint8
	MessageID    uint16
	Options      []byte
	payload      []byte
}

// Payload returns the packet's application data, the bytes following the
// 0xFF marker. Absence of the marker means an empty payload.
func (p CoAPPacket) Payload() []byte { return p.payload }

// RuleID returns "COAP_GENERIC"; CoAP carries no topic-equivalent field to
// specialize on.
func (CoAPPacket) RuleID() string { return "COAP_GENERIC" }

// ParseCoAP parses a CoAP packet's 4-byte fixed header, skips the token,
// and splits the remainder into options/payload at the first 0xFF marker.
// Only version 1 is accepted.
func ParseCoAP(data []byte) (CoAPPacket, error) {
	if len(data) < coapHeaderLen {
		return CoAPPacket{}, ErrInsufficientData
	}

	header := data[0]
	version := (header >> 6) & 0x03
	msgType := (header >> 4) & 0x03
	tokenLength := header & 0x0F

	if version != 1 {
		return CoAPPacket{}, ErrInvalidVersion
	}

	code := data[1]
	messageID := binary.BigEndian.Uint16(data[2:4])

	offset := coapHeaderLen
	if offset+int(tokenLength) > len(data) {
		return CoAPPacket{}, ErrInsufficientData
	}
	offset += int(tokenLength)

	rest := data[offset:]
	markerPos := -1
	for i, b := range rest {
		if b == coapPayloadMarker {
			markerPos = i
			break
		}
	}

	var options, payload []byte
	if markerPos >= 0 {
		options = rest[:markerPos]
		payload = rest[markerPos+1:]
	} else {
		options = rest
		payload = nil
	}

	return CoAPPacket{
		Version:     version,
		Type:        msgType,
		TokenLength: tokenLength,
		Code:        code,
		MessageID:   messageID,
		Options:     options,
		payload:     payload,
	}, nil
}
