package protocol

import "encoding/binary"

// modbusMBAPLen is the 7-byte MBAP header:
// transactionId(2)|protocolId(2)|length(2)|unitId(1).
const modbusMBAPLen = 7

// modbusMinPacketLen is the MBAP header plus the 1-byte function code that
// always follows it.
const modbusMinPacketLen = modbusMBAPLen + 1

// ModbusPacket is a zero-copy view into a Modbus/TCP packet's MBAP header
// and data.
type ModbusPacket struct {
	TransactionID uint16
	ProtocolID    uint16
	Length        uint16
	UnitID        uint8
	FunctionCode  uint8
	data          []byte
}

// Payload returns the packet's application data (the PDU minus the
// function code).
func (p ModbusPacket) Payload() []byte { return p.data }

// RuleID returns "MODBUS_GENERIC"; Modbus carries no topic-equivalent
// field to specialize on.
func (ModbusPacket) RuleID() string { return "MODBUS_GENERIC" }

// ParseModbus parses a Modbus/TCP packet's MBAP header and function code.
// protocolId must be 0, and the declared length must be consistent with
// the buffer's actual size.
func ParseModbus(data []byte) (ModbusPacket, error) {
	if len(data) < modbusMinPacketLen {
		return ModbusPacket{}, ErrInsufficientData
	}

	transactionID := binary.BigEndian.Uint16(data[0:2])
	protocolID := binary.BigEndian.Uint16(data[2:4])
	length := binary.BigEndian.Uint16(data[4:6])
	unitID := data[6]
	functionCode := data[7]

	if protocolID != 0 {
		return ModbusPacket{}, ErrMalformedPacket
	}

	// length counts bytes from the unitId field onward (unitId + function
	// code + data), so it must cover at least those first two bytes, and
	// the declared end must not exceed what the buffer actually contains.
	dataEnd := 6 + int(length)
	if dataEnd < modbusMinPacketLen {
		return ModbusPacket{}, ErrMalformedPacket
	}
	if len(data) < dataEnd {
		return ModbusPacket{}, ErrInsufficientData
	}

	return ModbusPacket{
		TransactionID: transactionID,
		ProtocolID:    protocolID,
		Length:        length,
		UnitID:        unitID,
		FunctionCode:  functionCode,
		data:          data[modbusMinPacketLen:dataEnd],
	}, nil
}
