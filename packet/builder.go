package packet

import (
	"fmt"
	"strings"

	"github.com/cooldogedev/photon/code"
	"github.com/cooldogedev/photon/protocol"
)

// NewRequest creates an operation request.
func NewRequest(op code.OperationCode) *Packet {
	return &Packet{Kind: KindRequest, Type: code.PacketOperation, OpCode: op}
}

// NewResponse creates an operation response carrying debug as its string debug message.
func NewResponse(returnCode uint16, debug string) *Packet {
	return &Packet{
		Kind:         KindResponse,
		Type:         code.PacketOperationResponse,
		ReturnCode:   returnCode,
		DebugMessage: protocol.String(debug),
	}
}

// NewEvent creates an event.
func NewEvent(event code.EventCode) *Packet {
	return &Packet{Kind: KindEvent, Type: code.PacketEvent, EventCode: event}
}

// NewPing creates a timed frame.
func NewPing(serverTime, clientTime uint32) *Packet {
	return &Packet{Kind: KindTimed, ServerTime: serverTime, ClientTime: clientTime}
}

// AddParam appends a section and returns the packet, so calls can be chained.
func (pk *Packet) AddParam(key code.ParameterCode, v protocol.Value) *Packet {
	pk.Sections = append(pk.Sections, Section{Key: key, Value: v})
	pk.modified = true
	return pk
}

// SetParam replaces the value of the first section with key, or appends one.
func (pk *Packet) SetParam(key code.ParameterCode, v protocol.Value) *Packet {
	for i, section := range pk.Sections {
		if section.Key == key {
			pk.Sections[i].Value = v
			pk.modified = true
			return pk
		}
	}
	return pk.AddParam(key, v)
}

// RemoveParam removes every section with key and reports whether there was one.
func (pk *Packet) RemoveParam(key code.ParameterCode) bool {
	n := len(pk.Sections)
	sections := pk.Sections[:0]
	for _, section := range pk.Sections {
		if section.Key != key {
			sections = append(sections, section)
		}
	}
	pk.Sections = sections
	if len(sections) == n {
		return false
	}
	pk.modified = true
	return true
}

// Param returns the value of the first section with key.
func (pk *Packet) Param(key code.ParameterCode) (protocol.Value, bool) {
	for _, section := range pk.Sections {
		if section.Key == key {
			return section.Value, true
		}
	}
	return nil, false
}

// Params returns the values of every section with key, in order.
func (pk *Packet) Params(key code.ParameterCode) []protocol.Value {
	var values []protocol.Value
	for _, section := range pk.Sections {
		if section.Key == key {
			values = append(values, section.Value)
		}
	}
	return values
}

func (pk *Packet) String() string {
	var b strings.Builder
	b.WriteString(pk.Kind.String())
	switch pk.Kind {
	case KindTimed:
		fmt.Fprintf(&b, "(server=%d client=%d)", pk.ServerTime, pk.ClientTime)
		return b.String()
	case KindOpaque:
		fmt.Fprintf(&b, "(type=%s encrypted=%t len=%d)", pk.Type, pk.Encrypted, len(pk.raw))
		return b.String()
	case KindRequest:
		fmt.Fprintf(&b, "(op=%s", pk.OpCode)
	case KindResponse:
		fmt.Fprintf(&b, "(return=%d", pk.ReturnCode)
		if debug, ok := pk.DebugMessage.(protocol.String); ok && debug != "" {
			fmt.Fprintf(&b, " debug=%q", string(debug))
		}
	case KindEvent:
		fmt.Fprintf(&b, "(event=%s", pk.EventCode)
	}
	for _, section := range pk.Sections {
		tag := "nil"
		if section.Value != nil {
			tag = section.Value.Tag().String()
		}
		fmt.Fprintf(&b, " %s:%s", section.Key, tag)
	}
	b.WriteByte(')')
	return b.String()
}
