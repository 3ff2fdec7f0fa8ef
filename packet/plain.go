package packet

import (
	"encoding/hex"

	"github.com/cooldogedev/photon/protocol"
)

// Direction tells which peer a buffer came from.
type Direction uint8

const (
	FromClient Direction = iota
	FromServer
)

func (d Direction) String() string {
	if d == FromServer {
		return "server"
	}
	return "client"
}

// PlainPacket is the inspection form of a Packet, made of plain values so that it can be
// written as YAML.
type PlainPacket struct {
	Kind         string         `yaml:"kind"`
	Type         string         `yaml:"type,omitempty"`
	Encrypted    bool           `yaml:"encrypted,omitempty"`
	ServerTime   uint32         `yaml:"server_time,omitempty"`
	ClientTime   uint32         `yaml:"client_time,omitempty"`
	Operation    string         `yaml:"operation,omitempty"`
	ReturnCode   uint16         `yaml:"return_code,omitempty"`
	DebugMessage any            `yaml:"debug_message,omitempty"`
	Event        string         `yaml:"event,omitempty"`
	Sections     []PlainSection `yaml:"sections,omitempty"`
	Raw          string         `yaml:"raw,omitempty"`
	Diagnostics  []string       `yaml:"diagnostics,omitempty"`
}

// PlainSection is the inspection form of a Section.
type PlainSection struct {
	Key   uint8  `yaml:"key"`
	Name  string `yaml:"name"`
	Tag   string `yaml:"tag"`
	Value any    `yaml:"value"`
}

// Plain converts the packet into its inspection form.
func (pk *Packet) Plain() PlainPacket {
	p := PlainPacket{Kind: pk.Kind.String()}
	for _, d := range pk.diagnostics {
		p.Diagnostics = append(p.Diagnostics, d.String())
	}

	switch pk.Kind {
	case KindTimed:
		p.ServerTime, p.ClientTime = pk.ServerTime, pk.ClientTime
		return p
	case KindOpaque:
		p.Type = pk.Type.String()
		p.Encrypted = pk.Encrypted
		p.Raw = hex.EncodeToString(pk.raw)
		return p
	case KindRequest:
		p.Operation = pk.OpCode.String()
	case KindResponse:
		p.ReturnCode = pk.ReturnCode
		p.DebugMessage = protocol.Plain(pk.DebugMessage)
	case KindEvent:
		p.Event = pk.EventCode.String()
	}
	for _, section := range pk.Sections {
		tag := ""
		if section.Value != nil {
			tag = section.Value.Tag().String()
		}
		p.Sections = append(p.Sections, PlainSection{
			Key:   uint8(section.Key),
			Name:  section.Key.String(),
			Tag:   tag,
			Value: protocol.Plain(section.Value),
		})
	}
	return p
}
