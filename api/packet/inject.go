package packet

import (
	"bytes"
	"encoding/binary"

	"github.com/google/uuid"
)

const (
	// DirectionClient injects a packet as if the client sent it, so it is written to the server.
	DirectionClient uint8 = iota
	// DirectionServer injects a packet as if the server sent it, so it is written to the client.
	DirectionServer
)

// Inject writes an encoded Photon packet into the session with the given ID.
type Inject struct {
	SessionID uuid.UUID
	Direction uint8
	Payload   []byte
}

// ID ...
func (pk *Inject) ID() uint32 {
	return IDInject
}

// Encode ...
func (pk *Inject) Encode(buf *bytes.Buffer) {
	WriteUUID(buf, pk.SessionID)
	_ = binary.Write(buf, binary.LittleEndian, pk.Direction)
	WriteBytes(buf, pk.Payload)
}

// Decode ...
func (pk *Inject) Decode(buf *bytes.Buffer) {
	pk.SessionID = ReadUUID(buf)
	_ = binary.Read(buf, binary.LittleEndian, &pk.Direction)
	pk.Payload = ReadBytes(buf)
}
