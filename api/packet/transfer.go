package packet

import (
	"bytes"

	"github.com/google/uuid"
)

// Transfer moves the session with the given ID to the server at Addr.
type Transfer struct {
	SessionID uuid.UUID
	Addr      string
}

// ID ...
func (pk *Transfer) ID() uint32 {
	return IDTransfer
}

// Encode ...
func (pk *Transfer) Encode(buf *bytes.Buffer) {
	WriteUUID(buf, pk.SessionID)
	WriteString(buf, pk.Addr)
}

// Decode ...
func (pk *Transfer) Decode(buf *bytes.Buffer) {
	pk.SessionID = ReadUUID(buf)
	pk.Addr = ReadString(buf)
}
