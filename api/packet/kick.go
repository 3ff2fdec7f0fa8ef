package packet

import (
	"bytes"

	"github.com/google/uuid"
)

// Kick closes the session with the given ID.
type Kick struct {
	SessionID uuid.UUID
	Reason    string
}

// ID ...
func (pk *Kick) ID() uint32 {
	return IDKick
}

// Encode ...
func (pk *Kick) Encode(buf *bytes.Buffer) {
	WriteUUID(buf, pk.SessionID)
	WriteString(buf, pk.Reason)
}

// Decode ...
func (pk *Kick) Decode(buf *bytes.Buffer) {
	pk.SessionID = ReadUUID(buf)
	pk.Reason = ReadString(buf)
}
