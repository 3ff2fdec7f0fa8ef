package packet

import (
	"bytes"
	"encoding/binary"

	"github.com/google/uuid"
)

// ListSessions asks for a SessionList.
type ListSessions struct{}

// ID ...
func (pk *ListSessions) ID() uint32 {
	return IDListSessions
}

// Encode ...
func (pk *ListSessions) Encode(*bytes.Buffer) {}

// Decode ...
func (pk *ListSessions) Decode(*bytes.Buffer) {}

// SessionInfo describes a single relayed session.
type SessionInfo struct {
	ID         uuid.UUID
	ClientAddr string
	ServerAddr string
	// Latency is the last measured round trip time to the server in milliseconds.
	Latency int64
}

type SessionList struct {
	Sessions []SessionInfo
}

// ID ...
func (pk *SessionList) ID() uint32 {
	return IDSessionList
}

// Encode ...
func (pk *SessionList) Encode(buf *bytes.Buffer) {
	_ = binary.Write(buf, binary.LittleEndian, uint32(len(pk.Sessions)))
	for _, info := range pk.Sessions {
		WriteUUID(buf, info.ID)
		WriteString(buf, info.ClientAddr)
		WriteString(buf, info.ServerAddr)
		_ = binary.Write(buf, binary.LittleEndian, info.Latency)
	}
}

// Decode ...
func (pk *SessionList) Decode(buf *bytes.Buffer) {
	var count uint32
	_ = binary.Read(buf, binary.LittleEndian, &count)
	pk.Sessions = make([]SessionInfo, 0, min(int(count), buf.Len()/16))
	for i := uint32(0); i < count && buf.Len() > 0; i++ {
		var info SessionInfo
		info.ID = ReadUUID(buf)
		info.ClientAddr = ReadString(buf)
		info.ServerAddr = ReadString(buf)
		_ = binary.Read(buf, binary.LittleEndian, &info.Latency)
		pk.Sessions = append(pk.Sessions, info)
	}
}
