package packet

import (
	"bytes"
	"encoding/binary"

	"github.com/google/uuid"
)

func ReadBytes(buf *bytes.Buffer) []byte {
	var length uint32
	_ = binary.Read(buf, binary.LittleEndian, &length)
	data := make([]byte, min(int(length), buf.Len()))
	_, _ = buf.Read(data)
	return data
}

func WriteBytes(buf *bytes.Buffer, b []byte) {
	_ = binary.Write(buf, binary.LittleEndian, uint32(len(b)))
	buf.Write(b)
}

func ReadString(buf *bytes.Buffer) string {
	return string(ReadBytes(buf))
}

func WriteString(buf *bytes.Buffer, s string) {
	_ = binary.Write(buf, binary.LittleEndian, uint32(len(s)))
	buf.WriteString(s)
}

func ReadUUID(buf *bytes.Buffer) (id uuid.UUID) {
	_, _ = buf.Read(id[:])
	return
}

func WriteUUID(buf *bytes.Buffer, id uuid.UUID) {
	buf.Write(id[:])
}
