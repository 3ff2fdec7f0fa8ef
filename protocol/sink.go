package protocol

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/cooldogedev/photon/internal"
)

// Sink is an append-only byte buffer that values are encoded into. Multi-byte values are
// written in big-endian byte order. The buffer grows as needed and is only copied out on
// Finish.
type Sink struct {
	buf    *bytes.Buffer
	tmp    [8]byte
	pooled bool
}

// NewSink creates a Sink with a small initial capacity.
func NewSink() *Sink {
	return NewSinkSize(256)
}

// NewSinkSize creates a Sink with the given initial capacity.
func NewSinkSize(size int) *Sink {
	return &Sink{buf: bytes.NewBuffer(make([]byte, 0, size))}
}

// AcquireSink returns a Sink backed by a pooled buffer. It must be handed back with
// ReleaseSink once its bytes are no longer referenced.
func AcquireSink() *Sink {
	return &Sink{buf: internal.AcquireBuffer(), pooled: true}
}

// ReleaseSink returns the buffer backing s to the pool. s must not be used afterwards.
func ReleaseSink(s *Sink) {
	if !s.pooled {
		return
	}
	internal.ReleaseBuffer(s.buf)
	s.buf = nil
}

// Len returns the number of bytes written so far.
func (s *Sink) Len() int {
	return s.buf.Len()
}

// Reset discards everything written so far, keeping the allocated capacity.
func (s *Sink) Reset() {
	s.buf.Reset()
}

// Bytes returns the written bytes without copying. The slice is only valid until the next
// write, Reset or ReleaseSink.
func (s *Sink) Bytes() []byte {
	return s.buf.Bytes()
}

// Finish returns a copy of the written bytes.
func (s *Sink) Finish() []byte {
	return bytes.Clone(s.buf.Bytes())
}

// WriteUint8 appends a single byte.
func (s *Sink) WriteUint8(v uint8) {
	s.buf.WriteByte(v)
}

// WriteUint16 appends a big-endian uint16.
func (s *Sink) WriteUint16(v uint16) {
	binary.BigEndian.PutUint16(s.tmp[:2], v)
	s.buf.Write(s.tmp[:2])
}

// WriteUint32 appends a big-endian uint32.
func (s *Sink) WriteUint32(v uint32) {
	binary.BigEndian.PutUint32(s.tmp[:4], v)
	s.buf.Write(s.tmp[:4])
}

// WriteUint64 appends a big-endian uint64.
func (s *Sink) WriteUint64(v uint64) {
	binary.BigEndian.PutUint64(s.tmp[:8], v)
	s.buf.Write(s.tmp[:8])
}

// WriteFloat32 appends a big-endian IEEE 754 float32.
func (s *Sink) WriteFloat32(v float32) {
	s.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 appends a big-endian IEEE 754 float64.
func (s *Sink) WriteFloat64(v float64) {
	s.WriteUint64(math.Float64bits(v))
}

// WriteBytes appends raw bytes.
func (s *Sink) WriteBytes(b []byte) {
	s.buf.Write(b)
}
