package protocol

import (
	"encoding/binary"
	"math"
)

// Cursor is a forward-only read position over an immutable byte buffer. All multi-byte
// values are read in big-endian byte order.
//
// Reading past the end of the buffer never fails: missing bytes read as zero, the position
// clamps to the end and Overrun starts reporting true. This lets callers inspect truncated
// captures and decide for themselves whether a partial result is acceptable.
type Cursor struct {
	buf     []byte
	pos     int
	overrun bool
}

// NewCursor creates a Cursor positioned at the start of buf.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Len returns the length of the underlying buffer.
func (c *Cursor) Len() int {
	return len(c.buf)
}

// Offset returns the current read offset clamped to len-1. A buffer that has been read
// exactly to its end therefore reports len-1, as does one that was read past its end.
func (c *Cursor) Offset() int {
	if c.pos >= len(c.buf) {
		return max(len(c.buf)-1, 0)
	}
	return c.pos
}

// Position returns the number of bytes consumed so far. Unlike Offset it reaches len when
// the buffer has been read completely.
func (c *Cursor) Position() int {
	return c.pos
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

// Overrun reports whether any read asked for more bytes than were left.
func (c *Cursor) Overrun() bool {
	return c.overrun
}

// Consumed reports whether the buffer was read exactly to its end.
func (c *Cursor) Consumed() bool {
	return !c.overrun && c.pos == len(c.buf)
}

// Uint8 reads a single byte.
func (c *Cursor) Uint8() uint8 {
	return c.next(1)[0]
}

// Uint16 reads a big-endian uint16.
func (c *Cursor) Uint16() uint16 {
	return binary.BigEndian.Uint16(c.next(2))
}

// Uint32 reads a big-endian uint32.
func (c *Cursor) Uint32() uint32 {
	return binary.BigEndian.Uint32(c.next(4))
}

// Uint64 reads a big-endian uint64.
func (c *Cursor) Uint64() uint64 {
	return binary.BigEndian.Uint64(c.next(8))
}

// Float32 reads a big-endian IEEE 754 float32.
func (c *Cursor) Float32() float32 {
	return math.Float32frombits(c.Uint32())
}

// Float64 reads a big-endian IEEE 754 float64.
func (c *Cursor) Float64() float64 {
	return math.Float64frombits(c.Uint64())
}

// Bytes reads up to n bytes and returns a copy of them. If fewer than n bytes are left, only
// the available bytes are returned and the cursor is marked as overrun.
func (c *Cursor) Bytes(n int) []byte {
	if n <= 0 {
		return []byte{}
	}
	if avail := len(c.buf) - c.pos; n > avail {
		n = avail
		c.overrun = true
	}
	b := make([]byte, n)
	copy(b, c.buf[c.pos:c.pos+n])
	c.pos += n
	return b
}

// next returns the next n bytes, zero padded when the buffer ends early.
func (c *Cursor) next(n int) []byte {
	end := c.pos + n
	if end <= len(c.buf) {
		b := c.buf[c.pos:end]
		c.pos = end
		return b
	}
	c.overrun = true
	b := make([]byte, n)
	copy(b, c.buf[c.pos:])
	c.pos = len(c.buf)
	return b
}
