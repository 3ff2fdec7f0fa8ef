package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	packetLengthSize = 4
	// MaxPacketSize is the largest length-prefixed packet a Reader accepts.
	MaxPacketSize = 1024 * 1024 * 8
)

// ErrPacketTooLarge is returned by Reader when a length prefix exceeds MaxPacketSize.
var ErrPacketTooLarge = errors.New("protocol: packet too large")

// Reader reads u32 length-prefixed packets from a byte stream. It is used by stream
// transports and capture files, which have no message boundaries of their own.
type Reader struct {
	r      io.Reader
	length [packetLengthSize]byte
}

// NewReader creates a Reader reading from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// ReadPacket reads the next packet. It returns io.EOF if the stream ended cleanly before a
// new length prefix, and io.ErrUnexpectedEOF if it ended in the middle of a packet.
func (r *Reader) ReadPacket() ([]byte, error) {
	if _, err := io.ReadFull(r.r, r.length[:]); err != nil {
		return nil, err
	}

	length := binary.BigEndian.Uint32(r.length[:])
	if length > MaxPacketSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrPacketTooLarge, length)
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(r.r, data); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return data, nil
}
