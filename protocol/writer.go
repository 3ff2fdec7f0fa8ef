package protocol

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cooldogedev/photon/internal"
)

// Writer writes u32 length-prefixed packets to a byte stream.
type Writer struct {
	w io.Writer
}

// NewWriter creates a Writer writing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write writes data as a single length-prefixed packet. The prefix and the data are handed
// to the underlying writer in one call.
func (w *Writer) Write(data []byte) (err error) {
	if len(data) > MaxPacketSize {
		return fmt.Errorf("%w: %d bytes", ErrPacketTooLarge, len(data))
	}

	buf := internal.AcquireBuffer()
	defer internal.ReleaseBuffer(buf)

	if err = binary.Write(buf, binary.BigEndian, uint32(len(data))); err != nil {
		return err
	}

	buf.Write(data)
	if _, err := w.w.Write(buf.Bytes()); err != nil {
		return err
	}
	return
}
