package capture

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/cooldogedev/photon/packet"
	"github.com/cooldogedev/photon/protocol"
	"github.com/golang/snappy"
)

// Magic opens every capture file, followed by the format version.
const (
	Magic   = "PHCP"
	Version = 1

	headerSize = len(Magic) + 1
	recordSize = 1 + 8
)

// ErrInvalidCapture is returned by NewReader when the stream does not start with a capture header.
var ErrInvalidCapture = errors.New("capture: not a capture file")

// Record is a single buffer seen by the relay.
type Record struct {
	Direction packet.Direction
	Time      time.Time
	Payload   []byte
}

// Decode parses the payload of the record.
func (r Record) Decode(opts ...packet.Option) (*packet.Packet, error) {
	return packet.Decode(r.Payload, opts...)
}

// Writer writes records to a snappy framed stream. It is safe for concurrent use.
type Writer struct {
	mu     sync.Mutex
	w      *snappy.Writer
	closer io.Closer
	now    func() time.Time
	header bool
}

// NewWriter creates a Writer writing to w. Closing the Writer flushes it but leaves w open.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: snappy.NewBufferedWriter(w), now: time.Now}
}

// Create creates the capture file at path. Closing the Writer closes the file.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := NewWriter(f)
	w.closer = f
	return w, nil
}

// Record writes payload as a record received now from direction.
func (w *Writer) Record(direction packet.Direction, payload []byte) error {
	return w.WriteRecord(Record{Direction: direction, Time: w.now(), Payload: payload})
}

// WriteRecord ...
func (w *Writer) WriteRecord(r Record) error {
	if len(r.Payload) > protocol.MaxPacketSize {
		return fmt.Errorf("%w: %d bytes", protocol.ErrPacketTooLarge, len(r.Payload))
	}

	s := protocol.AcquireSink()
	defer protocol.ReleaseSink(s)

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.header {
		s.WriteBytes([]byte(Magic))
		s.WriteUint8(Version)
		w.header = true
	}
	s.WriteUint8(uint8(r.Direction))
	s.WriteUint64(uint64(r.Time.UnixNano()))
	s.WriteUint32(uint32(len(r.Payload)))
	s.WriteBytes(r.Payload)
	_, err := w.w.Write(s.Bytes())
	return err
}

// Flush ...
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Flush()
}

// Close flushes the writer and closes the file it was created with, if any.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	err := w.w.Close()
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Reader reads records written by a Writer.
type Reader struct {
	r      io.Reader
	frames *protocol.Reader
	header [recordSize]byte
}

// NewReader creates a Reader reading from r and checks the capture header. An empty stream
// is a valid capture without records.
func NewReader(r io.Reader) (*Reader, error) {
	sr := snappy.NewReader(r)
	var header [headerSize]byte
	if _, err := io.ReadFull(sr, header[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return &Reader{r: eofReader{}, frames: protocol.NewReader(eofReader{})}, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidCapture, err)
	}
	if string(header[:len(Magic)]) != Magic {
		return nil, ErrInvalidCapture
	}
	if v := header[len(Magic)]; v != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidCapture, v)
	}
	return &Reader{r: sr, frames: protocol.NewReader(sr)}, nil
}

// Next returns the next record, or io.EOF once the capture ends.
func (r *Reader) Next() (Record, error) {
	if _, err := io.ReadFull(r.r, r.header[:]); err != nil {
		return Record{}, err
	}

	c := protocol.NewCursor(r.header[:])
	direction := packet.Direction(c.Uint8())
	nanos := int64(c.Uint64())
	payload, err := r.frames.ReadPacket()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Record{}, io.ErrUnexpectedEOF
		}
		return Record{}, err
	}
	return Record{Direction: direction, Time: time.Unix(0, nanos), Payload: payload}, nil
}

// ReadAll reads the remaining records.
func (r *Reader) ReadAll() ([]Record, error) {
	var records []Record
	for {
		record, err := r.Next()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, record)
	}
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) {
	return 0, io.EOF
}
