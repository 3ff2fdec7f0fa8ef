package packet

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/cooldogedev/photon/code"
	"github.com/cooldogedev/photon/protocol"
)

const (
	// MagicTimed is the first byte of a timed frame.
	MagicTimed byte = 0xF0
	// MagicOperation is the first byte of an operation frame.
	MagicOperation byte = 0xF3

	encryptedFlag byte = 0x80
	typeMask      byte = 0x7F
)

var (
	ErrEmptyBuffer  = errors.New("packet: empty buffer")
	ErrUnknownMagic = errors.New("packet: not a photon frame")
	ErrOpaque       = errors.New("packet: opaque packet without original bytes")
)

// Kind classifies a Packet by the grammar its body follows.
type Kind uint8

const (
	// KindOpaque is an operation frame whose body is not parsed: encrypted frames and inner
	// types other than request, response and event. It is relayed as its original bytes.
	KindOpaque Kind = iota
	KindTimed
	KindRequest
	KindResponse
	KindEvent
)

func (k Kind) String() string {
	switch k {
	case KindOpaque:
		return "Opaque"
	case KindTimed:
		return "Timed"
	case KindRequest:
		return "Request"
	case KindResponse:
		return "Response"
	case KindEvent:
		return "Event"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Section is a keyed parameter of a request, response or event.
type Section struct {
	Key   code.ParameterCode
	Value protocol.Value
}

// Packet is a single Photon frame.
type Packet struct {
	Kind Kind

	// ServerTime and ClientTime are only set on timed frames.
	ServerTime uint32
	ClientTime uint32

	// Type is the 7-bit inner type of an operation frame.
	Type      code.PacketType
	Encrypted bool

	OpCode       code.OperationCode
	ReturnCode   uint16
	DebugMessage protocol.Value
	EventCode    code.EventCode
	Sections     []Section

	raw         []byte
	modified    bool
	diagnostics []protocol.Diagnostic
}

// Option configures Decode.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	maxDepth  int
	maxValues int
}

// WithLogger sets the logger decode diagnostics are reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMaxDepth limits how deeply section values may nest.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithMaxValues limits how many values a single frame may decode into.
func WithMaxValues(n int) Option {
	return func(o *options) {
		o.maxValues = n
	}
}

// Decode parses a single frame from buf. Only an empty buffer or an unknown magic byte make
// it fail; malformed bodies decode on a best effort basis and are described by Diagnostics.
// The packet keeps a copy of buf.
func Decode(buf []byte, opts ...Option) (*Packet, error) {
	if len(buf) == 0 {
		return nil, ErrEmptyBuffer
	}

	o := options{logger: slog.Default(), maxDepth: protocol.DefaultMaxDepth, maxValues: protocol.DefaultMaxValues}
	for _, opt := range opts {
		opt(&o)
	}

	c := protocol.NewCursor(buf)
	d := protocol.NewDecoder(c,
		protocol.WithLogger(o.logger),
		protocol.WithMaxDepth(o.maxDepth),
		protocol.WithMaxValues(o.maxValues),
	)
	pk := &Packet{raw: bytes.Clone(buf)}

	switch magic := c.Uint8(); magic {
	case MagicTimed:
		pk.Kind = KindTimed
		pk.ServerTime = c.Uint32()
		pk.ClientTime = c.Uint32()
	case MagicOperation:
		b := c.Uint8()
		pk.Encrypted = b&encryptedFlag != 0
		pk.Type = code.PacketType(b & typeMask)
		if pk.Encrypted {
			pk.Kind = KindOpaque
			return pk, nil
		}

		switch pk.Type {
		case code.PacketOperation:
			pk.Kind = KindRequest
			pk.OpCode = code.OperationCode(c.Uint8())
		case code.PacketOperationResponse:
			pk.Kind = KindResponse
			pk.ReturnCode = c.Uint16()
			pk.DebugMessage = d.Decode()
		case code.PacketEvent:
			pk.Kind = KindEvent
			pk.EventCode = code.EventCode(c.Uint8())
		default:
			pk.Kind = KindOpaque
			return pk, nil
		}
		pk.Sections = decodeSections(d)
	default:
		return nil, fmt.Errorf("%w: magic 0x%02x", ErrUnknownMagic, magic)
	}

	if !c.Consumed() {
		message := "frame ended early"
		if remaining := c.Remaining(); remaining > 0 {
			message = fmt.Sprintf("%d trailing bytes", remaining)
		}
		d.Report(protocol.DiagnosticTrailingBytes, "not fully consumed: "+message)
	}
	pk.diagnostics = d.Diagnostics()
	return pk, nil
}

func decodeSections(d *protocol.Decoder) []Section {
	c := d.Cursor()
	n := int(c.Uint16())
	sections := make([]Section, 0, min(n, c.Remaining()/2))
	for i := 0; i < n && !c.Overrun() && !d.Limited(); i++ {
		key := code.ParameterCode(c.Uint8())
		sections = append(sections, Section{Key: key, Value: d.Decode()})
	}
	return sections
}

// Encode returns the wire form of the packet. Opaque packets return their original bytes.
func (pk *Packet) Encode() ([]byte, error) {
	s := protocol.AcquireSink()
	defer protocol.ReleaseSink(s)
	if err := pk.AppendTo(s); err != nil {
		return nil, err
	}
	return s.Finish(), nil
}

// AppendTo writes the wire form of the packet to s.
func (pk *Packet) AppendTo(s *protocol.Sink) error {
	switch pk.Kind {
	case KindOpaque:
		if pk.raw == nil {
			return ErrOpaque
		}
		s.WriteBytes(pk.raw)
		return nil
	case KindTimed:
		s.WriteUint8(MagicTimed)
		s.WriteUint32(pk.ServerTime)
		s.WriteUint32(pk.ClientTime)
		return nil
	case KindRequest, KindResponse, KindEvent:
	default:
		return fmt.Errorf("packet: cannot encode kind %s", pk.Kind)
	}

	if len(pk.Sections) > math.MaxUint16 {
		return fmt.Errorf("%w: %d sections", protocol.ErrTooLarge, len(pk.Sections))
	}

	b := byte(pk.innerType()) & typeMask
	if pk.Encrypted {
		b |= encryptedFlag
	}
	s.WriteUint8(MagicOperation)
	s.WriteUint8(b)

	e := protocol.NewEncoder(s)
	switch pk.Kind {
	case KindRequest:
		s.WriteUint8(uint8(pk.OpCode))
	case KindResponse:
		s.WriteUint16(pk.ReturnCode)
		debug := pk.DebugMessage
		if debug == nil {
			debug = protocol.Null{}
		}
		if err := e.Encode(debug, true); err != nil {
			return fmt.Errorf("debug message: %w", err)
		}
	case KindEvent:
		s.WriteUint8(uint8(pk.EventCode))
	}

	s.WriteUint16(uint16(len(pk.Sections)))
	for _, section := range pk.Sections {
		s.WriteUint8(uint8(section.Key))
		if err := e.Encode(section.Value, true); err != nil {
			return fmt.Errorf("section %s: %w", section.Key, err)
		}
	}
	return nil
}

func (pk *Packet) innerType() code.PacketType {
	switch pk.Kind {
	case KindRequest:
		return code.PacketOperation
	case KindResponse:
		return code.PacketOperationResponse
	case KindEvent:
		return code.PacketEvent
	}
	return pk.Type
}

// Verify reports whether encoding the packet again reproduces the bytes it was decoded from.
// Packets that were built rather than decoded never verify.
func (pk *Packet) Verify() bool {
	if pk.raw == nil {
		return false
	}
	b, err := pk.Encode()
	return err == nil && bytes.Equal(b, pk.raw)
}

// Raw returns the bytes the packet was decoded from, or nil for a built packet.
func (pk *Packet) Raw() []byte {
	return pk.raw
}

// Diagnostics returns the soft failures recorded while decoding the packet.
func (pk *Packet) Diagnostics() []protocol.Diagnostic {
	return pk.diagnostics
}

// Modified reports whether the sections were changed through the packet's methods since it
// was decoded.
func (pk *Packet) Modified() bool {
	return pk.modified
}

// MarkModified flags a packet whose fields were changed directly.
func (pk *Packet) MarkModified() {
	pk.modified = true
}

// Opaque ...
func (pk *Packet) Opaque() bool {
	return pk.Kind == KindOpaque
}
