package protocol

import (
	"fmt"
	"log/slog"
)

const (
	// DefaultMaxDepth is the nesting depth a Decoder accepts unless configured otherwise.
	DefaultMaxDepth = 64
	// DefaultMaxValues is the number of values a Decoder builds for a single buffer unless
	// configured otherwise. Null array elements take no bytes on the wire, so the input size
	// alone does not bound a decode.
	DefaultMaxValues = 1 << 17
)

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithLogger sets the logger diagnostics are reported to.
func WithLogger(logger *slog.Logger) DecoderOption {
	return func(d *Decoder) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithMaxDepth limits how deeply values may nest. Values nested deeper decode as Unrecognized.
func WithMaxDepth(depth int) DecoderOption {
	return func(d *Decoder) {
		if depth > 0 {
			d.maxDepth = depth
		}
	}
}

// WithMaxValues limits how many values a single decode may build. Once the limit is reached,
// further values decode as Unrecognized and collections stop early.
func WithMaxValues(n int) DecoderOption {
	return func(d *Decoder) {
		if n > 0 {
			d.maxValues = n
		}
	}
}

// Decoder reads Values from a Cursor. It never fails: malformed input produces Unrecognized
// values and diagnostics, and decoding always terminates once the cursor runs out of bytes.
type Decoder struct {
	c        *Cursor
	logger   *slog.Logger
	maxDepth int
	depth    int

	maxValues int
	values    int

	diagnostics []Diagnostic
	overrun     bool
	limited     bool
}

// NewDecoder creates a Decoder reading from c.
func NewDecoder(c *Cursor, opts ...DecoderOption) *Decoder {
	d := &Decoder{c: c, logger: slog.Default(), maxDepth: DefaultMaxDepth, maxValues: DefaultMaxValues}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Cursor returns the cursor the decoder reads from.
func (d *Decoder) Cursor() *Cursor {
	return d.c
}

// Diagnostics returns the diagnostics recorded so far.
func (d *Decoder) Diagnostics() []Diagnostic {
	diagnostics := make([]Diagnostic, len(d.diagnostics))
	copy(diagnostics, d.diagnostics)
	return diagnostics
}

// Limited reports whether the decoder stopped building values because it reached its limit.
func (d *Decoder) Limited() bool {
	return d.limited
}

// Decode reads a tag byte followed by the value it describes.
func (d *Decoder) Decode() Value {
	offset := d.c.Offset()
	tag := Tag(d.c.Uint8())
	if d.c.Overrun() {
		d.checkOverrun(tag, false)
		return Unrecognized{Code: byte(tag), Offset: offset}
	}
	return d.DecodeTagged(tag)
}

// DecodeTagged reads the payload of a value whose tag is already known.
func (d *Decoder) DecodeTagged(tag Tag) Value {
	offset := d.c.Offset()
	if d.values >= d.maxValues {
		if !d.limited {
			d.limited = true
			d.report(DiagnosticValueLimit, offset, tag, fmt.Sprintf("more than %d values", d.maxValues))
		}
		return Unrecognized{Code: byte(tag), Offset: offset}
	}
	d.values++

	decode := decoderIndex[tag]
	if decode == nil {
		d.report(DiagnosticUnknownTag, offset, tag, fmt.Sprintf("unknown tag 0x%02x", byte(tag)))
		return Unrecognized{Code: byte(tag), Offset: offset}
	}
	if d.depth >= d.maxDepth {
		d.report(DiagnosticDepthExceeded, offset, tag, fmt.Sprintf("%s nested deeper than %d", tag, d.maxDepth))
		return Unrecognized{Code: byte(tag), Offset: offset}
	}

	d.depth++
	v := decode(d)
	d.depth--
	d.checkOverrun(tag, true)
	return v
}

// more reports whether a collection loop may read another element.
func (d *Decoder) more() bool {
	return !d.c.Overrun() && !d.limited
}

// checkOverrun records the first overrun, either inside the value tagged tag or in place of
// its tag byte.
func (d *Decoder) checkOverrun(tag Tag, inside bool) {
	if !d.c.Overrun() || d.overrun {
		return
	}
	d.overrun = true
	message := "buffer ended before a value tag"
	if inside {
		message = fmt.Sprintf("buffer ended inside %s", tag)
	}
	d.report(DiagnosticOverrun, d.c.Offset(), tag, message)
}

// Report records a diagnostic found by a caller layered on top of the decoder, about bytes
// that belong to no value.
func (d *Decoder) Report(kind DiagnosticKind, message string) {
	offset := d.c.Offset()
	d.diagnostics = append(d.diagnostics, Diagnostic{Kind: kind, Offset: offset, Message: message})
	d.logger.Warn("decode diagnostic", "kind", kind, "offset", offset, "message", message)
}

func (d *Decoder) report(kind DiagnosticKind, offset int, tag Tag, message string) {
	diagnostic := Diagnostic{Kind: kind, Offset: offset, Tag: tag, Message: message}
	d.diagnostics = append(d.diagnostics, diagnostic)
	d.logger.Warn("decode diagnostic", "kind", kind, "offset", offset, "tag", tag, "message", message)
}

type decodeFunc func(d *Decoder) Value

// decoders holds one entry per tag in tagTable.
var decoders = [...]struct {
	tag    Tag
	decode decodeFunc
}{
	{TagNull, (*Decoder).decodeNull},
	{TagDictionary, (*Decoder).decodeDictionary},
	{TagStringArray, (*Decoder).decodeStringArray},
	{TagByte, (*Decoder).decodeByte},
	{TagCustom, (*Decoder).decodeCustom},
	{TagDouble, (*Decoder).decodeDouble},
	{TagFloat, (*Decoder).decodeFloat},
	{TagHashtable, (*Decoder).decodeHashtable},
	{TagInteger, (*Decoder).decodeInteger},
	{TagShort, (*Decoder).decodeShort},
	{TagLong, (*Decoder).decodeLong},
	{TagIntArray, (*Decoder).decodeIntArray},
	{TagBool, (*Decoder).decodeBool},
	{TagString, (*Decoder).decodeString},
	{TagByteArray, (*Decoder).decodeByteArray},
	{TagArray, (*Decoder).decodeArray},
	{TagObjectArray, (*Decoder).decodeObjectArray},
}

// Adding a tag without a decoder, or the other way round, fails to compile.
var (
	_ [len(decoders) - len(tagTable)]struct{}
	_ [len(tagTable) - len(decoders)]struct{}
)

var decoderIndex [256]decodeFunc

func init() {
	for _, entry := range decoders {
		decoderIndex[entry.tag] = entry.decode
	}
	for _, tag := range tagTable {
		if decoderIndex[tag] == nil {
			panic(fmt.Sprintf("protocol: no decoder for tag %s", tag))
		}
	}
}

func (d *Decoder) decodeNull() Value {
	return Null{}
}

func (d *Decoder) decodeByte() Value {
	return Byte(d.c.Uint8())
}

func (d *Decoder) decodeShort() Value {
	return Short(d.c.Uint16())
}

func (d *Decoder) decodeInteger() Value {
	return Integer(d.c.Uint32())
}

func (d *Decoder) decodeLong() Value {
	return Long(d.c.Uint64())
}

func (d *Decoder) decodeFloat() Value {
	return Float(d.c.Float32())
}

func (d *Decoder) decodeDouble() Value {
	return Double(d.c.Float64())
}

func (d *Decoder) decodeBool() Value {
	return Bool(d.c.Uint8() != 0)
}

func (d *Decoder) decodeString() Value {
	return String(d.readString())
}

func (d *Decoder) readString() string {
	return string(d.c.Bytes(int(d.c.Uint16())))
}

func (d *Decoder) decodeByteArray() Value {
	return ByteArray(d.c.Bytes(int(d.c.Uint32())))
}

func (d *Decoder) decodeIntArray() Value {
	n := int(d.c.Uint32())
	ints := make(IntArray, 0, min(n, d.c.Remaining()/4))
	for i := 0; i < n && !d.c.Overrun(); i++ {
		ints = append(ints, d.c.Uint32())
	}
	return ints
}

func (d *Decoder) decodeStringArray() Value {
	n := int(d.c.Uint16())
	strings := make(StringArray, 0, min(n, d.c.Remaining()/2))
	for i := 0; i < n && !d.c.Overrun(); i++ {
		strings = append(strings, d.readString())
	}
	return strings
}

func (d *Decoder) decodeObjectArray() Value {
	n := int(d.c.Uint16())
	values := make(ObjectArray, 0, min(n, d.c.Remaining()))
	for i := 0; i < n && d.more(); i++ {
		values = append(values, d.Decode())
	}
	return values
}

func (d *Decoder) decodeArray() Value {
	n := int(d.c.Uint16())
	a := &Array{ElementTag: Tag(d.c.Uint8())}
	a.Elements = make([]Value, 0, min(n, d.c.Remaining()+1))
	for i := 0; i < n && d.more(); i++ {
		v := d.DecodeTagged(a.ElementTag)
		a.Elements = append(a.Elements, v)
		if _, ok := v.(Unrecognized); ok {
			// Nothing was consumed, every further element would fail the same way.
			break
		}
	}
	return a
}

func (d *Decoder) decodeDictionary() Value {
	dict := &Dictionary{KeyTag: Tag(d.c.Uint8()), ValueTag: Tag(d.c.Uint8())}
	n := int(d.c.Uint16())
	for i := 0; i < n && d.more(); i++ {
		k := d.decodeEntry(dict.KeyTag)
		v := d.decodeEntry(dict.ValueTag)
		d.setEntry(&dict.Map, k, v)
	}
	return dict
}

func (d *Decoder) decodeHashtable() Value {
	table := &Hashtable{}
	n := int(d.c.Uint16())
	for i := 0; i < n && d.more(); i++ {
		k := d.Decode()
		v := d.Decode()
		d.setEntry(&table.Map, k, v)
	}
	return table
}

func (d *Decoder) decodeEntry(tag Tag) Value {
	if tag.Mixed() {
		return d.Decode()
	}
	return d.DecodeTagged(tag)
}

// setEntry drops entries without a usable key.
func (d *Decoder) setEntry(m *Map, k, v Value) {
	switch k.(type) {
	case Null:
		d.report(DiagnosticNullKey, d.c.Offset(), TagNull, "dropped entry with null key")
		return
	case Unrecognized:
		return
	}
	m.Set(k, v)
}

func (d *Decoder) decodeCustom() Value {
	variant := d.c.Uint8()
	length := int(d.c.Uint16())

	expected, known := customLengths[variant]
	if !known {
		return NewRawCustom(variant, d.c.Bytes(length))
	}
	if length != expected {
		d.report(DiagnosticCustomLength, d.c.Offset(), TagCustom,
			fmt.Sprintf("variant %q declares %d bytes, layout has %d", variant, length, expected))
	}

	switch variant {
	case VariantVector2:
		return NewVector2(d.c.Float32(), d.c.Float32())
	case VariantVector3:
		return NewVector3(d.c.Float32(), d.c.Float32(), d.c.Float32())
	case VariantQuaternion:
		return NewQuaternion(d.c.Float32(), d.c.Float32(), d.c.Float32(), d.c.Float32())
	default:
		return NewPlayerRef(d.c.Uint32())
	}
}

// Unmarshal decodes a single tagged value from b. A value that does not span b exactly is
// reported through the returned diagnostics.
func Unmarshal(b []byte, opts ...DecoderOption) (Value, []Diagnostic) {
	d := NewDecoder(NewCursor(b), opts...)
	v := d.Decode()
	if remaining := d.c.Remaining(); remaining > 0 {
		d.report(DiagnosticTrailingBytes, d.c.Offset(), v.Tag(), fmt.Sprintf("%d trailing bytes", remaining))
	}
	return v, d.Diagnostics()
}
