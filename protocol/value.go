package protocol

import (
	"bytes"
	"math"
	"slices"
)

// Value is a single typed element of a Photon payload. The set of implementations is closed:
// there is exactly one concrete type per wire tag, plus Unrecognized for tags the decoder did
// not know.
type Value interface {
	// Tag returns the wire tag of the value.
	Tag() Tag

	encode(e *Encoder) error
}

type (
	// Null is the value of the null tag.
	Null struct{}
	// Byte is an unsigned 8-bit integer.
	Byte uint8
	// Short is an unsigned 16-bit integer.
	Short uint16
	// Integer is an unsigned 32-bit integer.
	Integer uint32
	// Long is an unsigned 64-bit integer.
	Long uint64
	// Float is an IEEE 754 float32.
	Float float32
	// Double is an IEEE 754 float64.
	Double float64
	// Bool is a boolean. Any non-zero byte decodes as true.
	Bool bool
	// String is a UTF-8 string of at most 65535 bytes. Invalid UTF-8 is kept as is.
	String string
	// ByteArray is a raw byte sequence.
	ByteArray []byte
	// IntArray is a sequence of unsigned 32-bit integers.
	IntArray []uint32
	// StringArray is a sequence of strings.
	StringArray []string
	// ObjectArray is a sequence of values that each carry their own tag on the wire.
	ObjectArray []Value
)

// Array is a homogeneous sequence of values. The element tag is written once and the
// elements follow without tags of their own.
type Array struct {
	ElementTag Tag
	Elements   []Value
}

// NewArray creates an Array of elements sharing elementTag.
func NewArray(elementTag Tag, elements ...Value) *Array {
	return &Array{ElementTag: elementTag, Elements: elements}
}

// Dictionary is an ordered map whose keys and values either share a declared tag or, when
// the declared tag is mixed, carry a tag per entry.
type Dictionary struct {
	KeyTag   Tag
	ValueTag Tag
	Map
}

// NewDictionary creates a Dictionary with the declared key and value tags.
func NewDictionary(keyTag, valueTag Tag, entries ...Entry) *Dictionary {
	d := &Dictionary{KeyTag: keyTag, ValueTag: valueTag}
	for _, entry := range entries {
		d.Set(entry.Key, entry.Value)
	}
	return d
}

// Hashtable is an ordered map whose keys and values always carry their own tags.
type Hashtable struct {
	Map
}

// NewHashtable creates a Hashtable holding entries.
func NewHashtable(entries ...Entry) *Hashtable {
	h := &Hashtable{}
	for _, entry := range entries {
		h.Set(entry.Key, entry.Value)
	}
	return h
}

// Unrecognized stands in for a value whose tag the decoder did not know. The bytes following
// such a tag cannot be interpreted, so the value cannot be encoded again.
type Unrecognized struct {
	Code   byte
	Offset int
}

func (Null) Tag() Tag { return TagNull }
func (Byte) Tag() Tag { return TagByte }
func (Short) Tag() Tag { return TagShort }
func (Integer) Tag() Tag { return TagInteger }
func (Long) Tag() Tag { return TagLong }
func (Float) Tag() Tag { return TagFloat }
func (Double) Tag() Tag { return TagDouble }
func (Bool) Tag() Tag { return TagBool }
func (String) Tag() Tag { return TagString }
func (ByteArray) Tag() Tag { return TagByteArray }
func (IntArray) Tag() Tag { return TagIntArray }
func (StringArray) Tag() Tag { return TagStringArray }
func (ObjectArray) Tag() Tag { return TagObjectArray }
func (*Array) Tag() Tag { return TagArray }
func (*Dictionary) Tag() Tag { return TagDictionary }
func (*Hashtable) Tag() Tag { return TagHashtable }
func (Custom) Tag() Tag { return TagCustom }
func (u Unrecognized) Tag() Tag { return Tag(u.Code) }

// Equal reports whether a and b have the same tag and structurally equal payloads. Floats are
// compared by bit pattern, so a NaN equals itself and 0 differs from -0. Maps compare their
// entries in order.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Tag() != b.Tag() {
		return false
	}
	switch x := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Byte:
		y, ok := b.(Byte)
		return ok && x == y
	case Short:
		y, ok := b.(Short)
		return ok && x == y
	case Integer:
		y, ok := b.(Integer)
		return ok && x == y
	case Long:
		y, ok := b.(Long)
		return ok && x == y
	case Float:
		y, ok := b.(Float)
		return ok && math.Float32bits(float32(x)) == math.Float32bits(float32(y))
	case Double:
		y, ok := b.(Double)
		return ok && math.Float64bits(float64(x)) == math.Float64bits(float64(y))
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case String:
		y, ok := b.(String)
		return ok && x == y
	case ByteArray:
		y, ok := b.(ByteArray)
		return ok && bytes.Equal(x, y)
	case IntArray:
		y, ok := b.(IntArray)
		return ok && slices.Equal(x, y)
	case StringArray:
		y, ok := b.(StringArray)
		return ok && slices.Equal(x, y)
	case ObjectArray:
		y, ok := b.(ObjectArray)
		return ok && slices.EqualFunc(x, y, Equal)
	case *Array:
		y, ok := b.(*Array)
		if !ok || x == nil || y == nil {
			return ok && x == y
		}
		return x.ElementTag == y.ElementTag && slices.EqualFunc(x.Elements, y.Elements, Equal)
	case *Dictionary:
		y, ok := b.(*Dictionary)
		if !ok || x == nil || y == nil {
			return ok && x == y
		}
		return x.KeyTag == y.KeyTag && x.ValueTag == y.ValueTag && x.Map.Equal(&y.Map)
	case *Hashtable:
		y, ok := b.(*Hashtable)
		if !ok || x == nil || y == nil {
			return ok && x == y
		}
		return x.Map.Equal(&y.Map)
	case Custom:
		y, ok := b.(Custom)
		return ok && x.Variant == y.Variant && equalCustom(x.Data, y.Data)
	case Unrecognized:
		y, ok := b.(Unrecognized)
		return ok && x.Code == y.Code
	}
	return false
}
