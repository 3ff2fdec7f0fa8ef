package protocol

import (
	"fmt"
	"math"
)

// Encoder writes Values to a Sink in the same layout the Decoder reads.
type Encoder struct {
	s *Sink
}

// NewEncoder creates an Encoder writing to s.
func NewEncoder(s *Sink) *Encoder {
	return &Encoder{s: s}
}

// Encode writes v, preceded by its tag byte if writeTag is set. Values are validated before
// anything is written for them, but a failure inside a collection leaves the elements written
// so far in the sink.
func (e *Encoder) Encode(v Value, writeTag bool) error {
	if v == nil {
		return ErrNilValue
	}
	if u, ok := v.(Unrecognized); ok {
		return fmt.Errorf("%w: unrecognized tag 0x%02x at offset %d", ErrUnencodable, u.Code, u.Offset)
	}
	if writeTag {
		e.s.WriteUint8(byte(v.Tag()))
	}
	return v.encode(e)
}

// encodeAs writes v without a tag, requiring it to carry the declared tag.
func (e *Encoder) encodeAs(v Value, tag Tag) error {
	if v == nil {
		return ErrNilValue
	}
	if v.Tag() != tag {
		return fmt.Errorf("%w: %s where %s was declared", ErrTagMismatch, v.Tag(), tag)
	}
	return e.Encode(v, false)
}

func (e *Encoder) encodeEntry(v Value, tag Tag) error {
	if tag.Mixed() {
		return e.Encode(v, true)
	}
	return e.encodeAs(v, tag)
}

func (e *Encoder) writeCount16(n int, what Tag) error {
	if n > math.MaxUint16 {
		return fmt.Errorf("%w: %s of %d elements", ErrTooLarge, what, n)
	}
	e.s.WriteUint16(uint16(n))
	return nil
}

func (e *Encoder) writeCount32(n int, what Tag) error {
	if uint64(n) > math.MaxUint32 {
		return fmt.Errorf("%w: %s of %d elements", ErrTooLarge, what, n)
	}
	e.s.WriteUint32(uint32(n))
	return nil
}

func (e *Encoder) writeString(s string) error {
	if err := e.writeCount16(len(s), TagString); err != nil {
		return err
	}
	e.s.WriteBytes([]byte(s))
	return nil
}

func (Null) encode(*Encoder) error {
	return nil
}

func (b Byte) encode(e *Encoder) error {
	e.s.WriteUint8(uint8(b))
	return nil
}

func (s Short) encode(e *Encoder) error {
	e.s.WriteUint16(uint16(s))
	return nil
}

func (i Integer) encode(e *Encoder) error {
	e.s.WriteUint32(uint32(i))
	return nil
}

func (l Long) encode(e *Encoder) error {
	e.s.WriteUint64(uint64(l))
	return nil
}

func (f Float) encode(e *Encoder) error {
	e.s.WriteFloat32(float32(f))
	return nil
}

func (f Double) encode(e *Encoder) error {
	e.s.WriteFloat64(float64(f))
	return nil
}

func (b Bool) encode(e *Encoder) error {
	if b {
		e.s.WriteUint8(1)
	} else {
		e.s.WriteUint8(0)
	}
	return nil
}

func (s String) encode(e *Encoder) error {
	return e.writeString(string(s))
}

func (b ByteArray) encode(e *Encoder) error {
	if err := e.writeCount32(len(b), TagByteArray); err != nil {
		return err
	}
	e.s.WriteBytes(b)
	return nil
}

func (a IntArray) encode(e *Encoder) error {
	if err := e.writeCount32(len(a), TagIntArray); err != nil {
		return err
	}
	for _, v := range a {
		e.s.WriteUint32(v)
	}
	return nil
}

func (a StringArray) encode(e *Encoder) error {
	if err := e.writeCount16(len(a), TagStringArray); err != nil {
		return err
	}
	for _, s := range a {
		if err := e.writeString(s); err != nil {
			return err
		}
	}
	return nil
}

func (a ObjectArray) encode(e *Encoder) error {
	if err := e.writeCount16(len(a), TagObjectArray); err != nil {
		return err
	}
	for i, v := range a {
		if err := e.Encode(v, true); err != nil {
			return fmt.Errorf("object-array element %d: %w", i, err)
		}
	}
	return nil
}

func (a *Array) encode(e *Encoder) error {
	if a == nil {
		return ErrNilValue
	}
	if err := e.writeCount16(len(a.Elements), TagArray); err != nil {
		return err
	}
	e.s.WriteUint8(byte(a.ElementTag))
	for i, v := range a.Elements {
		if err := e.encodeAs(v, a.ElementTag); err != nil {
			return fmt.Errorf("array element %d: %w", i, err)
		}
	}
	return nil
}

func (d *Dictionary) encode(e *Encoder) error {
	if d == nil {
		return ErrNilValue
	}
	e.s.WriteUint8(byte(d.KeyTag))
	e.s.WriteUint8(byte(d.ValueTag))
	if err := e.writeCount16(d.Len(), TagDictionary); err != nil {
		return err
	}
	for i, entry := range d.entries {
		if err := e.encodeEntry(entry.Key, d.KeyTag); err != nil {
			return fmt.Errorf("dictionary key %d: %w", i, err)
		}
		if err := e.encodeEntry(entry.Value, d.ValueTag); err != nil {
			return fmt.Errorf("dictionary value %d: %w", i, err)
		}
	}
	return nil
}

func (h *Hashtable) encode(e *Encoder) error {
	if h == nil {
		return ErrNilValue
	}
	if err := e.writeCount16(h.Len(), TagHashtable); err != nil {
		return err
	}
	for i, entry := range h.entries {
		if err := e.Encode(entry.Key, true); err != nil {
			return fmt.Errorf("hashtable key %d: %w", i, err)
		}
		if err := e.Encode(entry.Value, true); err != nil {
			return fmt.Errorf("hashtable value %d: %w", i, err)
		}
	}
	return nil
}

func (c Custom) encode(e *Encoder) error {
	var variant byte
	switch data := c.Data.(type) {
	case nil:
		return ErrNilValue
	case RawCustom:
		if len(data) > math.MaxUint16 {
			return fmt.Errorf("%w: custom %q of %d bytes", ErrTooLarge, c.Variant, len(data))
		}
		e.s.WriteUint8(c.Variant)
		e.s.WriteUint16(uint16(len(data)))
		e.s.WriteBytes(data)
		return nil
	case Vector2:
		variant = VariantVector2
	case Vector3:
		variant = VariantVector3
	case Quaternion:
		variant = VariantQuaternion
	case PlayerRef:
		variant = VariantPlayer
	}
	if c.Variant != variant {
		return fmt.Errorf("%w: custom %q holding %T", ErrTagMismatch, c.Variant, c.Data)
	}

	e.s.WriteUint8(variant)
	e.s.WriteUint16(uint16(customLengths[variant]))
	switch data := c.Data.(type) {
	case Vector2:
		e.s.WriteFloat32(data.X())
		e.s.WriteFloat32(data.Y())
	case Vector3:
		e.s.WriteFloat32(data.X())
		e.s.WriteFloat32(data.Y())
		e.s.WriteFloat32(data.Z())
	case Quaternion:
		e.s.WriteFloat32(data.W)
		e.s.WriteFloat32(data.V.X())
		e.s.WriteFloat32(data.V.Y())
		e.s.WriteFloat32(data.V.Z())
	case PlayerRef:
		e.s.WriteUint32(data.ID)
	}
	return nil
}

func (Unrecognized) encode(*Encoder) error {
	return ErrUnencodable
}

// Marshal encodes v with its tag and returns the bytes.
func Marshal(v Value) ([]byte, error) {
	s := AcquireSink()
	defer ReleaseSink(s)
	if err := NewEncoder(s).Encode(v, true); err != nil {
		return nil, err
	}
	return s.Finish(), nil
}
