package protocol

import "fmt"

// PlainEntry is a map entry converted by Plain. Maps become lists of entries so that their
// order survives serialization.
type PlainEntry struct {
	Key   any `yaml:"key" json:"key"`
	Value any `yaml:"value" json:"value"`
}

// Plain converts v into plain Go values suitable for YAML or JSON output. Scalars become their
// Go counterparts, sequences become slices and maps become []PlainEntry.
func Plain(v Value) any {
	switch v := v.(type) {
	case nil, Null:
		return nil
	case Byte:
		return uint8(v)
	case Short:
		return uint16(v)
	case Integer:
		return uint32(v)
	case Long:
		return uint64(v)
	case Float:
		return float32(v)
	case Double:
		return float64(v)
	case Bool:
		return bool(v)
	case String:
		return string(v)
	case ByteArray:
		return []byte(v)
	case IntArray:
		return []uint32(v)
	case StringArray:
		return []string(v)
	case ObjectArray:
		return plainSlice(v)
	case *Array:
		if v == nil {
			return nil
		}
		return plainSlice(v.Elements)
	case *Dictionary:
		if v == nil {
			return nil
		}
		return plainMap(&v.Map)
	case *Hashtable:
		if v == nil {
			return nil
		}
		return plainMap(&v.Map)
	case Custom:
		return plainCustom(v)
	case Unrecognized:
		return map[string]any{"unrecognized": fmt.Sprintf("0x%02x", v.Code), "offset": v.Offset}
	}
	return nil
}

func plainSlice(values []Value) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = Plain(v)
	}
	return out
}

func plainMap(m *Map) []PlainEntry {
	out := make([]PlainEntry, 0, m.Len())
	for k, v := range m.All() {
		out = append(out, PlainEntry{Key: Plain(k), Value: Plain(v)})
	}
	return out
}

func plainCustom(c Custom) map[string]any {
	out := map[string]any{"variant": string(rune(c.Variant))}
	switch data := c.Data.(type) {
	case Vector2:
		out["x"], out["y"] = data.X(), data.Y()
	case Vector3:
		out["x"], out["y"], out["z"] = data.X(), data.Y(), data.Z()
	case Quaternion:
		out["w"], out["x"], out["y"], out["z"] = data.W, data.V.X(), data.V.Y(), data.V.Z()
	case PlayerRef:
		out["player"] = data.ID
	case RawCustom:
		out["data"] = []byte(data)
	}
	return out
}
