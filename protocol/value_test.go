package protocol

import (
	"math"
	"testing"
)

func TestEqual(t *testing.T) {
	nan := Float(float32(math.NaN()))

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"same scalar", Integer(7), Integer(7), true},
		{"different scalar", Integer(7), Integer(8), false},
		{"same number different tag", Byte(7), Short(7), false},
		{"nan equals itself", nan, nan, true},
		{"signed zero", Double(0), Double(math.Copysign(0, -1)), false},
		{"byte arrays", ByteArray{1, 2}, ByteArray{1, 2}, true},
		{"nested object arrays", ObjectArray{String("a"), ObjectArray{Byte(1)}}, ObjectArray{String("a"), ObjectArray{Byte(1)}}, true},
		{"array element tag", NewArray(TagByte), NewArray(TagShort), false},
		{"custom vectors", NewVector3(1, 2, 3), NewVector3(1, 2, 3), true},
		{"custom variants", NewRawCustom('A', []byte{1}), NewRawCustom('B', []byte{1}), false},
		{
			"dictionary order matters",
			NewDictionary(TagMixed, TagMixed, Entry{Byte(1), Null{}}, Entry{Byte(2), Null{}}),
			NewDictionary(TagMixed, TagMixed, Entry{Byte(2), Null{}}, Entry{Byte(1), Null{}}),
			false,
		},
		{"nil values", nil, nil, true},
		{"nil and null", nil, Null{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%#v, %#v) = %v; want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestMapStructuralKeys(t *testing.T) {
	d := NewDictionary(TagMixed, TagMixed)

	// Independently built keys with the same tag and payload address the same entry.
	d.Set(ObjectArray{String("room"), Integer(1)}, String("first"))
	d.Set(ObjectArray{String("room"), Integer(1)}, String("second"))

	if d.Len() != 1 {
		t.Fatalf("Len() = %d; want 1", d.Len())
	}
	v, ok := d.Get(ObjectArray{String("room"), Integer(1)})
	if !ok || !Equal(v, String("second")) {
		t.Errorf("Get = %v, %v; want second, true", v, ok)
	}
	if d.Has(ObjectArray{String("room"), Short(1)}) {
		t.Errorf("Has matched a key with a different element tag")
	}
}

func TestMapInsertionOrder(t *testing.T) {
	h := NewHashtable()
	h.Set(String("c"), Integer(3))
	h.Set(String("a"), Integer(1))
	h.Set(String("b"), Integer(2))
	h.Set(String("c"), Integer(30))

	want := []Value{Integer(30), Integer(1), Integer(2)}
	for i, w := range want {
		v, ok := h.ByIndex(i)
		if !ok || !Equal(v, w) {
			t.Errorf("ByIndex(%d) = %v, %v; want %v", i, v, ok, w)
		}
	}
	if _, ok := h.ByIndex(len(want)); ok {
		t.Errorf("ByIndex past the end succeeded")
	}

	var keys []Value
	for k := range h.All() {
		keys = append(keys, k)
	}
	if !Equal(ObjectArray(keys), ObjectArray{String("c"), String("a"), String("b")}) {
		t.Errorf("All() keys = %v", keys)
	}
}

func TestMapDelete(t *testing.T) {
	h := NewHashtable(
		Entry{Byte(1), String("one")},
		Entry{Byte(2), String("two")},
		Entry{Byte(3), String("three")},
	)

	if !h.Delete(Byte(2)) {
		t.Fatalf("Delete(2) = false")
	}
	if h.Delete(Byte(2)) {
		t.Errorf("second Delete(2) = true")
	}
	if h.Len() != 2 {
		t.Fatalf("Len() = %d; want 2", h.Len())
	}
	if v, ok := h.Get(Byte(3)); !ok || !Equal(v, String("three")) {
		t.Errorf("Get(3) after delete = %v, %v", v, ok)
	}
	if e, _ := h.EntryAt(1); !Equal(e.Key, Byte(3)) {
		t.Errorf("EntryAt(1) = %v; want key 3", e)
	}

	h.Set(Byte(2), String("again"))
	if v, _ := h.ByIndex(2); !Equal(v, String("again")) {
		t.Errorf("re-added key not appended, ByIndex(2) = %v", v)
	}
}

func TestMapUnencodableKey(t *testing.T) {
	var m Map
	m.Set(Unrecognized{Code: 0x01}, Byte(1))
	m.Set(Unrecognized{Code: 0x02}, Byte(2))

	if m.Len() != 2 {
		t.Fatalf("Len() = %d; want 2", m.Len())
	}
	if v, ok := m.Get(Unrecognized{Code: 0x02}); !ok || !Equal(v, Byte(2)) {
		t.Errorf("Get = %v, %v; want 2, true", v, ok)
	}
}

func TestTagString(t *testing.T) {
	if got := TagObjectArray.String(); got != "object-array" {
		t.Errorf("String() = %q", got)
	}
	if got := Tag(0x01).String(); got != "unknown(0x01)" {
		t.Errorf("String() = %q", got)
	}
	if !TagMixed.Mixed() || !TagNull.Mixed() || TagByte.Mixed() {
		t.Errorf("Mixed() misclassifies dictionary sentinels")
	}
	if len(Tags()) != 17 {
		t.Errorf("len(Tags()) = %d; want 17", len(Tags()))
	}
}

func TestPlain(t *testing.T) {
	v := NewHashtable(
		Entry{String("pos"), NewVector2(1, 2)},
		Entry{Byte(1), ObjectArray{Integer(7), Null{}}},
	)

	entries, ok := Plain(v).([]PlainEntry)
	if !ok || len(entries) != 2 {
		t.Fatalf("Plain = %#v", Plain(v))
	}
	if entries[0].Key != "pos" {
		t.Errorf("first key = %v; want pos", entries[0].Key)
	}
	custom := entries[0].Value.(map[string]any)
	if custom["variant"] != "W" || custom["x"] != float32(1) {
		t.Errorf("custom = %v", custom)
	}
	list := entries[1].Value.([]any)
	if list[0] != uint32(7) || list[1] != nil {
		t.Errorf("object-array = %v", list)
	}
}
