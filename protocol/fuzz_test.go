package protocol

import (
	"testing"
)

var fuzzSeeds = [][]byte{
	{0x2A},
	{0x62, 0xC8},
	{0x6B, 0x12, 0x34},
	{0x69, 0x00, 0x00, 0x01, 0x00},
	{0x66, 0x3F, 0xC0, 0x00, 0x00},
	{0x6F, 0x7F},
	{0x73, 0x00, 0x05, 'H', 'e', 'l', 'l', 'o'},
	{0x78, 0x00, 0x00, 0x00, 0x03, 1, 2, 3},
	{0x6E, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01},
	{0x61, 0x00, 0x02, 0x00, 0x01, 'a', 0x00, 0x02, 'b', 'c'},
	{0x7A, 0x00, 0x02, 0x01, 0x62, 0x05},
	{0x79, 0x00, 0x02, 0x62, 0x01, 0x02},
	{0x68, 0x00, 0x02, 0x62, 0x01, 0x62, 0x0A, 0x62, 0x01, 0x62, 0x14},
	{0x44, 0x2A, 0x00, 0x00, 0x01, 0x62, 0x01, 0x73, 0x00, 0x00},
	{0x63, 'V', 0x00, 0x0C, 0x3F, 0x80, 0, 0, 0x40, 0, 0, 0, 0x40, 0x40, 0, 0},
	{0x63, 'Z', 0x00, 0x03, 9, 8, 7},
	{0x7A, 0x01, 0x00, 0x79, 0xFF, 0xFF, 0x2A, 0x79, 0xFF, 0xFF, 0x2A},
	{0x7A, 0x00, 0x02, 0x62, 0x01},
}

// FuzzUnmarshal tests that decoding arbitrary bytes doesn't panic, and that every tree that
// can be encoded decodes back to itself.
func FuzzUnmarshal(f *testing.F) {
	for _, seed := range fuzzSeeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		v, _ := Unmarshal(data, quiet)
		out, err := Marshal(v)
		if err != nil {
			return
		}

		again, _ := Unmarshal(out, quiet)
		if !Equal(again, v) {
			t.Fatalf("decode(encode(v)) = %#v; want %#v", again, v)
		}
	})
}
