package packet

import (
	"bytes"
	"testing"
)

// FuzzDecode tests that decoding arbitrary frames doesn't panic, that opaque frames encode
// back to their original bytes and that encoding a decoded frame is stable.
func FuzzDecode(f *testing.F) {
	f.Add(raiseEvent)
	f.Add([]byte{0xF0, 0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x00, 0x00, 0x2A})
	f.Add([]byte{0xF3, 0x03, 0x7F, 0xFF, 0x73, 0x00, 0x02, 'o', 'k', 0x00, 0x00})
	f.Add([]byte{0xF3, 0x04, 0xC8, 0x00, 0x03, 0x01, 0x62, 0x0A, 0x02, 0x2A, 0x01, 0x62, 0x14})
	f.Add([]byte{0xF3, 0x82, 0x13, 0x37, 0xBE, 0xEF})
	f.Add([]byte{0xF3, 0x06, 0x01, 0x00, 0x01, 0xAA})
	f.Add([]byte{0xF3, 0x02, 0x01, 0xFF, 0xFF})
	f.Add(nullArrayPacket(4))

	f.Fuzz(func(t *testing.T, data []byte) {
		pk, err := Decode(data, quiet)
		if err != nil {
			return
		}

		out, err := pk.Encode()
		if pk.Opaque() {
			if err != nil || !bytes.Equal(out, data) {
				t.Fatalf("opaque Encode = % x, %v; want % x", out, err, data)
			}
			return
		}
		if err != nil {
			return
		}

		again, err := Decode(out, quiet)
		if err != nil {
			t.Fatalf("Decode of encoded frame: %v", err)
		}
		b, err := again.Encode()
		if err != nil || !bytes.Equal(b, out) {
			t.Fatalf("encode(decode(out)) = % x, %v; want % x", b, err, out)
		}
	})
}
