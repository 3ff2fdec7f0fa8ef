package protocol

import (
	"bytes"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Custom variant selectors with a known layout.
const (
	VariantVector2    byte = 'W'
	VariantVector3    byte = 'V'
	VariantQuaternion byte = 'Q'
	VariantPlayer     byte = 'P'
)

// customLengths holds the fixed payload length of every known custom variant.
var customLengths = map[byte]int{
	VariantVector2:    8,
	VariantVector3:    12,
	VariantQuaternion: 16,
	VariantPlayer:     4,
}

// Custom is an application defined value identified by a single ASCII variant character.
type Custom struct {
	Variant byte
	Data    CustomData
}

// CustomData is the payload of a Custom value.
type CustomData interface {
	customData()
}

// Vector2 is the payload of the 'W' variant.
type Vector2 struct {
	mgl32.Vec2
}

// Vector3 is the payload of the 'V' variant.
type Vector3 struct {
	mgl32.Vec3
}

// Quaternion is the payload of the 'Q' variant. It is written as w, x, y, z.
type Quaternion struct {
	mgl32.Quat
}

// PlayerRef is the payload of the 'P' variant.
type PlayerRef struct {
	ID uint32
}

// RawCustom is the payload of any variant without a known layout. The bytes are kept exactly
// as they were read.
type RawCustom []byte

func (Vector2) customData()    {}
func (Vector3) customData()    {}
func (Quaternion) customData() {}
func (PlayerRef) customData()  {}
func (RawCustom) customData()  {}

// NewVector2 ...
func NewVector2(x, y float32) Custom {
	return Custom{Variant: VariantVector2, Data: Vector2{mgl32.Vec2{x, y}}}
}

// NewVector3 ...
func NewVector3(x, y, z float32) Custom {
	return Custom{Variant: VariantVector3, Data: Vector3{mgl32.Vec3{x, y, z}}}
}

// NewQuaternion ...
func NewQuaternion(w, x, y, z float32) Custom {
	return Custom{Variant: VariantQuaternion, Data: Quaternion{mgl32.Quat{W: w, V: mgl32.Vec3{x, y, z}}}}
}

// NewPlayerRef ...
func NewPlayerRef(id uint32) Custom {
	return Custom{Variant: VariantPlayer, Data: PlayerRef{ID: id}}
}

// NewRawCustom creates a custom value of an application specific variant.
func NewRawCustom(variant byte, data []byte) Custom {
	return Custom{Variant: variant, Data: RawCustom(data)}
}

func equalCustom(a, b CustomData) bool {
	switch x := a.(type) {
	case Vector2:
		y, ok := b.(Vector2)
		return ok && equalFloats(x.Vec2[:], y.Vec2[:])
	case Vector3:
		y, ok := b.(Vector3)
		return ok && equalFloats(x.Vec3[:], y.Vec3[:])
	case Quaternion:
		y, ok := b.(Quaternion)
		return ok && equalFloats([]float32{x.W, x.V[0], x.V[1], x.V[2]}, []float32{y.W, y.V[0], y.V[1], y.V[2]})
	case PlayerRef:
		y, ok := b.(PlayerRef)
		return ok && x == y
	case RawCustom:
		y, ok := b.(RawCustom)
		return ok && bytes.Equal(x, y)
	case nil:
		return b == nil
	}
	return false
}

func equalFloats(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Float32bits(a[i]) != math.Float32bits(b[i]) {
			return false
		}
	}
	return true
}
