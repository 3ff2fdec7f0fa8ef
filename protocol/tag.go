package protocol

import "fmt"

// Tag is the one-byte type code that prefixes every value on the wire.
type Tag byte

const (
	// TagMixed is the dictionary key/value tag meaning "every entry carries its own tag".
	// TagNull is accepted with the same meaning in dictionary headers.
	TagMixed       Tag = 0x00
	TagNull        Tag = 0x2A
	TagDictionary  Tag = 0x44
	TagStringArray Tag = 0x61
	TagByte        Tag = 0x62
	TagCustom      Tag = 0x63
	TagDouble      Tag = 0x64
	TagFloat       Tag = 0x66
	TagHashtable   Tag = 0x68
	TagInteger     Tag = 0x69
	TagShort       Tag = 0x6B
	TagLong        Tag = 0x6C
	TagIntArray    Tag = 0x6E
	TagBool        Tag = 0x6F
	TagString      Tag = 0x73
	TagByteArray   Tag = 0x78
	TagArray       Tag = 0x79
	TagObjectArray Tag = 0x7A
)

// tagTable lists every tag with a wire representation. The decoder table in decoder.go is
// checked against its length at compile time.
var tagTable = [...]Tag{
	TagNull,
	TagDictionary,
	TagStringArray,
	TagByte,
	TagCustom,
	TagDouble,
	TagFloat,
	TagHashtable,
	TagInteger,
	TagShort,
	TagLong,
	TagIntArray,
	TagBool,
	TagString,
	TagByteArray,
	TagArray,
	TagObjectArray,
}

var tagNames = map[Tag]string{
	TagNull:        "null",
	TagDictionary:  "dictionary",
	TagStringArray: "string-array",
	TagByte:        "byte",
	TagCustom:      "custom",
	TagDouble:      "double",
	TagFloat:       "float",
	TagHashtable:   "hashtable",
	TagInteger:     "integer",
	TagShort:       "short",
	TagLong:        "long",
	TagIntArray:    "int-array",
	TagBool:        "bool",
	TagString:      "string",
	TagByteArray:   "byte-array",
	TagArray:       "array",
	TagObjectArray: "object-array",
}

// Tags returns every tag that has a wire representation.
func Tags() []Tag {
	tags := tagTable
	return tags[:]
}

// Known reports whether t is one of the wire type codes.
func (t Tag) Known() bool {
	_, ok := tagNames[t]
	return ok
}

// Mixed reports whether t, used as a dictionary key or value tag, means that each entry
// carries its own tag.
func (t Tag) Mixed() bool {
	return t == TagMixed || t == TagNull
}

// String ...
func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	if t == TagMixed {
		return "mixed"
	}
	return fmt.Sprintf("unknown(0x%02x)", byte(t))
}
