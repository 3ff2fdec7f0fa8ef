package protocol

import "fmt"

// DiagnosticKind classifies a soft decoding failure.
type DiagnosticKind uint8

const (
	// DiagnosticUnknownTag is recorded for a tag byte outside the known set.
	DiagnosticUnknownTag DiagnosticKind = iota
	// DiagnosticOverrun is recorded when the grammar asked for more bytes than the buffer held.
	DiagnosticOverrun
	// DiagnosticTrailingBytes is recorded when a frame did not consume its whole buffer.
	DiagnosticTrailingBytes
	// DiagnosticDepthExceeded is recorded when values nest deeper than the decoder allows.
	DiagnosticDepthExceeded
	// DiagnosticNullKey is recorded when a map entry was dropped because its key was null.
	DiagnosticNullKey
	// DiagnosticCustomLength is recorded when a known custom variant declares a length that
	// differs from its layout.
	DiagnosticCustomLength
	// DiagnosticValueLimit is recorded when a buffer holds more values than the decoder builds.
	DiagnosticValueLimit
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagnosticUnknownTag:
		return "unknown tag"
	case DiagnosticOverrun:
		return "overrun"
	case DiagnosticTrailingBytes:
		return "not fully consumed"
	case DiagnosticDepthExceeded:
		return "depth exceeded"
	case DiagnosticNullKey:
		return "null key"
	case DiagnosticCustomLength:
		return "custom length mismatch"
	case DiagnosticValueLimit:
		return "value limit exceeded"
	default:
		return fmt.Sprintf("diagnostic(%d)", uint8(k))
	}
}

// Diagnostic describes a problem found while decoding that did not stop the decode.
type Diagnostic struct {
	Kind    DiagnosticKind
	Offset  int
	Tag     Tag
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s at offset %d: %s", d.Kind, d.Offset, d.Message)
}
