package protocol

import "errors"

var (
	ErrUnencodable = errors.New("protocol: value cannot be encoded")
	ErrNilValue    = errors.New("protocol: nil value")
	ErrTagMismatch = errors.New("protocol: value tag does not match declared tag")
	ErrTooLarge    = errors.New("protocol: collection too large for its length prefix")
)
