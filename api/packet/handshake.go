package packet

import (
	"bytes"
	"fmt"
)

// Version is the revision of the admin protocol. It is sent with every ConnectionRequest and
// connections announcing another revision are refused.
const Version uint8 = 1

// ResponseCode is the outcome of a ConnectionRequest.
type ResponseCode uint8

const (
	ResponseSuccess ResponseCode = iota
	ResponseUnauthorized
	ResponseFail
	ResponseUnsupportedVersion
)

func (c ResponseCode) String() string {
	switch c {
	case ResponseSuccess:
		return "success"
	case ResponseUnauthorized:
		return "unauthorized"
	case ResponseFail:
		return "fail"
	case ResponseUnsupportedVersion:
		return "unsupported version"
	default:
		return fmt.Sprintf("response(%d)", uint8(c))
	}
}

// ConnectionRequest opens every admin connection.
type ConnectionRequest struct {
	Version uint8
	Token   string
}

// ID ...
func (pk *ConnectionRequest) ID() uint32 {
	return IDConnectionRequest
}

// Encode ...
func (pk *ConnectionRequest) Encode(buf *bytes.Buffer) {
	buf.WriteByte(pk.Version)
	WriteString(buf, pk.Token)
}

// Decode ...
func (pk *ConnectionRequest) Decode(buf *bytes.Buffer) {
	pk.Version, _ = buf.ReadByte()
	pk.Token = ReadString(buf)
}

// ConnectionResponse answers a ConnectionRequest. Only a ResponseSuccess keeps the connection open.
type ConnectionResponse struct {
	Response ResponseCode
}

// ID ...
func (pk *ConnectionResponse) ID() uint32 {
	return IDConnectionResponse
}

// Encode ...
func (pk *ConnectionResponse) Encode(buf *bytes.Buffer) {
	buf.WriteByte(uint8(pk.Response))
}

// Decode ...
func (pk *ConnectionResponse) Decode(buf *bytes.Buffer) {
	b, _ := buf.ReadByte()
	pk.Response = ResponseCode(b)
}
