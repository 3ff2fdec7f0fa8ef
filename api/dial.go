package api

import (
	"errors"
	"fmt"
	"net"

	"github.com/cooldogedev/photon/api/packet"
)

var (
	ErrConnectionFailed   = errors.New("api: connection failed")
	ErrUnauthorized       = errors.New("api: connection unauthorized")
	ErrUnsupportedVersion = errors.New("api: unsupported protocol version")
)

// Dial establishes a TCP connection to the specified API service address using the provided token.
// It returns a new Client instance if the connection and authentication are successful.
// Otherwise, it returns an error indicating the failure reason.
func Dial(addr, token string) (_ *Client, err error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}

	c := NewClient(conn, packet.NewPool())
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	if err := c.WritePacket(&packet.ConnectionRequest{Version: packet.Version, Token: token}); err != nil {
		return nil, err
	}

	connectionResponsePacket, err := c.ReadPacket()
	if err != nil {
		return nil, err
	}

	connectionResponse, ok := connectionResponsePacket.(*packet.ConnectionResponse)
	if !ok {
		return nil, fmt.Errorf("expected connection response, got %d", connectionResponsePacket.ID())
	}

	switch connectionResponse.Response {
	case packet.ResponseSuccess:
		return c, nil
	case packet.ResponseFail:
		return nil, ErrConnectionFailed
	case packet.ResponseUnauthorized:
		return nil, ErrUnauthorized
	case packet.ResponseUnsupportedVersion:
		return nil, ErrUnsupportedVersion
	default:
		return nil, fmt.Errorf("received an unknown response code %s", connectionResponse.Response)
	}
}
