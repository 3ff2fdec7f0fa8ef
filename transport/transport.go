package transport

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Conn is a message oriented connection. Every ReadPacket returns exactly one buffer that the
// peer passed to a single WritePacket call.
type Conn interface {
	// ReadPacket blocks until the next buffer arrives.
	ReadPacket() ([]byte, error)
	// WritePacket sends b as a single buffer. It is safe for concurrent use.
	WritePacket(b []byte) error
	// RemoteAddr returns the address of the peer.
	RemoteAddr() string
	// Close closes the connection.
	Close() error
}

// Transport defines an interface for establishing server connections.
type Transport interface {
	// Dial connects to the specified address and returns a Conn.
	// It returns an error if the connection cannot be established.
	Dial(ctx context.Context, addr string) (Conn, error)
}

// Kinds lists the names accepted by New.
var Kinds = []string{"websocket", "tcp", "quic", "kcp", "raknet", "spectral"}

// New creates the transport registered under kind.
func New(kind string, logger *slog.Logger) (Transport, error) {
	switch strings.ToLower(kind) {
	case "websocket", "ws", "wss":
		return NewWebSocket(logger), nil
	case "tcp":
		return NewTCP(), nil
	case "quic":
		return NewQUIC(logger), nil
	case "kcp":
		return NewKCP(logger), nil
	case "raknet":
		return NewRakNet(logger), nil
	case "spectral":
		return NewSpectral(logger), nil
	default:
		return nil, fmt.Errorf("transport: unknown kind %q, expected one of %s", kind, strings.Join(Kinds, ", "))
	}
}
