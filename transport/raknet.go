package transport

import (
	"context"
	"log/slog"

	"github.com/sandertv/go-raknet"
)

// RakNet implements the Transport interface to establish connections to servers using RakNet.
// RakNet preserves message boundaries, so buffers are sent as they are.
type RakNet struct {
	logger *slog.Logger
}

// NewRakNet creates a new RakNet transport instance.
func NewRakNet(logger *slog.Logger) *RakNet {
	return &RakNet{logger: logger}
}

// Dial ...
func (r *RakNet) Dial(ctx context.Context, addr string) (Conn, error) {
	conn, err := raknet.DialContext(ctx, addr)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("established connection", "addr", addr)
	return &rakNetConn{conn: conn}, nil
}

type rakNetConn struct {
	conn *raknet.Conn
}

// ReadPacket ...
func (c *rakNetConn) ReadPacket() ([]byte, error) {
	return c.conn.ReadPacket()
}

// WritePacket ...
func (c *rakNetConn) WritePacket(b []byte) error {
	_, err := c.conn.Write(b)
	return err
}

// RemoteAddr ...
func (c *rakNetConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

// Close ...
func (c *rakNetConn) Close() error {
	return c.conn.Close()
}
