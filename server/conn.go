package server

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cooldogedev/photon/packet"
	"github.com/cooldogedev/photon/protocol"
	"github.com/cooldogedev/photon/transport"
)

// ErrClosed is returned when reading from or writing to a closed Conn.
var ErrClosed = errors.New("server: connection closed")

// Conn is a connection to a server. It is used to read and write packets to the server, and to manage the
// connection to the server.
type Conn struct {
	conn   transport.Conn
	logger *slog.Logger
	opts   []packet.Option

	closed    chan struct{}
	closeOnce sync.Once
}

// NewConn creates a new Conn reading and writing through conn.
func NewConn(conn transport.Conn, logger *slog.Logger, opts ...packet.Option) *Conn {
	return &Conn{
		conn:   conn,
		logger: logger,
		opts:   append([]packet.Option{packet.WithLogger(logger)}, opts...),
		closed: make(chan struct{}),
	}
}

// ReadPacket reads the next buffer from the server. It returns a *packet.Packet for Photon frames and the
// raw []byte for anything else, which is relayed without inspection.
func (c *Conn) ReadPacket() (any, error) {
	select {
	case <-c.closed:
		return nil, ErrClosed
	default:
	}

	payload, err := c.conn.ReadPacket()
	if err != nil {
		return nil, err
	}

	pk, err := packet.Decode(payload, c.opts...)
	if errors.Is(err, packet.ErrEmptyBuffer) || errors.Is(err, packet.ErrUnknownMagic) {
		c.logger.Debug("received non photon buffer", "len", len(payload), "err", err)
		return payload, nil
	}
	if err != nil {
		return nil, err
	}
	return pk, nil
}

// WritePacket encodes pk and writes it to the connection.
func (c *Conn) WritePacket(pk *packet.Packet) error {
	s := protocol.AcquireSink()
	defer protocol.ReleaseSink(s)

	if err := pk.AppendTo(s); err != nil {
		return fmt.Errorf("failed to encode %s: %w", pk.Kind, err)
	}
	return c.Write(s.Bytes())
}

// Write writes a raw buffer to the connection.
func (c *Conn) Write(b []byte) error {
	select {
	case <-c.closed:
		return ErrClosed
	default:
		return c.conn.WritePacket(b)
	}
}

// RemoteAddr ...
func (c *Conn) RemoteAddr() string {
	return c.conn.RemoteAddr()
}

// Close ...
func (c *Conn) Close() (err error) {
	c.closeOnce.Do(func() {
		close(c.closed)
		err = c.conn.Close()
	})
	return
}
