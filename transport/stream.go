package transport

import (
	"io"
	"sync"

	"github.com/cooldogedev/photon/protocol"
)

// streamConn frames buffers on a byte stream with a u32 length prefix.
type streamConn struct {
	rwc  io.ReadWriteCloser
	addr string

	reader *protocol.Reader
	writer *protocol.Writer
	mu     sync.Mutex
}

// NewStreamConn adapts a byte stream into a Conn by length prefixing every buffer.
func NewStreamConn(rwc io.ReadWriteCloser, addr string) Conn {
	return &streamConn{
		rwc:    rwc,
		addr:   addr,
		reader: protocol.NewReader(rwc),
		writer: protocol.NewWriter(rwc),
	}
}

// ReadPacket ...
func (c *streamConn) ReadPacket() ([]byte, error) {
	return c.reader.ReadPacket()
}

// WritePacket ...
func (c *streamConn) WritePacket(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writer.Write(b)
}

// RemoteAddr ...
func (c *streamConn) RemoteAddr() string {
	return c.addr
}

// Close ...
func (c *streamConn) Close() error {
	return c.rwc.Close()
}
