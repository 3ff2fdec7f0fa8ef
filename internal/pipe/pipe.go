// Package pipe provides an in-memory, buffered transport.Conn pair.
package pipe

import (
	"bytes"
	"io"
	"sync"
)

// Conn is one end of a pipe.
type Conn struct {
	addr string
	in   chan []byte
	out  chan []byte

	closed    chan struct{}
	peer      *Conn
	closeOnce sync.Once
}

// New returns two connected ends. Writes never block until size buffers are queued.
func New(size int) (*Conn, *Conn) {
	ab, ba := make(chan []byte, size), make(chan []byte, size)
	a := &Conn{addr: "pipe-a", in: ba, out: ab, closed: make(chan struct{})}
	b := &Conn{addr: "pipe-b", in: ab, out: ba, closed: make(chan struct{})}
	a.peer, b.peer = b, a
	return a, b
}

// ReadPacket ...
func (c *Conn) ReadPacket() ([]byte, error) {
	select {
	case b := <-c.in:
		return b, nil
	case <-c.closed:
		return nil, io.EOF
	case <-c.peer.closed:
		select {
		case b := <-c.in:
			return b, nil
		default:
			return nil, io.EOF
		}
	}
}

// WritePacket ...
func (c *Conn) WritePacket(b []byte) error {
	select {
	case <-c.closed:
		return io.ErrClosedPipe
	case <-c.peer.closed:
		return io.ErrClosedPipe
	case c.out <- bytes.Clone(b):
		return nil
	}
}

// RemoteAddr ...
func (c *Conn) RemoteAddr() string {
	return c.peer.addr
}

// Close ...
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
	return nil
}
