package transport

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/cooldogedev/photon/protocol"
	"github.com/gorilla/websocket"
)

// DefaultSubprotocols are the websocket subprotocols Photon clients offer.
var DefaultSubprotocols = []string{"GpBinaryV16", "GpBinaryV18"}

// ErrTextMessage is returned when a websocket peer sends a text frame, which Photon never uses.
var ErrTextMessage = errors.New("transport: unexpected websocket text message")

// WebSocket implements the Transport interface to establish connections to servers over websockets,
// the transport browser Photon clients use. Every binary message carries one buffer.
type WebSocket struct {
	dialer       *websocket.Dialer
	subprotocols []string
	logger       *slog.Logger
}

// NewWebSocket creates a new WebSocket transport instance.
func NewWebSocket(logger *slog.Logger) *WebSocket {
	return &WebSocket{
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: time.Second * 10,
			ReadBufferSize:   1024 * 16,
			WriteBufferSize:  1024 * 16,
		},
		subprotocols: DefaultSubprotocols,
		logger:       logger,
	}
}

// WithSubprotocols sets the subprotocols offered when dialing.
func (w *WebSocket) WithSubprotocols(subprotocols []string) *WebSocket {
	if len(subprotocols) > 0 {
		w.subprotocols = subprotocols
	}
	return w
}

// Dial connects to addr, a ws:// or wss:// URL.
func (w *WebSocket) Dial(ctx context.Context, addr string) (Conn, error) {
	dialer := *w.dialer
	dialer.Subprotocols = w.subprotocols
	conn, _, err := dialer.DialContext(ctx, addr, nil)
	if err != nil {
		return nil, err
	}

	w.logger.Debug("established connection", "addr", addr, "subprotocol", conn.Subprotocol())
	return NewWebSocketConn(conn), nil
}

type webSocketConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// NewWebSocketConn wraps a websocket connection, dialed or accepted. Messages larger than
// protocol.MaxPacketSize are rejected.
func NewWebSocketConn(conn *websocket.Conn) Conn {
	conn.SetReadLimit(protocol.MaxPacketSize)
	return &webSocketConn{conn: conn}
}

// ReadPacket ...
func (c *webSocketConn) ReadPacket() ([]byte, error) {
	typ, b, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	if typ != websocket.BinaryMessage {
		return nil, ErrTextMessage
	}
	return b, nil
}

// WritePacket ...
func (c *webSocketConn) WritePacket(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.BinaryMessage, b)
}

// RemoteAddr ...
func (c *webSocketConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

// Close sends a close frame before closing the connection.
func (c *webSocketConn) Close() error {
	c.mu.Lock()
	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	c.mu.Unlock()
	return c.conn.Close()
}
