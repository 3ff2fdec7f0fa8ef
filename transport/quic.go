package transport

import (
	"context"
	"crypto/tls"
	"log/slog"
	"sync"
	"time"

	"github.com/quic-go/quic-go"
	"github.com/quic-go/quic-go/qlog"
)

// QUIC implements the Transport interface to establish connections to servers using the QUIC protocol.
// It keeps a single connection per server and opens a stream for every dial, each stream
// carrying the length prefixed buffers of one session.
type QUIC struct {
	connections map[string]quic.Connection
	logger      *slog.Logger
	mu          sync.Mutex
}

// NewQUIC creates a new QUIC transport instance.
func NewQUIC(logger *slog.Logger) *QUIC {
	return &QUIC{
		connections: make(map[string]quic.Connection),
		logger:      logger,
	}
}

// Dial ...
func (q *QUIC) Dial(ctx context.Context, addr string) (Conn, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	conn, ok := q.connections[addr]
	if !ok {
		c, err := quic.DialAddr(
			ctx,
			addr,
			&tls.Config{
				InsecureSkipVerify: true,
				NextProtos:         []string{"photon"},
			},
			&quic.Config{
				MaxIdleTimeout:                 time.Second * 10,
				InitialStreamReceiveWindow:     1024 * 1024 * 10,
				InitialConnectionReceiveWindow: 1024 * 1024 * 10,
				KeepAlivePeriod:                time.Second * 5,
				Tracer:                         qlog.DefaultConnectionTracer,
			},
		)
		if err != nil {
			return nil, err
		}
		conn = c
		q.connections[addr] = conn
		q.logger.Debug("established connection", "addr", addr)
		go watch(conn.Context(), q.logger, addr, func() {
			q.mu.Lock()
			delete(q.connections, addr)
			q.mu.Unlock()
		})
	}

	stream, err := conn.OpenStreamSync(ctx)
	if err != nil {
		_ = conn.CloseWithError(0, "failed to open stream")
		return nil, err
	}
	return NewStreamConn(stream, addr), nil
}
