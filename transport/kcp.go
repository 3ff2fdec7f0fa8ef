package transport

import (
	"context"
	"log/slog"

	"github.com/xtaci/kcp-go"
)

// KCP implements the Transport interface to establish connections to servers using the KCP protocol.
type KCP struct {
	logger *slog.Logger
}

// NewKCP creates a new KCP transport instance.
func NewKCP(logger *slog.Logger) *KCP {
	return &KCP{logger: logger}
}

// Dial ...
func (k *KCP) Dial(_ context.Context, addr string) (Conn, error) {
	conn, err := kcp.DialWithOptions(addr, nil, 10, 3)
	if err != nil {
		return nil, err
	}

	conn.SetNoDelay(1, 10, 2, 1)
	conn.SetStreamMode(true)
	k.logger.Debug("established connection", "addr", addr)
	return NewStreamConn(conn, addr), nil
}
