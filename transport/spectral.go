package transport

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/cooldogedev/spectral"
)

// Spectral implements the Transport interface to establish connections to servers using Spectral.
// Like QUIC it multiplexes sessions as streams over one connection per server.
type Spectral struct {
	connections map[string]spectral.Connection
	logger      *slog.Logger
	mu          sync.Mutex
}

// NewSpectral creates a new Spectral transport instance.
func NewSpectral(logger *slog.Logger) *Spectral {
	return &Spectral{
		connections: make(map[string]spectral.Connection),
		logger:      logger,
	}
}

// Dial ...
func (s *Spectral) Dial(ctx context.Context, addr string) (Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conn, ok := s.connections[addr]
	if !ok {
		c, err := spectral.Dial(ctx, addr)
		if err != nil {
			return nil, err
		}
		conn = c
		s.connections[addr] = conn
		s.logger.Debug("established connection", "addr", addr)
		go watch(conn.Context(), s.logger, addr, func() {
			s.mu.Lock()
			delete(s.connections, addr)
			s.mu.Unlock()
		})
	}

	stream, err := conn.OpenStream(ctx)
	if err != nil {
		_ = conn.CloseWithError(0, "failed to open stream")
		return nil, err
	}
	return NewStreamConn(stream, addr), nil
}

// watch waits for a multiplexed connection to end and forgets it.
func watch(ctx context.Context, logger *slog.Logger, addr string, forget func()) {
	<-ctx.Done()
	forget()
	if err := context.Cause(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("closed connection", "addr", addr, "err", err)
	} else {
		logger.Debug("closed connection", "addr", addr)
	}
}
