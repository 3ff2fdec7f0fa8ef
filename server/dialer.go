package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/cooldogedev/photon/packet"
	"github.com/cooldogedev/photon/transport"
)

// Dialer connects sessions to servers through a Transport.
type Dialer struct {
	Transport transport.Transport
	Logger    *slog.Logger
	// Timeout bounds a single dial. Zero means no timeout beyond the context's own.
	Timeout time.Duration
	// Options are applied when decoding buffers received from the server.
	Options []packet.Option
}

// Dial connects to the server at addr.
func (d Dialer) Dial(ctx context.Context, addr string) (*Conn, error) {
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := d.Transport.Dial(ctx, addr)
	if err != nil {
		return nil, err
	}
	return NewConn(conn, logger.With("server", addr), d.Options...), nil
}
