package session

import (
	"log/slog"

	"github.com/cooldogedev/photon/code"
	"github.com/cooldogedev/photon/packet"
	"github.com/scylladb/go-set/u8set"
)

// Filter is a Processor dropping requests and events by code, in both directions.
type Filter struct {
	operations *u8set.Set
	events     *u8set.Set
	logger     *slog.Logger
}

// NewFilter creates a Filter dropping the given operations and events. The sets are not changed after
// creation, so a Filter may be shared between sessions.
func NewFilter(operations []code.OperationCode, events []code.EventCode, logger *slog.Logger) *Filter {
	f := &Filter{
		operations: u8set.NewWithSize(len(operations)),
		events:     u8set.NewWithSize(len(events)),
		logger:     logger,
	}
	for _, op := range operations {
		f.operations.Add(uint8(op))
	}
	for _, event := range events {
		f.events.Add(uint8(event))
	}
	return f
}

// ProcessClient ...
func (f *Filter) ProcessClient(ctx *Context, pk *packet.Packet) {
	f.process(ctx, pk)
}

// ProcessServer ...
func (f *Filter) ProcessServer(ctx *Context, pk *packet.Packet) {
	f.process(ctx, pk)
}

func (f *Filter) process(ctx *Context, pk *packet.Packet) {
	switch {
	case pk.Kind == packet.KindRequest && f.operations.Has(uint8(pk.OpCode)):
	case pk.Kind == packet.KindEvent && f.events.Has(uint8(pk.EventCode)):
	default:
		return
	}
	ctx.Cancel()
	f.logger.Debug("filtered packet", "direction", ctx.Direction(), "packet", pk)
}
