package session

import (
	"testing"

	"github.com/cooldogedev/photon/code"
	"github.com/cooldogedev/photon/packet"
)

type counter struct {
	client, server int
	cancel         bool
}

func (c *counter) ProcessClient(ctx *Context, _ *packet.Packet) {
	c.client++
	if c.cancel {
		ctx.Cancel()
	}
}

func (c *counter) ProcessServer(ctx *Context, _ *packet.Packet) {
	c.server++
	if c.cancel {
		ctx.Cancel()
	}
}

func TestChainStopsAtCancel(t *testing.T) {
	first, second, third := &counter{}, &counter{cancel: true}, &counter{}
	chain := Chain{first, second, third}

	ctx := NewContext(packet.FromClient)
	chain.ProcessClient(ctx, packet.NewRequest(code.OperationJoin))
	if !ctx.Cancelled() {
		t.Fatal("packet was not cancelled")
	}
	if first.client != 1 || second.client != 1 || third.client != 0 {
		t.Errorf("calls = %d, %d, %d; want 1, 1, 0", first.client, second.client, third.client)
	}

	chain.ProcessServer(NewContext(packet.FromServer), packet.NewEvent(code.EventJoin))
	if first.server != 1 || third.server != 0 {
		t.Errorf("server calls = %d, %d; want 1, 0", first.server, third.server)
	}
}

func TestFilterCodes(t *testing.T) {
	filter := NewFilter([]code.OperationCode{code.OperationLeave}, []code.EventCode{code.EventGameList}, logger)
	tests := []struct {
		name string
		pk   *packet.Packet
		drop bool
	}{
		{"filtered operation", packet.NewRequest(code.OperationLeave), true},
		{"other operation", packet.NewRequest(code.OperationJoin), false},
		{"filtered event", packet.NewEvent(code.EventGameList), true},
		{"other event", packet.NewEvent(code.EventLeave), false},
		{"response", packet.NewResponse(0, ""), false},
		{"ping", packet.NewPing(1, 2), false},
	}
	for _, tt := range tests {
		ctx := NewContext(packet.FromServer)
		filter.ProcessServer(ctx, tt.pk)
		if ctx.Cancelled() != tt.drop {
			t.Errorf("%s: cancelled = %t; want %t", tt.name, ctx.Cancelled(), tt.drop)
		}
	}
}

func TestTrackerClear(t *testing.T) {
	tracker := NewTracker()
	tracker.handlePacket(packet.NewEvent(code.EventJoin).AddParam(code.ParameterActorNr, nil))
	tracker.handlePacket(packet.NewEvent(code.EventLeave))
	tracker.handlePacket(packet.NewPing(1, 1))

	if events := tracker.Events(); len(events) != 2 || events[0] != code.EventLeave || events[1] != code.EventJoin {
		t.Errorf("Events() = %v", events)
	}
	if params := tracker.Parameters(); len(params) != 1 || params[0] != code.ParameterActorNr {
		t.Errorf("Parameters() = %v", params)
	}

	tracker.Clear()
	if len(tracker.Events()) != 0 || len(tracker.Parameters()) != 0 {
		t.Errorf("tracker is not empty after Clear")
	}
}
