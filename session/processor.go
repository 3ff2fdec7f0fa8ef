package session

import "github.com/cooldogedev/photon/packet"

// Processor inspects, changes or drops the packets relayed by a session. Its methods are called from the
// goroutine reading the respective side, so ProcessClient and ProcessServer may run concurrently.
type Processor interface {
	// ProcessClient is called for every Photon packet the client sends.
	ProcessClient(ctx *Context, pk *packet.Packet)
	// ProcessServer is called for every Photon packet the server sends.
	ProcessServer(ctx *Context, pk *packet.Packet)
}

// NopProcessor relays every packet untouched.
type NopProcessor struct{}

// ProcessClient ...
func (NopProcessor) ProcessClient(*Context, *packet.Packet) {}

// ProcessServer ...
func (NopProcessor) ProcessServer(*Context, *packet.Packet) {}

// Chain runs processors in order until one of them cancels the packet.
type Chain []Processor

// ProcessClient ...
func (c Chain) ProcessClient(ctx *Context, pk *packet.Packet) {
	for _, p := range c {
		if p.ProcessClient(ctx, pk); ctx.Cancelled() {
			return
		}
	}
}

// ProcessServer ...
func (c Chain) ProcessServer(ctx *Context, pk *packet.Packet) {
	for _, p := range c {
		if p.ProcessServer(ctx, pk); ctx.Cancelled() {
			return
		}
	}
}
