package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/cooldogedev/photon/code"
	"github.com/cooldogedev/photon/internal/pipe"
	"github.com/cooldogedev/photon/packet"
	"github.com/cooldogedev/photon/protocol"
	"github.com/cooldogedev/photon/transport"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

type pipeTransport struct {
	server *pipe.Conn
	addr   string
}

func (p *pipeTransport) Dial(_ context.Context, addr string) (transport.Conn, error) {
	client, server := pipe.New(8)
	p.server, p.addr = server, addr
	return client, nil
}

func TestConnReadPacket(t *testing.T) {
	client, server := pipe.New(8)
	c := NewConn(client, logger)
	defer c.Close()

	ping, _ := packet.NewPing(1, 2).Encode()
	_ = server.WritePacket(ping)
	_ = server.WritePacket([]byte("not photon"))

	v, err := c.ReadPacket()
	if err != nil {
		t.Fatalf("ReadPacket: %v", err)
	}
	pk, ok := v.(*packet.Packet)
	if !ok || pk.Kind != packet.KindTimed || pk.ClientTime != 2 {
		t.Fatalf("ReadPacket = %v; want a timed packet", v)
	}

	v, err = c.ReadPacket()
	if err != nil {
		t.Fatalf("ReadPacket: %v", err)
	}
	if raw, ok := v.([]byte); !ok || string(raw) != "not photon" {
		t.Fatalf("ReadPacket = %v; want the raw buffer", v)
	}
}

func TestConnWritePacket(t *testing.T) {
	client, server := pipe.New(8)
	c := NewConn(client, logger)

	pk := packet.NewRequest(code.OperationRaiseEvent).AddParam(code.ParameterEventCode, protocol.Byte(200))
	if err := c.WritePacket(pk); err != nil {
		t.Fatalf("WritePacket: %v", err)
	}
	got, err := server.ReadPacket()
	if err != nil {
		t.Fatalf("ReadPacket: %v", err)
	}
	want, _ := pk.Encode()
	if !bytes.Equal(got, want) {
		t.Errorf("server received % x; want % x", got, want)
	}

	if err := c.WritePacket(&packet.Packet{Kind: packet.KindOpaque}); !errors.Is(err, packet.ErrOpaque) {
		t.Errorf("WritePacket opaque = %v; want %v", err, packet.ErrOpaque)
	}

	_ = c.Close()
	if err := c.Write([]byte{0xF0}); !errors.Is(err, ErrClosed) {
		t.Errorf("Write after Close = %v; want %v", err, ErrClosed)
	}
	if _, err := c.ReadPacket(); !errors.Is(err, ErrClosed) {
		t.Errorf("ReadPacket after Close = %v; want %v", err, ErrClosed)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}
}

func TestDialer(t *testing.T) {
	tr := &pipeTransport{}
	c, err := Dialer{Transport: tr, Logger: logger}.Dial(context.Background(), "game:5055")
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()

	if tr.addr != "game:5055" {
		t.Errorf("dialed %q", tr.addr)
	}
	if err := c.Write([]byte{0xF0, 0, 0, 0, 0, 0, 0, 0, 0}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := tr.server.ReadPacket(); err != nil {
		t.Errorf("server ReadPacket: %v", err)
	}
}

func TestStaticDiscovery(t *testing.T) {
	d := NewStaticDiscovery("primary:5055", "fallback:5055")
	if addr, _ := d.Discover("1.2.3.4:1"); addr != "primary:5055" {
		t.Errorf("Discover = %q", addr)
	}
	if addr, _ := d.DiscoverFallback("1.2.3.4:1"); addr != "fallback:5055" {
		t.Errorf("DiscoverFallback = %q", addr)
	}

	d = NewStaticDiscovery("primary:5055", "")
	if _, err := d.DiscoverFallback("1.2.3.4:1"); !errors.Is(err, ErrNoFallback) {
		t.Errorf("DiscoverFallback error = %v; want %v", err, ErrNoFallback)
	}
}
