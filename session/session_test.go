package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/cooldogedev/photon/code"
	"github.com/cooldogedev/photon/internal/pipe"
	"github.com/cooldogedev/photon/packet"
	"github.com/cooldogedev/photon/protocol"
	"github.com/cooldogedev/photon/server"
	"github.com/cooldogedev/photon/transport"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

var errRefused = errors.New("connection refused")

// pipeTransport hands out in-memory connections and exposes the server end of every dial.
type pipeTransport struct {
	mu      sync.Mutex
	servers map[string]chan *pipe.Conn
	refused map[string]bool
}

func newPipeTransport() *pipeTransport {
	return &pipeTransport{servers: make(map[string]chan *pipe.Conn), refused: make(map[string]bool)}
}

func (p *pipeTransport) queue(addr string) chan *pipe.Conn {
	p.mu.Lock()
	defer p.mu.Unlock()
	ch, ok := p.servers[addr]
	if !ok {
		ch = make(chan *pipe.Conn, 4)
		p.servers[addr] = ch
	}
	return ch
}

func (p *pipeTransport) Dial(_ context.Context, addr string) (transport.Conn, error) {
	p.mu.Lock()
	refused := p.refused[addr]
	p.mu.Unlock()
	if refused {
		return nil, errRefused
	}

	client, server := pipe.New(16)
	p.queue(addr) <- server
	return client, nil
}

func (p *pipeTransport) server(t *testing.T, addr string) *pipe.Conn {
	t.Helper()
	select {
	case conn := <-p.queue(addr):
		return conn
	case <-time.After(2 * time.Second):
		t.Fatalf("%s was never dialed", addr)
		return nil
	}
}

func readTimeout(t *testing.T, conn *pipe.Conn) []byte {
	t.Helper()
	type result struct {
		b   []byte
		err error
	}
	ch := make(chan result, 1)
	go func() {
		b, err := conn.ReadPacket()
		ch <- result{b, err}
	}()
	select {
	case r := <-ch:
		if r.err != nil {
			t.Fatalf("ReadPacket: %v", r.err)
		}
		return r.b
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a packet")
		return nil
	}
}

func encode(t *testing.T, pk *packet.Packet) []byte {
	t.Helper()
	b, err := pk.Encode()
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func startSession(t *testing.T, config Config) (*Session, *pipe.Conn, *pipeTransport) {
	t.Helper()
	tr := newPipeTransport()
	client, relay := pipe.New(16)
	config.Dialer = server.Dialer{Transport: tr, Logger: logger}
	if config.Discovery == nil {
		config.Discovery = server.NewStaticDiscovery("primary", "fallback")
	}
	if config.Registry == nil {
		config.Registry = NewRegistry()
	}
	config.Logger = logger

	s := NewSession(relay, config)
	if err := s.Login(context.Background()); err != nil {
		t.Fatalf("Login: %v", err)
	}
	t.Cleanup(s.Close)
	return s, client, tr
}

func raiseEvent(event byte) *packet.Packet {
	return packet.NewRequest(code.OperationRaiseEvent).
		AddParam(code.ParameterEventCode, protocol.Byte(event)).
		AddParam(code.ParameterData, protocol.ObjectArray{protocol.String("hi")})
}

func TestRelayOriginalBytes(t *testing.T) {
	_, client, tr := startSession(t, Config{})
	upstream := tr.server(t, "primary")

	// A bool written as 0x02 decodes as true and would encode again as 0x01.
	request := []byte{0xF3, 0x02, 0xFD, 0x00, 0x01, 0xF5, 0x6F, 0x02}
	if err := client.WritePacket(request); err != nil {
		t.Fatal(err)
	}
	if got := readTimeout(t, upstream); !bytes.Equal(got, request) {
		t.Errorf("server received % x; want % x", got, request)
	}

	event := encode(t, packet.NewEvent(code.EventJoin).AddParam(code.ParameterActorNr, protocol.Integer(3)))
	if err := upstream.WritePacket(event); err != nil {
		t.Fatal(err)
	}
	if got := readTimeout(t, client); !bytes.Equal(got, event) {
		t.Errorf("client received % x; want % x", got, event)
	}

	for _, raw := range [][]byte{[]byte("hello"), {}} {
		if err := client.WritePacket(raw); err != nil {
			t.Fatal(err)
		}
		if got := readTimeout(t, upstream); !bytes.Equal(got, raw) {
			t.Errorf("server received % x; want % x", got, raw)
		}
	}
}

func TestFilter(t *testing.T) {
	filter := NewFilter([]code.OperationCode{code.OperationRaiseEvent}, []code.EventCode{code.EventLeave}, logger)
	_, client, tr := startSession(t, Config{Processor: filter})
	upstream := tr.server(t, "primary")

	join := encode(t, packet.NewRequest(code.OperationJoin))
	_ = client.WritePacket(encode(t, raiseEvent(1)))
	_ = client.WritePacket(join)
	if got := readTimeout(t, upstream); !bytes.Equal(got, join) {
		t.Errorf("server received % x; want the join request", got)
	}

	joined := encode(t, packet.NewEvent(code.EventJoin))
	_ = upstream.WritePacket(encode(t, packet.NewEvent(code.EventLeave)))
	_ = upstream.WritePacket(joined)
	if got := readTimeout(t, client); !bytes.Equal(got, joined) {
		t.Errorf("client received % x; want the join event", got)
	}
}

type rewriter struct {
	NopProcessor
}

func (rewriter) ProcessServer(_ *Context, pk *packet.Packet) {
	if pk.Kind == packet.KindEvent {
		pk.SetParam(code.ParameterActorNr, protocol.Integer(99))
	}
}

func TestProcessorModifies(t *testing.T) {
	_, client, tr := startSession(t, Config{Processor: rewriter{}})
	upstream := tr.server(t, "primary")

	_ = upstream.WritePacket(encode(t, packet.NewEvent(code.EventJoin).AddParam(code.ParameterActorNr, protocol.Integer(3))))
	pk, err := packet.Decode(readTimeout(t, client))
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := pk.Param(code.ParameterActorNr); !ok || !protocol.Equal(v, protocol.Integer(99)) {
		t.Errorf("ActorNr = %v; want 99", v)
	}
}

type flagger struct {
	NopProcessor
}

func (flagger) ProcessClient(ctx *Context, pk *packet.Packet) {
	if pk.Kind == packet.KindRequest {
		pk.OpCode = code.OperationLeave
		ctx.MarkModified()
	}
}

func TestContextMarkModified(t *testing.T) {
	_, client, tr := startSession(t, Config{Processor: flagger{}})
	upstream := tr.server(t, "primary")

	_ = client.WritePacket(encode(t, packet.NewRequest(code.OperationJoin)))
	want := encode(t, packet.NewRequest(code.OperationLeave))
	if got := readTimeout(t, upstream); !bytes.Equal(got, want) {
		t.Errorf("server received % x; want % x", got, want)
	}
}

func TestSend(t *testing.T) {
	s, client, tr := startSession(t, Config{})
	upstream := tr.server(t, "primary")

	announcement := raiseEvent(7)
	if err := s.SendServer(announcement); err != nil {
		t.Fatal(err)
	}
	if got := readTimeout(t, upstream); !bytes.Equal(got, encode(t, announcement)) {
		t.Errorf("server received % x", got)
	}

	event := packet.NewEvent(code.EventPropertiesChanged)
	if err := s.SendClient(event); err != nil {
		t.Fatal(err)
	}
	if got := readTimeout(t, client); !bytes.Equal(got, encode(t, event)) {
		t.Errorf("client received % x", got)
	}

	if err := s.SendClient(&packet.Packet{Kind: packet.KindOpaque}); !errors.Is(err, packet.ErrOpaque) {
		t.Errorf("SendClient() error = %v; want ErrOpaque", err)
	}
}

func TestTransfer(t *testing.T) {
	s, client, tr := startSession(t, Config{})
	primary := tr.server(t, "primary")

	if err := s.Transfer("primary"); !errors.Is(err, ErrAlreadyConnected) {
		t.Errorf("Transfer(primary) error = %v; want ErrAlreadyConnected", err)
	}

	tr.refused["down"] = true
	if err := s.Transfer("down"); !errors.Is(err, errRefused) {
		t.Errorf("Transfer(down) error = %v; want %v", err, errRefused)
	}
	if s.ServerAddr() != "primary" {
		t.Fatalf("ServerAddr() = %q after a failed transfer", s.ServerAddr())
	}

	if err := s.Transfer("lobby"); err != nil {
		t.Fatal(err)
	}
	lobby := tr.server(t, "lobby")
	if _, err := primary.ReadPacket(); !errors.Is(err, io.EOF) {
		t.Errorf("primary ReadPacket() error = %v; want io.EOF", err)
	}

	join := encode(t, packet.NewRequest(code.OperationJoin))
	_ = client.WritePacket(join)
	if got := readTimeout(t, lobby); !bytes.Equal(got, join) {
		t.Errorf("lobby received % x", got)
	}
}

func TestFallback(t *testing.T) {
	s, client, tr := startSession(t, Config{})
	primary := tr.server(t, "primary")
	_ = primary.Close()

	fallback := tr.server(t, "fallback")
	event := encode(t, packet.NewEvent(code.EventJoin))
	_ = fallback.WritePacket(event)
	if got := readTimeout(t, client); !bytes.Equal(got, event) {
		t.Errorf("client received % x", got)
	}
	if s.ServerAddr() != "fallback" {
		t.Errorf("ServerAddr() = %q; want fallback", s.ServerAddr())
	}

	// Losing the fallback server as well ends the session.
	_ = fallback.Close()
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session was not closed")
	}
}

func TestNoFallbackClosesSession(t *testing.T) {
	s, _, tr := startSession(t, Config{Discovery: server.NewStaticDiscovery("primary", "")})
	_ = tr.server(t, "primary").Close()

	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session was not closed")
	}
	if n := len(tr.queue("")); n != 0 {
		t.Errorf("dialed an empty fallback address %d times", n)
	}
}

func TestClientPingLatency(t *testing.T) {
	s, client, tr := startSession(t, Config{})
	upstream := tr.server(t, "primary")

	ping := encode(t, packet.NewPing(0, 7))
	_ = client.WritePacket(ping)
	if got := readTimeout(t, upstream); !bytes.Equal(got, ping) {
		t.Fatalf("server received % x", got)
	}

	time.Sleep(5 * time.Millisecond)
	pong := encode(t, packet.NewPing(1000, 7))
	_ = upstream.WritePacket(pong)
	if got := readTimeout(t, client); !bytes.Equal(got, pong) {
		t.Fatalf("client received % x", got)
	}
	if s.Latency() < 5*time.Millisecond {
		t.Errorf("Latency() = %v; want at least 5ms", s.Latency())
	}
}

func TestRelayPingIsNotForwarded(t *testing.T) {
	s, client, tr := startSession(t, Config{LatencyInterval: 10 * time.Millisecond})
	upstream := tr.server(t, "primary")

	pk, err := packet.Decode(readTimeout(t, upstream))
	if err != nil || pk.Kind != packet.KindTimed {
		t.Fatalf("server received %v, %v; want a ping", pk, err)
	}
	_ = upstream.WritePacket(encode(t, packet.NewPing(1, pk.ClientTime)))

	event := encode(t, packet.NewEvent(code.EventJoin))
	_ = upstream.WritePacket(event)
	if got := readTimeout(t, client); !bytes.Equal(got, event) {
		t.Errorf("client received % x; want the event", got)
	}
	if s.Latency() == 0 {
		t.Errorf("Latency() = 0 after an echoed ping")
	}
}

func TestClientPingKeepsPendingRelayPing(t *testing.T) {
	s, client, tr := startSession(t, Config{})
	upstream := tr.server(t, "primary")
	if !s.trackPing(7, true) {
		t.Fatal("trackPing refused a fresh relay ping")
	}

	ping := encode(t, packet.NewPing(0, 7))
	_ = client.WritePacket(ping)
	if got := readTimeout(t, upstream); !bytes.Equal(got, ping) {
		t.Fatalf("server received % x", got)
	}

	// The first echo answers the relay's ping, the second one the client's.
	_ = upstream.WritePacket(encode(t, packet.NewPing(1, 7)))
	pong := encode(t, packet.NewPing(2, 7))
	_ = upstream.WritePacket(pong)
	if got := readTimeout(t, client); !bytes.Equal(got, pong) {
		t.Errorf("client received % x; want only the echo of its own ping", got)
	}
}

type memoryRecorder struct {
	mu      sync.Mutex
	records []packet.Direction
}

func (m *memoryRecorder) Record(direction packet.Direction, _ []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, direction)
	return nil
}

func TestRecorderAndTracker(t *testing.T) {
	recorder := &memoryRecorder{}
	s, client, tr := startSession(t, Config{Recorder: recorder})
	upstream := tr.server(t, "primary")

	_ = client.WritePacket(encode(t, raiseEvent(1)))
	readTimeout(t, upstream)
	_ = upstream.WritePacket(encode(t, packet.NewResponse(32758, "").AddParam(code.ParameterInfo, protocol.Null{})))
	readTimeout(t, client)

	recorder.mu.Lock()
	records := append([]packet.Direction(nil), recorder.records...)
	recorder.mu.Unlock()
	if len(records) != 2 || records[0] != packet.FromClient || records[1] != packet.FromServer {
		t.Errorf("records = %v", records)
	}

	tracker := s.Tracker()
	if ops := tracker.Operations(); len(ops) != 1 || ops[0] != code.OperationRaiseEvent {
		t.Errorf("Operations() = %v", ops)
	}
	if params := tracker.Parameters(); len(params) != 3 || params[0] != code.ParameterInfo {
		t.Errorf("Parameters() = %v", params)
	}
	if rc := tracker.ReturnCodes(); len(rc) != 1 || rc[0] != 32758 {
		t.Errorf("ReturnCodes() = %v", rc)
	}
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	s, client, _ := startSession(t, Config{Registry: registry})

	if registry.GetSession(s.ID()) != s || registry.Len() != 1 {
		t.Fatalf("session was not registered")
	}
	if registry.GetSessionByAddr(s.Client().RemoteAddr()) != s {
		t.Errorf("GetSessionByAddr did not find the session")
	}

	_ = client.Close()
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session was not closed after the client left")
	}
	s.Close()
	if registry.GetSession(s.ID()) != nil || len(registry.GetSessions()) != 0 {
		t.Errorf("session is still registered after Close")
	}
}

func TestLoginFailure(t *testing.T) {
	tr := newPipeTransport()
	tr.refused["primary"] = true
	client, relay := pipe.New(1)
	registry := NewRegistry()
	s := NewSession(relay, Config{
		Dialer:    server.Dialer{Transport: tr},
		Discovery: server.NewStaticDiscovery("primary", ""),
		Registry:  registry,
		Logger:    logger,
	})
	if err := s.Login(context.Background()); !errors.Is(err, errRefused) {
		t.Fatalf("Login() error = %v; want %v", err, errRefused)
	}
	if _, err := client.ReadPacket(); !errors.Is(err, io.EOF) {
		t.Errorf("client ReadPacket() error = %v; want io.EOF", err)
	}
	if registry.Len() != 0 {
		t.Errorf("failed session was registered")
	}
}
