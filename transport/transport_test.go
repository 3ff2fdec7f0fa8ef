package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cooldogedev/photon/protocol"
	"github.com/gorilla/websocket"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestStreamConn(t *testing.T) {
	client, server := net.Pipe()
	a := NewStreamConn(client, "pipe")
	b := NewStreamConn(server, "pipe")
	defer a.Close()
	defer b.Close()

	buffers := [][]byte{{0xF3, 0x02, 0xFD, 0x00, 0x00}, {0xF0, 0, 0, 0, 1, 0, 0, 0, 2}}
	go func() {
		for _, buf := range buffers {
			_ = a.WritePacket(buf)
		}
	}()

	for i, want := range buffers {
		got, err := b.ReadPacket()
		if err != nil {
			t.Fatalf("ReadPacket %d: %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("ReadPacket %d = % x; want % x", i, got, want)
		}
	}
	if b.RemoteAddr() != "pipe" {
		t.Errorf("RemoteAddr() = %q", b.RemoteAddr())
	}
}

func TestTCP(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()

	go func() {
		conn, err := l.Accept()
		if err != nil {
			return
		}
		c := NewStreamConn(conn, conn.RemoteAddr().String())
		defer c.Close()
		for {
			b, err := c.ReadPacket()
			if err != nil {
				return
			}
			_ = c.WritePacket(b)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	conn, err := NewTCP().Dial(ctx, l.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	want := []byte{0xF3, 0x04, 0x01, 0x00, 0x00}
	if err := conn.WritePacket(want); err != nil {
		t.Fatalf("WritePacket: %v", err)
	}
	got, err := conn.ReadPacket()
	if err != nil {
		t.Fatalf("ReadPacket: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("echo = % x; want % x", got, want)
	}
}

func TestWebSocket(t *testing.T) {
	upgrader := websocket.Upgrader{Subprotocols: DefaultSubprotocols}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := NewWebSocketConn(ws)
		defer c.Close()
		for {
			b, err := c.ReadPacket()
			if err != nil {
				return
			}
			_ = c.WritePacket(b)
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	addr := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, err := NewWebSocket(logger).Dial(ctx, addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	want, err := protocol.Marshal(protocol.String("hello"))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if err := conn.WritePacket(want); err != nil {
		t.Fatalf("WritePacket: %v", err)
	}
	got, err := conn.ReadPacket()
	if err != nil {
		t.Fatalf("ReadPacket: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("echo = % x; want % x", got, want)
	}
}

func TestWebSocketRejectsText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := (&websocket.Upgrader{}).Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		_ = ws.WriteMessage(websocket.TextMessage, []byte("hi"))
		_, _, _ = ws.ReadMessage()
	}))
	defer srv.Close()

	conn, err := NewWebSocket(logger).Dial(context.Background(), "ws"+strings.TrimPrefix(srv.URL, "http"))
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	if _, err := conn.ReadPacket(); !errors.Is(err, ErrTextMessage) {
		t.Errorf("ReadPacket error = %v; want %v", err, ErrTextMessage)
	}
}

func TestWebSocketReadLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := (&websocket.Upgrader{}).Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		_ = ws.WriteMessage(websocket.BinaryMessage, make([]byte, protocol.MaxPacketSize+1))
		_, _, _ = ws.ReadMessage()
	}))
	defer srv.Close()

	conn, err := NewWebSocket(logger).Dial(context.Background(), "ws"+strings.TrimPrefix(srv.URL, "http"))
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	if _, err := conn.ReadPacket(); !errors.Is(err, websocket.ErrReadLimit) {
		t.Errorf("ReadPacket error = %v; want %v", err, websocket.ErrReadLimit)
	}
}

func TestNew(t *testing.T) {
	for _, kind := range Kinds {
		if _, err := New(kind, logger); err != nil {
			t.Errorf("New(%q): %v", kind, err)
		}
	}
	if _, err := New("carrier-pigeon", logger); err == nil {
		t.Errorf("New accepted an unknown kind")
	}
}
