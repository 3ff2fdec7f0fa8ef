package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/cooldogedev/photon/capture"
	"github.com/cooldogedev/photon/code"
	"github.com/cooldogedev/photon/packet"
	"github.com/cooldogedev/photon/protocol"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDecode(t *testing.T) {
	out, err := run(t, "decode", "F3 02 FD 00 01 F4 62 2A")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Request(op=RaiseEvent Code:byte)") {
		t.Errorf("output = %q", out)
	}

	out, err = run(t, "decode", "--yaml", "0xF3020000")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"kind: Request", "diagnostics:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}

	if _, err := run(t, "decode", "zz"); err == nil {
		t.Errorf("decode accepted invalid hex")
	}
	if _, err := run(t, "decode", "01"); err == nil {
		t.Errorf("decode accepted an unknown magic byte")
	}
}

func TestInspect(t *testing.T) {
	request, _ := packet.NewRequest(code.OperationJoin).AddParam(code.ParameterActorNr, protocol.Integer(5)).Encode()
	event, _ := packet.NewEvent(code.EventLeave).Encode()

	var buf bytes.Buffer
	w := capture.NewWriter(&buf)
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	_ = w.WriteRecord(capture.Record{Direction: packet.FromClient, Time: at, Payload: request})
	_ = w.WriteRecord(capture.Record{Direction: packet.FromServer, Time: at, Payload: event})
	_ = w.WriteRecord(capture.Record{Direction: packet.FromServer, Time: at, Payload: []byte("junk")})
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := inspect(&out, bytes.NewReader(buf.Bytes()), "server", 0); err != nil {
		t.Fatal(err)
	}
	s := out.String()
	if strings.Contains(s, "Join") {
		t.Errorf("client packet was not filtered out:\n%s", s)
	}
	for _, want := range []string{"event: Leave", "index: 2", "not a photon frame", "2024-05-01T12:00:00Z"} {
		if !strings.Contains(s, want) {
			t.Errorf("output does not contain %q:\n%s", want, s)
		}
	}

	out.Reset()
	if err := inspect(&out, bytes.NewReader(buf.Bytes()), "", 1); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "operation: Join") || strings.Contains(out.String(), "Leave") {
		t.Errorf("limit was not applied:\n%s", out.String())
	}

	if err := inspect(&out, bytes.NewReader(buf.Bytes()), "sideways", 0); err == nil {
		t.Errorf("inspect accepted an unknown direction")
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version = %q; want %q", out, version)
	}
}
