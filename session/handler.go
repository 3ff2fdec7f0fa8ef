package session

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/cooldogedev/photon/packet"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const rawKind = "Raw"

func handleIncoming(s *Session) {
	defer s.Close()
	for {
		select {
		case <-s.ch:
			return
		default:
		}

		conn := s.Server()
		pk, err := conn.ReadPacket()
		if err != nil {
			if conn != s.Server() {
				continue
			}

			if s.closed.Load() {
				return
			}
			s.logger.Error("failed to read packet from server", "err", err)

			fallbackServer, err := s.discovery.DiscoverFallback(s.clientConn.RemoteAddr())
			if err != nil {
				s.logger.Debug("failed to discover a fallback server", "err", err)
				return
			}

			if err := s.Transfer(fallbackServer); err != nil && !errors.Is(err, ErrAlreadyTransferring) {
				s.logger.Error("failed to transfer to the fallback server", "addr", fallbackServer, "err", err)
				return
			}
			continue
		}

		var payload []byte
		switch pk := pk.(type) {
		case *packet.Packet:
			s.record(packet.FromServer, pk.Raw())
			if pk.Kind == packet.KindTimed && s.pong(pk.ClientTime) {
				continue
			}
			payload = s.process(packet.FromServer, pk)
		case []byte:
			s.record(packet.FromServer, pk)
			s.metrics.Relayed(packet.FromServer.String(), rawKind, len(pk))
			payload = pk
		}

		if payload == nil {
			continue
		}

		if err := s.clientConn.WritePacket(payload); err != nil {
			if !s.closed.Load() {
				s.logger.Error("failed to write packet to client", "err", err)
			}
			return
		}
	}
}

func handleOutgoing(s *Session) {
	defer s.Close()
	for {
		select {
		case <-s.ch:
			return
		default:
		}

		payload, err := s.clientConn.ReadPacket()
		if err != nil {
			if !s.closed.Load() && !errors.Is(err, io.EOF) {
				s.logger.Error("failed to read packet from client", "err", err)
			}
			return
		}

		s.record(packet.FromClient, payload)
		if pk, err := packet.Decode(payload, s.opts...); err != nil {
			s.metrics.Relayed(packet.FromClient.String(), rawKind, len(payload))
		} else {
			if pk.Kind == packet.KindTimed {
				s.trackPing(pk.ClientTime, false)
			}

			if payload = s.process(packet.FromClient, pk); payload == nil {
				continue
			}
		}

		conn := s.Server()
		if err := conn.Write(payload); err != nil {
			if conn == s.Server() && !s.closed.Load() {
				s.logger.Debug("dropped packet for server", "err", err)
			}
		}
	}
}

func handleLatency(s *Session, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.ch:
			return
		case <-ticker.C:
			if s.transferring.Load() {
				continue
			}

			clientTime := uint32(time.Since(s.start).Milliseconds())
			if !s.trackPing(clientTime, true) {
				continue
			}

			if err := s.SendServer(packet.NewPing(0, clientTime)); err != nil && !s.closed.Load() {
				s.logger.Error("failed to send latency ping", "err", err)
			}
		}
	}
}

// process runs the processor over pk and returns the bytes to relay, or nil if pk was cancelled.
func (s *Session) process(direction packet.Direction, pk *packet.Packet) []byte {
	_, span := s.tracer.Start(context.Background(), "photon.process",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("photon.direction", direction.String()),
			attribute.String("photon.kind", pk.Kind.String()),
		),
	)
	defer span.End()

	if diagnostics := pk.Diagnostics(); len(diagnostics) > 0 {
		span.SetAttributes(attribute.Int("photon.diagnostics", len(diagnostics)))
		for _, d := range diagnostics {
			s.metrics.Diagnostic(d.Kind.String())
		}
	}

	s.tracker.handlePacket(pk)

	ctx := NewContext(direction)
	if processor := s.Processor(); direction == packet.FromClient {
		processor.ProcessClient(ctx, pk)
	} else {
		processor.ProcessServer(ctx, pk)
	}

	if ctx.Cancelled() {
		span.SetAttributes(attribute.Bool("photon.cancelled", true))
		s.metrics.Cancelled(direction.String())
		return nil
	}

	payload := pk.Raw()
	if ctx.Modified() || pk.Modified() {
		b, err := pk.Encode()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to encode processed packet")
			s.logger.Error("failed to encode processed packet, relaying the original", "packet", pk.String(), "err", err)
		} else {
			payload = b
		}
	}
	s.metrics.Relayed(direction.String(), pk.Kind.String(), len(payload))
	return payload
}

func (s *Session) record(direction packet.Direction, payload []byte) {
	s.mu.RLock()
	recorder := s.recorder
	s.mu.RUnlock()
	if recorder == nil {
		return
	}

	if err := recorder.Record(direction, payload); err != nil {
		s.logger.Error("failed to record packet", "direction", direction, "err", err)
	}
}

// trackPing remembers a ping sent to the server. It reports false if the ping collides with one
// already pending that it may not replace. A pending ping of the relay is never replaced.
func (s *Session) trackPing(clientTime uint32, relay bool) bool {
	s.pingMu.Lock()
	defer s.pingMu.Unlock()

	if p, ok := s.pings[clientTime]; ok && (relay || p.relay) {
		return false
	}

	if len(s.pings) >= maxPendingPings {
		clear(s.pings)
	}
	s.pings[clientTime] = ping{sent: time.Now(), relay: relay}
	return true
}

// pong updates the latency from a ping echoed by the server. It reports whether the ping was sent by
// the relay itself, in which case it is not relayed to the client.
func (s *Session) pong(clientTime uint32) bool {
	s.pingMu.Lock()
	p, ok := s.pings[clientTime]
	delete(s.pings, clientTime)
	s.pingMu.Unlock()
	if !ok {
		return false
	}

	rtt := time.Since(p.sent)
	s.latency.Store(int64(rtt))
	s.metrics.Latency(rtt.Seconds())
	return p.relay
}
