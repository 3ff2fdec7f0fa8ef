package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/cooldogedev/photon"
	"github.com/cooldogedev/photon/code"
	"github.com/cooldogedev/photon/packet"
	"github.com/cooldogedev/photon/protocol"
	"github.com/cooldogedev/photon/server"
	"github.com/cooldogedev/photon/session"
)

// announcement builds the RaiseEvent request that shows text to every player of the room for duration
// milliseconds.
func announcement(text string, duration float32) *packet.Packet {
	return packet.NewRequest(code.OperationRaiseEvent).
		AddParam(code.ParameterEventCode, protocol.Byte(200)).
		AddParam(code.ParameterCache, protocol.Byte(4)).
		AddParam(code.ParameterData, protocol.NewHashtable(
			protocol.Entry{Key: protocol.Byte(0), Value: protocol.Integer(1001)}, // view id
			protocol.Entry{Key: protocol.Byte(4), Value: protocol.ObjectArray{
				protocol.String(text),
				protocol.Float(duration),
			}},
			protocol.Entry{Key: protocol.Byte(5), Value: protocol.Byte(61)},
		))
}

func announce(s *session.Session, logger *slog.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.Done():
			return
		case <-ticker.C:
			if err := s.SendServer(announcement("Hello from Photon!", 1000)); err != nil {
				logger.Error("failed to send announcement", "err", err)
			}
		}
	}
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	relay, err := photon.NewRelay(server.NewStaticDiscovery("wss://127.0.0.1:19091", ""), logger, nil, nil)
	if err != nil {
		logger.Error("failed to create relay", "err", err)
		return
	}

	if err := relay.Listen(); err != nil {
		logger.Error("failed to listen on relay", "err", err)
		return
	}

	for {
		s, err := relay.Accept()
		if err != nil {
			logger.Error("failed to accept session", "err", err)
			return
		}
		go announce(s, logger)
	}
}
