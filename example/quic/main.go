package main

import (
	"log/slog"
	"os"

	"github.com/cooldogedev/photon"
	"github.com/cooldogedev/photon/server"
	"github.com/cooldogedev/photon/transport"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	relay, err := photon.NewRelay(server.NewStaticDiscovery("127.0.0.1:19092", ""), logger, nil, transport.NewQUIC(logger))
	if err != nil {
		logger.Error("failed to create relay", "err", err)
		return
	}

	if err := relay.Listen(); err != nil {
		logger.Error("failed to listen on relay", "err", err)
		return
	}

	for {
		if _, err := relay.Accept(); err != nil {
			logger.Error("failed to accept session", "err", err)
			return
		}
	}
}
