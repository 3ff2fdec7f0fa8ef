package main

import (
	"log/slog"
	"os"

	"github.com/cooldogedev/photon"
	"github.com/cooldogedev/photon/server"
)

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
		if _, err := relay.Accept(); err != nil {
			logger.Error("failed to accept session", "err", err)
			return
		}
	}
}
