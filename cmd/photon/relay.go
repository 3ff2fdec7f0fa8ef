package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cooldogedev/photon"
	"github.com/cooldogedev/photon/api"
	"github.com/cooldogedev/photon/capture"
	"github.com/cooldogedev/photon/server"
	"github.com/cooldogedev/photon/util"
	"github.com/spf13/cobra"
)

func relayCmd() *cobra.Command {
	var (
		configPath string
		addr       string
		serverAddr string
		kind       string
	)

	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Run the relay",
		Example: `  photon relay --server wss://eu.example.com:19091
  photon relay --config photon.yml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := util.DefaultOpts()
			if configPath != "" {
				loaded, err := util.LoadOpts(configPath)
				if err != nil {
					return err
				}
				opts = loaded
			}
			if cmd.Flags().Changed("addr") {
				opts.Addr = addr
			}
			if cmd.Flags().Changed("server") {
				opts.Server = serverAddr
			}
			if cmd.Flags().Changed("transport") {
				opts.Transport = kind
			}
			if opts.Server == "" {
				return errors.New("no server configured, use --server or the server key of the config")
			}

			level, err := opts.Level()
			if err != nil {
				return err
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			return runRelay(cmd.Context(), logger, opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "Address to accept clients on")
	cmd.Flags().StringVar(&serverAddr, "server", "", "Address of the Photon server")
	cmd.Flags().StringVar(&kind, "transport", "", "Transport used to reach the server")
	return cmd
}

func runRelay(ctx context.Context, logger *slog.Logger, opts *util.Opts) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	relay, err := photon.NewRelay(server.NewStaticDiscovery(opts.Server, opts.FallbackServer), logger, opts, nil)
	if err != nil {
		return err
	}

	if c := opts.Capture; c.Bucket != "" {
		client := capture.NewS3Client(c.Region, c.Endpoint, os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY"))
		relay.SetUploader(capture.NewUploader(client, c.Bucket, c.Prefix, logger))
	}

	if err := relay.Listen(); err != nil {
		return err
	}
	defer relay.Close()

	if opts.API.Addr != "" {
		a := api.NewAPI(relay.Registry(), logger, api.NewSecretBasedAuthentication(opts.API.Token))
		if err := a.Listen(opts.API.Addr); err != nil {
			return err
		}
		defer a.Close()

		go func() {
			for {
				if err := a.Accept(); err != nil {
					if ctx.Err() == nil {
						logger.Error("failed to accept connection", "err", err)
					}
					return
				}
			}
		}()
	}

	go func() {
		for {
			if _, err := relay.Accept(); err != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}
