package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/cooldogedev/photon/capture"
	"github.com/cooldogedev/photon/packet"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type inspectedRecord struct {
	Index     int                `yaml:"index"`
	Direction string             `yaml:"direction"`
	Time      string             `yaml:"time"`
	Packet    packet.PlainPacket `yaml:"packet,omitempty"`
	Error     string             `yaml:"error,omitempty"`
}

func inspectCmd() *cobra.Command {
	var (
		direction string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "inspect <capture>",
		Short: "Print the packets of a capture file as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			return inspect(cmd.OutOrStdout(), f, direction, limit)
		},
	}

	cmd.Flags().StringVarP(&direction, "direction", "d", "", "Only print packets from client or server")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Stop after this many packets")
	return cmd
}

func inspect(w io.Writer, r io.Reader, direction string, limit int) error {
	if direction != "" && direction != packet.FromClient.String() && direction != packet.FromServer.String() {
		return fmt.Errorf("unknown direction %q", direction)
	}

	reader, err := capture.NewReader(r)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()

	logger := discardLogger()
	for i, printed := 0, 0; limit <= 0 || printed < limit; i++ {
		record, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if direction != "" && record.Direction.String() != direction {
			continue
		}

		inspected := inspectedRecord{
			Index:     i,
			Direction: record.Direction.String(),
			Time:      record.Time.UTC().Format(time.RFC3339Nano),
		}
		if pk, err := record.Decode(packet.WithLogger(logger)); err != nil {
			inspected.Error = err.Error()
		} else {
			inspected.Packet = pk.Plain()
		}
		if err := enc.Encode(inspected); err != nil {
			return err
		}
		printed++
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
