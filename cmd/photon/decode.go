package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cooldogedev/photon/packet"
	"github.com/cooldogedev/photon/protocol"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func decodeCmd() *cobra.Command {
	var (
		file      string
		maxDepth  int
		maxValues int
		asYAML    bool
	)

	cmd := &cobra.Command{
		Use:   "decode [hex]",
		Short: "Decode a single Photon packet",
		Long: `Decode a single Photon packet given as hex, or as raw bytes read from --file.
Whitespace in the hex string is ignored.`,
		Example: `  photon decode "F3 02 FD 00 00"
  photon decode --file packet.bin --yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var buf []byte
			switch {
			case file != "":
				b, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				buf = b
			case len(args) == 1:
				b, err := parseHex(args[0])
				if err != nil {
					return err
				}
				buf = b
			default:
				return fmt.Errorf("expected a hex argument or --file")
			}

			pk, err := packet.Decode(buf,
				packet.WithLogger(discardLogger()),
				packet.WithMaxDepth(maxDepth),
				packet.WithMaxValues(maxValues),
			)
			if err != nil {
				return err
			}
			return printPacket(cmd.OutOrStdout(), pk, asYAML)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the raw packet from a file")
	cmd.Flags().IntVar(&maxDepth, "max-depth", protocol.DefaultMaxDepth, "Maximum nesting depth of values")
	cmd.Flags().IntVar(&maxValues, "max-values", protocol.DefaultMaxValues, "Maximum number of values in the packet")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the decoded packet as YAML")
	return cmd
}

func parseHex(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return b, nil
}

func printPacket(w io.Writer, pk *packet.Packet, asYAML bool) error {
	if asYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(pk.Plain()); err != nil {
			return err
		}
		return enc.Close()
	}

	fmt.Fprintln(w, pk)
	for _, d := range pk.Diagnostics() {
		fmt.Fprintf(w, "  diagnostic: %s\n", d)
	}
	if !pk.Opaque() && !pk.Verify() {
		fmt.Fprintln(w, "  re-encoding differs from the original bytes")
	}
	return nil
}
