package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "photon",
		Short: "Relay and inspect Photon traffic",
		Long: `Photon relays browser Photon clients to their server over websockets,
decoding every packet on the way so it can be filtered, rewritten and captured.

It can also decode single packets and inspect capture files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(
		relayCmd(),
		decodeCmd(),
		inspectCmd(),
		adminCmd(),
		versionCmd(),
	)
	return cmd
}
