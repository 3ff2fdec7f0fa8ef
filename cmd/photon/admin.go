package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/cooldogedev/photon/api"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func adminCmd() *cobra.Command {
	var addr, token string

	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Control a running relay through its admin API",
	}
	cmd.PersistentFlags().StringVar(&addr, "api", "127.0.0.1:19000", "Address of the admin API")
	cmd.PersistentFlags().StringVar(&token, "token", "", "Admin API token")

	dial := func(fn func(c *api.Client) error) error {
		c, err := api.Dial(addr, token)
		if err != nil {
			return err
		}
		defer c.Close()
		return fn(c)
	}

	sessions := &cobra.Command{
		Use:   "sessions",
		Short: "List the relayed sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return dial(func(c *api.Client) error {
				list, err := c.Sessions()
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tCLIENT\tSERVER\tLATENCY")
				for _, s := range list {
					fmt.Fprintf(w, "%s\t%s\t%s\t%dms\n", s.ID, s.ClientAddr, s.ServerAddr, s.Latency)
				}
				return w.Flush()
			})
		},
	}

	kick := &cobra.Command{
		Use:   "kick <session> [reason]",
		Short: "Close a session",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return err
			}
			reason := "kicked"
			if len(args) == 2 {
				reason = args[1]
			}
			return dial(func(c *api.Client) error {
				return c.Kick(id, reason)
			})
		},
	}

	transfer := &cobra.Command{
		Use:   "transfer <session> <addr>",
		Short: "Move a session to another server",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return err
			}
			return dial(func(c *api.Client) error {
				return c.Transfer(id, args[1])
			})
		},
	}

	cmd.AddCommand(sessions, kick, transfer)
	return cmd
}
