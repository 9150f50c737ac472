package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/hadoop-node/internal/cli/app"
	"github.com/danieljhkim/hadoop-node/internal/hosts"
)

// NewHostsCmd creates the hosts command, which keeps peers resolvable by
// name through /etc/hosts.
func NewHostsCmd(getCtx app.Getter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hosts",
		Short: "Manage /etc/hosts entries for peers",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <ip> <fqdn> [hostname...]",
		Short: "Record a peer and write it to /etc/hosts",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCtx()
			store, err := ctx.Store()
			if err != nil {
				return err
			}
			if err := hosts.RecordPeer(store, hosts.Entry{IP: args[0], Names: args[1:]}); err != nil {
				return err
			}
			return hosts.SyncPeers(ctx.Paths.EtcHosts(), store)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Rewrite /etc/hosts entries for every recorded peer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCtx()
			store, err := ctx.Store()
			if err != nil {
				return err
			}
			return hosts.SyncPeers(ctx.Paths.EtcHosts(), store)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List recorded peers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := getCtx().Store()
			if err != nil {
				return err
			}
			for _, e := range hosts.Peers(store) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", e.IP, strings.Join(e.Names, " "))
			}
			return nil
		},
	})

	return cmd
}
