package service

import (
	"github.com/spf13/cobra"

	"github.com/danieljhkim/hadoop-node/internal/cli/app"
)

// NewYARNCmd creates the yarn command
func NewYARNCmd(getCtx app.Getter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "yarn",
		Short: "YARN client tasks",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "install-demo",
		Short: "Install the TeraSort demo script for the ubuntu user (once)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			node, err := getCtx().Node()
			if err != nil {
				return err
			}
			return node.YARN.InstallDemo()
		},
	})

	return cmd
}
