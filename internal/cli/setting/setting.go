// Package setting manages operator options and shows the resulting Hadoop
// configuration and node state.
package setting

import (
	"github.com/spf13/cobra"

	"github.com/danieljhkim/hadoop-node/internal/cli/app"
)

// NewSettingCmd creates the setting command with all subcommands.
func NewSettingCmd(getCtx app.Getter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setting",
		Short: "Manage operator options",
		Long: `Manage operator options for this node.

Options are persisted at $BASE_DIR/options.yaml. Any option can be referenced
from the descriptor as {config[name]}.`,
	}

	cmd.AddCommand(newListCmd(getCtx))
	cmd.AddCommand(newSetCmd(getCtx))
	cmd.AddCommand(newShowCmd(getCtx))

	return cmd
}
