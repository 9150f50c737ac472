// Package env holds commands that inspect and use the node's system
// environment.
package env

import (
	"github.com/spf13/cobra"

	"github.com/danieljhkim/hadoop-node/internal/cli/app"
)

// NewEnvCmd creates the env command with all subcommands
func NewEnvCmd(getCtx app.Getter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Environment management commands",
		Long: `Commands for inspecting and using the node's environment.

Includes dependency checking, printing /etc/environment as shell exports, and
running commands with that environment.`,
	}

	// Add subcommands
	cmd.AddCommand(newDoctorCmd(getCtx))
	cmd.AddCommand(newPrintCmd(getCtx))
	cmd.AddCommand(newExecCmd(getCtx))

	return cmd
}
