package env

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/hadoop-node/internal/cli/app"
	envpkg "github.com/danieljhkim/hadoop-node/internal/env"
)

// ErrDoctorFailed is returned when a required command is missing.
var ErrDoctorFailed = errors.New("required commands are missing")

func newDoctorCmd(getCtx app.Getter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor [install|hdfs|yarn]",
		Short: "Check required and optional dependencies",
		Long: `Check that all required commands are available.

Optional target can be specified to check context-specific dependencies:
  - "install" : Check what 'hadoop-node install' runs
  - "hdfs"    : Check HDFS dependencies
  - "yarn"    : Check YARN dependencies

Examples:
  hadoop-node env doctor
  hadoop-node env doctor install`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := ""
			if len(args) > 0 {
				target = args[0]
			}

			result := envpkg.RunDoctor(getCtx().Runner, target)
			result.Print(cmd.OutOrStdout())

			if result.ExitCode() != 0 {
				return ErrDoctorFailed
			}
			return nil
		},
	}

	return cmd
}
