package env

import (
	"github.com/spf13/cobra"

	"github.com/danieljhkim/hadoop-node/internal/cli/app"
	envpkg "github.com/danieljhkim/hadoop-node/internal/env"
)

func newExecCmd(getCtx app.Getter) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "exec [--user <name>] -- <command> [args...]",
		Short: "Run a command with the Hadoop environment",
		Long: `Execute a command with /etc/environment as its environment.

With --user the command runs as that user through su, the way the node runs
Hadoop daemons.

Examples:
  hadoop-node env exec -- hdfs dfs -ls /
  hadoop-node env exec --user hdfs -- hdfs dfsadmin -report`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCtx()
			environ, err := envpkg.ReadEtcEnvironment(ctx.Paths.EtcEnvironment())
			if err != nil {
				return err
			}

			if user != "" {
				res, err := envpkg.RunAs(ctx.Runner, user, environ, args...)
				cmd.OutOrStdout().Write([]byte(res.Stdout))
				cmd.ErrOrStderr().Write([]byte(res.Stderr))
				return err
			}

			_, err = ctx.Runner.Run(envpkg.Command{
				Name:   args[0],
				Args:   args[1:],
				Env:    environ,
				Stdin:  cmd.InOrStdin(),
				Stdout: cmd.OutOrStdout(),
				Stderr: cmd.ErrOrStderr(),
			})
			return err
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "run as this user")
	cmd.Flags().SetInterspersed(false)
	return cmd
}
