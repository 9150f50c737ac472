package env

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/hadoop-node/internal/cli/app"
	envpkg "github.com/danieljhkim/hadoop-node/internal/env"
	"github.com/danieljhkim/hadoop-node/internal/util"
)

func newPrintCmd(getCtx app.Getter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "print",
		Short: "Print export statements for the Hadoop environment",
		Long: `Print /etc/environment as shell export statements.

Output can be evaluated in your shell to pick up JAVA_HOME, HADOOP_HOME,
HADOOP_CONF_DIR, PATH and the other variables written by install:

  eval "$(hadoop-node env print)"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			environ, err := envpkg.ReadEtcEnvironment(getCtx().Paths.EtcEnvironment())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, kv := range environ {
				k, v, _ := strings.Cut(kv, "=")
				fmt.Fprintf(out, "export %s=%s\n", k, util.ShellQuote(v))
			}
			return nil
		},
	}

	return cmd
}
