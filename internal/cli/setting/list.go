package setting

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/hadoop-node/internal/cli/app"
)

func newListCmd(getCtx app.Getter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List options and their current values",
		Long:  `List every option, defaults included, as key=value.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := getCtx().Options()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, key := range opts.Keys() {
				value, _ := opts.String(key)
				fmt.Fprintf(out, "%s=%s\n", key, value)
			}
			return nil
		},
	}

	return cmd
}
