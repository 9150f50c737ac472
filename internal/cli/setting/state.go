package setting

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/hadoop-node/internal/cli/app"
)

// NewStateCmd creates the state command
func NewStateCmd(getCtx app.Getter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect completion flags and recorded values",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list [prefix]",
		Short: "List state keys and values, optionally filtered by prefix",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := getCtx().Store()
			if err != nil {
				return err
			}
			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			for _, key := range store.Keys(prefix) {
				value, _ := store.Get(key)
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", key, value)
			}
			return nil
		},
	})

	return cmd
}
