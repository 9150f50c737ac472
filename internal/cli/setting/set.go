package setting

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	netutils "k8s.io/utils/net"

	"github.com/danieljhkim/hadoop-node/internal/cli/app"
	"github.com/danieljhkim/hadoop-node/internal/config"
)

func newSetCmd(getCtx app.Getter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set an option",
		Long: `Set an option in $BASE_DIR/options.yaml.

Well-known keys: hadoop_dir_base, dfs_replication, dfs_blocksize,
java_installer, hadoop_archive, private_address, hostname, fqdn.
Other keys are stored as-is for use in descriptor placeholders.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]

			if err := config.ValidateOption(key, value); err != nil {
				return err
			}
			if key == config.OptPrivateAddress && !netutils.IsIPv4String(value) {
				fmt.Fprintf(cmd.ErrOrStderr(), "WARNING: %q is not an IPv4 address; the hosts file line will be commented out.\n", value)
			}

			om := config.NewOptionsManager(getCtx().Paths)
			opts, err := om.Load()
			if os.IsNotExist(err) {
				opts, err = config.NewOptions(nil), nil
			}
			if err != nil {
				return err
			}

			opts.Set(key, value)
			if err := om.Save(opts); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s in %s\n", key, om.Path())
			fmt.Fprintln(cmd.ErrOrStderr(), "WARNING: Run 'hadoop-node configure <role>' to apply the change to the Hadoop configuration.")
			return nil
		},
	}

	return cmd
}
