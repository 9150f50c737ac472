// Package service holds the commands that install the node and drive its
// roles.
package service

import (
	"github.com/spf13/cobra"

	"github.com/danieljhkim/hadoop-node/internal/cli/app"
	"github.com/danieljhkim/hadoop-node/internal/service"
	"github.com/danieljhkim/hadoop-node/internal/util"
)

// NewInstallCmd creates the install command
func NewInstallCmd(getCtx app.Getter) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install Java and the Hadoop distribution on this node",
		Long: `Install the Hadoop base: hosts file, users and groups, directories,
OS packages, the Java runtime, the Hadoop distribution and /etc/environment.

Install runs once; later runs are no-ops unless --force is given. A failed
run can simply be retried.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := getCtx().Base()
			if err != nil {
				return err
			}
			return b.Install(force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "reinstall even if already installed")
	return cmd
}

// NewConfigureCmd creates the configure command
func NewConfigureCmd(getCtx app.Getter) *cobra.Command {
	return newRoleCmd(getCtx, "configure", "Write the Hadoop configuration for one or more roles",
		false, service.Role.Configure)
}

// NewStartCmd creates the start command
func NewStartCmd(getCtx app.Getter) *cobra.Command {
	return newRoleCmd(getCtx, "start", "Start the daemons of one or more roles",
		false, service.Role.Start)
}

// NewStopCmd creates the stop command. Roles stop in reverse order.
func NewStopCmd(getCtx app.Getter) *cobra.Command {
	return newRoleCmd(getCtx, "stop", "Stop the daemons of one or more roles",
		true, service.Role.Stop)
}

func newRoleCmd(getCtx app.Getter, verb, short string, reverse bool, action func(service.Role) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   verb + " <role> [role...]",
		Short: short,
		Long: short + `.

Roles: namenode, secondarynamenode, datanode, hdfs-client,
resourcemanager, nodemanager, jobhistory, yarn-client.

Examples:
  hadoop-node ` + verb + ` namenode
  hadoop-node ` + verb + ` resourcemanager jobhistory`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			node, err := getCtx().Node()
			if err != nil {
				return err
			}
			roles, err := node.Roles(args...)
			if err != nil {
				return err
			}
			if reverse {
				for i, j := 0, len(roles)-1; i < j; i, j = i+1, j-1 {
					roles[i], roles[j] = roles[j], roles[i]
				}
			}

			for _, r := range roles {
				util.Section("%s %s", verb, r.Name())
				if err := action(r); err != nil {
					return err
				}
			}
			return nil
		},
	}

	return cmd
}
