package service

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/hadoop-node/internal/cli/app"
	"github.com/danieljhkim/hadoop-node/internal/service/hdfs"
)

// NewHDFSCmd creates the hdfs command with its one-time namenode tasks.
func NewHDFSCmd(getCtx app.Getter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hdfs",
		Short: "Namenode maintenance tasks",
	}

	cmd.AddCommand(hdfsTask(getCtx, "format", "Format the namenode (once; refuses existing metadata)", (*hdfs.HDFS).FormatNamenode))
	cmd.AddCommand(hdfsTask(getCtx, "mkdirs", "Create the shared HDFS directories (once)", (*hdfs.HDFS).CreateHDFSDirs))
	cmd.AddCommand(hdfsTask(getCtx, "register-slaves", "Write the slaves file from the ready datanodes", (*hdfs.HDFS).RegisterSlaves))
	cmd.AddCommand(newWaitCmd(getCtx))

	return cmd
}

func hdfsTask(getCtx app.Getter, use, short string, task func(*hdfs.HDFS) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			node, err := getCtx().Node()
			if err != nil {
				return err
			}
			return task(node.HDFS)
		},
	}
}

func newWaitCmd(getCtx app.Getter) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "wait",
		Short: "Wait until at least one datanode is available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			node, err := getCtx().Node()
			if err != nil {
				return err
			}
			return node.HDFS.WaitForHDFS(timeout)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "how long to wait")
	return cmd
}
