package cli

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/hadoop-node/internal/cli/app"
	"github.com/danieljhkim/hadoop-node/internal/env"
	"github.com/danieljhkim/hadoop-node/internal/util"
)

// NewLogsCmd creates the logs command
func NewLogsCmd(getCtx app.Getter) *cobra.Command {
	var lines int

	cmd := &cobra.Command{
		Use:   "logs [daemon...]",
		Short: "Show recent log lines from Hadoop daemons",
		Long: `Display the most recent log entries of the named daemons, or of every
daemon when none is named.

Daemons log to hdfs_log_dir and yarn_log_dir as <prefix>-<user>-<daemon>-<host>.log.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCtx()
			node, err := ctx.Node()
			if err != nil {
				return err
			}

			if len(args) == 0 {
				for _, d := range node.Daemons() {
					args = append(args, d.Name)
				}
			}

			out := cmd.OutOrStdout()
			for _, name := range args {
				util.Section("%s logs", name)
				files := daemonLogs(name, node.Base.HDFSLogDir(), node.Base.YARNLogDir())
				if len(files) == 0 {
					fmt.Fprintf(out, "no logs for %s\n", name)
					continue
				}
				for _, f := range files {
					_, err := ctx.Runner.Run(env.Command{
						Name:   "tail",
						Args:   []string{"-n", strconv.Itoa(lines), f},
						Stdout: out,
						Stderr: cmd.ErrOrStderr(),
					})
					if err != nil {
						fmt.Fprintf(out, "Error showing %s: %v\n", f, err)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 120, "lines to show per log file")
	return cmd
}

// daemonLogs returns the .log files of a daemon across dirs.
func daemonLogs(daemon string, dirs ...string) []string {
	var files []string
	seen := map[string]bool{}
	for _, dir := range dirs {
		matches, _ := filepath.Glob(filepath.Join(dir, "*-"+daemon+"-*.log"))
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files
}
