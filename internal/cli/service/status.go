package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/hadoop-node/internal/cli/app"
	"github.com/danieljhkim/hadoop-node/internal/util"
)

// NewStatusCmd creates the status command
func NewStatusCmd(getCtx app.Getter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the installed stack and which daemons are running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			node, err := getCtx().Node()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if spec := node.Base.Spec(); spec != nil {
				fmt.Fprintf(out, "hadoop %s (%s), java %s, %s\n", spec.Hadoop, spec.Vendor, spec.Java, spec.Arch)
			} else {
				fmt.Fprintln(out, "hadoop base not installed")
			}

			var rows []util.StatusTableRow
			for _, st := range node.Status() {
				row := util.StatusTableRow{Name: st.Name, Status: "stopped"}
				if st.Running {
					pids := make([]string, len(st.PIDs))
					for i, pid := range st.PIDs {
						pids[i] = strconv.Itoa(pid)
					}
					row.Status = "running"
					row.Detail = "pid " + strings.Join(pids, ",")
					row.Ok = true
				}
				rows = append(rows, row)
			}
			util.StatusTable(out, rows)
			return nil
		},
	}

	return cmd
}
