// Package dist exposes the distribution descriptor on the command line.
package dist

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/danieljhkim/hadoop-node/internal/cli/app"
	distpkg "github.com/danieljhkim/hadoop-node/internal/dist"
)

// NewDistCmd creates the dist command with all subcommands
func NewDistCmd(getCtx app.Getter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dist",
		Short: "Query and provision the distribution descriptor",
		Long: `Query the distribution descriptor ($BASE_DIR/dist.yaml) and provision
what it declares.`,
	}

	cmd.AddCommand(newPathCmd(getCtx))
	cmd.AddCommand(newPortCmd(getCtx))
	cmd.AddCommand(newPortsCmd(getCtx))
	cmd.AddCommand(newValueCmd(getCtx))
	cmd.AddCommand(newProvisionCmd(getCtx))
	cmd.AddCommand(newDeprovisionCmd(getCtx))

	return cmd
}

func newPathCmd(getCtx app.Getter) *cobra.Command {
	return &cobra.Command{
		Use:   "path [dir...]",
		Short: "Print resolved directory paths (all when none named)",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := getCtx().Descriptor()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				p, err := d.ResolvePath(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(out, p)
				return nil
			}
			if len(args) == 0 {
				args = d.DirNames()
			}
			for _, name := range args {
				p, err := d.ResolvePath(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s=%s\n", name, p)
			}
			return nil
		},
	}
}

func newPortCmd(getCtx app.Getter) *cobra.Command {
	return &cobra.Command{
		Use:   "port <name>",
		Short: "Print a declared port number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := getCtx().Descriptor()
			if err != nil {
				return err
			}
			port, ok := d.Port(args[0])
			if !ok {
				return &distpkg.MissingConfigError{Path: d.Path(), Keys: []string{"ports." + args[0]}}
			}
			fmt.Fprintln(cmd.OutOrStdout(), port)
			return nil
		},
	}
}

func newPortsCmd(getCtx app.Getter) *cobra.Command {
	return &cobra.Command{
		Use:   "ports <service>",
		Short: "Print the ports a service exposes, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := getCtx().Descriptor()
			if err != nil {
				return err
			}
			for _, p := range d.ExposedPorts(args[0]) {
				fmt.Fprintln(cmd.OutOrStdout(), strconv.Itoa(p))
			}
			return nil
		},
	}
}

func newValueCmd(getCtx app.Getter) *cobra.Command {
	return &cobra.Command{
		Use:   "value <key>",
		Short: "Print a top-level scalar such as vendor or hadoop_version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := getCtx().Descriptor()
			if err != nil {
				return err
			}
			v, ok := d.Value(args[0])
			if !ok {
				return fmt.Errorf("%s has no scalar %q", d.Path(), args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func newProvisionCmd(getCtx app.Getter) *cobra.Command {
	return &cobra.Command{
		Use:   "provision",
		Short: "Create declared users, groups and directories and install packages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCtx()
			d, err := ctx.Descriptor()
			if err != nil {
				return err
			}
			p := distpkg.NewProvisioner(d, ctx.Runner)
			if err := p.ProvisionUsersAndGroups(); err != nil {
				return err
			}
			if err := p.ProvisionDirectories(); err != nil {
				return err
			}
			return p.ProvisionPackages()
		},
	}
}

func newDeprovisionCmd(getCtx app.Getter) *cobra.Command {
	return &cobra.Command{
		Use:   "deprovision",
		Short: "Report what provision created (nothing is removed)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCtx()
			d, err := ctx.Descriptor()
			if err != nil {
				return err
			}
			p := distpkg.NewProvisioner(d, ctx.Runner)
			return multierr.Combine(
				p.DeprovisionPackages(),
				p.DeprovisionDirectories(),
				p.DeprovisionUsersAndGroups(),
			)
		},
	}
}
