// Package props edits Hadoop *-site.xml property files from the command line.
package props

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/hadoop-node/internal/cli/app"
	"github.com/danieljhkim/hadoop-node/internal/editor"
)

// NewPropsCmd creates the props command with all subcommands
func NewPropsCmd(getCtx app.Getter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "props",
		Short: "Read and edit Hadoop property files",
		Long: `Read and edit Hadoop configuration property files in place.

<file> is a path, or a bare file name such as hdfs-site.xml which is looked
up in the hadoop_conf directory. Properties not named are left untouched.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list <file>",
		Short: "Print every property as name=value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveFile(getCtx(), args[0])
			if err != nil {
				return err
			}
			props, err := editor.ReadPropertyMap(path)
			if err != nil {
				return err
			}
			names := make([]string, 0, len(props))
			for name := range props {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", name, props[name])
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <file> <name>",
		Short: "Print one property value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveFile(getCtx(), args[0])
			if err != nil {
				return err
			}
			props, err := editor.ReadPropertyMap(path)
			if err != nil {
				return err
			}
			value, ok := props[args[1]]
			if !ok {
				return fmt.Errorf("property %s not set in %s", args[1], path)
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <file> <name> <value>",
		Short: "Set one property, adding it if absent",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveFile(getCtx(), args[0])
			if err != nil {
				return err
			}
			return editor.EditPropertyMap(path, func(props editor.PropertyMap) error {
				props.Set(args[1], args[2])
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "unset <file> <name>",
		Short: "Remove one property",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveFile(getCtx(), args[0])
			if err != nil {
				return err
			}
			return editor.EditPropertyMap(path, func(props editor.PropertyMap) error {
				props.Delete(args[1])
				return nil
			})
		},
	})

	return cmd
}

func resolveFile(ctx *app.Context, file string) (string, error) {
	if filepath.Base(file) != file {
		return file, nil
	}
	d, err := ctx.Descriptor()
	if err != nil {
		return "", err
	}
	conf, err := d.ResolvePath("hadoop_conf")
	if err != nil {
		return "", err
	}
	return filepath.Join(conf, file), nil
}
