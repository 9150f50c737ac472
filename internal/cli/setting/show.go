package setting

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/hadoop-node/internal/cli/app"
	"github.com/danieljhkim/hadoop-node/internal/util"
)

func newShowCmd(getCtx app.Getter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [file...]",
		Short: "Show live Hadoop configuration file contents",
		Long: `Show the live Hadoop configuration from the hadoop_conf directory.

With no arguments every *.xml file is shown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := getCtx().Descriptor()
			if err != nil {
				return err
			}
			confDir, err := d.ResolvePath("hadoop_conf")
			if err != nil {
				return err
			}

			var files []string
			if len(args) == 0 {
				files, err = collectHadoopFiles(confDir)
				if err != nil {
					return err
				}
			} else {
				for _, name := range args {
					files = append(files, filepath.Join(confDir, name))
				}
			}

			return printFiles(cmd.OutOrStdout(), files)
		},
	}

	return cmd
}

func collectHadoopFiles(confDir string) ([]string, error) {
	if !util.DirExists(confDir) {
		return nil, fmt.Errorf("no hadoop config at %s (run 'hadoop-node install' first)", confDir)
	}

	entries, err := os.ReadDir(confDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read hadoop config dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".xml") {
			files = append(files, filepath.Join(confDir, entry.Name()))
		}
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, fmt.Errorf("no hadoop XML files found in %s", confDir)
	}

	return files, nil
}

func printFiles(out io.Writer, files []string) error {
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		if _, err := fmt.Fprintf(out, "=== %s ===\n", file); err != nil {
			return err
		}
		if _, err := out.Write(data); err != nil {
			return err
		}
		if len(data) == 0 || data[len(data)-1] != '\n' {
			if _, err := out.Write([]byte("\n")); err != nil {
				return err
			}
		}
	}

	return nil
}
