package cli

import (
	"flag"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/danieljhkim/hadoop-node/internal/cli/app"
	"github.com/danieljhkim/hadoop-node/internal/cli/dist"
	"github.com/danieljhkim/hadoop-node/internal/cli/env"
	"github.com/danieljhkim/hadoop-node/internal/cli/props"
	"github.com/danieljhkim/hadoop-node/internal/cli/service"
	"github.com/danieljhkim/hadoop-node/internal/cli/setting"
	"github.com/danieljhkim/hadoop-node/internal/config"
	"github.com/danieljhkim/hadoop-node/internal/util"
)

// Execute builds the root command and runs it. A failure is printed to
// stderr as "ERROR: <msg>".
// This is called by main.main().
func Execute() error {
	cmd := NewRootCmd(nil)
	err := cmd.Execute()
	if err != nil {
		util.Error(cmd.ErrOrStderr(), "%v", err)
	}
	return err
}

// NewRootCmd creates the hadoop-node command tree. A nil ctx is built from
// the --base-dir and --root flags on first use.
func NewRootCmd(ctx *app.Context) *cobra.Command {
	var baseDir, rootDir string

	rootCmd := &cobra.Command{
		Use:   "hadoop-node",
		Short: "Install, configure and run a Hadoop node",
		Long: `hadoop-node: install, configure and run one node of a Hadoop cluster.

The distribution descriptor ($BASE_DIR/dist.yaml) declares the users, groups,
directories, packages and ports the node needs. Operator options live in
$BASE_DIR/options.yaml and peer data in $BASE_DIR/relations.yaml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().SetNormalizeFunc(wordSepNormalizeFunc)
	rootCmd.PersistentFlags().StringVar(&baseDir, "base-dir", "", "state and descriptor directory (default $HADOOP_NODE_BASE_DIR or "+config.DefaultBaseDir+")")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "filesystem root that /etc paths are resolved against")
	_ = rootCmd.PersistentFlags().MarkHidden("root")

	// klog verbosity: -v=2 traces steps, -v=4 traces every subprocess.
	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	rootCmd.PersistentFlags().AddFlag(pflag.PFlagFromGoFlag(klogFlags.Lookup("v")))

	getCtx := func() *app.Context {
		if ctx == nil {
			ctx = app.New(config.NewPaths(baseDir, rootDir))
		}
		return ctx
	}

	rootCmd.AddCommand(service.NewInstallCmd(getCtx))
	rootCmd.AddCommand(service.NewConfigureCmd(getCtx))
	rootCmd.AddCommand(service.NewStartCmd(getCtx))
	rootCmd.AddCommand(service.NewStopCmd(getCtx))
	rootCmd.AddCommand(service.NewStatusCmd(getCtx))
	rootCmd.AddCommand(service.NewHDFSCmd(getCtx))
	rootCmd.AddCommand(service.NewYARNCmd(getCtx))
	rootCmd.AddCommand(dist.NewDistCmd(getCtx))
	rootCmd.AddCommand(props.NewPropsCmd(getCtx))
	rootCmd.AddCommand(setting.NewSettingCmd(getCtx))
	rootCmd.AddCommand(setting.NewStateCmd(getCtx))
	rootCmd.AddCommand(env.NewEnvCmd(getCtx))
	rootCmd.AddCommand(NewHostsCmd(getCtx))
	rootCmd.AddCommand(NewLogsCmd(getCtx))

	return rootCmd
}

// wordSepNormalizeFunc accepts "_" in flag names, so --base_dir works too.
func wordSepNormalizeFunc(f *pflag.FlagSet, name string) pflag.NormalizedName {
	if strings.Contains(name, "_") {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	}
	return pflag.NormalizedName(name)
}
