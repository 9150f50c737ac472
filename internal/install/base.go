// Package install performs the one-time setup of a Hadoop node: hosts file,
// users and directories, OS packages, the Java runtime, the Hadoop
// distribution and the base environment.
package install

import (
	"fmt"
	"path/filepath"
	"runtime"

	"k8s.io/klog/v2"

	"github.com/danieljhkim/hadoop-node/internal/config"
	"github.com/danieljhkim/hadoop-node/internal/dist"
	"github.com/danieljhkim/hadoop-node/internal/env"
	"github.com/danieljhkim/hadoop-node/internal/state"
	"github.com/danieljhkim/hadoop-node/internal/util"
)

// RequiredDirs must be declared by every descriptor a Base is built from.
var RequiredDirs = []string{"hadoop", "hadoop_conf", "hdfs_log_dir", "yarn_log_dir"}

// UnitInfo identifies this node on the network.
type UnitInfo struct {
	PrivateAddress string
	Hostname       string
	FQDN           string
}

// RuntimeInstallError is returned when the Java installer succeeds but does
// not print exactly a home directory and a version.
type RuntimeInstallError struct {
	Output string
}

func (e *RuntimeInstallError) Error() string {
	return fmt.Sprintf("java installer must print JAVA_HOME and version on two lines, got %q", e.Output)
}

// Base holds everything the installation steps and the role configurators
// share.
type Base struct {
	Dist    *dist.Descriptor
	Options *config.Options
	Paths   *config.Paths
	State   state.Store
	Runner  env.Runner
	Unit    UnitInfo

	Provisioner *dist.Provisioner

	dirs map[string]string
}

// NewBase checks that d declares RequiredDirs and resolves them.
func NewBase(d *dist.Descriptor, opts *config.Options, paths *config.Paths, store state.Store, r env.Runner) (*Base, error) {
	var missing []string
	for _, name := range RequiredDirs {
		if _, ok := d.Dir(name); !ok {
			missing = append(missing, "dirs."+name)
		}
	}
	if len(missing) > 0 {
		return nil, &dist.MissingConfigError{Path: d.Path(), Keys: missing}
	}

	d = d.WithConfig(opts)
	dirs, err := d.ResolvePaths(RequiredDirs...)
	if err != nil {
		return nil, err
	}

	unit := UnitInfo{}
	unit.PrivateAddress, _ = opts.String(config.OptPrivateAddress)
	unit.Hostname, _ = opts.String(config.OptHostname)
	unit.FQDN, _ = opts.String(config.OptFQDN)

	return &Base{
		Dist:        d,
		Options:     opts,
		Paths:       paths,
		State:       store,
		Runner:      r,
		Unit:        unit,
		Provisioner: dist.NewProvisioner(d, r),
		dirs:        dirs,
	}, nil
}

// HadoopDir is where the distribution is unpacked.
func (b *Base) HadoopDir() string { return b.dirs["hadoop"] }

// ConfDir is the live Hadoop configuration directory.
func (b *Base) ConfDir() string { return b.dirs["hadoop_conf"] }

// ConfFile returns a file inside ConfDir.
func (b *Base) ConfFile(name string) string { return filepath.Join(b.ConfDir(), name) }

// HDFSLogDir is where HDFS daemons log.
func (b *Base) HDFSLogDir() string { return b.dirs["hdfs_log_dir"] }

// YARNLogDir is where YARN daemons log.
func (b *Base) YARNLogDir() string { return b.dirs["yarn_log_dir"] }

// DirPath resolves any dir the descriptor declares, e.g. hdfs_dir_base.
func (b *Base) DirPath(name string) (string, error) {
	if p, ok := b.dirs[name]; ok {
		return p, nil
	}
	return b.Dist.ResolvePath(name)
}

// Port returns a descriptor port that the caller cannot do without.
func (b *Base) Port(name string) (int, error) {
	port, ok := b.Dist.Port(name)
	if !ok {
		return 0, &dist.MissingConfigError{Path: b.Dist.Path(), Keys: []string{"ports." + name}}
	}
	return port, nil
}

// Environment returns the system environment file as a process environment.
func (b *Base) Environment() ([]string, error) {
	return env.ReadEtcEnvironment(b.Paths.EtcEnvironment())
}

// Run runs a program shipped with the distribution (e.g. "bin/hdfs") as
// user, with the system environment.
func (b *Base) Run(user, command string, args ...string) (env.Result, error) {
	environ, err := b.Environment()
	if err != nil {
		return env.Result{}, err
	}
	argv := append([]string{filepath.Join(b.HadoopDir(), command)}, args...)
	klog.V(4).Infof("as %s: %v", user, argv)
	return env.RunAs(b.Runner, user, environ, argv...)
}

// IsInstalled reports whether Install has completed.
func (b *Base) IsInstalled() bool {
	return state.IsSet(b.State, state.FlagBaseInstalled)
}

// Install runs every setup step in order. It is a no-op when a previous
// Install completed, unless force is set. Any failing step aborts the run and
// leaves the completion flag unset, so the next call starts over.
func (b *Base) Install(force bool) error {
	if b.IsInstalled() && !force {
		util.Log("Hadoop base already installed")
		return nil
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Configuring hosts file", b.ConfigureHostsFile},
		{"Provisioning users and groups", b.Provisioner.ProvisionUsersAndGroups},
		{"Provisioning directories", b.Provisioner.ProvisionDirectories},
		{"Installing packages", b.Provisioner.ProvisionPackages},
		{"Installing Java and Hadoop", b.installRuntimeAndDistribution},
		{"Staging Hadoop configuration", b.SetupHadoopConfig},
		{"Configuring Hadoop environment", b.ConfigureHadoop},
	}

	for _, step := range steps {
		util.Log("%s", step.name)
		if err := step.fn(); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}

	if err := state.MarkDone(b.State, state.FlagBaseInstalled); err != nil {
		return err
	}
	util.Success("Hadoop %s base installed", b.Dist.HadoopVersion)
	return nil
}

func (b *Base) installRuntimeAndDistribution() error {
	return dist.WithFirewallDisabled(b.Runner, func() error {
		if err := b.InstallJava(); err != nil {
			return err
		}
		return b.InstallHadoop()
	})
}

// Spec describes the installed stack so peers can check compatibility.
type Spec struct {
	Vendor string `json:"vendor"`
	Hadoop string `json:"hadoop"`
	Java   string `json:"java"`
	Arch   string `json:"arch"`
}

// Spec returns nil until Java has been installed.
func (b *Base) Spec() *Spec {
	javaVersion, ok := b.State.Get(state.KeyJavaVersion)
	if !ok {
		return nil
	}
	return &Spec{
		Vendor: b.Dist.Vendor,
		Hadoop: b.Dist.HadoopVersion,
		Java:   javaVersion,
		Arch:   machineArch(runtime.GOARCH),
	}
}

// machineArch maps GOARCH to the uname -m spelling.
func machineArch(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "aarch64"
	case "386":
		return "i686"
	}
	return goarch
}
