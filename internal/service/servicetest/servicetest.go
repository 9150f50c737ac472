// Package servicetest builds an installed-looking node in a temp dir for
// role configurator tests.
package servicetest

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"

	"github.com/danieljhkim/hadoop-node/internal/config"
	"github.com/danieljhkim/hadoop-node/internal/dist"
	"github.com/danieljhkim/hadoop-node/internal/env"
	"github.com/danieljhkim/hadoop-node/internal/install"
	"github.com/danieljhkim/hadoop-node/internal/relation"
	"github.com/danieljhkim/hadoop-node/internal/state"
)

// Descriptor declares every dir and port the roles use. Paths hang off
// {config[root]} so they land in the test's temp dir.
const Descriptor = `
vendor: apache
hadoop_version: 2.7.1
packages: [openjdk-8-jdk]
groups: [hadoop]
users:
  hdfs:
    groups: [hadoop]
  yarn:
    groups: [hadoop]
  mapred:
    groups: [hadoop]
dirs:
  hadoop:
    path: '{config[root]}/usr/lib/hadoop'
  hadoop_conf:
    path: '{config[root]}/etc/hadoop/conf'
  hdfs_dir_base:
    path: '{config[root]}/usr/local/hadoop/data'
  hdfs_log_dir:
    path: '{config[root]}/var/log/hadoop/hdfs'
  yarn_log_dir:
    path: '{config[root]}/var/log/hadoop/yarn'
ports:
  namenode:
    port: 8020
  nn_webapp_http:
    port: 50070
    exposed_on: hdfs-master
  dn_webapp_http:
    port: 50075
  resourcemanager:
    port: 8032
  rm_webapp_http:
    port: 8088
    exposed_on: yarn-master
  rm_log:
    port: 19888
  jobhistory:
    port: 10020
  jh_webapp_http:
    port: 19888
`

// Epoch is where the fake clock starts.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Fixture is an installed node rooted at Root with faked subprocesses.
type Fixture struct {
	Root      string
	Base      *install.Base
	Runner    *env.FakeRunner
	Store     *state.MemoryStore
	Clock     *testingclock.FakeClock
	Relations relation.Static

	// Running lists the JVM main classes pgrep should find.
	Running map[string]bool
	// Handle, when set, sees every command first; ok=false falls through.
	Handle func(c env.Command) (res env.Result, err error, ok bool)
	// Chowns records every ownership change as "path owner:group".
	Chowns []string
}

// New builds a fixture whose Hadoop conf dir holds empty site files.
func New(t testing.TB) *Fixture {
	t.Helper()
	root := t.TempDir()
	f := &Fixture{
		Root:      root,
		Store:     state.NewMemoryStore(),
		Clock:     testingclock.NewFakeClock(Epoch),
		Relations: relation.Static{},
		Running:   map[string]bool{},
	}
	f.Runner = &env.FakeRunner{Missing: map[string]bool{"ufw": true}, Handler: f.handle}

	d, err := dist.Parse("dist.yaml", []byte(Descriptor), dist.RequiredKeys...)
	require.NoError(t, err)
	opts := config.NewOptions(map[string]any{
		"root":                   root,
		config.OptPrivateAddress: "10.0.0.5",
		config.OptHostname:       "master-0",
		config.OptFQDN:           "master-0.example.com",
		config.OptDFSReplication: 2,
		config.OptDFSBlocksize:   "268435456",
	})
	f.Base, err = install.NewBase(d, opts, config.NewPaths(filepath.Join(root, "base"), root), f.Store, f.Runner)
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(f.Base.ConfDir(), 0755))
	for _, name := range []string{"core-site.xml", "hdfs-site.xml", "yarn-site.xml", "mapred-site.xml"} {
		require.NoError(t, os.WriteFile(f.Base.ConfFile(name), []byte("<configuration>\n</configuration>\n"), 0644))
	}
	return f
}

// Chown records the change instead of touching the filesystem.
func (f *Fixture) Chown(path, owner, group string) error {
	f.Chowns = append(f.Chowns, path+" "+owner+":"+group)
	return nil
}

// Script returns the command line su runs for a distribution program.
func (f *Fixture) Script(command string, args ...string) string {
	return strings.Join(append([]string{filepath.Join(f.Base.HadoopDir(), command)}, args...), " ")
}

// SuCommands returns the scripts run through su, in order.
func (f *Fixture) SuCommands() []string {
	var out []string
	for _, c := range f.Runner.Calls {
		if c.Name == "su" && len(c.Args) == 3 {
			out = append(out, c.Args[0]+": "+c.Args[2])
		}
	}
	return out
}

func (f *Fixture) handle(c env.Command) (env.Result, error) {
	if f.Handle != nil {
		if res, err, ok := f.Handle(c); ok {
			return res, err
		}
	}
	if c.Name == "pgrep" && len(c.Args) == 2 {
		for class, running := range f.Running {
			if running && strings.Contains(c.Args[1], regexp.QuoteMeta(class[1:])) {
				return env.Result{Stdout: "4242\n"}, nil
			}
		}
		return env.Result{}, env.Fail(c, 1, "")
	}
	return env.Result{}, nil
}
