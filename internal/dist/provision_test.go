package dist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/danieljhkim/hadoop-node/internal/config"
	"github.com/danieljhkim/hadoop-node/internal/env"
)

func TestProvisionUsersAndGroups(t *testing.T) {
	d := loadSample(t)
	r := &env.FakeRunner{Handler: func(c env.Command) (env.Result, error) {
		// hadoop group and ubuntu user already exist.
		if c.Name == "getent" && c.Args[1] != "hadoop" && c.Args[1] != "ubuntu" {
			return env.Result{}, env.Fail(c, 2, "")
		}
		return env.Result{}, nil
	}}

	require.NoError(t, NewProvisioner(d, r).ProvisionUsersAndGroups())

	assert.Equal(t, []string{
		"getent group hadoop",
		"getent group mapred",
		"groupadd mapred",
		"getent passwd ubuntu",
		"usermod -a -G hadoop ubuntu",
		"usermod -a -G mapred ubuntu",
		"getent passwd hdfs",
		"useradd --system --create-home --shell /bin/bash -g hadoop hdfs",
		"usermod -a -G hadoop hdfs",
		"getent passwd yarn",
		"useradd --system --create-home --shell /bin/bash -g hadoop yarn",
		"usermod -a -G hadoop yarn",
	}, r.Commands())
}

func TestProvisionUsersAndGroups_BestEffort(t *testing.T) {
	d := loadSample(t)
	r := &env.FakeRunner{Handler: func(c env.Command) (env.Result, error) {
		switch {
		case c.Name == "getent":
			return env.Result{}, env.Fail(c, 2, "")
		case c.Name == "groupadd" && c.Args[0] == "hadoop":
			return env.Result{}, env.Fail(c, 9, "group exists")
		case c.Name == "useradd" && c.Args[len(c.Args)-1] == "hdfs":
			return env.Result{}, env.Fail(c, 1, "cannot lock /etc/passwd")
		}
		return env.Result{}, nil
	}}

	err := NewProvisioner(d, r).ProvisionUsersAndGroups()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)

	// Later entries were still processed.
	assert.Equal(t, 1, r.Count("groupadd mapred"))
	assert.Equal(t, 1, r.Count("-g hadoop yarn"))
	assert.Equal(t, 0, r.Count("usermod -a -G hadoop hdfs"))
}

func TestProvisionDirectories(t *testing.T) {
	root := t.TempDir()
	doc := `
dirs:
  base:
    path: '{config[root]}/data'
    owner: hdfs
    group: hadoop
    perms: 0750
  logs:
    path: '{dirs[base]}/logs'
  broken:
    path: '{config[missing]}/x'
`
	d, err := Parse("dist.yaml", []byte(doc))
	require.NoError(t, err)
	d = d.WithConfig(config.NewOptions(map[string]any{"root": root}))

	var chowned []string
	p := NewProvisioner(d, &env.FakeRunner{})
	p.Chown = func(path, owner, group string) error {
		chowned = append(chowned, path+" "+owner+":"+group)
		return nil
	}

	err = p.ProvisionDirectories()
	require.Error(t, err, "the unresolvable dir is reported")
	assert.Len(t, multierr.Errors(err), 1)

	info, err := os.Stat(filepath.Join(root, "data"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0750), info.Mode().Perm())

	info, err = os.Stat(filepath.Join(root, "data", "logs"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())

	assert.Equal(t, []string{
		filepath.Join(root, "data") + " hdfs:hadoop",
		filepath.Join(root, "data", "logs") + " root:root",
	}, chowned)
}

func TestProvisionDirectories_SpecialBits(t *testing.T) {
	root := t.TempDir()
	doc := `
dirs:
  tmp:
    path: '{config[root]}/tmp'
    perms: 1777
  shared:
    path: '{config[root]}/shared'
    perms: 2775
`
	d, err := Parse("dist.yaml", []byte(doc))
	require.NoError(t, err)
	d = d.WithConfig(config.NewOptions(map[string]any{"root": root}))

	p := NewProvisioner(d, &env.FakeRunner{})
	p.Chown = func(string, string, string) error { return nil }
	require.NoError(t, p.ProvisionDirectories())

	info, err := os.Stat(filepath.Join(root, "tmp"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0777), info.Mode().Perm())
	assert.NotZero(t, info.Mode()&os.ModeSticky, "tmp mode = %s", info.Mode())

	info, err = os.Stat(filepath.Join(root, "shared"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0775), info.Mode().Perm())
	assert.NotZero(t, info.Mode()&os.ModeSetgid, "shared mode = %s", info.Mode())
}

func TestProvisionPackages(t *testing.T) {
	tests := []struct {
		name     string
		missing  map[string]bool
		status   string
		expected []string
	}{
		{
			name:   "firewall active",
			status: "Status: active\n",
			expected: []string{
				"ufw status",
				"ufw disable",
				"apt-get update -q",
				"apt-get install -y -q --no-install-recommends openjdk-8-jdk-headless libsnappy1",
				"ufw --force enable",
			},
		},
		{
			name:   "firewall inactive",
			status: "Status: inactive\n",
			expected: []string{
				"ufw status",
				"apt-get update -q",
				"apt-get install -y -q --no-install-recommends openjdk-8-jdk-headless libsnappy1",
			},
		},
		{
			name:    "no ufw",
			missing: map[string]bool{"ufw": true},
			expected: []string{
				"apt-get update -q",
				"apt-get install -y -q --no-install-recommends openjdk-8-jdk-headless libsnappy1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &env.FakeRunner{
				Missing: tt.missing,
				Handler: func(c env.Command) (env.Result, error) {
					if c.String() == "ufw status" {
						return env.Result{Stdout: tt.status}, nil
					}
					return env.Result{}, nil
				},
			}

			require.NoError(t, NewProvisioner(loadSample(t), r).ProvisionPackages())
			assert.Equal(t, tt.expected, r.Commands())
		})
	}
}

func TestProvisionPackages_RestoresFirewallOnFailure(t *testing.T) {
	r := &env.FakeRunner{Handler: func(c env.Command) (env.Result, error) {
		switch {
		case c.String() == "ufw status":
			return env.Result{Stdout: "Status: active\n"}, nil
		case c.Name == "apt-get" && c.Args[0] == "install":
			return env.Result{}, env.Fail(c, 100, "E: Unable to locate package")
		}
		return env.Result{}, nil
	}}

	err := NewProvisioner(loadSample(t), r).ProvisionPackages()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to install packages")

	cmds := r.Commands()
	assert.Equal(t, "ufw --force enable", cmds[len(cmds)-1])
}

func TestDeprovisionIsNoop(t *testing.T) {
	r := &env.FakeRunner{}
	p := NewProvisioner(loadSample(t), r)

	assert.NoError(t, p.DeprovisionUsersAndGroups())
	assert.NoError(t, p.DeprovisionDirectories())
	assert.NoError(t, p.DeprovisionPackages())
	assert.Empty(t, r.Calls)
}

func TestWithFirewallDisabled_StatusError(t *testing.T) {
	r := &env.FakeRunner{Handler: func(c env.Command) (env.Result, error) {
		return env.Result{}, env.Fail(c, 1, "ERROR: You need to be root")
	}}

	called := false
	err := WithFirewallDisabled(r, func() error { called = true; return nil })
	assert.Error(t, err)
	assert.False(t, called)
	assert.True(t, strings.Contains(err.Error(), "firewall status"))
}
