package yarn

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/hadoop-node/internal/editor"
	"github.com/danieljhkim/hadoop-node/internal/relation"
	"github.com/danieljhkim/hadoop-node/internal/service/servicetest"
	"github.com/danieljhkim/hadoop-node/internal/state"
)

func newYARN(t *testing.T) (*YARN, *servicetest.Fixture) {
	t.Helper()
	f := servicetest.New(t)
	y := New(f.Base, f.Relations, f.Clock)
	y.Chown = f.Chown
	return y, f
}

func readProps(t *testing.T, f *servicetest.Fixture, name string) map[string]string {
	t.Helper()
	props, err := editor.ReadPropertyMap(f.Base.ConfFile(name))
	require.NoError(t, err)
	return props
}

func TestConfigureResourcemanager(t *testing.T) {
	y, f := newYARN(t)

	require.NoError(t, y.ConfigureResourcemanager())

	wantYARN := map[string]string{
		"yarn.nodemanager.aux-services":       "mapreduce_shuffle",
		"yarn.resourcemanager.hostname":       "0.0.0.0",
		"yarn.resourcemanager.address":        "0.0.0.0:8032",
		"yarn.log.server.url":                 "localhost:19888/jobhistory/logs/",
		"yarn.resourcemanager.webapp.address": "0.0.0.0:8088",
	}
	if diff := cmp.Diff(wantYARN, readProps(t, f, "yarn-site.xml")); diff != "" {
		t.Errorf("yarn-site.xml mismatch (-want +got):\n%s", diff)
	}

	wantMapred := map[string]string{
		"mapreduce.jobhistory.address": "0.0.0.0:10020",
		"mapreduce.framework.name":     "yarn",
	}
	if diff := cmp.Diff(wantMapred, readProps(t, f, "mapred-site.xml")); diff != "" {
		t.Errorf("mapred-site.xml mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigureJobhistory(t *testing.T) {
	y, f := newYARN(t)

	require.NoError(t, y.ConfigureJobhistory())

	mapred := readProps(t, f, "mapred-site.xml")
	assert.Equal(t, "0.0.0.0:10020", mapred["mapreduce.jobhistory.address"])
	assert.Equal(t, "0.0.0.0:19888", mapred["mapreduce.jobhistory.webapp.address"])
	assert.Equal(t, "yarn", mapred["mapreduce.framework.name"])
}

func TestConfigureRemoteRoles(t *testing.T) {
	tests := []struct {
		name      string
		rel       string
		configure func(y *YARN) error
	}{
		{"nodemanager", RelNodemanager, (*YARN).ConfigureNodemanager},
		{"client", RelResourcemanager, (*YARN).ConfigureClient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y, f := newYARN(t)
			f.Relations[tt.rel] = []relation.Unit{
				{Name: "yarn-master/0", PrivateAddress: "10.0.0.20", Port: 8032, Ready: true},
			}

			require.NoError(t, tt.configure(y))

			props := readProps(t, f, "yarn-site.xml")
			assert.Equal(t, "10.0.0.20", props["yarn.resourcemanager.hostname"])
			assert.Equal(t, "10.0.0.20:8032", props["yarn.resourcemanager.address"])
			assert.Equal(t, "10.0.0.20:19888/jobhistory/logs/", props["yarn.log.server.url"])
			assert.NotContains(t, props, "yarn.resourcemanager.webapp.address")

			mapred := readProps(t, f, "mapred-site.xml")
			assert.Equal(t, "10.0.0.20:10020", mapred["mapreduce.jobhistory.address"])
		})
	}
}

func TestConfigureNodemanager_NoReadyResourcemanager(t *testing.T) {
	y, f := newYARN(t)
	f.Relations[RelNodemanager] = []relation.Unit{{Name: "yarn-master/0", Ready: false}}

	err := y.ConfigureNodemanager()
	assert.True(t, errors.Is(err, relation.ErrNoReadyUnit))
	assert.Empty(t, readProps(t, f, "yarn-site.xml"))
}

func TestConfigure_KeepsForeignProperties(t *testing.T) {
	y, f := newYARN(t)
	site := f.Base.ConfFile("yarn-site.xml")
	require.NoError(t, editor.EditPropertyMap(site, func(props editor.PropertyMap) error {
		props.Set("yarn.nodemanager.resource.memory-mb", 4096)
		props.Set("yarn.resourcemanager.hostname", "stale")
		return nil
	}))

	require.NoError(t, y.ConfigureResourcemanager())

	props := readProps(t, f, "yarn-site.xml")
	assert.Equal(t, "4096", props["yarn.nodemanager.resource.memory-mb"])
	assert.Equal(t, "0.0.0.0", props["yarn.resourcemanager.hostname"])
}

func TestStartStop(t *testing.T) {
	y, f := newYARN(t)

	require.NoError(t, y.StartResourcemanager())
	require.NoError(t, y.StartNodemanager())
	require.NoError(t, y.StopNodemanager())
	require.NoError(t, y.StopResourcemanager())

	conf := f.Base.ConfDir()
	want := []string{
		"yarn: " + f.Script("sbin/yarn-daemon.sh", "--config", conf, "start", "resourcemanager"),
		"yarn: " + f.Script("sbin/yarn-daemon.sh", "--config", conf, "start", "nodemanager"),
		"yarn: " + f.Script("sbin/yarn-daemon.sh", "--config", conf, "stop", "nodemanager"),
		"yarn: " + f.Script("sbin/yarn-daemon.sh", "--config", conf, "stop", "resourcemanager"),
	}
	assert.Equal(t, want, f.SuCommands())
	assert.Equal(t, servicetest.Epoch, f.Clock.Now())
}

func TestStartResourcemanager_AlreadyRunning(t *testing.T) {
	y, f := newYARN(t)
	f.Running["org.apache.hadoop.yarn.server.resourcemanager.ResourceManager"] = true

	require.NoError(t, y.StartResourcemanager())
	assert.Empty(t, f.SuCommands())
}

func TestStartJobhistory_Restarts(t *testing.T) {
	y, f := newYARN(t)
	f.Running["org.apache.hadoop.mapreduce.v2.hs.JobHistoryServer"] = true

	require.NoError(t, y.StartJobhistory())

	conf := f.Base.ConfDir()
	want := []string{
		"mapred: " + f.Script("sbin/mr-jobhistory-daemon.sh", "--config", conf, "stop", "historyserver"),
		"mapred: " + f.Script("sbin/mr-jobhistory-daemon.sh", "--config", conf, "start", "historyserver"),
	}
	assert.Equal(t, want, f.SuCommands())
}

func TestInstallDemo(t *testing.T) {
	y, f := newYARN(t)
	src := f.Base.Paths.Resource(DemoScript)
	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0755))
	require.NoError(t, os.WriteFile(src, []byte("#!/bin/bash\nhadoop jar terasort\n"), 0644))

	require.NoError(t, y.InstallDemo())

	dst := filepath.Join(f.Root, "home", "ubuntu", "terasort.sh")
	assert.Equal(t, dst, y.DemoPath())
	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
	assert.Equal(t, []string{dst + " ubuntu:hadoop"}, f.Chowns)
	assert.True(t, state.IsSet(f.Store, state.FlagDemoInstalled))

	// Guarded: a removed demo is not reinstalled.
	require.NoError(t, os.Remove(dst))
	require.NoError(t, y.InstallDemo())
	assert.NoFileExists(t, dst)
}

func TestInstallDemo_MissingSource(t *testing.T) {
	y, f := newYARN(t)

	require.Error(t, y.InstallDemo())
	assert.False(t, state.IsSet(f.Store, state.FlagDemoInstalled))
}

func TestRoles(t *testing.T) {
	y, _ := newYARN(t)

	var names []string
	for _, r := range y.Roles() {
		names = append(names, r.Name())
	}
	assert.Equal(t, []string{"resourcemanager", "nodemanager", "jobhistory", "yarn-client"}, names)
}
