package cluster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/hadoop-node/internal/editor"
	"github.com/danieljhkim/hadoop-node/internal/service/servicetest"
)

func TestRoleNames(t *testing.T) {
	f := servicetest.New(t)
	n := New(f.Base, f.Relations, f.Clock)

	want := []string{
		"datanode", "hdfs-client", "jobhistory", "namenode", "nodemanager",
		"resourcemanager", "secondarynamenode", "yarn-client",
	}
	assert.Equal(t, want, n.RoleNames())
}

func TestRole(t *testing.T) {
	f := servicetest.New(t)
	n := New(f.Base, f.Relations, f.Clock)

	r, err := n.Role("namenode")
	require.NoError(t, err)
	assert.Equal(t, "namenode", r.Name())

	_, err = n.Role("zookeeper")
	var ure *UnknownRoleError
	require.ErrorAs(t, err, &ure)
	assert.Equal(t, "zookeeper", ure.Name)
	assert.Contains(t, err.Error(), "resourcemanager")
}

func TestRoles_StopsAtUnknown(t *testing.T) {
	f := servicetest.New(t)
	n := New(f.Base, f.Relations, f.Clock)

	roles, err := n.Roles("namenode", "resourcemanager")
	require.NoError(t, err)
	assert.Len(t, roles, 2)

	_, err = n.Roles("namenode", "bogus")
	assert.Error(t, err)
}

func TestClientRolesHaveNoDaemon(t *testing.T) {
	f := servicetest.New(t)
	n := New(f.Base, f.Relations, f.Clock)

	for _, name := range []string{"hdfs-client", "yarn-client"} {
		r, err := n.Role(name)
		require.NoError(t, err)
		require.NoError(t, r.Start())
		require.NoError(t, r.Stop())
	}
	assert.Empty(t, f.Runner.Calls)
}

func TestStatus(t *testing.T) {
	f := servicetest.New(t)
	f.Running["org.apache.hadoop.hdfs.server.datanode.DataNode"] = true
	n := New(f.Base, f.Relations, f.Clock)

	running := map[string]bool{}
	for _, st := range n.Status() {
		running[st.Name] = st.Running
	}
	assert.Equal(t, map[string]bool{
		"namenode":          false,
		"secondarynamenode": false,
		"datanode":          true,
		"resourcemanager":   false,
		"nodemanager":       false,
		"historyserver":     false,
	}, running)
}

func TestConfigure_AppliesOverrides(t *testing.T) {
	f := servicetest.New(t)
	baseDir := f.Base.Paths.BaseDir
	require.NoError(t, os.MkdirAll(baseDir, 0755))
	overrides := "hdfs-site.xml:\n  dfs.replication: 1\n  dfs.permissions: ~\n"
	require.NoError(t, os.WriteFile(filepath.Join(baseDir, "overrides.yaml"), []byte(overrides), 0644))

	n := New(f.Base, f.Relations, f.Clock)
	r, err := n.Role("namenode")
	require.NoError(t, err)
	require.NoError(t, r.Configure())

	props, err := editor.ReadPropertyMap(f.Base.ConfFile("hdfs-site.xml"))
	require.NoError(t, err)
	assert.Equal(t, "1", props["dfs.replication"])
	assert.NotContains(t, props, "dfs.permissions")
	assert.Equal(t, "true", props["dfs.webhdfs.enabled"])
}
