package install

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/hadoop-node/internal/editor"
)

func TestApplyOverrides(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.MkdirAll(f.base.ConfDir(), 0755))

	site := `<configuration>
  <property><name>dfs.replication</name><value>3</value></property>
  <property><name>dfs.permissions</name><value>false</value></property>
</configuration>
`
	require.NoError(t, os.WriteFile(f.base.ConfFile("hdfs-site.xml"), []byte(site), 0644))
	require.NoError(t, os.MkdirAll(f.base.Paths.BaseDir, 0755))
	overrides := `hdfs-site.xml:
  dfs.replication: 1
  dfs.permissions: ~
  dfs.webhdfs.enabled: true
yarn-site.xml:
  yarn.nodemanager.vmem-check-enabled: false
`
	require.NoError(t, os.WriteFile(filepath.Join(f.base.Paths.BaseDir, "overrides.yaml"), []byte(overrides), 0644))

	require.NoError(t, f.base.ApplyOverrides())

	props, err := editor.ReadPropertyMap(f.base.ConfFile("hdfs-site.xml"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"dfs.replication":     "1",
		"dfs.webhdfs.enabled": "true",
	}, props)
	assert.NoFileExists(t, f.base.ConfFile("yarn-site.xml"))
}

func TestApplyOverrides_NoFile(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.base.ApplyOverrides())
}
