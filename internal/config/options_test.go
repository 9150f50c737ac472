package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsManager_LoadOrDefault(t *testing.T) {
	tmpDir := t.TempDir()
	paths := NewPaths(tmpDir, tmpDir)
	om := NewOptionsManager(paths)

	require.NoError(t, os.WriteFile(paths.OptionsFile(), []byte(`
dfs_replication: 1
hadoop_dir_base: /data
private_address: 10.0.0.5
webhdfs: yes
`), 0644))

	opts, err := om.LoadOrDefault()
	require.NoError(t, err)

	n, err := opts.Int(OptDFSReplication)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	base, _ := opts.String(OptHadoopDirBase)
	assert.Equal(t, "/data", base)

	blocksize, err := opts.Int(OptDFSBlocksize)
	require.NoError(t, err)
	assert.Equal(t, 134217728, blocksize)

	installer, _ := opts.String(OptJavaInstaller)
	assert.Equal(t, filepath.Join(tmpDir, "resources", "java-installer.sh"), installer)

	// yaml.v3 decodes a bare yes as the string "yes".
	webhdfs, err := opts.Bool("webhdfs")
	require.NoError(t, err)
	assert.True(t, webhdfs)
}

func TestOptionsManager_MissingFile(t *testing.T) {
	om := NewOptionsManager(NewPaths(t.TempDir(), ""))

	_, err := om.Load()
	assert.True(t, os.IsNotExist(err))

	opts, err := om.LoadOrDefault()
	require.NoError(t, err)
	assert.Contains(t, opts.Keys(), OptDFSBlocksize)
}

func TestOptionsManager_SaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	om := NewOptionsManager(NewPaths(filepath.Join(tmpDir, "base"), tmpDir))

	opts := NewOptions(map[string]any{"dfs_replication": 2, "custom": "x"})
	require.NoError(t, om.Save(opts))

	loaded, err := om.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"custom", "dfs_replication"}, loaded.Keys())
	v, _ := loaded.String("dfs_replication")
	assert.Equal(t, "2", v)
}

func TestOptionsManager_SaveReplacesFile(t *testing.T) {
	tmpDir := t.TempDir()
	paths := NewPaths(filepath.Join(tmpDir, "base"), tmpDir)
	om := NewOptionsManager(paths)

	require.NoError(t, om.Save(NewOptions(map[string]any{"custom": "old", "stale": "y"})))
	require.NoError(t, om.Save(NewOptions(map[string]any{"custom": "new"})))

	loaded, err := om.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"custom"}, loaded.Keys())

	entries, err := os.ReadDir(paths.BaseDir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
	assert.Equal(t, filepath.Base(om.Path()), entries[0].Name())
}

func TestOptions_Errors(t *testing.T) {
	opts := NewOptions(map[string]any{"n": "many", "b": "perhaps"})

	_, err := opts.Int("n")
	assert.Error(t, err)
	_, err = opts.Int("missing")
	assert.Error(t, err)
	_, err = opts.Bool("b")
	assert.Error(t, err)

	unset, err := opts.Bool("missing")
	require.NoError(t, err)
	assert.False(t, unset)
}

func TestValidateOption(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
	}{
		{OptDFSReplication, "3", false},
		{OptDFSReplication, "0", true},
		{OptDFSBlocksize, "lots", true},
		{OptHadoopDirBase, "/data/hadoop", false},
		{OptJavaInstaller, "java.sh", true},
		{OptDFSPermissions, "yes", false},
		{OptDFSPermissions, "maybe", true},
		{"anything_else", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			err := ValidateOption(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOption(%q, %q) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
		})
	}
}
