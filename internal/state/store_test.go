package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "state.json")

	s, err := OpenFileStore(path)
	require.NoError(t, err)
	assert.False(t, IsSet(s, FlagBaseInstalled))

	s.Set(KeyJavaHome, "/usr/lib/jvm/java-8")
	require.NoError(t, MarkDone(s, FlagBaseInstalled))

	reopened, err := OpenFileStore(path)
	require.NoError(t, err)
	assert.True(t, IsSet(reopened, FlagBaseInstalled))
	home, ok := reopened.Get(KeyJavaHome)
	assert.True(t, ok)
	assert.Equal(t, "/usr/lib/jvm/java-8", home)
}

func TestFileStore_EmptyAndCorrupt(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	s, err := OpenFileStore(empty)
	require.NoError(t, err)
	assert.Empty(t, s.Keys(""))

	corrupt := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0644))
	_, err = OpenFileStore(corrupt)
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	s := NewMemoryStore()
	s.Set(EtcHostPrefix+"10.0.0.2", "b")
	s.Set(EtcHostPrefix+"10.0.0.1", "a")
	s.Set(FlagDemoInstalled, "true")

	assert.Equal(t, []string{"etc_host.10.0.0.1", "etc_host.10.0.0.2"}, s.Keys(EtcHostPrefix))
	assert.Len(t, s.Keys(""), 3)
}

func TestIsSet(t *testing.T) {
	s := NewMemoryStore()
	s.Set(FlagNamenodeFormatted, "false")
	assert.False(t, IsSet(s, FlagNamenodeFormatted))

	require.NoError(t, MarkDone(s, FlagNamenodeFormatted))
	assert.True(t, IsSet(s, FlagNamenodeFormatted))
	assert.Equal(t, 1, s.Flushes)
}
