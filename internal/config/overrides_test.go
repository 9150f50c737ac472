package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOverrides(t *testing.T) {
	baseDir := t.TempDir()
	paths := NewPaths(baseDir, "")

	content := `hdfs-site.xml:
  dfs.replication: 2
  dfs.permissions: ~
core-site.xml:
  io.file.buffer.size: 131072
`
	if err := os.WriteFile(filepath.Join(baseDir, "overrides.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ov, err := LoadOverrides(paths)
	if err != nil {
		t.Fatalf("LoadOverrides() error = %v", err)
	}

	if got := ov.Files(); len(got) != 2 || got[0] != "core-site.xml" || got[1] != "hdfs-site.xml" {
		t.Errorf("Files() = %v", got)
	}
	if ov["hdfs-site.xml"]["dfs.replication"] != 2 {
		t.Errorf("dfs.replication = %v, want 2", ov["hdfs-site.xml"]["dfs.replication"])
	}
	if v, ok := ov["hdfs-site.xml"]["dfs.permissions"]; !ok || v != nil {
		t.Errorf("dfs.permissions = %v (present %v), want nil", v, ok)
	}
}

func TestLoadOverrides_Missing(t *testing.T) {
	ov, err := LoadOverrides(NewPaths(t.TempDir(), ""))
	if err != nil {
		t.Fatalf("LoadOverrides() error = %v", err)
	}
	if len(ov) != 0 {
		t.Errorf("LoadOverrides() = %v, want empty", ov)
	}
}

func TestLoadOverrides_RejectsPaths(t *testing.T) {
	baseDir := t.TempDir()
	content := "/etc/passwd:\n  x: 1\n"
	if err := os.WriteFile(filepath.Join(baseDir, "overrides.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := LoadOverrides(NewPaths(baseDir, "")); err == nil {
		t.Error("LoadOverrides() expected error for path key")
	}
}
