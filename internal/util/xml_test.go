package util

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSite(t *testing.T, props string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hdfs-site.xml")
	content := "<?xml version=\"1.0\"?>\n<configuration>\n" + props + "</configuration>\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestParseHadoopXML(t *testing.T) {
	path := writeSite(t, `  <property>
    <name> dfs.replication </name>
    <value> 3 </value>
    <description>copies</description>
  </property>
  <property><name>dfs.webhdfs.enabled</name><value>true</value></property>
  <property><name>dfs.replication</name><value>1</value></property>
`)

	conf, err := ParseHadoopXML(path)
	if err != nil {
		t.Fatalf("ParseHadoopXML() error = %v", err)
	}
	if len(conf.Properties) != 3 {
		t.Fatalf("len(Properties) = %d, want 3", len(conf.Properties))
	}
	if conf.Properties[0].Description != "copies" {
		t.Errorf("Description = %q, want %q", conf.Properties[0].Description, "copies")
	}

	// First occurrence wins, values are trimmed.
	if v, ok := conf.Lookup("dfs.replication"); !ok || v != "3" {
		t.Errorf("Lookup(dfs.replication) = %q, %v, want %q, true", v, ok, "3")
	}
	if _, ok := conf.Lookup("dfs.blocksize"); ok {
		t.Error("Lookup(dfs.blocksize) reported found")
	}

	names := conf.Names()
	want := []string{"dfs.replication", "dfs.webhdfs.enabled", "dfs.replication"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestParseHadoopXML_Errors(t *testing.T) {
	if _, err := ParseHadoopXML(filepath.Join(t.TempDir(), "missing.xml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.xml")
	if err := os.WriteFile(path, []byte("<configuration><property>"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ParseHadoopXML(path); err == nil {
		t.Error("expected error for truncated document")
	}
}

func TestParseFileURIs(t *testing.T) {
	tests := []struct {
		value string
		want  []string
	}{
		{"file:///srv/hdfs/name", []string{"/srv/hdfs/name"}},
		{"file:///a, file:///b", []string{"/a", "/b"}},
		{"file:/single/slash", []string{"/single/slash"}},
		{"/plain/path", []string{"/plain/path"}},
		{"file:///,", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got := ParseFileURIs(tt.value)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseFileURIs(%q) = %q, want %q", tt.value, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseFileURIs(%q)[%d] = %q, want %q", tt.value, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseNameNodeDirs(t *testing.T) {
	tests := []struct {
		name    string
		props   string
		want    []string
		wantErr bool
	}{
		{
			name:  "single dir",
			props: "<property><name>dfs.namenode.name.dir</name><value>file:///var/lib/hadoop/cache/hadoop/dfs/name</value></property>\n",
			want:  []string{"/var/lib/hadoop/cache/hadoop/dfs/name"},
		},
		{
			name:  "mirrored dirs",
			props: "<property><name>dfs.namenode.name.dir</name><value>file:///disk1/name,file:///disk2/name</value></property>\n",
			want:  []string{"/disk1/name", "/disk2/name"},
		},
		{
			name:    "property missing",
			props:   "<property><name>dfs.replication</name><value>3</value></property>\n",
			wantErr: true,
		},
		{
			name:    "no usable path",
			props:   "<property><name>dfs.namenode.name.dir</name><value>file:///</value></property>\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dirs, err := ParseNameNodeDirs(writeSite(t, tt.props))
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseNameNodeDirs() = %q, want error", dirs)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseNameNodeDirs() error = %v", err)
			}
			if len(dirs) != len(tt.want) {
				t.Fatalf("ParseNameNodeDirs() = %q, want %q", dirs, tt.want)
			}
			for i := range dirs {
				if dirs[i] != tt.want[i] {
					t.Errorf("dirs[%d] = %q, want %q", i, dirs[i], tt.want[i])
				}
			}
		})
	}
}
