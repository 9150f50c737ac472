package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Overrides are operator property values that win over anything a role
// writes, keyed by configuration file name then property name. A null value
// removes the property.
//
//	hdfs-site.xml:
//	  dfs.replication: 2
//	  dfs.permissions: ~
type Overrides map[string]map[string]any

// OverridesFile returns the property overrides: $BASE_DIR/overrides.yaml
func (p *Paths) OverridesFile() string {
	return filepath.Join(p.BaseDir, "overrides.yaml")
}

// LoadOverrides reads the overrides file. A missing file means no overrides.
func LoadOverrides(paths *Paths) (Overrides, error) {
	data, err := os.ReadFile(paths.OverridesFile())
	if err != nil {
		if os.IsNotExist(err) {
			return Overrides{}, nil
		}
		return nil, fmt.Errorf("failed to read overrides file: %w", err)
	}

	var ov Overrides
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return nil, fmt.Errorf("failed to parse overrides.yaml: %w", err)
	}
	if ov == nil {
		ov = Overrides{}
	}
	for file := range ov {
		if filepath.Base(file) != file {
			return nil, fmt.Errorf("overrides.yaml: %q must be a file name, not a path", file)
		}
	}
	return ov, nil
}

// Files returns the overridden file names, sorted.
func (o Overrides) Files() []string {
	files := make([]string, 0, len(o))
	for f := range o {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}
