package config

import (
	"os"
	"path/filepath"
)

// DefaultBaseDir is where a node keeps its descriptor, options and state.
const DefaultBaseDir = "/var/lib/hadoop-node"

// Paths holds all standard path locations for a node.
type Paths struct {
	BaseDir string // Descriptor, options, relations and state ($HADOOP_NODE_BASE_DIR)
	RootDir string // Filesystem root that /etc paths hang off; "/" outside tests
}

// NewPaths creates a new Paths instance
// baseDir: base directory (empty string uses default)
// rootDir: filesystem root (empty string uses "/")
func NewPaths(baseDir, rootDir string) *Paths {
	if baseDir == "" {
		baseDir = BaseDirFromEnv()
	}
	if rootDir == "" {
		rootDir = "/"
	}
	return &Paths{
		BaseDir: baseDir,
		RootDir: rootDir,
	}
}

// BaseDirFromEnv returns $HADOOP_NODE_BASE_DIR or DefaultBaseDir.
func BaseDirFromEnv() string {
	if dir := os.Getenv("HADOOP_NODE_BASE_DIR"); dir != "" {
		return dir
	}
	return DefaultBaseDir
}

// DescriptorFile returns the distribution descriptor: $BASE_DIR/dist.yaml
func (p *Paths) DescriptorFile() string {
	return filepath.Join(p.BaseDir, "dist.yaml")
}

// OptionsFile returns the operator options: $BASE_DIR/options.yaml
func (p *Paths) OptionsFile() string {
	return filepath.Join(p.BaseDir, "options.yaml")
}

// RelationsFile returns the peer relation data: $BASE_DIR/relations.yaml
func (p *Paths) RelationsFile() string {
	return filepath.Join(p.BaseDir, "relations.yaml")
}

// ResourcesDir holds fetched artifacts (installer, archive, demo scripts).
func (p *Paths) ResourcesDir() string {
	return filepath.Join(p.BaseDir, "resources")
}

// Resource returns the path of a named artifact under ResourcesDir.
func (p *Paths) Resource(name string) string {
	return filepath.Join(p.ResourcesDir(), name)
}

// StateDir returns the state directory: $BASE_DIR/state
func (p *Paths) StateDir() string {
	return filepath.Join(p.BaseDir, "state")
}

// StateFile returns the completion-flag store: $BASE_DIR/state/state.json
func (p *Paths) StateFile() string {
	return filepath.Join(p.StateDir(), "state.json")
}

// EtcHosts returns the system hosts file.
func (p *Paths) EtcHosts() string {
	return filepath.Join(p.RootDir, "etc", "hosts")
}

// EtcEnvironment returns the system-wide environment file.
func (p *Paths) EtcEnvironment() string {
	return filepath.Join(p.RootDir, "etc", "environment")
}

// HomeDir returns a user's home directory under RootDir.
func (p *Paths) HomeDir(user string) string {
	return filepath.Join(p.RootDir, "home", user)
}
