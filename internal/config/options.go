package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/hadoop-node/internal/util"
)

// Option keys read by the node itself. Any other key is still available to
// {config[...]} placeholders in the descriptor.
const (
	OptHadoopDirBase  = "hadoop_dir_base"
	OptDFSReplication = "dfs_replication"
	OptDFSBlocksize   = "dfs_blocksize"
	OptDFSPermissions = "dfs_permissions"
	OptJavaInstaller  = "java_installer"
	OptHadoopArchive  = "hadoop_archive"
	OptPrivateAddress = "private_address"
	OptHostname       = "hostname"
	OptFQDN           = "fqdn"
)

// Options are operator-supplied settings for this node.
type Options struct {
	values map[string]string
}

// NewOptions builds Options from plain values. Scalars are stringified.
func NewOptions(values map[string]any) *Options {
	o := &Options{values: make(map[string]string, len(values))}
	for k, v := range values {
		o.Set(k, v)
	}
	return o
}

// Set stores value under key.
func (o *Options) Set(key string, value any) {
	switch v := value.(type) {
	case string:
		o.values[key] = v
	case nil:
		o.values[key] = ""
	default:
		o.values[key] = fmt.Sprint(v)
	}
}

// String returns the value of key.
func (o *Options) String(key string) (string, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Int returns key parsed as an integer.
func (o *Options) Int(key string) (int, error) {
	v, ok := o.values[key]
	if !ok {
		return 0, fmt.Errorf("option %s not set", key)
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("option %s: %q is not an integer", key, v)
	}
	return n, nil
}

// Bool returns key as a boolean. Unset options are false.
func (o *Options) Bool(key string) (bool, error) {
	b, ok := util.NormalizeStrBool(o.values[key])
	if !ok {
		return false, fmt.Errorf("option %s: %q is not a boolean", key, o.values[key])
	}
	return b, nil
}

// Keys returns every option name, sorted.
func (o *Options) Keys() []string {
	keys := make([]string, 0, len(o.values))
	for k := range o.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ValidateOption checks a value before it is saved under key.
func ValidateOption(key, value string) error {
	switch key {
	case OptDFSReplication, OptDFSBlocksize:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n <= 0 {
			return fmt.Errorf("option %s must be a positive integer, got %q", key, value)
		}
	case OptDFSPermissions:
		if _, ok := util.NormalizeStrBool(value); !ok {
			return fmt.Errorf("option %s must be a boolean, got %q", key, value)
		}
	case OptHadoopDirBase, OptJavaInstaller, OptHadoopArchive:
		if !strings.HasPrefix(value, "/") {
			return fmt.Errorf("option %s must be an absolute path, got %q", key, value)
		}
	}
	return nil
}

// OptionsManager handles options persistence.
type OptionsManager struct {
	paths *Paths
}

// NewOptionsManager creates an options manager.
func NewOptionsManager(paths *Paths) *OptionsManager {
	return &OptionsManager{paths: paths}
}

// Path returns the options file path.
func (om *OptionsManager) Path() string {
	return om.paths.OptionsFile()
}

// Load reads options from disk.
func (om *OptionsManager) Load() (*Options, error) {
	data, err := os.ReadFile(om.Path())
	if err != nil {
		return nil, err
	}

	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse options: %w", err)
	}
	return NewOptions(raw), nil
}

// LoadOrDefault reads options and fills in defaults for anything unset.
// A missing options file is not an error.
func (om *OptionsManager) LoadOrDefault() (*Options, error) {
	opts, err := om.Load()
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		opts = NewOptions(nil)
	}

	for k, v := range defaultOptions(om.paths) {
		if _, ok := opts.values[k]; !ok {
			opts.values[k] = v
		}
	}
	return opts, nil
}

// Save writes options to disk.
func (om *OptionsManager) Save(opts *Options) error {
	if opts == nil {
		return fmt.Errorf("options required")
	}
	if err := os.MkdirAll(om.paths.BaseDir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(opts.values)
	if err != nil {
		return fmt.Errorf("failed to marshal options: %w", err)
	}
	return renameio.WriteFile(om.Path(), data, 0644)
}

func defaultOptions(paths *Paths) map[string]string {
	hostname, _ := os.Hostname()
	short := hostname
	if i := strings.IndexByte(hostname, '.'); i > 0 {
		short = hostname[:i]
	}
	return map[string]string{
		OptHadoopDirBase:  "/usr/local/hadoop/data",
		OptDFSReplication: "3",
		OptDFSBlocksize:   "134217728",
		OptJavaInstaller:  paths.Resource("java-installer.sh"),
		OptHadoopArchive:  paths.Resource("hadoop.tar.gz"),
		OptHostname:       short,
		OptFQDN:           hostname,
	}
}
