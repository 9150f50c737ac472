// Package state persists the small amount of data a node keeps between runs:
// completion flags for one-time operations, the installed Java runtime and
// the peer /etc/hosts records.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/renameio/v2"
	"k8s.io/klog/v2"
)

// Completion flags. Each is set once, after its operation succeeds, and never
// cleared.
const (
	FlagBaseInstalled     = "hadoop.base.installed"
	FlagNamenodeFormatted = "hdfs.namenode.formatted"
	FlagHDFSDirsCreated   = "hdfs.namenode.dirs.created"
	FlagDemoInstalled     = "yarn.client.demo.installed"
	KeyJavaHome           = "java.home"
	KeyJavaVersion        = "java.version"
	EtcHostPrefix         = "etc_host."
)

// Store is a durable string key-value namespace.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	// Keys returns every key starting with prefix, sorted.
	Keys(prefix string) []string
	// Flush makes all previous Sets durable.
	Flush() error
}

// IsSet reports whether flag has been marked done.
func IsSet(s Store, flag string) bool {
	v, ok := s.Get(flag)
	return ok && v == "true"
}

// MarkDone sets flag and flushes the store.
func MarkDone(s Store, flag string) error {
	s.Set(flag, "true")
	if err := s.Flush(); err != nil {
		return fmt.Errorf("failed to persist %s: %w", flag, err)
	}
	klog.V(2).Infof("flag %s set", flag)
	return nil
}

// FileStore keeps the namespace as a JSON object in a single file.
type FileStore struct {
	path string
	data map[string]string
}

// OpenFileStore loads path, or starts empty if it does not exist yet.
func OpenFileStore(path string) (*FileStore, error) {
	fs := &FileStore{path: path, data: map[string]string{}}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return fs, nil
	}
	if err := json.Unmarshal(raw, &fs.data); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", path, err)
	}
	return fs, nil
}

// Path returns the backing file.
func (fs *FileStore) Path() string { return fs.path }

func (fs *FileStore) Get(key string) (string, bool) {
	v, ok := fs.data[key]
	return v, ok
}

func (fs *FileStore) Set(key, value string) {
	fs.data[key] = value
}

func (fs *FileStore) Keys(prefix string) []string {
	return sortedKeys(fs.data, prefix)
}

func (fs *FileStore) Flush() error {
	if err := os.MkdirAll(filepath.Dir(fs.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(fs.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := renameio.WriteFile(fs.path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}

// MemoryStore is an in-process Store for tests and dry runs.
type MemoryStore struct {
	Data    map[string]string
	Flushes int
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{Data: map[string]string{}}
}

func (m *MemoryStore) Get(key string) (string, bool) {
	v, ok := m.Data[key]
	return v, ok
}

func (m *MemoryStore) Set(key, value string) { m.Data[key] = value }

func (m *MemoryStore) Keys(prefix string) []string { return sortedKeys(m.Data, prefix) }

func (m *MemoryStore) Flush() error {
	m.Flushes++
	return nil
}

func sortedKeys(data map[string]string, prefix string) []string {
	var keys []string
	for k := range data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
