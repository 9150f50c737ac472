// Package service holds what the HDFS and YARN role configurators share: the
// Role contract and the daemon controller that drives Hadoop's *-daemon.sh
// scripts.
package service

import (
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
)

// DaemonStatus represents the status of one Hadoop daemon.
type DaemonStatus struct {
	Name    string // Daemon name (e.g., "namenode", "datanode", "resourcemanager")
	Running bool   // true if running
	PIDs    []int  // Matching JVM pids (empty if not running)
}

// Role is one node role a unit can play. Configure edits the role's Hadoop
// configuration; Start and Stop drive its daemon (no-ops for client roles).
type Role interface {
	Name() string
	Configure() error
	Start() error
	Stop() error
}

// RoleFuncs adapts plain functions to Role. A nil Start or Stop is a no-op.
type RoleFuncs struct {
	RoleName    string
	ConfigureFn func() error
	StartFn     func() error
	StopFn      func() error
}

func (r RoleFuncs) Name() string { return r.RoleName }

func (r RoleFuncs) Configure() error {
	if r.ConfigureFn == nil {
		return nil
	}
	return r.ConfigureFn()
}

func (r RoleFuncs) Start() error {
	if r.StartFn == nil {
		return nil
	}
	return r.StartFn()
}

func (r RoleFuncs) Stop() error {
	if r.StopFn == nil {
		return nil
	}
	return r.StopFn()
}

// SlavesHeader opens every generated slaves file.
var SlavesHeader = []string{
	"# DO NOT EDIT",
	"# This file is automatically managed by hadoop-node",
}

// WriteSlaves overwrites confDir/slaves with SlavesHeader followed by one
// hostname per line, and returns the file path.
func WriteSlaves(confDir string, hostnames []string) (string, error) {
	path := filepath.Join(confDir, "slaves")
	lines := append(append([]string{}, SlavesHeader...), hostnames...)
	if err := renameio.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		return "", err
	}
	return path, nil
}
