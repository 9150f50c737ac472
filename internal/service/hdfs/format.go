package hdfs

import (
	"fmt"
	"path/filepath"

	"k8s.io/klog/v2"

	"github.com/danieljhkim/hadoop-node/internal/state"
	"github.com/danieljhkim/hadoop-node/internal/util"
)

// AlreadyFormattedError is returned when a name dir holds metadata the state
// store does not know about. Formatting it would destroy the filesystem.
type AlreadyFormattedError struct {
	Dir string
}

func (e *AlreadyFormattedError) Error() string {
	return fmt.Sprintf("NameNode directory is already formatted: %s\n"+
		"  Refusing to format over existing metadata. To format anyway, remove it first:\n"+
		"    rm -rf %s", e.Dir, e.Dir)
}

// FormatNamenode formats the namenode once. The namenode is stopped first.
func (h *HDFS) FormatNamenode() error {
	if state.IsSet(h.base.State, state.FlagNamenodeFormatted) {
		klog.V(2).Info("namenode already formatted")
		return nil
	}

	if err := h.StopNamenode(); err != nil {
		return err
	}
	if err := h.checkNameDirs(); err != nil {
		return err
	}

	util.Log("Formatting NameNode")
	// -nonInteractive makes hdfs abort instead of prompting when a name dir
	// already has data.
	if out, err := h.hdfs("namenode", "-format", "-nonInteractive"); err != nil {
		if out != "" {
			util.Warn("Format command output:\n%s", out)
		}
		return fmt.Errorf("failed to format NameNode: %w", err)
	}

	return state.MarkDone(h.base.State, state.FlagNamenodeFormatted)
}

// checkNameDirs refuses any name dir that already holds current/VERSION.
func (h *HDFS) checkNameDirs() error {
	dirs, err := util.ParseNameNodeDirs(h.base.ConfFile("hdfs-site.xml"))
	if err != nil {
		// Leave it to hdfs to decide where the name dir lives.
		klog.V(2).Infof("skipping name dir check: %v", err)
		return nil
	}
	for _, dir := range dirs {
		if util.FileExists(filepath.Join(dir, "current", "VERSION")) {
			return &AlreadyFormattedError{Dir: dir}
		}
	}
	return nil
}

// hdfsDirs is the directory layout MapReduce, the job history server and YARN
// log aggregation expect, run in order as hdfs dfs subcommands.
var hdfsDirs = [][]string{
	{"-mkdir", "-p", "/tmp/hadoop/mapred/staging"},
	{"-chmod", "-R", "1777", "/tmp/hadoop/mapred/staging"},
	{"-mkdir", "-p", "/tmp/hadoop-yarn/staging"},
	{"-chmod", "-R", "1777", "/tmp/hadoop-yarn"},
	{"-mkdir", "-p", "/user/ubuntu"},
	{"-chown", "-R", "ubuntu", "/user/ubuntu"},
	// job history
	{"-mkdir", "-p", "/mr-history/tmp"},
	{"-chmod", "-R", "1777", "/mr-history/tmp"},
	{"-mkdir", "-p", "/mr-history/done"},
	{"-chmod", "-R", "1777", "/mr-history/done"},
	{"-chown", "-R", "mapred:hdfs", "/mr-history"},
	{"-mkdir", "-p", "/app-logs"},
	{"-chmod", "-R", "1777", "/app-logs"},
	{"-chown", "yarn", "/app-logs"},
}

// CreateHDFSDirs creates the shared HDFS directories once. The namenode must
// be running.
func (h *HDFS) CreateHDFSDirs() error {
	if state.IsSet(h.base.State, state.FlagHDFSDirsCreated) {
		klog.V(2).Info("HDFS directories already created")
		return nil
	}

	util.Log("Creating HDFS directories")
	for _, args := range hdfsDirs {
		if _, err := h.hdfs(append([]string{"dfs"}, args...)...); err != nil {
			return fmt.Errorf("failed to prepare HDFS directories: %w", err)
		}
	}
	return state.MarkDone(h.base.State, state.FlagHDFSDirsCreated)
}
