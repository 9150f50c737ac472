package hdfs

import (
	"fmt"
	"strings"
	"time"

	"k8s.io/klog/v2"

	"github.com/danieljhkim/hadoop-node/internal/service"
	"github.com/danieljhkim/hadoop-node/internal/util"
)

// PollInterval is the delay between dfsadmin reports in WaitForHDFS.
const PollInterval = 2 * time.Second

// readyMarker appears in dfsadmin -report once a datanode has registered.
const readyMarker = "Datanodes available"

// TimeoutError is returned by WaitForHDFS when no datanode registered in time.
type TimeoutError struct {
	Timeout    time.Duration
	LastOutput string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for HDFS:\n%s", e.Timeout, e.LastOutput)
}

// RegisterSlaves rewrites the slaves file with every ready datanode, owned
// by ubuntu:hadoop.
func (h *HDFS) RegisterSlaves() error {
	units, err := h.rels.AllReadyUnits(RelDatanode)
	if err != nil {
		return err
	}
	hostnames := make([]string, 0, len(units))
	for _, u := range units {
		hostnames = append(hostnames, u.Hostname)
	}

	path, err := service.WriteSlaves(h.base.ConfDir(), hostnames)
	if err != nil {
		return fmt.Errorf("failed to write slaves file: %w", err)
	}
	if err := h.Chown(path, "ubuntu", "hadoop"); err != nil {
		return err
	}
	util.Log("Registered %d datanode(s)", len(hostnames))
	return nil
}

// WaitForHDFS polls dfsadmin -report until a datanode is available or
// timeout elapses. A failing report counts as not ready.
func (h *HDFS) WaitForHDFS(timeout time.Duration) error {
	start := h.clock.Now()
	var output string
	for h.clock.Since(start) < timeout {
		out, err := h.hdfs("dfsadmin", "-report")
		output = out
		if err == nil && strings.Contains(out, readyMarker) {
			return nil
		}
		klog.V(4).Infof("HDFS not ready after %s", h.clock.Since(start))
		h.clock.Sleep(PollInterval)
	}
	return &TimeoutError{Timeout: timeout, LastOutput: output}
}
