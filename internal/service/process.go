package service

import (
	"fmt"
	"time"

	"k8s.io/klog/v2"
	"k8s.io/utils/clock"

	"github.com/danieljhkim/hadoop-node/internal/env"
	"github.com/danieljhkim/hadoop-node/internal/install"
	"github.com/danieljhkim/hadoop-node/internal/util"
)

// Daemon controls one Hadoop daemon through its control script, e.g.
// sbin/hadoop-daemon.sh --config <conf> start namenode.
// Liveness is probed by JVM class name, so no PID files are involved.
type Daemon struct {
	Name   string        // Argument to the script, e.g. "namenode" or "historyserver"
	Class  string        // Fully qualified main class used for the liveness probe
	Script string        // Control script relative to the Hadoop dir
	User   string        // System user the script runs as
	Settle time.Duration // Wait after a start so the daemon can accept connections

	base  *install.Base
	clock clock.Clock
}

// NewDaemon creates a controller for one daemon of the installation in b.
func NewDaemon(b *install.Base, clk clock.Clock, name, class, script, user string, settle time.Duration) *Daemon {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Daemon{
		Name:   name,
		Class:  class,
		Script: script,
		User:   user,
		Settle: settle,
		base:   b,
		clock:  clk,
	}
}

// IsRunning reports whether a JVM running Class is alive.
func (d *Daemon) IsRunning() (bool, error) {
	return env.JavaProcessRunning(d.base.Runner, d.Class)
}

// Status returns the daemon's status.
func (d *Daemon) Status() (DaemonStatus, error) {
	pids, err := env.JavaPIDs(d.base.Runner, d.Class)
	if err != nil {
		return DaemonStatus{Name: d.Name}, err
	}
	return DaemonStatus{Name: d.Name, Running: len(pids) > 0, PIDs: pids}, nil
}

// Start starts the daemon unless it is already running, then waits Settle.
func (d *Daemon) Start() error {
	running, err := d.IsRunning()
	if err != nil {
		return fmt.Errorf("failed to probe %s: %w", d.Name, err)
	}
	if running {
		util.Log("%s already running", d.Name)
		return nil
	}
	if err := d.control("start"); err != nil {
		return err
	}
	if d.Settle > 0 {
		klog.V(2).Infof("waiting %s for %s to settle", d.Settle, d.Name)
		d.clock.Sleep(d.Settle)
	}
	return nil
}

// Stop stops the daemon. The script itself tolerates a daemon that is not
// running.
func (d *Daemon) Stop() error {
	return d.control("stop")
}

// Restart stops the daemon if it is running and starts it again.
func (d *Daemon) Restart() error {
	running, err := d.IsRunning()
	if err != nil {
		return fmt.Errorf("failed to probe %s: %w", d.Name, err)
	}
	if running {
		if err := d.control("stop"); err != nil {
			return err
		}
	}
	return d.control("start")
}

func (d *Daemon) control(action string) error {
	util.Log("%s %s", actionVerb(action), d.Name)
	if _, err := d.base.Run(d.User, d.Script, "--config", d.base.ConfDir(), action, d.Name); err != nil {
		return fmt.Errorf("failed to %s %s: %w", action, d.Name, err)
	}
	return nil
}

func actionVerb(action string) string {
	switch action {
	case "start":
		return "Starting"
	case "stop":
		return "Stopping"
	}
	return action
}
