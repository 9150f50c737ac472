// Package cluster gathers every role a node can play and selects them by
// name.
package cluster

import (
	"fmt"
	"sort"
	"strings"

	"k8s.io/utils/clock"

	"github.com/danieljhkim/hadoop-node/internal/install"
	"github.com/danieljhkim/hadoop-node/internal/relation"
	"github.com/danieljhkim/hadoop-node/internal/service"
	"github.com/danieljhkim/hadoop-node/internal/service/hdfs"
	"github.com/danieljhkim/hadoop-node/internal/service/yarn"
)

// UnknownRoleError is returned for a role name outside the known set.
type UnknownRoleError struct {
	Name  string
	Known []string
}

func (e *UnknownRoleError) Error() string {
	return fmt.Sprintf("unknown role %q (known: %s)", e.Name, strings.Join(e.Known, ", "))
}

// Node is one installed Hadoop node and the roles it can play.
type Node struct {
	Base *install.Base
	HDFS *hdfs.HDFS
	YARN *yarn.YARN

	roles map[string]service.Role
}

// New wires the HDFS and YARN managers for b. A nil clk uses the real clock.
func New(b *install.Base, rels relation.Relations, clk clock.Clock) *Node {
	n := &Node{
		Base:  b,
		HDFS:  hdfs.New(b, rels, clk),
		YARN:  yarn.New(b, rels, clk),
		roles: map[string]service.Role{},
	}
	for _, r := range append(n.HDFS.Roles(), n.YARN.Roles()...) {
		n.roles[r.Name()] = overridden{Role: r, base: b}
	}
	return n
}

// overridden applies the operator's overrides.yaml after the role has
// written its own properties.
type overridden struct {
	service.Role
	base *install.Base
}

func (r overridden) Configure() error {
	if err := r.Role.Configure(); err != nil {
		return err
	}
	return r.base.ApplyOverrides()
}

// RoleNames returns every known role name, sorted.
func (n *Node) RoleNames() []string {
	names := make([]string, 0, len(n.roles))
	for name := range n.roles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Role returns the named role.
func (n *Node) Role(name string) (service.Role, error) {
	r, ok := n.roles[name]
	if !ok {
		return nil, &UnknownRoleError{Name: name, Known: n.RoleNames()}
	}
	return r, nil
}

// Roles resolves every name, failing on the first unknown one.
func (n *Node) Roles(names ...string) ([]service.Role, error) {
	out := make([]service.Role, 0, len(names))
	for _, name := range names {
		r, err := n.Role(name)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Daemons returns every daemon controller on the node, HDFS first.
func (n *Node) Daemons() []*service.Daemon {
	return append(n.HDFS.Daemons(), n.YARN.Daemons()...)
}

// Status probes every daemon. A failing probe is reported as not running.
func (n *Node) Status() []service.DaemonStatus {
	var out []service.DaemonStatus
	for _, d := range n.Daemons() {
		st, err := d.Status()
		if err != nil {
			st = service.DaemonStatus{Name: d.Name}
		}
		out = append(out, st)
	}
	return out
}
