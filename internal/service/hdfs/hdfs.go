// Package hdfs configures and runs the HDFS roles of a node: namenode,
// secondary namenode, datanode and client.
package hdfs

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"k8s.io/utils/clock"

	"github.com/danieljhkim/hadoop-node/internal/config"
	"github.com/danieljhkim/hadoop-node/internal/editor"
	"github.com/danieljhkim/hadoop-node/internal/env"
	"github.com/danieljhkim/hadoop-node/internal/install"
	"github.com/danieljhkim/hadoop-node/internal/relation"
	"github.com/danieljhkim/hadoop-node/internal/service"
	"github.com/danieljhkim/hadoop-node/internal/util"
)

// User runs every HDFS daemon and command.
const User = "hdfs"

// SettleDelay is how long a freshly started namenode or secondary namenode
// gets before it is expected to accept connections.
const SettleDelay = 30 * time.Second

// Relation names this package queries.
const (
	RelNamenode = "namenode"
	RelDatanode = "datanode"
)

// HDFS manages the HDFS side of an installed node.
type HDFS struct {
	base *install.Base
	rels relation.Relations

	clock clock.Clock
	// Chown changes file ownership; tests replace it.
	Chown func(path, owner, group string) error

	Namenode          *service.Daemon
	SecondaryNamenode *service.Daemon
	Datanode          *service.Daemon
}

// New creates an HDFS manager. A nil clk uses the real clock.
func New(b *install.Base, rels relation.Relations, clk clock.Clock) *HDFS {
	if clk == nil {
		clk = clock.RealClock{}
	}
	const script = "sbin/hadoop-daemon.sh"
	return &HDFS{
		base:  b,
		rels:  rels,
		clock: clk,
		Chown: util.Chown,
		Namenode: service.NewDaemon(b, clk, "namenode",
			"org.apache.hadoop.hdfs.server.namenode.NameNode", script, User, SettleDelay),
		SecondaryNamenode: service.NewDaemon(b, clk, "secondarynamenode",
			"org.apache.hadoop.hdfs.server.namenode.SecondaryNameNode", script, User, SettleDelay),
		Datanode: service.NewDaemon(b, clk, "datanode",
			"org.apache.hadoop.hdfs.server.datanode.DataNode", script, User, 0),
	}
}

// Roles returns the HDFS roles this node can play.
func (h *HDFS) Roles() []service.Role {
	return []service.Role{
		service.RoleFuncs{RoleName: "namenode", ConfigureFn: h.ConfigureNamenode, StartFn: h.StartNamenode, StopFn: h.StopNamenode},
		service.RoleFuncs{RoleName: "secondarynamenode", ConfigureFn: h.ConfigureSecondaryNamenode, StartFn: h.StartSecondaryNamenode, StopFn: h.StopSecondaryNamenode},
		service.RoleFuncs{RoleName: "datanode", ConfigureFn: h.ConfigureDatanode, StartFn: h.StartDatanode, StopFn: h.StopDatanode},
		service.RoleFuncs{RoleName: "hdfs-client", ConfigureFn: h.ConfigureClient},
	}
}

// local is the namenode address as seen by the namenode itself.
func (h *HDFS) local() (string, int, error) {
	port, err := h.base.Port("namenode")
	if err != nil {
		return "", 0, err
	}
	return h.base.Unit.PrivateAddress, port, nil
}

// remote is the namenode address published by a ready peer on rel.
func (h *HDFS) remote(rel string) (string, int, error) {
	u, err := h.rels.AnyReadyUnit(rel)
	if err != nil {
		return "", 0, err
	}
	return u.PrivateAddress, u.Port, nil
}

// ConfigureNamenode points the node at itself and sets the namenode-only
// properties.
func (h *HDFS) ConfigureNamenode() error {
	host, port, err := h.local()
	if err != nil {
		return err
	}
	if err := h.configureHDFSBase(host, port); err != nil {
		return err
	}

	replication, err := h.base.Options.Int(config.OptDFSReplication)
	if err != nil {
		return err
	}
	blocksize, err := h.base.Options.Int(config.OptDFSBlocksize)
	if err != nil {
		return err
	}
	webPort, err := h.base.Port("nn_webapp_http")
	if err != nil {
		return err
	}

	return editor.EditPropertyMap(h.base.ConfFile("hdfs-site.xml"), func(props editor.PropertyMap) error {
		props.Set("dfs.replication", replication)
		props.Set("dfs.blocksize", blocksize)
		props.Set("dfs.namenode.datanode.registration.ip-hostname-check", "true")
		props.Set("dfs.namenode.http-address", listenAll(webPort))
		return nil
	})
}

// ConfigureSecondaryNamenode points the node at the related namenode. The
// secondary only checkpoints the namenode's image, so it needs nothing else.
func (h *HDFS) ConfigureSecondaryNamenode() error {
	host, port, err := h.remote(RelNamenode)
	if err != nil {
		return err
	}
	return h.configureHDFSBase(host, port)
}

// ConfigureDatanode points the node at the namenode it stores blocks for.
func (h *HDFS) ConfigureDatanode() error {
	host, port, err := h.remote(RelDatanode)
	if err != nil {
		return err
	}
	if err := h.configureHDFSBase(host, port); err != nil {
		return err
	}
	webPort, err := h.base.Port("dn_webapp_http")
	if err != nil {
		return err
	}
	return editor.EditPropertyMap(h.base.ConfFile("hdfs-site.xml"), func(props editor.PropertyMap) error {
		props.Set("dfs.datanode.http.address", listenAll(webPort))
		return nil
	})
}

// ConfigureClient points the node at the related namenode.
func (h *HDFS) ConfigureClient() error {
	host, port, err := h.remote(RelNamenode)
	if err != nil {
		return err
	}
	return h.configureHDFSBase(host, port)
}

func (h *HDFS) configureHDFSBase(host string, port int) error {
	dirBase, err := h.base.DirPath("hdfs_dir_base")
	if err != nil {
		return err
	}

	if err := editor.EditPropertyMap(h.base.ConfFile("core-site.xml"), func(props editor.PropertyMap) error {
		props.Set("fs.defaultFS", fmt.Sprintf("hdfs://%s:%d", host, port))
		props.Set("hadoop.proxyuser.hue.hosts", "*")
		props.Set("hadoop.proxyuser.hue.groups", "*")
		props.Set("hadoop.proxyuser.oozie.groups", "*")
		props.Set("hadoop.proxyuser.oozie.hosts", "*")
		return nil
	}); err != nil {
		return err
	}

	// Permission checks stay off unless the operator opts in.
	permissions, err := h.base.Options.Bool(config.OptDFSPermissions)
	if err != nil {
		return err
	}

	return editor.EditPropertyMap(h.base.ConfFile("hdfs-site.xml"), func(props editor.PropertyMap) error {
		props.Set("dfs.webhdfs.enabled", "true")
		props.Set("dfs.namenode.name.dir", filepath.Join(dirBase, "cache/hadoop/dfs/name"))
		props.Set("dfs.datanode.data.dir", filepath.Join(dirBase, "cache/hadoop/dfs/data"))
		props.Set("dfs.permissions", permissions)
		return nil
	})
}

func (h *HDFS) StartNamenode() error          { return h.Namenode.Start() }
func (h *HDFS) StopNamenode() error           { return h.Namenode.Stop() }
func (h *HDFS) StartSecondaryNamenode() error { return h.SecondaryNamenode.Start() }
func (h *HDFS) StopSecondaryNamenode() error  { return h.SecondaryNamenode.Stop() }
func (h *HDFS) StartDatanode() error          { return h.Datanode.Start() }
func (h *HDFS) StopDatanode() error           { return h.Datanode.Stop() }

// Daemons returns every HDFS daemon controller.
func (h *HDFS) Daemons() []*service.Daemon {
	return []*service.Daemon{h.Namenode, h.SecondaryNamenode, h.Datanode}
}

// hdfs runs bin/hdfs as the hdfs user and returns its output, including on
// failure.
func (h *HDFS) hdfs(args ...string) (string, error) {
	res, err := h.base.Run(User, "bin/hdfs", args...)
	out := res.Output()
	var se *env.SubprocessError
	if out == "" && errors.As(err, &se) {
		out = se.Output
	}
	return out, err
}

func listenAll(port int) string {
	return "0.0.0.0:" + strconv.Itoa(port)
}
