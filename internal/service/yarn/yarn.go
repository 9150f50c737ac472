// Package yarn configures and runs the YARN roles of a node: resource
// manager, node manager, job history server and client.
package yarn

import (
	"fmt"
	"strconv"

	"k8s.io/utils/clock"

	"github.com/danieljhkim/hadoop-node/internal/editor"
	"github.com/danieljhkim/hadoop-node/internal/install"
	"github.com/danieljhkim/hadoop-node/internal/relation"
	"github.com/danieljhkim/hadoop-node/internal/service"
	"github.com/danieljhkim/hadoop-node/internal/util"
)

// System users the YARN daemons run as.
const (
	User       = "yarn"
	MapredUser = "mapred"
)

// Relation names this package queries.
const (
	RelResourcemanager = "resourcemanager"
	RelNodemanager     = "nodemanager"
)

// listenAll binds a server to every interface.
const listenAll = "0.0.0.0"

// YARN manages the YARN side of an installed node.
type YARN struct {
	base *install.Base
	rels relation.Relations

	// Chown changes file ownership; tests replace it.
	Chown func(path, owner, group string) error

	Resourcemanager *service.Daemon
	Nodemanager     *service.Daemon
	Jobhistory      *service.Daemon
}

// New creates a YARN manager. A nil clk uses the real clock.
func New(b *install.Base, rels relation.Relations, clk clock.Clock) *YARN {
	const script = "sbin/yarn-daemon.sh"
	return &YARN{
		base:  b,
		rels:  rels,
		Chown: util.Chown,
		Resourcemanager: service.NewDaemon(b, clk, "resourcemanager",
			"org.apache.hadoop.yarn.server.resourcemanager.ResourceManager", script, User, 0),
		Nodemanager: service.NewDaemon(b, clk, "nodemanager",
			"org.apache.hadoop.yarn.server.nodemanager.NodeManager", script, User, 0),
		Jobhistory: service.NewDaemon(b, clk, "historyserver",
			"org.apache.hadoop.mapreduce.v2.hs.JobHistoryServer", "sbin/mr-jobhistory-daemon.sh", MapredUser, 0),
	}
}

// Roles returns the YARN roles this node can play.
func (y *YARN) Roles() []service.Role {
	return []service.Role{
		service.RoleFuncs{RoleName: "resourcemanager", ConfigureFn: y.ConfigureResourcemanager, StartFn: y.StartResourcemanager, StopFn: y.StopResourcemanager},
		service.RoleFuncs{RoleName: "nodemanager", ConfigureFn: y.ConfigureNodemanager, StartFn: y.StartNodemanager, StopFn: y.StopNodemanager},
		service.RoleFuncs{RoleName: "jobhistory", ConfigureFn: y.ConfigureJobhistory, StartFn: y.StartJobhistory, StopFn: y.StopJobhistory},
		service.RoleFuncs{RoleName: "yarn-client", ConfigureFn: y.ConfigureClient},
	}
}

// local is the resource manager address as seen by a master: every
// interface.
func (y *YARN) local() (string, int, error) {
	port, err := y.base.Port("resourcemanager")
	if err != nil {
		return "", 0, err
	}
	return listenAll, port, nil
}

// remote is the resource manager address published by a ready peer on rel.
func (y *YARN) remote(rel string) (string, int, error) {
	u, err := y.rels.AnyReadyUnit(rel)
	if err != nil {
		return "", 0, err
	}
	return u.PrivateAddress, u.Port, nil
}

// ConfigureResourcemanager sets up the resource manager and its web UI.
func (y *YARN) ConfigureResourcemanager() error {
	host, port, err := y.local()
	if err != nil {
		return err
	}
	if err := y.configureYARNBase(host, port); err != nil {
		return err
	}
	webPort, err := y.base.Port("rm_webapp_http")
	if err != nil {
		return err
	}
	return editor.EditPropertyMap(y.base.ConfFile("yarn-site.xml"), func(props editor.PropertyMap) error {
		props.Set("yarn.resourcemanager.webapp.address", hostPort(listenAll, webPort))
		return nil
	})
}

// ConfigureJobhistory sets up the job history server on every interface.
func (y *YARN) ConfigureJobhistory() error {
	host, port, err := y.local()
	if err != nil {
		return err
	}
	if err := y.configureYARNBase(host, port); err != nil {
		return err
	}
	jhPort, err := y.base.Port("jobhistory")
	if err != nil {
		return err
	}
	jhWebPort, err := y.base.Port("jh_webapp_http")
	if err != nil {
		return err
	}
	return editor.EditPropertyMap(y.base.ConfFile("mapred-site.xml"), func(props editor.PropertyMap) error {
		props.Set("mapreduce.jobhistory.address", hostPort(listenAll, jhPort))
		props.Set("mapreduce.jobhistory.webapp.address", hostPort(listenAll, jhWebPort))
		return nil
	})
}

// ConfigureNodemanager points the node at the resource manager it works for.
func (y *YARN) ConfigureNodemanager() error {
	host, port, err := y.remote(RelNodemanager)
	if err != nil {
		return err
	}
	return y.configureYARNBase(host, port)
}

// ConfigureClient points the node at the related resource manager.
func (y *YARN) ConfigureClient() error {
	host, port, err := y.remote(RelResourcemanager)
	if err != nil {
		return err
	}
	return y.configureYARNBase(host, port)
}

func (y *YARN) configureYARNBase(host string, port int) error {
	logPort, err := y.base.Port("rm_log")
	if err != nil {
		return err
	}
	jhPort, err := y.base.Port("jobhistory")
	if err != nil {
		return err
	}

	logHost := host
	if host == listenAll {
		logHost = "localhost"
	}

	if err := editor.EditPropertyMap(y.base.ConfFile("yarn-site.xml"), func(props editor.PropertyMap) error {
		props.Set("yarn.nodemanager.aux-services", "mapreduce_shuffle")
		props.Set("yarn.resourcemanager.hostname", host)
		props.Set("yarn.resourcemanager.address", hostPort(host, port))
		props.Set("yarn.log.server.url", fmt.Sprintf("%s/jobhistory/logs/", hostPort(logHost, logPort)))
		return nil
	}); err != nil {
		return err
	}

	return editor.EditPropertyMap(y.base.ConfFile("mapred-site.xml"), func(props editor.PropertyMap) error {
		props.Set("mapreduce.jobhistory.address", hostPort(host, jhPort))
		props.Set("mapreduce.framework.name", "yarn")
		return nil
	})
}

func (y *YARN) StartResourcemanager() error { return y.Resourcemanager.Start() }
func (y *YARN) StopResourcemanager() error  { return y.Resourcemanager.Stop() }
func (y *YARN) StartNodemanager() error     { return y.Nodemanager.Start() }
func (y *YARN) StopNodemanager() error      { return y.Nodemanager.Stop() }
func (y *YARN) StopJobhistory() error       { return y.Jobhistory.Stop() }

// StartJobhistory (re)starts the job history server so it picks up the
// current configuration.
func (y *YARN) StartJobhistory() error { return y.Jobhistory.Restart() }

// Daemons returns every YARN daemon controller.
func (y *YARN) Daemons() []*service.Daemon {
	return []*service.Daemon{y.Resourcemanager, y.Nodemanager, y.Jobhistory}
}

func hostPort(host string, port int) string {
	return host + ":" + strconv.Itoa(port)
}
