// Package app builds the node objects subcommands work on from the paths
// and flags on the command line.
package app

import (
	"k8s.io/utils/clock"

	"github.com/danieljhkim/hadoop-node/internal/cluster"
	"github.com/danieljhkim/hadoop-node/internal/config"
	"github.com/danieljhkim/hadoop-node/internal/dist"
	"github.com/danieljhkim/hadoop-node/internal/env"
	"github.com/danieljhkim/hadoop-node/internal/install"
	"github.com/danieljhkim/hadoop-node/internal/relation"
	"github.com/danieljhkim/hadoop-node/internal/state"
)

// Context is shared by every subcommand of one invocation.
type Context struct {
	Paths  *config.Paths
	Runner env.Runner
	Clock  clock.Clock

	store state.Store
}

// Getter returns the Context; subcommands call it lazily so flags are parsed
// first.
type Getter func() *Context

// New creates a Context that runs real commands on the host.
func New(paths *config.Paths) *Context {
	return &Context{Paths: paths, Runner: env.NewRunner(), Clock: clock.RealClock{}}
}

// Descriptor loads the distribution descriptor with the options applied.
func (c *Context) Descriptor() (*dist.Descriptor, error) {
	d, err := dist.Load(c.Paths.DescriptorFile(), dist.RequiredKeys...)
	if err != nil {
		return nil, err
	}
	opts, err := c.Options()
	if err != nil {
		return nil, err
	}
	return d.WithConfig(opts), nil
}

// Options loads operator options, filling in defaults.
func (c *Context) Options() (*config.Options, error) {
	return config.NewOptionsManager(c.Paths).LoadOrDefault()
}

// Store opens the state store once per Context.
func (c *Context) Store() (state.Store, error) {
	if c.store != nil {
		return c.store, nil
	}
	fs, err := state.OpenFileStore(c.Paths.StateFile())
	if err != nil {
		return nil, err
	}
	c.store = fs
	return fs, nil
}

// SetStore replaces the state store, e.g. with a state.MemoryStore.
func (c *Context) SetStore(s state.Store) { c.store = s }

// Relations reads peer data from the relations file.
func (c *Context) Relations() relation.Relations {
	return relation.NewFileRelations(c.Paths.RelationsFile())
}

// Base builds the installation base.
func (c *Context) Base() (*install.Base, error) {
	d, err := dist.Load(c.Paths.DescriptorFile(), dist.RequiredKeys...)
	if err != nil {
		return nil, err
	}
	opts, err := c.Options()
	if err != nil {
		return nil, err
	}
	store, err := c.Store()
	if err != nil {
		return nil, err
	}
	return install.NewBase(d, opts, c.Paths, store, c.Runner)
}

// Node builds the installation base and every role manager on top of it.
func (c *Context) Node() (*cluster.Node, error) {
	b, err := c.Base()
	if err != nil {
		return nil, err
	}
	return cluster.New(b, c.Relations(), c.Clock), nil
}
