// Package relation exposes what this node knows about its peers: for each
// relation (namenode, datanode, resourcemanager, nodemanager) the units on
// the other side, their addresses and whether they are ready.
package relation

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrNoReadyUnit is returned when a relation has no ready peer.
var ErrNoReadyUnit = errors.New("no ready unit")

// Unit is one peer on a relation.
type Unit struct {
	Name           string `yaml:"unit"`
	PrivateAddress string `yaml:"private-address"`
	Port           int    `yaml:"port"`
	Hostname       string `yaml:"hostname"`
	Ready          bool   `yaml:"ready"`
}

// HostPort returns "address:port".
func (u Unit) HostPort() string {
	return u.PrivateAddress + ":" + strconv.Itoa(u.Port)
}

// Relations answers peer queries.
type Relations interface {
	// AnyReadyUnit returns one ready peer on rel.
	AnyReadyUnit(rel string) (Unit, error)
	// AllReadyUnits returns every ready peer on rel, possibly none.
	AllReadyUnits(rel string) ([]Unit, error)
}

// Static is a Relations backed by a fixed relation -> units map.
type Static map[string][]Unit

func (s Static) AllReadyUnits(rel string) ([]Unit, error) {
	var ready []Unit
	for _, u := range s[rel] {
		if u.Ready {
			ready = append(ready, u)
		}
	}
	return ready, nil
}

// AnyReadyUnit returns the first ready unit in declaration order.
func (s Static) AnyReadyUnit(rel string) (Unit, error) {
	ready, _ := s.AllReadyUnits(rel)
	if len(ready) == 0 {
		return Unit{}, fmt.Errorf("relation %s: %w", rel, ErrNoReadyUnit)
	}
	return ready[0], nil
}

// FileRelations reads relation data from a YAML file on every query, so
// changes written by the discovery agent are seen without a restart.
type FileRelations struct {
	Path string
}

// NewFileRelations returns Relations backed by path.
func NewFileRelations(path string) *FileRelations {
	return &FileRelations{Path: path}
}

func (f *FileRelations) load() (Static, error) {
	data, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return Static{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read relations: %w", err)
	}

	s := Static{}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse relations %s: %w", f.Path, err)
	}
	return s, nil
}

func (f *FileRelations) AllReadyUnits(rel string) ([]Unit, error) {
	s, err := f.load()
	if err != nil {
		return nil, err
	}
	return s.AllReadyUnits(rel)
}

func (f *FileRelations) AnyReadyUnit(rel string) (Unit, error) {
	s, err := f.load()
	if err != nil {
		return Unit{}, err
	}
	return s.AnyReadyUnit(rel)
}
