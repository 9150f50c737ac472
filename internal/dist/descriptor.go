// Package dist loads the distribution descriptor: the declarative list of
// packages, users, groups, directories and ports a Hadoop node is built from.
package dist

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// RequiredKeys are the top-level keys every node descriptor must carry.
var RequiredKeys = []string{"vendor", "hadoop_version", "packages", "groups", "users", "dirs", "ports"}

// maxResolveDepth bounds how deeply {dirs[...]} references may nest.
const maxResolveDepth = 100

// Dir is a directory the node owns.
type Dir struct {
	Name  string
	Path  string // template, may contain {config[...]} and {dirs[...]}
	Owner string
	Group string
	Perms os.FileMode
}

// Port is a named port, optionally exposed when a service is active.
type Port struct {
	Name      string
	Port      int
	ExposedOn string
}

// User is a system account and the groups it belongs to. The first group is
// the primary one.
type User struct {
	Name   string
	Groups []string
}

// ConfigLookup resolves {config[key]} placeholders.
type ConfigLookup interface {
	String(key string) (string, bool)
}

// Descriptor is a loaded distribution descriptor. It is not modified after
// Load.
type Descriptor struct {
	Vendor        string
	HadoopVersion string
	Packages      []string
	Groups        []string
	Users         []User
	Dirs          []Dir
	Ports         []Port

	path   string
	values map[string]*yaml.Node
	config ConfigLookup
}

// Load reads the descriptor at path and checks that every key in required is
// present at the top level.
func Load(path string, required ...string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor: %w", err)
	}
	return Parse(path, data, required...)
}

// Parse is Load for an in-memory document. name is used in errors.
func Parse(name string, data []byte, required ...string) (*Descriptor, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse descriptor %s: %w", name, err)
	}

	d := &Descriptor{path: name, values: map[string]*yaml.Node{}}
	if len(doc.Content) > 0 {
		root := doc.Content[0]
		if root.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("descriptor %s: top level must be a mapping", name)
		}
		for i := 0; i+1 < len(root.Content); i += 2 {
			d.values[root.Content[i].Value] = root.Content[i+1]
		}
	}

	var missing []string
	for _, key := range required {
		if _, ok := d.values[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingConfigError{Path: name, Keys: missing}
	}

	if err := d.decode(); err != nil {
		return nil, fmt.Errorf("descriptor %s: %w", name, err)
	}
	return d, nil
}

func (d *Descriptor) decode() error {
	if n, ok := d.values["vendor"]; ok {
		d.Vendor = n.Value
	}
	if n, ok := d.values["hadoop_version"]; ok {
		d.HadoopVersion = n.Value
	}
	if n, ok := d.values["packages"]; ok {
		if err := n.Decode(&d.Packages); err != nil {
			return fmt.Errorf("packages: %w", err)
		}
	}
	if n, ok := d.values["groups"]; ok {
		if err := n.Decode(&d.Groups); err != nil {
			return fmt.Errorf("groups: %w", err)
		}
	}

	if err := eachEntry(d.values["users"], func(name string, n *yaml.Node) error {
		var u struct {
			Groups []string `yaml:"groups"`
		}
		if err := n.Decode(&u); err != nil {
			return err
		}
		d.Users = append(d.Users, User{Name: name, Groups: u.Groups})
		return nil
	}); err != nil {
		return fmt.Errorf("users: %w", err)
	}

	if err := eachEntry(d.values["dirs"], func(name string, n *yaml.Node) error {
		var raw struct {
			Path  string    `yaml:"path"`
			Owner string    `yaml:"owner"`
			Group string    `yaml:"group"`
			Perms yaml.Node `yaml:"perms"`
		}
		if err := n.Decode(&raw); err != nil {
			return err
		}
		dir := Dir{Name: name, Path: raw.Path, Owner: raw.Owner, Group: raw.Group, Perms: 0755}
		if dir.Owner == "" {
			dir.Owner = "root"
		}
		if dir.Group == "" {
			dir.Group = "root"
		}
		if raw.Perms.Value != "" {
			perms, err := parsePerms(raw.Perms.Value)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			dir.Perms = perms
		}
		d.Dirs = append(d.Dirs, dir)
		return nil
	}); err != nil {
		return fmt.Errorf("dirs: %w", err)
	}

	if err := eachEntry(d.values["ports"], func(name string, n *yaml.Node) error {
		var p struct {
			Port      int    `yaml:"port"`
			ExposedOn string `yaml:"exposed_on"`
		}
		if err := n.Decode(&p); err != nil {
			return err
		}
		d.Ports = append(d.Ports, Port{Name: name, Port: p.Port, ExposedOn: p.ExposedOn})
		return nil
	}); err != nil {
		return fmt.Errorf("ports: %w", err)
	}
	return nil
}

// eachEntry walks a mapping node in document order.
func eachEntry(n *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	if n == nil || n.Kind == 0 || (n.Kind == yaml.ScalarNode && n.Tag == "!!null") {
		return nil
	}
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := fn(n.Content[i].Value, n.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

// parsePerms reads a mode written as octal digits, with or without a 0 or
// 0o prefix. 755, 0755 and 0o755 all mean rwxr-xr-x. The Unix special bits
// (4000 setuid, 2000 setgid, 1000 sticky) become the matching os.FileMode
// flags, since os.Chmod ignores them in their numeric form.
func parsePerms(s string) (os.FileMode, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0o"), "0O")
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil || v > 07777 {
		return 0, fmt.Errorf("invalid perms %q", s)
	}
	mode := os.FileMode(v & 0777)
	if v&04000 != 0 {
		mode |= os.ModeSetuid
	}
	if v&02000 != 0 {
		mode |= os.ModeSetgid
	}
	if v&01000 != 0 {
		mode |= os.ModeSticky
	}
	return mode, nil
}

// Path returns the file the descriptor was loaded from.
func (d *Descriptor) Path() string { return d.path }

// WithConfig returns a copy of d that resolves {config[...]} placeholders
// through lookup.
func (d *Descriptor) WithConfig(lookup ConfigLookup) *Descriptor {
	c := *d
	c.config = lookup
	return &c
}

// Value returns a top-level scalar, e.g. "vendor".
func (d *Descriptor) Value(key string) (string, bool) {
	n, ok := d.values[key]
	if !ok || n.Kind != yaml.ScalarNode {
		return "", false
	}
	return n.Value, true
}

// Dir returns the named directory entry.
func (d *Descriptor) Dir(name string) (Dir, bool) {
	for _, dir := range d.Dirs {
		if dir.Name == name {
			return dir, true
		}
	}
	return Dir{}, false
}

var placeholderRe = regexp.MustCompile(`\{(config|dirs)\[([^\]]+)\]\}`)

// ResolvePath expands the named directory's template. {config[key]} takes
// the option value verbatim; {dirs[name]} takes that directory's expanded
// path. A directory reached again while it is still being expanded is a
// cycle. Cycles, unknown keys and nesting deeper than maxResolveDepth are
// PathResolutionErrors.
func (d *Descriptor) ResolvePath(name string) (string, error) {
	dir, ok := d.Dir(name)
	if !ok {
		return "", &PathResolutionError{Dir: name, Reason: "unknown directory"}
	}

	r := &resolver{d: d, done: map[string]string{}}
	p, reason := r.expand(dir)
	if reason != "" {
		return "", &PathResolutionError{Dir: name, Template: dir.Path, Reason: reason}
	}
	return p, nil
}

// resolver carries one ResolvePath call. stack holds the directories being
// expanded, outermost first; done memoizes finished ones so shared
// references are expanded once.
type resolver struct {
	d     *Descriptor
	stack []string
	done  map[string]string
}

func (r *resolver) expand(dir Dir) (string, string) {
	if p, ok := r.done[dir.Name]; ok {
		return p, ""
	}
	if slices.Contains(r.stack, dir.Name) {
		return "", "circular reference " + strings.Join(append(slices.Clone(r.stack), dir.Name), " -> ")
	}
	if len(r.stack) >= maxResolveDepth {
		return "", fmt.Sprintf("references nested deeper than %d levels", maxResolveDepth)
	}

	r.stack = append(r.stack, dir.Name)
	defer func() { r.stack = r.stack[:len(r.stack)-1] }()

	var reason string
	p := placeholderRe.ReplaceAllStringFunc(dir.Path, func(m string) string {
		if reason != "" {
			return m
		}
		sm := placeholderRe.FindStringSubmatch(m)
		switch sm[1] {
		case "config":
			if r.d.config != nil {
				if v, ok := r.d.config.String(sm[2]); ok {
					return v
				}
			}
		case "dirs":
			if ref, ok := r.d.Dir(sm[2]); ok {
				v, why := r.expand(ref)
				if why != "" {
					reason = why
					return m
				}
				return v
			}
		}
		reason = "unknown placeholder " + m
		return m
	})
	if reason != "" {
		return "", reason
	}
	r.done[dir.Name] = p
	return p, ""
}

// ResolvePaths resolves every named directory, stopping at the first failure.
func (d *Descriptor) ResolvePaths(names ...string) (map[string]string, error) {
	out := make(map[string]string, len(names))
	for _, n := range names {
		p, err := d.ResolvePath(n)
		if err != nil {
			return nil, err
		}
		out[n] = p
	}
	return out, nil
}

// Port returns the named port number.
func (d *Descriptor) Port(name string) (int, bool) {
	for _, p := range d.Ports {
		if p.Name == name {
			return p.Port, true
		}
	}
	return 0, false
}

// ExposedPorts returns the ports tagged exposed_on: service, in declaration
// order.
func (d *Descriptor) ExposedPorts(service string) []int {
	var out []int
	for _, p := range d.Ports {
		if p.ExposedOn == service {
			out = append(out, p.Port)
		}
	}
	return out
}

// DirNames returns every directory name, sorted.
func (d *Descriptor) DirNames() []string {
	names := make([]string, len(d.Dirs))
	for i, dir := range d.Dirs {
		names[i] = dir.Name
	}
	sort.Strings(names)
	return names
}
