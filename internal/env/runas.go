package env

import (
	"sort"

	"github.com/danieljhkim/hadoop-node/internal/editor"
	"github.com/danieljhkim/hadoop-node/internal/util"
)

// ReadEtcEnvironment loads a KEY="value" environment file as a process
// environment list. Daemons and installers run with this environment rather
// than the caller's, so they see what a login shell would.
func ReadEtcEnvironment(path string) ([]string, error) {
	vars, err := editor.ReadKeyValueFile(path)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+vars[k])
	}
	return env, nil
}

// RunAs runs args as user through su, with environ as the environment.
func RunAs(r Runner, user string, environ []string, args ...string) (Result, error) {
	return r.Run(Command{
		Name: "su",
		Args: []string{user, "-c", util.ShellJoin(args)},
		Env:  environ,
	})
}
