package env

import (
	"regexp"
	"strconv"
	"strings"
)

// javaProcessPattern matches a JVM whose command line mentions name. The
// first letter is bracketed so the pattern never matches the pgrep itself.
// Pass a fully qualified class name to tell NameNode from SecondaryNameNode.
func javaProcessPattern(name string) string {
	if name == "" {
		return "^[^ ]*java "
	}
	return "^[^ ]*java .*[" + name[:1] + "]" + regexp.QuoteMeta(name[1:])
}

// JavaPIDs returns the pids of running JVMs whose command line mentions name.
func JavaPIDs(r Runner, name string) ([]int, error) {
	res, err := r.Run(Command{Name: "pgrep", Args: []string{"-f", javaProcessPattern(name)}})
	if err != nil {
		// pgrep exits 1 when nothing matched.
		if ExitCodeOf(err) == 1 {
			return nil, nil
		}
		return nil, err
	}

	var pids []int
	for _, line := range strings.Split(strings.TrimSpace(res.Stdout), "\n") {
		if pid, err := strconv.Atoi(strings.TrimSpace(line)); err == nil {
			pids = append(pids, pid)
		}
	}
	return pids, nil
}

// JavaProcessRunning reports whether a JVM mentioning name is running.
func JavaProcessRunning(r Runner, name string) (bool, error) {
	pids, err := JavaPIDs(r, name)
	return len(pids) > 0, err
}
