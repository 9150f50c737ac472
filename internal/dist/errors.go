package dist

import (
	"fmt"
	"strings"
)

// MissingConfigError lists required descriptor keys that are absent.
type MissingConfigError struct {
	Path string
	Keys []string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("%s is missing required keys: %s", e.Path, strings.Join(e.Keys, ", "))
}

// PathResolutionError is returned when a directory template cannot be
// expanded to a concrete path.
type PathResolutionError struct {
	Dir      string
	Template string
	Reason   string
}

func (e *PathResolutionError) Error() string {
	if e.Template == "" {
		return fmt.Sprintf("cannot resolve dir %q: %s", e.Dir, e.Reason)
	}
	return fmt.Sprintf("cannot resolve dir %q (%s): %s", e.Dir, e.Template, e.Reason)
}
