// Package editor performs in-place edits of the configuration files a Hadoop
// node owns: line-oriented scripts, *-site.xml property maps and
// /etc/environment style key=value files.
//
// Every edit reads the whole file, applies the change in memory and replaces
// the original atomically, so a failed edit never leaves a half-written file.
package editor

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"regexp"

	"github.com/google/renameio/v2"
	"k8s.io/klog/v2"
)

// Substitution replaces every match of Pattern in a line with Replacement.
// Replacement may use $1-style group references.
type Substitution struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// Sub compiles pattern into a Substitution. It panics on a bad pattern, so it
// is meant for literals.
func Sub(pattern, replacement string) Substitution {
	return Substitution{Pattern: regexp.MustCompile(pattern), Replacement: replacement}
}

// EditLines applies subs, in order, to every line of path.
func EditLines(path string, subs []Substitution) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var out bytes.Buffer
	r := bufio.NewReader(bytes.NewReader(data))
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			body, nl := line, ""
			if body[len(body)-1] == '\n' {
				body, nl = body[:len(body)-1], "\n"
			}
			for _, s := range subs {
				body = s.Pattern.ReplaceAllString(body, s.Replacement)
			}
			out.WriteString(body)
			out.WriteString(nl)
		}
		if err != nil {
			break
		}
	}

	klog.V(4).Infof("editing %s with %d substitutions", path, len(subs))
	return writeAtomic(path, out.Bytes())
}

// writeAtomic replaces path with data, keeping the mode of an existing file.
func writeAtomic(path string, data []byte) error {
	pf, err := renameio.NewPendingFile(path, renameio.WithPermissions(0644), renameio.WithExistingPermissions())
	if err != nil {
		return fmt.Errorf("failed to open pending file for %s: %w", path, err)
	}
	defer pf.Cleanup()

	if _, err := pf.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
