package editor

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"k8s.io/klog/v2"
)

// ReadKeyValueFile parses KEY=value lines. Quotes around values are removed.
// A "$" is kept literally, as pam_env does for /etc/environment. A missing
// file yields an empty map.
func ReadKeyValueFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	env, err := godotenv.UnmarshalBytes(literalDollars(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return env, nil
}

// EditKeyValueFile passes fn the contents of path as a map and then rewrites
// the file from that map. Comments and ordering are not kept: keys are
// written sorted and quoted by FormatKeyValues. Nothing is written when fn
// returns an error.
func EditKeyValueFile(path string, fn func(env map[string]string) error) error {
	env, err := ReadKeyValueFile(path)
	if err != nil {
		return err
	}

	if err := fn(env); err != nil {
		return err
	}

	klog.V(4).Infof("rewriting %s with %d keys", path, len(env))
	return writeAtomic(path, []byte(FormatKeyValues(env)))
}

// literalDollars escapes every "$" outside single-quoted values so godotenv
// does not expand it as a variable reference.
func literalDollars(data []byte) []byte {
	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		eq := strings.IndexByte(line, '=')
		if eq < 0 || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(line[eq+1:]), "'") {
			continue
		}
		lines[i] = line[:eq+1] + strings.ReplaceAll(line[eq+1:], "$", `\$`)
	}
	return []byte(strings.Join(lines, "\n"))
}

// FormatKeyValues renders env as sorted KEY="value" lines. A value holding a
// double quote is single quoted instead.
func FormatKeyValues(env map[string]string) string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		v := env[k]
		if strings.Contains(v, `"`) && !strings.Contains(v, "'") {
			fmt.Fprintf(&b, "%s='%s'\n", k, v)
			continue
		}
		fmt.Fprintf(&b, "%s=\"%s\"\n", k, v)
	}
	return b.String()
}
