package util

import (
	"strings"
)

// AppendPath appends each part to a colon-separated PATH value unless it is
// already present. The existing value is kept as it is.
func AppendPath(existing string, parts ...string) string {
	seen := make(map[string]bool)
	for _, part := range strings.Split(existing, ":") {
		seen[part] = true
	}

	result := existing
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" || seen[part] {
			continue
		}
		seen[part] = true
		if result == "" {
			result = part
		} else {
			result += ":" + part
		}
	}
	return result
}

// ShellQuote quotes a string for safe use in shell commands
// Wraps in single quotes and escapes embedded single quotes
func ShellQuote(s string) string {
	escaped := strings.ReplaceAll(s, "'", "'\\''")
	return "'" + escaped + "'"
}

// ShellJoin quotes every argument that needs it and joins them with spaces,
// producing a string suitable for `sh -c`.
func ShellJoin(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		if needsQuoting(a) {
			quoted[i] = ShellQuote(a)
		} else {
			quoted[i] = a
		}
	}
	return strings.Join(quoted, " ")
}

// needsQuoting checks if a string needs shell quoting
func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '"' || r == '\'' ||
			r == '$' || r == '\\' || r == '`' || r == '|' || r == '&' ||
			r == ';' || r == '(' || r == ')' || r == '<' || r == '>' ||
			r == '*' || r == '?' || r == '[' || r == '#' || r == '~' {
			return true
		}
	}
	return false
}
