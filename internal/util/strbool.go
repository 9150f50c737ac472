package util

import "strings"

// NormalizeStrBool maps the usual spellings of true and false onto a bool.
// The second result is false when s is not recognised.
func NormalizeStrBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "on", "1":
		return true, true
	case "false", "no", "n", "off", "0", "":
		return false, true
	}
	return false, false
}
