package env

import (
	"regexp"
	"strconv"
	"strings"
)

// JavaDetector inspects the installed Java runtime.
type JavaDetector struct {
	runner Runner
}

// NewJavaDetector creates a new Java detector
func NewJavaDetector(r Runner) *JavaDetector {
	return &JavaDetector{runner: r}
}

var javaVersionRe = regexp.MustCompile(`version "([^"]+)"`)

// MajorVersion returns the major version of the installed Java
// Parses output from: java -version
// Returns 0 if Java is not found or version cannot be parsed
func (j *JavaDetector) MajorVersion() int {
	res, err := j.runner.Run(Command{Name: "java", Args: []string{"-version"}})
	if err != nil {
		return 0
	}
	// java -version writes to stderr
	return ParseJavaMajor(res.Output())
}

// ParseJavaMajor extracts the major version from `java -version` output.
// Both 1.8.0_392 and 17.0.9 styles are understood.
func ParseJavaMajor(output string) int {
	matches := javaVersionRe.FindStringSubmatch(output)
	if len(matches) < 2 {
		return 0
	}

	parts := strings.Split(matches[1], ".")
	if parts[0] == "1" && len(parts) > 1 {
		major, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0
		}
		return major
	}

	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	return major
}

// IsInstalled checks if java command is available
func (j *JavaDetector) IsInstalled() bool {
	_, err := j.runner.LookPath("java")
	return err == nil
}

// ToolDetector provides generic command detection
type ToolDetector struct {
	runner Runner
}

// NewToolDetector creates a new tool detector
func NewToolDetector(r Runner) *ToolDetector {
	return &ToolDetector{runner: r}
}

// IsInstalled checks if a command is available in PATH
func (t *ToolDetector) IsInstalled(command string) bool {
	_, err := t.runner.LookPath(command)
	return err == nil
}
