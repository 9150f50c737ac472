package env

import (
	"fmt"
	"io"

	"github.com/danieljhkim/hadoop-node/internal/util"
)

// RecommendedJavaMajor is the Java release the Hadoop 2 line is built for.
const RecommendedJavaMajor = 8

// DoctorCheck represents a single dependency check
type DoctorCheck struct {
	Command  string // Command name
	Required bool   // true if required, false if optional
	Found    bool   // true if command is available
}

// DoctorResult holds the results of all checks
type DoctorResult struct {
	Target      string        // Target context (e.g., "install", "hdfs")
	Checks      []DoctorCheck // All checks performed
	JavaMajor   int           // Java major version (0 if not found)
	HasFailures bool          // true if any required check failed
}

// RunDoctor checks the commands a target needs.
func RunDoctor(r Runner, target string) *DoctorResult {
	required := []string{"su", "pgrep"}
	optional := []string{"java"}

	switch target {
	case "install":
		required = append(required, "tar", "apt-get", "groupadd", "useradd", "usermod", "chown")
		optional = append(optional, "ufw")

	case "hdfs":
		required = append(required, "java", "hdfs")
		optional = []string{"jps"}

	case "yarn":
		required = append(required, "java", "yarn")
		optional = []string{"jps"}

	default:
		optional = append(optional, "tar", "apt-get", "ufw", "hdfs", "yarn")
	}

	result := &DoctorResult{
		Target: target,
	}

	detector := NewToolDetector(r)
	for _, cmd := range required {
		found := detector.IsInstalled(cmd)
		result.Checks = append(result.Checks, DoctorCheck{
			Command:  cmd,
			Required: true,
			Found:    found,
		})
		if !found {
			result.HasFailures = true
		}
	}

	javaDetector := NewJavaDetector(r)
	if javaDetector.IsInstalled() {
		result.JavaMajor = javaDetector.MajorVersion()
	}

	for _, cmd := range optional {
		result.Checks = append(result.Checks, DoctorCheck{
			Command:  cmd,
			Required: false,
			Found:    detector.IsInstalled(cmd),
		})
	}

	return result
}

// Print prints the doctor check results
func (dr *DoctorResult) Print(w io.Writer) {
	targetStr := "general"
	if dr.Target != "" {
		targetStr = dr.Target
	}

	util.Log("Doctor (%s):", targetStr)

	for _, check := range dr.Checks {
		status := "OK  "
		msg := check.Command

		if !check.Found {
			if check.Required {
				status = "FAIL"
				msg = fmt.Sprintf("%s (required)", check.Command)
			} else {
				status = "WARN"
				msg = fmt.Sprintf("%s (optional)", check.Command)
			}
		}

		fmt.Fprintf(w, "  %s %s\n", status, msg)
	}

	if dr.JavaMajor != 0 && dr.JavaMajor != RecommendedJavaMajor {
		fmt.Fprintf(w, "  WARN java major version is %d (recommended: %d)\n", dr.JavaMajor, RecommendedJavaMajor)
	}
}

// ExitCode returns the appropriate exit code
// 0 if all required checks passed, 1 if any failed
func (dr *DoctorResult) ExitCode() int {
	if dr.HasFailures {
		return 1
	}
	return 0
}
