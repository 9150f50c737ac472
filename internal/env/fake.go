package env

import (
	"fmt"
	"strings"
)

// FakeRunner records commands instead of running them. Handler, when set,
// decides each command's result; otherwise every command succeeds silently.
type FakeRunner struct {
	Calls   []Command
	Handler func(c Command) (Result, error)
	Missing map[string]bool // commands LookPath reports as absent
}

func (f *FakeRunner) Run(c Command) (Result, error) {
	f.Calls = append(f.Calls, c)
	if f.Handler == nil {
		return Result{}, nil
	}
	return f.Handler(c)
}

func (f *FakeRunner) LookPath(file string) (string, error) {
	if f.Missing[file] {
		return "", fmt.Errorf("executable file not found in $PATH: %s", file)
	}
	return "/usr/bin/" + file, nil
}

// Commands returns every recorded command line.
func (f *FakeRunner) Commands() []string {
	out := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		out[i] = c.String()
	}
	return out
}

// Count returns how many recorded command lines contain substr.
func (f *FakeRunner) Count(substr string) int {
	n := 0
	for _, c := range f.Calls {
		if strings.Contains(c.String(), substr) {
			n++
		}
	}
	return n
}

// Fail builds a SubprocessError for scripting failures in a Handler.
func Fail(c Command, code int, output string) error {
	return &SubprocessError{Command: c.String(), ExitCode: code, Output: output}
}
