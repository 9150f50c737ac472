package env

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"k8s.io/klog/v2"
	utilexec "k8s.io/utils/exec"
)

// Command describes one subprocess invocation.
type Command struct {
	Name string
	Args []string
	Env  []string // nil inherits the current environment
	Dir  string

	// Stdin, Stdout and Stderr are optional passthrough streams. When Stdout
	// or Stderr is set the corresponding Result field stays empty.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command line for logs and errors.
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Result is what a finished subprocess printed.
type Result struct {
	Stdout string
	Stderr string
}

// Output returns stdout followed by stderr.
func (r Result) Output() string {
	return r.Stdout + r.Stderr
}

// Runner runs external commands. Everything that shells out goes through a
// Runner so tests can record and script the calls.
type Runner interface {
	Run(c Command) (Result, error)
	LookPath(file string) (string, error)
}

// SubprocessError is returned when a command exits non-zero or cannot start.
type SubprocessError struct {
	Command  string
	ExitCode int // -1 if the process never ran
	Output   string
	Err      error
}

func (e *SubprocessError) Error() string {
	msg := fmt.Sprintf("command %q failed", e.Command)
	if e.ExitCode >= 0 {
		msg = fmt.Sprintf("%s with exit code %d", msg, e.ExitCode)
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

func (e *SubprocessError) Unwrap() error { return e.Err }

// ExitCodeOf returns the exit code carried by err, or -1.
func ExitCodeOf(err error) int {
	var se *SubprocessError
	if errors.As(err, &se) {
		return se.ExitCode
	}
	return -1
}

// ExecRunner runs commands on the host.
type ExecRunner struct {
	exec utilexec.Interface
}

// NewRunner returns a Runner backed by the real process table.
func NewRunner() *ExecRunner {
	return &ExecRunner{exec: utilexec.New()}
}

func (r *ExecRunner) LookPath(file string) (string, error) {
	return r.exec.LookPath(file)
}

func (r *ExecRunner) Run(c Command) (Result, error) {
	cmd := r.exec.Command(c.Name, c.Args...)
	if c.Env != nil {
		cmd.SetEnv(c.Env)
	}
	if c.Dir != "" {
		cmd.SetDir(c.Dir)
	}
	if c.Stdin != nil {
		cmd.SetStdin(c.Stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.SetStdout(&stdout)
	if c.Stdout != nil {
		cmd.SetStdout(c.Stdout)
	}
	cmd.SetStderr(&stderr)
	if c.Stderr != nil {
		cmd.SetStderr(c.Stderr)
	}

	klog.V(4).Infof("running %s", c)
	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}

	code := -1
	var exitErr utilexec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitStatus()
	}
	klog.V(4).Infof("%s exited %d", c, code)
	return res, &SubprocessError{Command: c.String(), ExitCode: code, Output: res.Output(), Err: err}
}
