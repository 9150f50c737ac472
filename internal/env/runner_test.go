package env

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner_Run(t *testing.T) {
	r := NewRunner()

	res, err := r.Run(Command{Name: "sh", Args: []string{"-c", "echo out; echo err >&2"}})
	require.NoError(t, err)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
}

func TestExecRunner_EnvAndDir(t *testing.T) {
	r := NewRunner()
	dir := t.TempDir()

	res, err := r.Run(Command{
		Name: "sh",
		Args: []string{"-c", "echo $FOO; pwd"},
		Env:  []string{"FOO=bar"},
		Dir:  dir,
	})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(res.Stdout), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "bar", lines[0])

	want, _ := filepath.EvalSymlinks(dir)
	got, _ := filepath.EvalSymlinks(lines[1])
	assert.Equal(t, want, got)
}

func TestExecRunner_Failure(t *testing.T) {
	r := NewRunner()

	_, err := r.Run(Command{Name: "sh", Args: []string{"-c", "echo broken >&2; exit 3"}})
	var se *SubprocessError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 3, se.ExitCode)
	assert.Contains(t, se.Output, "broken")
	assert.Contains(t, err.Error(), "exit code 3")
	assert.Equal(t, 3, ExitCodeOf(err))
}

func TestExecRunner_NotFound(t *testing.T) {
	r := NewRunner()

	_, err := r.Run(Command{Name: "definitely-not-a-command-xyz"})
	require.Error(t, err)
	assert.Equal(t, -1, ExitCodeOf(err))

	_, err = r.LookPath("definitely-not-a-command-xyz")
	assert.Error(t, err)
}

func TestReadEtcEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "environment")
	require.NoError(t, os.WriteFile(path, []byte("PATH=\"/usr/bin:/bin\"\nJAVA_HOME=\"/usr/lib/jvm/java-8\"\n"), 0644))

	environ, err := ReadEtcEnvironment(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"JAVA_HOME=/usr/lib/jvm/java-8", "PATH=/usr/bin:/bin"}, environ)
}

func TestRunAs(t *testing.T) {
	r := &FakeRunner{}
	environ := []string{"JAVA_HOME=/opt/java"}

	_, err := RunAs(r, "hdfs", environ, "hdfs", "dfs", "-mkdir", "-p", "/user/my dir")
	require.NoError(t, err)

	require.Len(t, r.Calls, 1)
	c := r.Calls[0]
	assert.Equal(t, "su", c.Name)
	assert.Equal(t, []string{"hdfs", "-c", "hdfs dfs -mkdir -p '/user/my dir'"}, c.Args)
	assert.Equal(t, environ, c.Env)
}

func TestJavaPIDs(t *testing.T) {
	tests := []struct {
		name    string
		result  Result
		err     error
		want    []int
		wantErr bool
	}{
		{"running", Result{Stdout: "1234\n5678\n"}, nil, []int{1234, 5678}, false},
		{"none", Result{}, &SubprocessError{ExitCode: 1}, nil, false},
		{"pgrep broken", Result{}, &SubprocessError{ExitCode: 2}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &FakeRunner{Handler: func(Command) (Result, error) { return tt.result, tt.err }}

			pids, err := JavaPIDs(r, "org.apache.hadoop.hdfs.server.namenode.NameNode")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, pids)
			assert.Equal(t, []string{"-f", `^[^ ]*java .*[o]rg\.apache\.hadoop\.hdfs\.server\.namenode\.NameNode`}, r.Calls[0].Args)
		})
	}
}

func TestJavaProcessPattern(t *testing.T) {
	assert.Equal(t, "^[^ ]*java .*[N]ameNode", javaProcessPattern("NameNode"))
	assert.Equal(t, "^[^ ]*java ", javaProcessPattern(""))
}
