package install

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/danieljhkim/hadoop-node/internal/config"
	"github.com/danieljhkim/hadoop-node/internal/editor"
	"github.com/danieljhkim/hadoop-node/internal/env"
	"github.com/danieljhkim/hadoop-node/internal/hosts"
	"github.com/danieljhkim/hadoop-node/internal/state"
	"github.com/danieljhkim/hadoop-node/internal/util"
)

const defaultPath = "/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin"

// ConfigureHostsFile puts this unit's own address and names on the first
// line of the hosts file.
func (b *Base) ConfigureHostsFile() error {
	line, err := hosts.EnsureFirstLine(b.Paths.EtcHosts(), b.Unit.PrivateAddress, b.Unit.FQDN, b.Unit.Hostname)
	if err != nil {
		return err
	}
	if strings.HasPrefix(line, "#") {
		util.Warn("private address %q is not an IPv4 address; hosts entry commented out", b.Unit.PrivateAddress)
	}
	return nil
}

// InstallJava runs the Java installer and records the JAVA_HOME and version
// it prints.
func (b *Base) InstallJava() error {
	installer, _ := b.Options.String(config.OptJavaInstaller)
	if installer == "" {
		return fmt.Errorf("option %s is not set", config.OptJavaInstaller)
	}
	if err := os.Chmod(installer, 0755); err != nil {
		return fmt.Errorf("failed to make java installer executable: %w", err)
	}

	environ, err := b.Environment()
	if err != nil {
		return err
	}
	res, err := b.Runner.Run(env.Command{Name: installer, Env: environ})
	if err != nil {
		return fmt.Errorf("java installer failed: %w", err)
	}

	javaHome, javaVersion, err := parseInstallerOutput(res.Stdout)
	if err != nil {
		return err
	}

	b.State.Set(state.KeyJavaHome, javaHome)
	b.State.Set(state.KeyJavaVersion, javaVersion)
	if err := b.State.Flush(); err != nil {
		return fmt.Errorf("failed to record java install: %w", err)
	}
	util.Log("Java %s installed at %s", javaVersion, javaHome)
	return nil
}

func parseInstallerOutput(out string) (home, version string, err error) {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		return "", "", &RuntimeInstallError{Output: out}
	}
	home, version = strings.TrimSpace(lines[0]), strings.TrimSpace(lines[1])
	if home == "" || version == "" {
		return "", "", &RuntimeInstallError{Output: out}
	}
	return home, version, nil
}

// InstallHadoop unpacks the distribution archive into the hadoop dir,
// dropping the archive's top-level directory.
func (b *Base) InstallHadoop() error {
	archive, _ := b.Options.String(config.OptHadoopArchive)
	if !util.FileExists(archive) {
		return fmt.Errorf("hadoop archive not found: %s", archive)
	}
	if err := util.MkdirAll(b.HadoopDir()); err != nil {
		return err
	}

	_, err := b.Runner.Run(env.Command{
		Name: "tar",
		Args: []string{"-xzf", archive, "-C", b.HadoopDir(), "--strip-components=1"},
	})
	if err != nil {
		return fmt.Errorf("failed to unpack %s: %w", archive, err)
	}
	return nil
}

// SetupHadoopConfig replaces the live configuration directory with the
// distribution's shipped etc/hadoop, drops the shipped slaves roster and
// creates mapred-site.xml from its template when missing.
func (b *Base) SetupHadoopConfig() error {
	shipped := filepath.Join(b.HadoopDir(), "etc", "hadoop")
	if err := util.CopyTree(shipped, b.ConfDir()); err != nil {
		return fmt.Errorf("failed to stage configuration: %w", err)
	}

	if err := os.Remove(b.ConfFile("slaves")); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove slaves: %w", err)
	}

	mapred := b.ConfFile("mapred-site.xml")
	template := mapred + ".template"
	if !util.FileExists(mapred) && util.FileExists(template) {
		if err := util.CopyFile(template, mapred); err != nil {
			return err
		}
	}
	return nil
}

// ConfigureHadoop writes JAVA_HOME, PATH and the Hadoop home, conf and log
// variables into the system environment file and points hadoop-env.sh at
// the installed Java.
func (b *Base) ConfigureHadoop() error {
	javaHome, ok := b.State.Get(state.KeyJavaHome)
	if !ok {
		return fmt.Errorf("java is not installed")
	}
	hadoop := b.HadoopDir()
	conf := b.ConfDir()

	err := editor.EditKeyValueFile(b.Paths.EtcEnvironment(), func(vars map[string]string) error {
		path := vars["PATH"]
		if path == "" {
			path = defaultPath
		}
		vars["JAVA_HOME"] = javaHome
		vars["PATH"] = util.AppendPath(path,
			filepath.Join(javaHome, "bin"),
			filepath.Join(hadoop, "bin"),
			filepath.Join(hadoop, "sbin"),
		)
		vars["HADOOP_LIBEXEC_DIR"] = filepath.Join(hadoop, "libexec")
		for _, k := range []string{"HADOOP_INSTALL", "HADOOP_HOME", "HADOOP_COMMON_HOME",
			"HADOOP_HDFS_HOME", "HADOOP_MAPRED_HOME", "HADOOP_YARN_HOME", "YARN_HOME"} {
			vars[k] = hadoop
		}
		vars["HADOOP_CONF_DIR"] = conf
		vars["YARN_CONF_DIR"] = conf
		vars["YARN_LOG_DIR"] = b.YARNLogDir()
		vars["HDFS_LOG_DIR"] = b.HDFSLogDir()
		vars["HADOOP_LOG_DIR"] = b.HDFSLogDir()
		vars["MAPRED_LOG_DIR"] = "/var/log/hadoop/mapred"
		vars["MAPRED_PID_DIR"] = "/var/run/hadoop/mapred"
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", b.Paths.EtcEnvironment(), err)
	}

	return editor.EditLines(b.ConfFile("hadoop-env.sh"), []editor.Substitution{
		editor.Sub(`export JAVA_HOME *=.*`, "export JAVA_HOME="+strings.ReplaceAll(javaHome, "$", "$$")),
	})
}
