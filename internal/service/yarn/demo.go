package yarn

import (
	"fmt"
	"os"
	"path/filepath"

	"k8s.io/klog/v2"

	"github.com/danieljhkim/hadoop-node/internal/state"
	"github.com/danieljhkim/hadoop-node/internal/util"
)

// DemoScript is the TeraSort demo shipped in the resources dir.
const DemoScript = "terasort.sh"

// DemoUser owns the installed demo.
const DemoUser = "ubuntu"

// DemoPath is where InstallDemo puts the script.
func (y *YARN) DemoPath() string {
	return filepath.Join(y.base.Paths.HomeDir(DemoUser), DemoScript)
}

// InstallDemo copies the TeraSort demo into the ubuntu user's home, once.
func (y *YARN) InstallDemo() error {
	if state.IsSet(y.base.State, state.FlagDemoInstalled) {
		klog.V(2).Info("demo already installed")
		return nil
	}

	src := y.base.Paths.Resource(DemoScript)
	dst := y.DemoPath()
	if err := util.MkdirAll(filepath.Dir(dst)); err != nil {
		return err
	}
	if err := util.CopyFile(src, dst); err != nil {
		return fmt.Errorf("failed to install demo: %w", err)
	}
	if err := os.Chmod(dst, 0755); err != nil {
		return err
	}
	if err := y.Chown(dst, DemoUser, "hadoop"); err != nil {
		return err
	}

	util.Success("Installed demo at %s", dst)
	return state.MarkDone(y.base.State, state.FlagDemoInstalled)
}
