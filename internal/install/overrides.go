package install

import (
	"fmt"

	"github.com/danieljhkim/hadoop-node/internal/config"
	"github.com/danieljhkim/hadoop-node/internal/editor"
	"github.com/danieljhkim/hadoop-node/internal/util"
)

// ApplyOverrides writes the operator's overrides.yaml into the live
// configuration. Files that do not exist yet are skipped with a warning.
func (b *Base) ApplyOverrides() error {
	ov, err := config.LoadOverrides(b.Paths)
	if err != nil {
		return err
	}

	for _, file := range ov.Files() {
		path := b.ConfFile(file)
		if !util.FileExists(path) {
			util.Warn("override target %s does not exist; skipping", path)
			continue
		}
		props := ov[file]
		if err := editor.EditPropertyMap(path, func(m editor.PropertyMap) error {
			for name, value := range props {
				if value == nil {
					m.Delete(name)
					continue
				}
				m.Set(name, value)
			}
			return nil
		}); err != nil {
			return fmt.Errorf("failed to apply overrides to %s: %w", file, err)
		}
	}
	return nil
}
