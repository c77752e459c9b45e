package fsbackend

import (
	"path/filepath"

	"github.com/minigit-go/minigit/backend"
	"github.com/minigit-go/minigit/internal/gitpath"
	"golang.org/x/xerrors"
	"gopkg.in/ini.v1"
)

// setDefaultCfg writes the default .git/config for a freshly
// initialized repository.
func (b *Backend) setDefaultCfg() error {
	cfg := ini.Empty()

	core, err := cfg.NewSection(backend.CfgCore)
	if err != nil {
		return xerrors.Errorf("could not create core section: %w", err)
	}
	coreCfg := map[string]string{
		backend.CfgCoreFormatVersion:   "0",
		backend.CfgCoreFileMode:        "true",
		backend.CfgCoreBare:            "false",
		backend.CfgCoreLogAllRefUpdate: "true",
	}
	for k, v := range coreCfg {
		if _, err := core.NewKey(k, v); err != nil {
			return xerrors.Errorf("could not set %s: %w", k, err)
		}
	}
	return cfg.SaveTo(filepath.Join(b.root, gitpath.ConfigPath))
}
