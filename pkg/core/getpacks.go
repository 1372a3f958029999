package core

import (
	"github.com/arthur-debert/modmerge/pkg/config"
	"github.com/arthur-debert/modmerge/pkg/logging"
	"github.com/arthur-debert/modmerge/pkg/packs"
	"github.com/arthur-debert/modmerge/pkg/types"
	"github.com/spf13/afero"
)

// LoadAndSelectPackages loads every package under root and selects the ones
// named by packageNames; no names selects all of them. Packages that fail to
// load are logged and skipped.
func LoadAndSelectPackages(fs afero.Fs, cfg *config.Config, root string, packageNames []string) (all, selected []*types.Package, err error) {
	logger := logging.GetLogger("core.packages")

	all, err = packs.NewLoader(fs, cfg).Load(root)
	if err != nil {
		if len(all) == 0 {
			return nil, nil, err
		}
		logger.Warn().Err(err).Int("loaded", len(all)).Msg("Some packages could not be loaded")
	}

	selected, err = packs.Select(all, packageNames)
	if err != nil {
		return nil, nil, err
	}
	return all, selected, nil
}
