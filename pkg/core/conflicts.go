package core

import (
	"github.com/arthur-debert/modmerge/pkg/config"
	"github.com/arthur-debert/modmerge/pkg/conflicts"
	"github.com/arthur-debert/modmerge/pkg/logging"
	"github.com/arthur-debert/modmerge/pkg/output"
	"github.com/arthur-debert/modmerge/pkg/types"
	"github.com/samber/lo"
	"github.com/spf13/afero"
)

// ConflictsOptions selects what ListConflicts reports
type ConflictsOptions struct {
	Root         string
	PackageNames []string
	// AllFiles includes files without partners in the report
	AllFiles bool
}

// ListConflicts reports the conflicts of the selected packages against every
// package under the root
func ListConflicts(fs afero.Fs, cfg *config.Config, opts ConflictsOptions) (*output.ConflictReport, error) {
	logger := logging.GetLogger("core.conflicts")

	all, selected, err := LoadAndSelectPackages(fs, cfg, opts.Root, opts.PackageNames)
	if err != nil {
		return nil, err
	}

	records := conflicts.NewIndex(cfg.Conflicts.AllowList).ComputeAll(all)
	ordered := lo.Map(selected, func(p *types.Package, _ int) *conflicts.Record { return records[p.ID] })

	logger.Info().
		Int("packages", len(all)).
		Int("selected", len(selected)).
		Int("conflicting", lo.CountBy(ordered, (*conflicts.Record).HasConflicts)).
		Msg("Conflicts listed")
	return output.NewConflictReport(ordered, !opts.AllFiles), nil
}
