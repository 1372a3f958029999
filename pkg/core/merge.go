package core

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/modmerge/pkg/candidate"
	"github.com/arthur-debert/modmerge/pkg/config"
	"github.com/arthur-debert/modmerge/pkg/conflicts"
	"github.com/arthur-debert/modmerge/pkg/errors"
	"github.com/arthur-debert/modmerge/pkg/logging"
	"github.com/arthur-debert/modmerge/pkg/output"
	"github.com/arthur-debert/modmerge/pkg/packs"
	"github.com/arthur-debert/modmerge/pkg/renumber"
	"github.com/arthur-debert/modmerge/pkg/session"
	"github.com/arthur-debert/modmerge/pkg/types"
	"github.com/samber/lo"
	"github.com/spf13/afero"
)

// Ejection keeps one package's variant of a colliding file out of the merge.
// The variant is renamed next to the merge target instead.
type Ejection struct {
	PackageID string
	Path      string
	Placement renumber.Placement
}

// ParseEjection reads "package:path" with an optional ":before" or ":after"
// suffix; before is the default
func ParseEjection(s string) (Ejection, error) {
	id, rest, ok := strings.Cut(s, ":")
	if !ok || strings.TrimSpace(id) == "" || strings.TrimSpace(rest) == "" {
		return Ejection{}, errors.Newf(errors.ErrInvalidInput, "ejection %q is not package:path", s)
	}

	e := Ejection{PackageID: strings.TrimSpace(id), Path: strings.TrimSpace(rest), Placement: renumber.Before}
	if i := strings.LastIndex(e.Path, ":"); i >= 0 {
		switch strings.ToLower(e.Path[i+1:]) {
		case "before":
			e.Path = e.Path[:i]
		case "after":
			e.Path, e.Placement = e.Path[:i], renumber.After
		}
	}
	return e, nil
}

// MergeOptions configures MergePackages
type MergeOptions struct {
	Root         string
	Name         string
	PackageNames []string
	// OutDir defaults to the consolidated package's id under Root
	OutDir            string
	Strategy          session.Strategy
	Ejections         []Ejection
	CollapseIdentical bool
	Overwrite         bool
	DryRun            bool
}

// MergeResult is the outcome of MergePackages
type MergeResult struct {
	Package *types.Package
	Sources []*types.Package
	// Export is nil on a dry run
	Export *packs.ExportReport
	Report *output.MergeReport
}

// MergePackages consolidates the selected packages into one package named
// opts.Name, resolves its merge targets with opts.Strategy and exports it
func MergePackages(fs afero.Fs, cfg *config.Config, opts MergeOptions) (*MergeResult, error) {
	logger := logging.GetLogger("core.merge")
	defer logging.LogOperationStart(logger, "merge")()

	_, selected, err := LoadAndSelectPackages(fs, cfg, opts.Root, opts.PackageNames)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "no packages to merge")
	}

	index := conflicts.NewIndex(cfg.Conflicts.AllowList)
	records := lo.Map(selected, func(p *types.Package, _ int) *conflicts.Record {
		return index.ComputeFor(p, selected, nil)
	})

	pkg, err := candidate.NewBuilder(candidate.WithCollapseIdentical(opts.CollapseIdentical)).Build(opts.Name, records)
	if err != nil {
		return nil, err
	}

	for _, e := range opts.Ejections {
		if err := eject(pkg, e); err != nil {
			return nil, err
		}
	}

	if opts.Strategy != session.Manual {
		for _, target := range pkg.Unresolved() {
			if err := session.New(target, session.WithAutoCommit(cfg.Merge.AutoCommit)).Resolve(opts.Strategy); err != nil {
				return nil, errors.Wrapf(err, errors.ErrUnresolved, "cannot resolve %s", target.Path()).
					WithDetail("strategy", opts.Strategy.String())
			}
		}
	}

	result := &MergeResult{
		Package: pkg,
		Sources: selected,
		Report:  output.NewMergeReport(pkg, selected),
	}

	if !opts.DryRun {
		dir := opts.OutDir
		if dir == "" {
			dir = filepath.Join(opts.Root, pkg.ID)
		}
		exporter := packs.NewExporter(fs, cfg)
		exporter.Overwrite = opts.Overwrite
		result.Export, err = exporter.Export(pkg, dir)
		if err != nil {
			return nil, err
		}
		result.Report.Dir = dir
	}

	logger.Info().
		Str("package", pkg.ID).
		Int("sources", len(selected)).
		Int("unresolved", len(pkg.Unresolved())).
		Bool("dryRun", opts.DryRun).
		Msg("Packages merged")
	return result, nil
}

func eject(pkg *types.Package, e Ejection) error {
	f, ok := pkg.File(e.Path)
	target, isTarget := f.(*types.MergeTarget)
	if !ok || !isTarget {
		return errors.Newf(errors.ErrNotFound, "%s is not a merge target", e.Path).
			WithDetail("path", e.Path)
	}

	source, ok := lo.Find(target.Sources(), func(src types.File) bool { return src.PackageID() == e.PackageID })
	if !ok {
		return errors.Newf(errors.ErrNotFound, "package %s does not supply %s", e.PackageID, target.Path()).
			WithDetail("path", target.Path()).
			WithDetail("package", e.PackageID)
	}

	plan, err := candidate.Eject(pkg, target, source, e.Placement)
	if err != nil {
		return err
	}
	logger := logging.GetLogger("core.merge")
	logger.Debug().
		Str("package", e.PackageID).
		Str("from", target.Path()).
		Str("to", plan.Path).
		Int("shifts", len(plan.Shifts)).
		Msg("Source ejected")
	return nil
}
