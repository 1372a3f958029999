package output

import (
	"github.com/arthur-debert/modmerge/pkg/conflicts"
	"github.com/arthur-debert/modmerge/pkg/types"
	"github.com/samber/lo"
)

// ConflictReport is the printable form of conflict records
type ConflictReport struct {
	Packages []PackageConflicts `yaml:"packages" json:"packages"`
}

// PackageConflicts lists the files of one package and who they collide with
type PackageConflicts struct {
	ID    string          `yaml:"id" json:"id"`
	Name  string          `yaml:"name" json:"name"`
	Files []FileConflicts `yaml:"files,omitempty" json:"files,omitempty"`
}

// FileConflicts is one file and the packages supplying the same path
type FileConflicts struct {
	Path     string   `yaml:"path" json:"path"`
	Partners []string `yaml:"partners,omitempty" json:"partners,omitempty"`
	Allowed  bool     `yaml:"allowed,omitempty" json:"allowed,omitempty"`
}

// NewConflictReport converts records in the given order. With onlyConflicts
// set, files without partners and packages without conflicts are left out.
func NewConflictReport(records []*conflicts.Record, onlyConflicts bool) *ConflictReport {
	report := &ConflictReport{Packages: []PackageConflicts{}}
	for _, rec := range records {
		if onlyConflicts && !rec.HasConflicts() {
			continue
		}
		pc := PackageConflicts{ID: rec.Package.ID, Name: rec.Package.Name}
		for _, e := range rec.Entries {
			if onlyConflicts && len(e.Partners) == 0 {
				continue
			}
			pc.Files = append(pc.Files, FileConflicts{
				Path:     e.File.Path(),
				Partners: lo.Map(e.Partners, func(f types.File, _ int) string { return partnerName(rec, f) }),
				Allowed:  e.Allowed,
			})
		}
		report.Packages = append(report.Packages, pc)
	}
	return report
}

func partnerName(rec *conflicts.Record, f types.File) string {
	if owner, ok := rec.Owner(f); ok {
		return owner.Name
	}
	return f.PackageID()
}

// MergeReport summarizes a consolidation
type MergeReport struct {
	ID         string   `yaml:"id" json:"id"`
	Name       string   `yaml:"name" json:"name"`
	Version    string   `yaml:"version" json:"version"`
	Tags       []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	Sources    []string `yaml:"sources" json:"sources"`
	Dir        string   `yaml:"dir,omitempty" json:"dir,omitempty"`
	Copied     []string `yaml:"copied,omitempty" json:"copied,omitempty"`
	Merged     []string `yaml:"merged,omitempty" json:"merged,omitempty"`
	Unresolved []string `yaml:"unresolved,omitempty" json:"unresolved,omitempty"`
}

// NewMergeReport describes the consolidated package pkg built from sources
func NewMergeReport(pkg *types.Package, sources []*types.Package) *MergeReport {
	report := &MergeReport{
		ID:      pkg.ID,
		Name:    pkg.Name,
		Version: pkg.Version.String(),
		Tags:    pkg.Tags,
		Sources: lo.Map(sources, func(p *types.Package, _ int) string { return p.Name }),
	}
	for _, f := range pkg.Files {
		target, ok := f.(*types.MergeTarget)
		switch {
		case !ok:
			report.Copied = append(report.Copied, f.Path())
		case target.Resolved():
			report.Merged = append(report.Merged, f.Path())
		default:
			report.Unresolved = append(report.Unresolved, f.Path())
		}
	}
	return report
}
