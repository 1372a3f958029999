// Package conflicts computes which files of a package set collide at the same
// logical path.
//
// Files collide when their keys (normalized, case-insensitive paths) are
// equal and they belong to different packages. Base names on the allow-list
// are tracked in records but never reported as colliding.
package conflicts

import (
	"strings"

	"github.com/arthur-debert/modmerge/pkg/logging"
	"github.com/arthur-debert/modmerge/pkg/types"
	"github.com/samber/lo"
)

// Index computes conflict records. It keeps no state between computations;
// every call rebuilds its groups from the packages it is given.
type Index struct {
	allow map[string]struct{}
}

// NewIndex creates an index ignoring files whose base name is in allowList
func NewIndex(allowList []string) *Index {
	allow := make(map[string]struct{}, len(allowList))
	for _, name := range allowList {
		allow[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}
	return &Index{allow: allow}
}

// Allowed reports whether the file at path is exempt from conflicts
func (ix *Index) Allowed(path string) bool {
	_, ok := ix.allow[types.BaseName(path)]
	return ok
}

// ComputeAll returns one record per package, keyed by package id
func (ix *Index) ComputeAll(packages []*types.Package) map[string]*Record {
	logger := logging.GetLogger("conflicts")

	owners := ownerMap(packages)
	groups := groupFiles(packages)

	records := make(map[string]*Record, len(packages))
	for _, pkg := range packages {
		records[pkg.ID] = ix.record(pkg, groups, owners)
	}

	colliding := lo.CountBy(lo.Values(groups), func(files []types.File) bool {
		return len(lo.UniqBy(files, types.File.PackageID)) > 1
	})
	logger.Debug().
		Int("packages", len(packages)).
		Int("paths", len(groups)).
		Int("colliding", colliding).
		Msg("Conflict index computed")

	return records
}

// ComputeFor returns the record of pkg considering only the packages that
// match filter. The result is the same as ComputeAll followed by Restrict.
func (ix *Index) ComputeFor(pkg *types.Package, packages []*types.Package, filter func(*types.Package) bool) *Record {
	logger := logging.GetLogger("conflicts")

	candidates := lo.Filter(packages, func(p *types.Package, _ int) bool {
		return p.ID == pkg.ID || filter == nil || filter(p)
	})
	if !lo.ContainsBy(candidates, func(p *types.Package) bool { return p.ID == pkg.ID }) {
		candidates = append(candidates, pkg)
	}

	keys := lo.SliceToMap(pkg.Files, func(f types.File) (string, struct{}) {
		return f.Key(), struct{}{}
	})
	groups := groupFiles(candidates)
	for key := range groups {
		if _, ok := keys[key]; !ok {
			delete(groups, key)
		}
	}

	record := ix.record(pkg, groups, ownerMap(candidates))
	logger.Debug().
		Str("package", pkg.ID).
		Int("considered", len(candidates)).
		Int("conflicting", len(record.ConflictingFiles())).
		Msg("Conflicts computed for package")
	return record
}

func (ix *Index) record(pkg *types.Package, groups map[string][]types.File, owners map[string]*types.Package) *Record {
	r := &Record{Package: pkg, owners: owners}
	for _, f := range pkg.Files {
		entry := Entry{File: f, Allowed: ix.Allowed(f.Path())}
		if !entry.Allowed {
			entry.Partners = lo.Filter(groups[f.Key()], func(other types.File, _ int) bool {
				return other.PackageID() != pkg.ID
			})
		}
		r.Entries = append(r.Entries, entry)
	}
	return r
}

func groupFiles(packages []*types.Package) map[string][]types.File {
	all := lo.FlatMap(packages, func(p *types.Package, _ int) []types.File {
		return p.Files
	})
	return lo.GroupBy(all, types.File.Key)
}

func ownerMap(packages []*types.Package) map[string]*types.Package {
	return lo.KeyBy(packages, func(p *types.Package) string { return p.ID })
}
