package conflicts

import (
	"github.com/arthur-debert/modmerge/pkg/types"
	"github.com/samber/lo"
)

// Entry is one file of a package and the files of other packages that
// occupy the same path
type Entry struct {
	File     types.File
	Partners []types.File
	// Allowed files are tracked but never collide
	Allowed bool
}

// Record is the conflict picture of one package. Entries follow the
// package's file order.
type Record struct {
	Package *types.Package
	Entries []Entry

	owners map[string]*types.Package
}

// Owner returns the package a partner file belongs to
func (r *Record) Owner(f types.File) (*types.Package, bool) {
	p, ok := r.owners[f.PackageID()]
	return p, ok
}

// Restrict returns a copy of the record keeping only partners whose package
// matches filter
func (r *Record) Restrict(filter func(*types.Package) bool) *Record {
	out := &Record{Package: r.Package, owners: r.owners}
	for _, e := range r.Entries {
		kept := Entry{File: e.File, Allowed: e.Allowed}
		kept.Partners = lo.Filter(e.Partners, func(f types.File, _ int) bool {
			owner, ok := r.owners[f.PackageID()]
			return ok && filter(owner)
		})
		out.Entries = append(out.Entries, kept)
	}
	return out
}

// HasConflicts reports whether any file has a partner
func (r *Record) HasConflicts() bool {
	return lo.SomeBy(r.Entries, func(e Entry) bool { return len(e.Partners) > 0 })
}

// ConflictingFiles returns the package's files that have partners
func (r *Record) ConflictingFiles() []types.File {
	return lo.FilterMap(r.Entries, func(e Entry, _ int) (types.File, bool) {
		return e.File, len(e.Partners) > 0
	})
}

// Partners returns the files colliding with the package's file at path
func (r *Record) Partners(path string) []types.File {
	key := types.PathKey(path)
	for _, e := range r.Entries {
		if e.File.Key() == key {
			return e.Partners
		}
	}
	return nil
}

// ConflictsWith returns the package's files that collide with a file of the
// package identified by packageID
func (r *Record) ConflictsWith(packageID string) []types.File {
	return lo.FilterMap(r.Entries, func(e Entry, _ int) (types.File, bool) {
		return e.File, lo.ContainsBy(e.Partners, func(f types.File) bool {
			return f.PackageID() == packageID
		})
	})
}

// PackageIDs returns the ids of every package the record collides with, in
// order of first appearance
func (r *Record) PackageIDs() []string {
	ids := lo.FlatMap(r.Entries, func(e Entry, _ int) []string {
		return lo.Map(e.Partners, func(f types.File, _ int) string { return f.PackageID() })
	})
	return lo.Uniq(ids)
}
