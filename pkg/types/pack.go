package types

import (
	"github.com/arthur-debert/modmerge/pkg/errors"
)

// Package is an installable content unit ("mod") supplying files that
// override or add game resources
type Package struct {
	// ID is the stable identity of the package
	ID string

	// Name is the display name
	Name string

	// Files are the package's files in load order
	Files []File

	// Version is the supported game version triple
	Version Version

	// Tags are free-form labels from the descriptor
	Tags []string
}

// File returns the file at the given path, compared by key
func (p *Package) File(path string) (File, bool) {
	key := PathKey(path)
	for _, f := range p.Files {
		if f.Key() == key {
			return f, true
		}
	}
	return nil, false
}

// FilePaths returns the display paths of every file
func (p *Package) FilePaths() []string {
	paths := make([]string, len(p.Files))
	for i, f := range p.Files {
		paths[i] = f.Path()
	}
	return paths
}

// MergeTargets returns the files that are merge targets
func (p *Package) MergeTargets() []*MergeTarget {
	var targets []*MergeTarget
	for _, f := range p.Files {
		if t, ok := f.(*MergeTarget); ok {
			targets = append(targets, t)
		}
	}
	return targets
}

// Unresolved returns the merge targets that still need a decision
func (p *Package) Unresolved() []*MergeTarget {
	var targets []*MergeTarget
	for _, t := range p.MergeTargets() {
		if !t.Resolved() {
			targets = append(targets, t)
		}
	}
	return targets
}

// AddFile appends f re-owned by this package. A file with the same key
// already present is an ErrAlreadyExists error.
func (p *Package) AddFile(f File) error {
	if existing, ok := p.File(f.Path()); ok {
		return errors.Newf(errors.ErrAlreadyExists, "%s already provides %s", p.ID, existing.Path()).
			WithDetail("path", f.Path())
	}
	if f.PackageID() != p.ID {
		f = f.WithPackage(p.ID)
	}
	p.Files = append(p.Files, f)
	return nil
}

// RenameFile moves the file at from to the path to, keeping its position
func (p *Package) RenameFile(from, to string) error {
	fromKey := PathKey(from)
	for i, f := range p.Files {
		if f.Key() != fromKey {
			continue
		}
		if t, ok := f.(*MergeTarget); ok {
			// Merge targets are shared with running sessions; rename in place
			t.path = NormalizePath(to)
			return nil
		}
		p.Files[i] = f.WithPath(to)
		return nil
	}
	return errors.Newf(errors.ErrNotFound, "%s has no file %s", p.ID, from).
		WithDetail("path", from)
}
