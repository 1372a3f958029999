package types

import (
	"strings"

	"github.com/arthur-debert/modmerge/pkg/errors"
)

// MergeTarget is a file whose content has to be consolidated from several
// colliding source variants. It is resolved once a finalized text has been
// recorded or at most one source remains.
type MergeTarget struct {
	path      string
	packageID string
	sources   []File
	finalized []byte
	final     bool
}

// NewMergeTarget creates a merge target at path for the given sources
func NewMergeTarget(packageID, p string, sources []File) *MergeTarget {
	return &MergeTarget{
		path:      NormalizePath(p),
		packageID: packageID,
		sources:   append([]File(nil), sources...),
	}
}

func (t *MergeTarget) Path() string      { return t.path }
func (t *MergeTarget) Key() string       { return strings.ToLower(t.path) }
func (t *MergeTarget) PackageID() string { return t.packageID }

// Sources returns the variants still awaiting merge, in order
func (t *MergeTarget) Sources() []File {
	return append([]File(nil), t.sources...)
}

// SourceCount returns the number of variants still awaiting merge
func (t *MergeTarget) SourceCount() int {
	return len(t.sources)
}

// Resolved reports whether the target has definitive content
func (t *MergeTarget) Resolved() bool {
	return t.final || len(t.sources) <= 1
}

// Bytes returns the definitive content. Zero sources resolve to empty
// content; more than one unmerged source is an ErrUnresolved error.
func (t *MergeTarget) Bytes() ([]byte, error) {
	if t.final {
		return t.finalized, nil
	}
	switch len(t.sources) {
	case 0:
		return []byte{}, nil
	case 1:
		return t.sources[0].Bytes()
	default:
		return nil, errors.Newf(errors.ErrUnresolved, "%s still has %d sources", t.path, len(t.sources)).
			WithDetail("path", t.path)
	}
}

// Fold replaces the consumed pair left/right with their merged content. The
// merged candidate is placed at the front of the pool so that it takes part
// in the next pairing. When a single source remains its content becomes the
// finalized text.
func (t *MergeTarget) Fold(left, right File, merged []byte) error {
	if t.final {
		return errors.Newf(errors.ErrInvalidOperation, "%s is already finalized", t.path)
	}
	li, ri := t.indexOf(left), t.indexOf(right)
	if li < 0 || ri < 0 || li == ri {
		return errors.Newf(errors.ErrInvalidOperation, "%s: consumed files are not two distinct sources", t.path).
			WithDetail("path", t.path)
	}

	remaining := make([]File, 0, len(t.sources)-1)
	remaining = append(remaining, NewMemoryFile(t.packageID, t.path, merged))
	for i, src := range t.sources {
		if i != li && i != ri {
			remaining = append(remaining, src)
		}
	}
	t.sources = remaining

	if len(t.sources) <= 1 {
		return t.finalize(t.sources[0])
	}
	return nil
}

// Pick resolves the target by choosing one variant verbatim. This is the only
// way to resolve binary variants, which are never diffed.
func (t *MergeTarget) Pick(index int) error {
	if index < 0 || index >= len(t.sources) {
		return errors.Newf(errors.ErrInvalidOperation, "%s has no source %d", t.path, index).
			WithDetail("path", t.path)
	}
	chosen := t.sources[index]
	t.sources = []File{chosen}
	return t.finalize(chosen)
}

// Eject removes one source from the target without merging it
func (t *MergeTarget) Eject(f File) error {
	i := t.indexOf(f)
	if i < 0 {
		return errors.Newf(errors.ErrNotFound, "%s is not a source of %s", f.PackageID(), t.path)
	}
	t.sources = append(t.sources[:i:i], t.sources[i+1:]...)
	return nil
}

func (t *MergeTarget) finalize(f File) error {
	data, err := f.Bytes()
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read source of %s", t.path)
	}
	t.finalized = data
	t.final = true
	return nil
}

func (t *MergeTarget) indexOf(f File) int {
	for i, src := range t.sources {
		if src == f {
			return i
		}
	}
	return -1
}

func (t *MergeTarget) WithPath(p string) File {
	cp := *t
	cp.path = NormalizePath(p)
	cp.sources = append([]File(nil), t.sources...)
	return &cp
}

func (t *MergeTarget) WithPackage(packageID string) File {
	cp := *t
	cp.packageID = packageID
	cp.sources = append([]File(nil), t.sources...)
	return &cp
}
