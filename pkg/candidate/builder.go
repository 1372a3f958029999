// Package candidate builds one consolidated package out of a selection of
// packages, turning every path they collide on into a merge target.
package candidate

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/arthur-debert/modmerge/pkg/conflicts"
	"github.com/arthur-debert/modmerge/pkg/errors"
	"github.com/arthur-debert/modmerge/pkg/logging"
	"github.com/arthur-debert/modmerge/pkg/renumber"
	"github.com/arthur-debert/modmerge/pkg/types"
	"github.com/samber/lo"
)

// Builder assembles consolidated packages
type Builder struct {
	idPrefix         string
	collapseIdentity bool
}

// Option configures a Builder
type Option func(*Builder)

// WithIDPrefix prepends prefix to the id derived from the package name
func WithIDPrefix(prefix string) Option {
	return func(b *Builder) {
		b.idPrefix = prefix
	}
}

// WithCollapseIdentical copies a colliding file verbatim when every variant
// has the same content, instead of creating a merge target for it
func WithCollapseIdentical(collapse bool) Option {
	return func(b *Builder) {
		b.collapseIdentity = collapse
	}
}

// NewBuilder creates a builder
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build creates the consolidated package named name from the packages
// behind records. Partners outside that selection are ignored. Files are
// taken in record order, then file order; the first occurrence of a path
// decides its position. A path with partners becomes a MergeTarget whose
// sources are the file followed by its partners.
func (b *Builder) Build(name string, records []*conflicts.Record) (*types.Package, error) {
	logger := logging.GetLogger("candidate")

	id := slug(name)
	if id == "" {
		return nil, errors.New(errors.ErrInvalidInput, "a merged package needs a name").
			WithDetail("name", name)
	}

	selected := lo.SliceToMap(records, func(r *conflicts.Record) (string, struct{}) {
		return r.Package.ID, struct{}{}
	})
	inSelection := func(p *types.Package) bool {
		_, ok := selected[p.ID]
		return ok
	}
	packages := lo.Map(records, func(r *conflicts.Record, _ int) *types.Package { return r.Package })

	result := &types.Package{
		ID:      b.idPrefix + id,
		Name:    strings.TrimSpace(name),
		Version: types.MinVersions(lo.Map(packages, func(p *types.Package, _ int) types.Version { return p.Version })...),
		Tags:    lo.Uniq(lo.FlatMap(packages, func(p *types.Package, _ int) []string { return p.Tags })),
	}

	seen := make(map[string]struct{})
	targets := 0
	for _, record := range records {
		restricted := record.Restrict(inSelection)
		for _, entry := range restricted.Entries {
			if _, dup := seen[entry.File.Key()]; dup {
				continue
			}
			seen[entry.File.Key()] = struct{}{}

			file, err := b.consolidate(result.ID, entry)
			if err != nil {
				return nil, err
			}
			if _, ok := file.(*types.MergeTarget); ok {
				targets++
			}
			if err := result.AddFile(file); err != nil {
				return nil, err
			}
		}
	}

	logger.Debug().
		Str("package", result.ID).
		Int("sources", len(records)).
		Int("files", len(result.Files)).
		Int("targets", targets).
		Str("version", result.Version.String()).
		Msg("Merge candidate built")
	return result, nil
}

func (b *Builder) consolidate(packageID string, entry conflicts.Entry) (types.File, error) {
	if len(entry.Partners) == 0 {
		return entry.File.WithPackage(packageID), nil
	}

	sources := append([]types.File{entry.File}, entry.Partners...)
	if b.collapseIdentity {
		same, err := identical(sources)
		if err != nil {
			return nil, err
		}
		if same {
			return entry.File.WithPackage(packageID), nil
		}
	}
	return types.NewMergeTarget(packageID, entry.File.Path(), sources), nil
}

func identical(files []types.File) (bool, error) {
	first, err := files[0].Bytes()
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", files[0].Path())
	}
	for _, f := range files[1:] {
		data, err := f.Bytes()
		if err != nil {
			return false, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", f.Path())
		}
		if !bytes.Equal(first, data) {
			return false, nil
		}
	}
	return true, nil
}

// Eject takes file out of target and puts it back into pkg as a plain file
// next to the target, renumbering siblings as needed. Nothing changes when
// the move cannot be planned.
func Eject(pkg *types.Package, target *types.MergeTarget, file types.File, placement renumber.Placement) (renumber.Plan, error) {
	logger := logging.GetLogger("candidate")

	if !lo.Contains(target.Sources(), file) {
		return renumber.Plan{}, errors.Newf(errors.ErrNotFound, "%s is not a source of %s", file.PackageID(), target.Path()).
			WithDetail("path", target.Path())
	}
	plan, err := renumber.Move(file.Path(), placement, pkg.FilePaths())
	if err != nil {
		return renumber.Plan{}, err
	}

	if err := target.Eject(file); err != nil {
		return renumber.Plan{}, err
	}
	for _, shift := range plan.Shifts {
		if err := pkg.RenameFile(shift.From, shift.To); err != nil {
			return plan, err
		}
	}
	if err := pkg.AddFile(file.WithPath(plan.Path)); err != nil {
		return plan, err
	}

	logger.Debug().
		Str("package", pkg.ID).
		Str("from", file.Path()).
		Str("to", plan.Path).
		Int("shifted", len(plan.Shifts)).
		Msg("File ejected from merge target")
	return plan, nil
}

func slug(name string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			dash = false
			continue
		}
		if !dash && sb.Len() > 0 {
			sb.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
