package packs

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/modmerge/pkg/config"
	"github.com/arthur-debert/modmerge/pkg/errors"
	"github.com/arthur-debert/modmerge/pkg/logging"
	"github.com/arthur-debert/modmerge/pkg/types"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Loader reads packages from package directories under a root
type Loader struct {
	fs         afero.Fs
	descriptor string
	suffix     string
	ignore     []string
	logger     zerolog.Logger
}

// NewLoader creates a loader reading through fs
func NewLoader(fs afero.Fs, cfg *config.Config) *Loader {
	return &Loader{
		fs:         fs,
		descriptor: cfg.Packs.Descriptor,
		suffix:     cfg.Merge.UnresolvedSuffix,
		ignore:     cfg.Packs.Ignore,
		logger:     logging.GetLogger("packs.loader"),
	}
}

// Load returns every package below root sorted by name. A package that fails
// to load is skipped; its error is aggregated into the returned error, which
// may accompany a non-empty result.
func (l *Loader) Load(root string) ([]*types.Package, error) {
	l.logger.Trace().Str("root", root).Msg("Loading packages")

	info, err := l.fs.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(err, errors.ErrNotFound, "package root does not exist").
				WithDetail("path", root)
		}
		return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot access package root").
			WithDetail("path", root)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrInvalidInput, "package root is not a directory").
			WithDetail("path", root)
	}

	entries, err := afero.ReadDir(l.fs, root)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot read package root").
			WithDetail("path", root)
	}

	var (
		packages []*types.Package
		result   *multierror.Error
		failed   int
		seen     = make(map[string]string)
	)
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || strings.HasPrefix(name, ".") || l.ignored(name) {
			l.logger.Trace().Str("name", name).Msg("Skipping entry")
			continue
		}

		dir := filepath.Join(root, name)
		pkg, err := l.LoadPackage(dir)
		if err == nil {
			if other, dup := seen[pkg.ID]; dup {
				err = errors.Newf(errors.ErrPackInvalid, "package id %s is used by both %s and %s", pkg.ID, other, name).
					WithDetail("id", pkg.ID)
			}
		}
		if err != nil {
			l.logger.Warn().Err(err).Str("path", dir).Msg("Failed to load package, skipping")
			result = multierror.Append(result, err)
			failed++
			continue
		}

		seen[pkg.ID] = name
		packages = append(packages, pkg)
	}

	sort.SliceStable(packages, func(i, j int) bool {
		return packages[i].Name < packages[j].Name
	})

	l.logger.Debug().
		Int("count", len(packages)).
		Int("failed", failed).
		Msg("Loaded packages")
	return packages, result.ErrorOrNil()
}

// LoadPackage reads the single package in dir
func (l *Loader) LoadPackage(dir string) (*types.Package, error) {
	name := filepath.Base(dir)
	pkg := &types.Package{ID: name, Name: name, Version: types.AnyVersion}

	descriptorPath := filepath.Join(dir, l.descriptor)
	if ok, _ := afero.Exists(l.fs, descriptorPath); ok {
		data, err := afero.ReadFile(l.fs, descriptorPath)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrPackAccess, "cannot read descriptor").
				WithDetail("path", descriptorPath)
		}
		d, err := ParseDescriptor(data)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrPackInvalid, "invalid descriptor in %s", name).
				WithDetail("path", descriptorPath)
		}
		if err := d.apply(pkg); err != nil {
			return nil, err
		}
	}

	err := afero.Walk(l.fs, dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return errors.Wrap(err, errors.ErrPackAccess, "cannot walk package").
				WithDetail("path", p)
		}
		if p == dir {
			return nil
		}
		if l.ignored(info.Name()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return errors.Wrap(err, errors.ErrInternal, "cannot relativize path")
		}
		return l.addFile(pkg, p, filepath.ToSlash(rel))
	})
	if err != nil {
		return nil, err
	}

	l.logger.Trace().
		Str("id", pkg.ID).
		Int("files", len(pkg.Files)).
		Int("unresolved", len(pkg.Unresolved())).
		Msg("Package loaded")
	return pkg, nil
}

func (l *Loader) addFile(pkg *types.Package, full, rel string) error {
	if l.suffix != "" && strings.HasSuffix(rel, l.suffix) && len(rel) > len(l.suffix) {
		data, err := afero.ReadFile(l.fs, full)
		if err != nil {
			return errors.Wrap(err, errors.ErrPackAccess, "cannot read unresolved archive").
				WithDetail("path", full)
		}
		target, err := DecodeUnresolved(pkg.ID, strings.TrimSuffix(rel, l.suffix), data)
		if err != nil {
			return err
		}
		return pkg.AddFile(target)
	}

	fs := l.fs
	return pkg.AddFile(types.NewSourceFile(pkg.ID, rel, func() ([]byte, error) {
		data, err := afero.ReadFile(fs, full)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot read package file").
				WithDetail("path", full)
		}
		return data, nil
	}))
}

func (l *Loader) ignored(name string) bool {
	for _, pattern := range l.ignore {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
