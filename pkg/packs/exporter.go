package packs

import (
	"path/filepath"

	"github.com/arthur-debert/modmerge/pkg/config"
	"github.com/arthur-debert/modmerge/pkg/errors"
	"github.com/arthur-debert/modmerge/pkg/logging"
	"github.com/arthur-debert/modmerge/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// ExportReport lists what an export wrote, as paths relative to Dir
type ExportReport struct {
	Dir        string
	Written    []string
	Unresolved []string
}

// Exporter writes a consolidated package to a directory
type Exporter struct {
	// Overwrite replaces an existing non-empty output directory
	Overwrite bool

	fs         afero.Fs
	descriptor string
	suffix     string
	logger     zerolog.Logger
}

// NewExporter creates an exporter writing through fs
func NewExporter(fs afero.Fs, cfg *config.Config) *Exporter {
	return &Exporter{
		fs:         fs,
		descriptor: cfg.Packs.Descriptor,
		suffix:     cfg.Merge.UnresolvedSuffix,
		logger:     logging.GetLogger("packs.exporter"),
	}
}

// Export writes the descriptor of pkg, every resolved file and an archive for
// each unresolved merge target into dir
func (e *Exporter) Export(pkg *types.Package, dir string) (*ExportReport, error) {
	if err := e.prepare(dir); err != nil {
		return nil, err
	}
	report := &ExportReport{Dir: dir}

	descriptor, err := DescriptorOf(pkg).Marshal()
	if err != nil {
		return nil, err
	}
	if err := e.write(dir, e.descriptor, descriptor); err != nil {
		return nil, err
	}
	report.Written = append(report.Written, e.descriptor)
	descriptorKey := types.PathKey(e.descriptor)

	for _, f := range pkg.Files {
		if f.Key() == descriptorKey {
			e.logger.Debug().Str("path", f.Path()).Msg("Replacing source descriptor")
			continue
		}

		if target, ok := f.(*types.MergeTarget); ok && !target.Resolved() {
			data, err := EncodeUnresolved(target)
			if err != nil {
				return nil, err
			}
			p := target.Path() + e.suffix
			if err := e.write(dir, p, data); err != nil {
				return nil, err
			}
			report.Unresolved = append(report.Unresolved, p)
			continue
		}

		data, err := f.Bytes()
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", f.Path()).
				WithDetail("package", f.PackageID())
		}
		if err := e.write(dir, f.Path(), data); err != nil {
			return nil, err
		}
		report.Written = append(report.Written, f.Path())
	}

	e.logger.Info().
		Str("package", pkg.ID).
		Str("dir", dir).
		Int("written", len(report.Written)).
		Int("unresolved", len(report.Unresolved)).
		Msg("Package exported")
	return report, nil
}

func (e *Exporter) prepare(dir string) error {
	exists, err := afero.Exists(e.fs, dir)
	if err != nil {
		return errors.Wrap(err, errors.ErrFileAccess, "cannot access output directory").
			WithDetail("path", dir)
	}
	if exists {
		empty, err := afero.IsEmpty(e.fs, dir)
		if err != nil {
			return errors.Wrap(err, errors.ErrFileAccess, "cannot inspect output directory").
				WithDetail("path", dir)
		}
		if !empty {
			if !e.Overwrite {
				return errors.Newf(errors.ErrAlreadyExists, "output directory %s is not empty", dir).
					WithDetail("path", dir)
			}
			e.logger.Debug().Str("dir", dir).Msg("Removing previous export")
			if err := e.fs.RemoveAll(dir); err != nil {
				return errors.Wrap(err, errors.ErrFileWrite, "cannot clear output directory").
					WithDetail("path", dir)
			}
		}
	}

	if err := e.fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, errors.ErrDirCreate, "cannot create output directory").
			WithDetail("path", dir)
	}
	return nil
}

func (e *Exporter) write(dir, rel string, data []byte) error {
	full := filepath.Join(dir, filepath.FromSlash(rel))
	if err := e.fs.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return errors.Wrap(err, errors.ErrDirCreate, "cannot create directory").
			WithDetail("path", filepath.Dir(full))
	}
	if err := afero.WriteFile(e.fs, full, data, 0644); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "cannot write file").
			WithDetail("path", full)
	}
	e.logger.Trace().Str("path", full).Int("bytes", len(data)).Msg("File written")
	return nil
}
