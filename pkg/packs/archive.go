package packs

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/arthur-debert/modmerge/pkg/errors"
	"github.com/arthur-debert/modmerge/pkg/types"
)

// EncodeUnresolved archives the remaining sources of target, one entry per
// source named NN/<base name> in pool order
func EncodeUnresolved(target *types.MergeTarget) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	base := path.Base(target.Path())
	for i, src := range target.Sources() {
		data, err := src.Bytes()
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read source %d of %s", i, target.Path()).
				WithDetail("package", src.PackageID())
		}
		w, err := zw.Create(fmt.Sprintf("%02d/%s", i, base))
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrFileWrite, "failed to add archive entry")
		}
		if _, err := w.Write(data); err != nil {
			return nil, errors.Wrap(err, errors.ErrFileWrite, "failed to write archive entry")
		}
	}

	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(err, errors.ErrFileWrite, "failed to finish archive")
	}
	return buf.Bytes(), nil
}

// DecodeUnresolved rebuilds the merge target at p owned by packageID from an
// archive written by EncodeUnresolved. Entries are ordered by their index.
func DecodeUnresolved(packageID, p string, data []byte) (*types.MergeTarget, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPackInvalid, "%s is not an unresolved archive", p)
	}

	type entry struct {
		index int
		data  []byte
	}
	entries := make([]entry, 0, len(zr.File))
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}
		dir, _, ok := strings.Cut(zf.Name, "/")
		index, convErr := strconv.Atoi(dir)
		if !ok || convErr != nil || index < 0 {
			return nil, errors.Newf(errors.ErrPackInvalid, "%s: unexpected archive entry %q", p, zf.Name)
		}
		content, err := readEntry(zf)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "%s: cannot read archive entry %q", p, zf.Name)
		}
		entries = append(entries, entry{index: index, data: content})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].index < entries[j].index })

	sources := make([]types.File, len(entries))
	for i, e := range entries {
		sources[i] = types.NewMemoryFile(packageID, p, e.data)
	}
	return types.NewMergeTarget(packageID, p, sources), nil
}

func readEntry(zf *zip.File) ([]byte, error) {
	rc, err := zf.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
