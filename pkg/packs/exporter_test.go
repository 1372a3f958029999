// pkg/packs/exporter_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: afero in-memory filesystem
// PURPOSE: Test writing consolidated packages and unresolved archives

package packs

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/modmerge/pkg/config"
	"github.com/arthur-debert/modmerge/pkg/errors"
	"github.com/arthur-debert/modmerge/pkg/testutil"
	"github.com/arthur-debert/modmerge/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mergedPackage(t *testing.T) *types.Package {
	t.Helper()
	pkg := testutil.NewPackage(t, "merged").
		WithName("Merged").
		WithVersion("1.4.*").
		WithTags("Gameplay", "Map").
		WithFile("descriptor.toml", "id = \"a\"\n").
		WithFile("common/z.txt", "z\n").
		Build()

	pending := types.NewMergeTarget("merged", "common/x.txt", []types.File{
		types.NewMemoryFile("a", "common/x.txt", []byte("x from a\n")),
		types.NewMemoryFile("b", "common/x.txt", []byte("x from b\n")),
	})
	done := types.NewMergeTarget("merged", "events/y.txt", []types.File{
		types.NewMemoryFile("a", "events/y.txt", []byte("y from a\n")),
		types.NewMemoryFile("c", "events/y.txt", []byte("y from c\n")),
	})
	require.NoError(t, done.Pick(1))
	require.NoError(t, pkg.AddFile(pending))
	require.NoError(t, pkg.AddFile(done))
	return pkg
}

func TestExport(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	out := "/virtual/out/merged"

	report, err := NewExporter(env.FS, config.Default()).Export(mergedPackage(t), out)
	require.NoError(t, err)

	assert.Equal(t, out, report.Dir)
	assert.Equal(t, []string{"descriptor.toml", "common/z.txt", "events/y.txt"}, report.Written)
	assert.Equal(t, []string{"common/x.txt.unresolved"}, report.Unresolved)

	d, err := ParseDescriptor([]byte(env.ReadFile(filepath.Join(out, "descriptor.toml"))))
	require.NoError(t, err)
	assert.Equal(t, Descriptor{ID: "merged", Name: "Merged", Version: "1.4.*", Tags: []string{"Gameplay", "Map"}}, d)

	assert.Equal(t, "z\n", env.ReadFile(filepath.Join(out, "common", "z.txt")))
	assert.Equal(t, "y from c\n", env.ReadFile(filepath.Join(out, "events", "y.txt")))
	assert.False(t, env.Exists(filepath.Join(out, "common", "x.txt")))

	archive := []byte(env.ReadFile(filepath.Join(out, "common", "x.txt.unresolved")))
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)

	entries := map[string]string{}
	for _, zf := range zr.File {
		rc, err := zf.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		entries[zf.Name] = string(data)
	}
	assert.Equal(t, map[string]string{
		"00/x.txt": "x from a\n",
		"01/x.txt": "x from b\n",
	}, entries)
}

func TestExportRefusesNonEmptyDirectory(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	out := "/virtual/out"
	env.WriteFile(filepath.Join(out, "stale.txt"), "old\n")

	exporter := NewExporter(env.FS, config.Default())
	_, err := exporter.Export(mergedPackage(t), out)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))
	assert.True(t, env.Exists(filepath.Join(out, "stale.txt")))

	exporter.Overwrite = true
	_, err = exporter.Export(mergedPackage(t), out)
	require.NoError(t, err)
	assert.False(t, env.Exists(filepath.Join(out, "stale.txt")))
	assert.True(t, env.Exists(filepath.Join(out, "common", "z.txt")))
}

func TestExportIntoEmptyDirectory(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	require.NoError(t, env.FS.MkdirAll("/virtual/out", 0755))

	_, err := NewExporter(env.FS, config.Default()).Export(mergedPackage(t), "/virtual/out")
	require.NoError(t, err)
}

func TestExportThenLoadResumesMerge(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	cfg := config.Default()

	_, err := NewExporter(env.FS, cfg).Export(mergedPackage(t), filepath.Join(env.Root, "merged"))
	require.NoError(t, err)

	packages, err := NewLoader(env.FS, cfg).Load(env.Root)
	require.NoError(t, err)
	require.Len(t, packages, 1)

	pkg := packages[0]
	assert.Equal(t, "merged", pkg.ID)
	assert.Equal(t, "1.4.*", pkg.Version.String())
	assert.Equal(t, []string{"common/x.txt", "common/z.txt", "descriptor.toml", "events/y.txt"}, pkg.FilePaths())

	unresolved := pkg.Unresolved()
	require.Len(t, unresolved, 1)
	target := unresolved[0]
	assert.Equal(t, "common/x.txt", target.Path())
	require.Equal(t, 2, target.SourceCount())
	assert.Equal(t, "x from a\n", testutil.FileText(t, target.Sources()[0]))
	assert.Equal(t, "x from b\n", testutil.FileText(t, target.Sources()[1]))
}

func TestDecodeUnresolvedRejectsForeignArchives(t *testing.T) {
	_, err := DecodeUnresolved("m", "x.txt", []byte("not a zip"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrPackInvalid))

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err = zw.Create("readme.txt")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = DecodeUnresolved("m", "x.txt", buf.Bytes())
	assert.True(t, errors.IsErrorCode(err, errors.ErrPackInvalid))
}

func TestDecodeUnresolvedOrdersEntries(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range []struct{ name, data string }{
		{"10/x.txt", "ten"},
		{"02/x.txt", "two"},
		{"00/x.txt", "zero"},
	} {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(e.data))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	target, err := DecodeUnresolved("m", "common/x.txt", buf.Bytes())
	require.NoError(t, err)

	texts := make([]string, 0, target.SourceCount())
	for _, src := range target.Sources() {
		texts = append(texts, testutil.FileText(t, src))
		assert.Equal(t, "m", src.PackageID())
	}
	assert.Equal(t, []string{"zero", "two", "ten"}, texts)
}
