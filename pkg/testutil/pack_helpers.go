package testutil

import (
	"fmt"
	"testing"

	"github.com/arthur-debert/modmerge/pkg/types"
	"github.com/stretchr/testify/require"
)

// PackageBuilder declares an in-memory package for tests
type PackageBuilder struct {
	t   *testing.T
	pkg *types.Package
}

// NewPackage starts a package whose id and name are both id
func NewPackage(t *testing.T, id string) *PackageBuilder {
	t.Helper()
	return &PackageBuilder{
		t:   t,
		pkg: &types.Package{ID: id, Name: id, Version: types.AnyVersion},
	}
}

// WithName sets the display name
func (b *PackageBuilder) WithName(name string) *PackageBuilder {
	b.pkg.Name = name
	return b
}

// WithVersion sets the version from its string form
func (b *PackageBuilder) WithVersion(v string) *PackageBuilder {
	b.t.Helper()
	version, err := types.ParseVersion(v)
	require.NoError(b.t, err)
	b.pkg.Version = version
	return b
}

// WithTags appends tags
func (b *PackageBuilder) WithTags(tags ...string) *PackageBuilder {
	b.pkg.Tags = append(b.pkg.Tags, tags...)
	return b
}

// WithFile adds a file with the given content
func (b *PackageBuilder) WithFile(path, content string) *PackageBuilder {
	b.t.Helper()
	require.NoError(b.t, b.pkg.AddFile(types.NewMemoryFile(b.pkg.ID, path, []byte(content))))
	return b
}

// WithFiles adds files whose content names the package and the path
func (b *PackageBuilder) WithFiles(paths ...string) *PackageBuilder {
	b.t.Helper()
	for _, p := range paths {
		b.WithFile(p, DefaultContent(b.pkg.ID, p))
	}
	return b
}

// Build returns the package
func (b *PackageBuilder) Build() *types.Package {
	return b.pkg
}

// DefaultContent is the content WithFiles gives a file
func DefaultContent(packageID, path string) string {
	return fmt.Sprintf("# %s\n%s = yes\n", path, packageID)
}

// ABCPackages returns three packages where A and B both provide "x", A and
// C both provide "y", and only B provides "z"
func ABCPackages(t *testing.T) (a, b, c *types.Package) {
	t.Helper()
	a = NewPackage(t, "a").WithName("Alpha").WithVersion("1.5.*").WithTags("Gameplay").WithFiles("x", "y").Build()
	b = NewPackage(t, "b").WithName("Bravo").WithVersion("1.4.2").WithTags("Map", "Gameplay").WithFiles("x", "z").Build()
	c = NewPackage(t, "c").WithName("Charlie").WithVersion("1.*").WithTags("Graphics").WithFiles("y").Build()
	return a, b, c
}

// FileText reads a file's content as a string
func FileText(t *testing.T, f types.File) string {
	t.Helper()
	text, err := types.Text(f)
	require.NoError(t, err)
	return text
}
