// pkg/packs/loader_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: afero in-memory filesystem
// PURPOSE: Test reading package directories

package packs

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/modmerge/pkg/config"
	"github.com/arthur-debert/modmerge/pkg/errors"
	"github.com/arthur-debert/modmerge/pkg/testutil"
	"github.com/arthur-debert/modmerge/pkg/types"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPackages(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.SetupPackage("zeta", testutil.PackageConfig{
		ID:      "z-mod",
		Name:    "Alpha Mod",
		Version: "1.5.*",
		Tags:    []string{"Gameplay", "Events"},
		Files: map[string]string{
			"common/defines.txt":  "defines\n",
			"events/01_intro.txt": "intro\n",
		},
	})
	env.SetupPackage("beta", testutil.PackageConfig{
		Files: map[string]string{"common/defines.txt": "beta defines\n"},
	})

	packages, err := NewLoader(env.FS, config.Default()).Load(env.Root)
	require.NoError(t, err)
	require.Len(t, packages, 2)

	alpha, beta := packages[0], packages[1]
	assert.Equal(t, "z-mod", alpha.ID)
	assert.Equal(t, "Alpha Mod", alpha.Name)
	assert.Equal(t, "1.5.*", alpha.Version.String())
	assert.Equal(t, []string{"Gameplay", "Events"}, alpha.Tags)
	assert.Equal(t, []string{"common/defines.txt", "descriptor.toml", "events/01_intro.txt"}, alpha.FilePaths())

	assert.Equal(t, "beta", beta.ID, "directory name without a descriptor")
	assert.Equal(t, "beta", beta.Name)
	assert.Equal(t, types.AnyVersion, beta.Version)

	f, ok := alpha.File("events/01_intro.txt")
	require.True(t, ok)
	assert.Equal(t, "z-mod", f.PackageID())
	assert.Equal(t, "intro\n", testutil.FileText(t, f))
}

func TestLoadReadsContentLazily(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	dir := env.SetupPackage("a", testutil.PackageConfig{
		Files: map[string]string{"x.txt": "before\n"},
	})

	packages, err := NewLoader(env.FS, config.Default()).Load(env.Root)
	require.NoError(t, err)

	env.WriteFile(filepath.Join(dir, "x.txt"), "after\n")
	f, ok := packages[0].File("x.txt")
	require.True(t, ok)
	assert.Equal(t, "after\n", testutil.FileText(t, f))

	require.NoError(t, env.FS.Remove(filepath.Join(dir, "x.txt")))
	_, err = f.Bytes()
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileAccess))
}

func TestLoadSkipsIgnoredEntries(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.WithFileTree(testutil.FileTree{
		"readme.txt": "not a package\n",
		".cache": testutil.FileTree{
			"x.txt": "hidden\n",
		},
		"mod": testutil.FileTree{
			"keep.txt": "keep\n",
			"old.bak":  "skip\n",
			".git": testutil.FileTree{
				"config": "skip\n",
			},
		},
	})

	packages, err := NewLoader(env.FS, config.Default()).Load(env.Root)
	require.NoError(t, err)
	require.Len(t, packages, 1)
	assert.Equal(t, []string{"keep.txt"}, packages[0].FilePaths())
}

func TestLoadAggregatesFailures(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.SetupPackage("good", testutil.PackageConfig{
		Files: map[string]string{"x.txt": "x\n"},
	})
	env.WithFileTree(testutil.FileTree{
		"broken": testutil.FileTree{"descriptor.toml": "id = [\n"},
		"future": testutil.FileTree{"descriptor.toml": "id = \"future\"\nversion = \"1.x\"\n"},
		"twin":   testutil.FileTree{"descriptor.toml": "id = \"good\"\nname = \"Twin\"\n"},
	})

	packages, err := NewLoader(env.FS, config.Default()).Load(env.Root)
	require.Error(t, err)
	require.Len(t, packages, 1)
	assert.Equal(t, "good", packages[0].ID)

	require.IsType(t, &multierror.Error{}, err)
	failures := err.(*multierror.Error).Errors
	require.Len(t, failures, 3)
	for _, failure := range failures {
		assert.True(t, errors.IsErrorCode(failure, errors.ErrPackInvalid), "got %v", failure)
	}
}

func TestLoadRoot(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	loader := NewLoader(env.FS, config.Default())

	_, err := loader.Load("/nowhere")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))

	env.WriteFile("/virtual/file", "")
	_, err = loader.Load("/virtual/file")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	packages, err := loader.Load(env.Root)
	require.NoError(t, err)
	assert.Empty(t, packages)
}

func TestLoadCustomDescriptorName(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.WithFileTree(testutil.FileTree{
		"mod": testutil.FileTree{
			"meta.toml": "id = \"custom\"\n",
			"x.txt":     "x\n",
		},
	})

	cfg, err := config.LoadMap(map[string]interface{}{"packs.descriptor": "meta.toml"})
	require.NoError(t, err)

	packages, err := NewLoader(env.FS, cfg).Load(env.Root)
	require.NoError(t, err)
	require.Len(t, packages, 1)
	assert.Equal(t, "custom", packages[0].ID)
	assert.Equal(t, "custom", packages[0].Name, "name falls back to the id")
}
