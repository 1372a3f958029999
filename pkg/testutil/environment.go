// pkg/testutil/environment.go
// DEPENDENCIES: afero
// PURPOSE: In-memory package trees for loader and exporter tests

package testutil

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// TestEnvironment is a virtual mods directory on an in-memory filesystem
type TestEnvironment struct {
	// Root holds one directory per package
	Root string
	FS   afero.Fs

	t *testing.T
}

// NewTestEnvironment creates an empty environment rooted at /virtual/mods
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{
		Root: "/virtual/mods",
		FS:   afero.NewMemMapFs(),
		t:    t,
	}
	require.NoError(t, env.FS.MkdirAll(env.Root, 0755))
	return env
}

// PackageConfig describes a package directory
type PackageConfig struct {
	// Descriptor fields; a zero ID writes no descriptor
	ID      string
	Name    string
	Version string
	Tags    []string

	// Files maps relative paths to content
	Files map[string]string
}

// SetupPackage writes a package directory named dir and returns its path
func (env *TestEnvironment) SetupPackage(dir string, cfg PackageConfig) string {
	env.t.Helper()

	packDir := filepath.Join(env.Root, dir)
	require.NoError(env.t, env.FS.MkdirAll(packDir, 0755))

	for p, content := range cfg.Files {
		env.WriteFile(filepath.Join(packDir, p), content)
	}
	if cfg.ID != "" {
		env.WriteFile(filepath.Join(packDir, "descriptor.toml"), descriptor(cfg))
	}
	return packDir
}

// WithFileTree creates a nested tree under the root
func (env *TestEnvironment) WithFileTree(tree FileTree) {
	env.t.Helper()
	createFileTree(env.t, env.FS, env.Root, tree)
}

// WriteFile writes content at an absolute path, creating parents
func (env *TestEnvironment) WriteFile(path, content string) {
	env.t.Helper()
	require.NoError(env.t, env.FS.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(env.t, afero.WriteFile(env.FS, path, []byte(content), 0644))
}

// ReadFile returns the content at an absolute path
func (env *TestEnvironment) ReadFile(path string) string {
	env.t.Helper()
	data, err := afero.ReadFile(env.FS, path)
	require.NoError(env.t, err)
	return string(data)
}

// Exists reports whether path exists
func (env *TestEnvironment) Exists(path string) bool {
	ok, err := afero.Exists(env.FS, path)
	require.NoError(env.t, err)
	return ok
}

// FileTree is a directory structure: string values are files, nested
// FileTree values are directories
type FileTree map[string]interface{}

func createFileTree(t *testing.T, fs afero.Fs, basePath string, tree FileTree) {
	t.Helper()

	for name, content := range tree {
		fullPath := filepath.Join(basePath, name)

		switch v := content.(type) {
		case string:
			require.NoError(t, fs.MkdirAll(filepath.Dir(fullPath), 0755))
			require.NoError(t, afero.WriteFile(fs, fullPath, []byte(v), 0644))
		case FileTree:
			require.NoError(t, fs.MkdirAll(fullPath, 0755))
			createFileTree(t, fs, fullPath, v)
		default:
			t.Fatalf("Invalid file tree content type for %s: %T", name, content)
		}
	}
}

func descriptor(cfg PackageConfig) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "id = %q\n", cfg.ID)
	if cfg.Name != "" {
		fmt.Fprintf(&sb, "name = %q\n", cfg.Name)
	}
	if cfg.Version != "" {
		fmt.Fprintf(&sb, "version = %q\n", cfg.Version)
	}
	if len(cfg.Tags) > 0 {
		quoted := make([]string, len(cfg.Tags))
		for i, tag := range cfg.Tags {
			quoted[i] = fmt.Sprintf("%q", tag)
		}
		fmt.Fprintf(&sb, "tags = [%s]\n", strings.Join(quoted, ", "))
	}
	return sb.String()
}
