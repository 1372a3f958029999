// internal/cli/cli_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: afero in-memory filesystem, temp XDG directories
// PURPOSE: Test command wiring, flags and rendered output

package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/modmerge/pkg/errors"
	"github.com/arthur-debert/modmerge/pkg/output"
	"github.com/arthur-debert/modmerge/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func variant(n string) string {
	return "header\nshared\nvalue = " + n + "\nfooter\nend\n"
}

func setupMods(t *testing.T) *testutil.TestEnvironment {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")

	env := testutil.NewTestEnvironment(t)
	env.SetupPackage("alpha", testutil.PackageConfig{
		ID: "a", Name: "Alpha", Version: "1.5.*",
		Files: map[string]string{
			"common/x.txt":        variant("1"),
			"events/05_intro.txt": "alpha intro\n",
		},
	})
	env.SetupPackage("bravo", testutil.PackageConfig{
		ID: "b", Name: "Bravo", Version: "1.4.2",
		Files: map[string]string{
			"common/x.txt":        variant("2"),
			"events/05_intro.txt": "bravo intro\n",
		},
	})
	return env
}

func execute(t *testing.T, env *testutil.TestEnvironment, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd(env.FS)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionCmd(t *testing.T) {
	env := setupMods(t)

	out, _, err := execute(t, env, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "modmerge version dev")
	assert.Contains(t, out, "commit: unknown")
}

func TestNoCommand(t *testing.T) {
	env := setupMods(t)

	_, _, err := execute(t, env)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestConflictsCmd(t *testing.T) {
	env := setupMods(t)

	t.Run("text", func(t *testing.T) {
		out, _, err := execute(t, env, "conflicts", "--root", env.Root, "alpha")
		require.NoError(t, err)
		assert.Equal(t, "Alpha (a)\n  common/x.txt <-> Bravo\n  events/05_intro.txt <-> Bravo\n", out)
	})

	t.Run("yaml", func(t *testing.T) {
		out, _, err := execute(t, env, "conflicts", "--root", env.Root, "--format", "yaml")
		require.NoError(t, err)

		var report output.ConflictReport
		require.NoError(t, yaml.Unmarshal([]byte(out), &report))
		require.Len(t, report.Packages, 2)
		assert.Equal(t, "b", report.Packages[1].ID)
	})

	t.Run("all files", func(t *testing.T) {
		out, _, err := execute(t, env, "conflicts", "--root", env.Root, "--all", "b")
		require.NoError(t, err)
		assert.Contains(t, out, "descriptor.toml (allowed)")
	})

	t.Run("unknown package", func(t *testing.T) {
		_, _, err := execute(t, env, "conflicts", "--root", env.Root, "zulu")
		assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	})

	t.Run("unknown format", func(t *testing.T) {
		_, _, err := execute(t, env, "conflicts", "--root", env.Root, "--format", "xml")
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})
}

func TestMergeCmd(t *testing.T) {
	env := setupMods(t)
	out := filepath.Join(env.Root, "my-merge")

	stdout, _, err := execute(t, env, "merge", "My Merge", "alpha", "bravo",
		"--root", env.Root, "--strategy", "right")
	require.NoError(t, err)

	assert.Contains(t, stdout, "My Merge (my-merge, version 1.4.*)")
	assert.Contains(t, stdout, "  from Alpha, Bravo")
	assert.Contains(t, stdout, "2 merged, 0 unresolved")
	assert.Equal(t, variant("2"), env.ReadFile(filepath.Join(out, "common", "x.txt")))

	_, _, err = execute(t, env, "merge", "My Merge", "alpha", "bravo", "--root", env.Root, "--strategy", "left")
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))

	_, _, err = execute(t, env, "merge", "My Merge", "alpha", "bravo",
		"--root", env.Root, "--strategy", "left", "--overwrite")
	require.NoError(t, err)
	assert.Equal(t, variant("1"), env.ReadFile(filepath.Join(out, "common", "x.txt")))
}

func TestMergeCmdStrategyFromConfig(t *testing.T) {
	env := setupMods(t)
	t.Setenv("MODMERGE_MERGE__STRATEGY", "left")

	stdout, _, err := execute(t, env, "merge", "Configured", "a", "b", "--root", env.Root, "--format", "json")
	require.NoError(t, err)

	var report output.MergeReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Empty(t, report.Unresolved)
	assert.Len(t, report.Merged, 2)
	assert.Equal(t, variant("1"), env.ReadFile(filepath.Join(env.Root, "configured", "common", "x.txt")))
}

func TestMergeCmdManualAndEjection(t *testing.T) {
	env := setupMods(t)

	stdout, stderr, err := execute(t, env, "merge", "Pending", "a", "b",
		"--root", env.Root, "--dry-run", "--eject", "b:events/05_intro.txt:after")
	require.NoError(t, err)

	assert.Contains(t, stdout, "1 unresolved\n    common/x.txt")
	assert.Contains(t, stderr, MsgDryRunNotice)
	assert.False(t, env.Exists(filepath.Join(env.Root, "pending")))
}

func TestMergeCmdInvalidInput(t *testing.T) {
	env := setupMods(t)

	tests := []struct {
		name string
		args []string
	}{
		{"strategy", []string{"merge", "m", "a", "b", "--strategy", "theirs"}},
		{"ejection", []string{"merge", "m", "a", "b", "--eject", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, env, append(tt.args, "--root", env.Root)...)
			assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput), "got %v", err)
		})
	}

	_, _, err := execute(t, env, "merge")
	assert.Error(t, err)
}

func TestInvalidConfig(t *testing.T) {
	env := setupMods(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[merge]\nstrategy = \"theirs\"\n"), 0644))

	_, _, err := execute(t, env, "--config", path, "version")
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestHelpTopics(t *testing.T) {
	env := setupMods(t)

	out, _, err := execute(t, env, "help", "topics")
	require.NoError(t, err)
	for _, topic := range []string{"configuration", "renumbering", "strategies", "unresolved", "--eject"} {
		assert.Contains(t, out, topic)
	}

	out, _, err = execute(t, env, "help", "renumbering")
	require.NoError(t, err)
	assert.Contains(t, out, "Renumbering")
}

func TestCompletionCmd(t *testing.T) {
	env := setupMods(t)

	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, _, err := execute(t, env, "completion", shell)
		require.NoError(t, err, shell)
		assert.Contains(t, out, "modmerge", shell)
	}

	_, _, err := execute(t, env, "completion", "tcsh")
	assert.Error(t, err)
}

func TestReportError(t *testing.T) {
	var buf bytes.Buffer
	ReportError(&buf, errors.New(errors.ErrNotFound, "package(s) not found: zulu"))
	assert.Contains(t, buf.String(), "Error:")
	assert.Contains(t, buf.String(), "package(s) not found: zulu")
}
