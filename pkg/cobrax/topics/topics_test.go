package topics

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func helpFS() fstest.MapFS {
	return fstest.MapFS{
		"strategies.txt":     {Data: []byte("Strategies resolve every conflict")},
		"renumbering.md":     {Data: []byte("# Renumbering\n\nOrdinal prefixes")},
		"option-dry-run.txt": {Data: []byte("Dry runs write nothing")},
		"nested/archives.md": {Data: []byte("# Archives")},
		"config.txxt":        {Data: []byte("Configuration")},
		"ignored.json":       {Data: []byte("{}")},
	}
}

func TestScanTopics(t *testing.T) {
	t.Run("default extensions", func(t *testing.T) {
		tm := New(helpFS())
		require.NoError(t, tm.scanTopics())

		tests := []struct {
			name    string
			exists  bool
			content string
		}{
			{"strategies", true, "Strategies resolve every conflict"},
			{"renumbering", true, "# Renumbering\n\nOrdinal prefixes"},
			{"archives", true, "# Archives"},
			{"config", false, ""},
			{"ignored", false, ""},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				topic, ok := tm.GetTopic(tt.name)
				assert.Equal(t, tt.exists, ok)
				if ok {
					assert.Equal(t, tt.content, topic.Content)
				}
			})
		}
	})

	t.Run("custom extensions", func(t *testing.T) {
		tm := NewWithOptions(helpFS(), Options{Extensions: []string{".txxt"}})
		require.NoError(t, tm.scanTopics())

		assert.Equal(t, []string{"config"}, tm.ListTopics())
	})
}

func TestGetTopicOptionNames(t *testing.T) {
	tm := New(helpFS())
	require.NoError(t, tm.scanTopics())

	for _, name := range []string{"dry-run", "--dry-run", "option-dry-run"} {
		topic, ok := tm.GetTopic(name)
		require.True(t, ok, name)
		assert.Equal(t, "Dry runs write nothing", topic.Content)
	}
}

func TestListTopicsSorted(t *testing.T) {
	tm := New(helpFS())
	require.NoError(t, tm.scanTopics())

	assert.Equal(t, []string{"archives", "option-dry-run", "renumbering", "strategies"}, tm.ListTopics())
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	root := &cobra.Command{Use: "modmerge"}
	root.AddCommand(&cobra.Command{Use: "merge", Short: "Merge packages", Run: func(*cobra.Command, []string) {}})

	_, err := Initialize(root, helpFS())
	require.NoError(t, err)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestHelpCommand(t *testing.T) {
	t.Run("topic", func(t *testing.T) {
		assert.Equal(t, "Strategies resolve every conflict", run(t, "help", "strategies"))
	})

	t.Run("topic list", func(t *testing.T) {
		out := run(t, "help", "topics")
		assert.Contains(t, out, "General topics:\n  archives\n  renumbering\n  strategies\n")
		assert.Contains(t, out, "Option topics:\n  --dry-run\n")
		assert.Contains(t, out, "'modmerge help <topic>'")
	})

	t.Run("command help", func(t *testing.T) {
		assert.Contains(t, run(t, "help", "merge"), "Merge packages")
	})
}

func TestInitializeEmpty(t *testing.T) {
	root := &cobra.Command{Use: "modmerge"}
	tm, err := Initialize(root, fstest.MapFS{})
	require.NoError(t, err)

	var out bytes.Buffer
	tm.writeList(&out, "modmerge")
	assert.Equal(t, "No help topics available.\n", out.String())
}

func TestPlainRenderer(t *testing.T) {
	r := &PlainRenderer{}
	assert.Equal(t, "# Title", r.Render("# Title", ".md"))
}

func TestGlamourRendererPassesThroughText(t *testing.T) {
	r := NewGlamourRenderer()
	assert.Equal(t, "plain text", r.Render("plain text", ".txt"))
}
