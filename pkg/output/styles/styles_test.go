package styles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedStyles(t *testing.T) {
	for _, name := range []string{"Header", "Package", "Path", "Partner", "Allowed", "Muted", "Success", "Unresolved", "Error"} {
		_, ok := StyleRegistry[name]
		assert.True(t, ok, "style %s is defined", name)
	}

	assert.True(t, GetStyle("Header").GetBold())
	assert.True(t, GetStyle("Allowed").GetItalic())
	assert.Equal(t, 2, GetStyle("Indent").GetMarginLeft())
	assert.False(t, GetStyle("NoSuchStyle").GetBold())
}

func TestLoadStyles(t *testing.T) {
	t.Cleanup(func() { require.NoError(t, Parse(defaultStyles)) })

	path := filepath.Join(t.TempDir(), "styles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
colors:
  red: {light: "#FF0000", dark: "#FF0000"}
styles:
  Header: {underline: true, foreground: red}
`), 0644))

	require.NoError(t, LoadStyles(path))
	assert.True(t, GetStyle("Header").GetUnderline())
	assert.False(t, GetStyle("Header").GetBold())
	_, ok := StyleRegistry["Package"]
	assert.False(t, ok, "loading replaces the registry")

	assert.Error(t, LoadStyles(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, Parse([]byte("styles: [")))
}
