package deck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mithrel/mdslides/internal/backendtest"
)

func TestInspectRenderedDeck(t *testing.T) {
	html := backendtest.RenderDeck("# Intro\n- a\n# Details\n- b", "minimal")
	info, err := Inspect(html)
	require.NoError(t, err)
	require.Equal(t, 2, info.Slides)
	require.Equal(t, []string{"Intro", "Details"}, info.Titles)
	require.Equal(t, "Generated Slides", info.Title)
	require.Equal(t, "minimal", info.Theme)
	require.Equal(t, len(html), info.Bytes)
}

func TestInspectPlainMarkup(t *testing.T) {
	info, err := Inspect("<p>just text</p>")
	require.NoError(t, err)
	require.Equal(t, 1, info.Slides)
	require.Empty(t, info.Titles)

	info, err = Inspect("  ")
	require.NoError(t, err)
	require.Zero(t, info.Slides)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteFile(filepath.Join(dir, "out", "deck.html"), "<html></html>")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "<html></html>", string(data))

	st, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o644), st.Mode().Perm()&0o644)
}

func TestWriteFileRejectsEmptyDeck(t *testing.T) {
	_, err := WriteFile(filepath.Join(t.TempDir(), "x.html"), "")
	require.Error(t, err)
}
