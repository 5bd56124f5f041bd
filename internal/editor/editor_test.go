package editor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComposeAndParseKeepHeadings(t *testing.T) {
	md := "# Title\n- point\n\n## Second\n"
	content := ComposeContent(md)
	require.True(t, strings.HasPrefix(content, guideOpen))
	require.Equal(t, strings.TrimSpace(md), ParseEdited(content))
}

func TestParseEditedOnlyGuide(t *testing.T) {
	require.Empty(t, ParseEdited(ComposeContent("")))
}

func TestFirstLine(t *testing.T) {
	require.Equal(t, "hello there", FirstLine("  hello   there\nworld\n"))
	require.Len(t, FirstLine(strings.Repeat("x", 130)), 120)
	require.Empty(t, FirstLine(" \n "))
}

func TestDraftPathUsesRuntimeDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", dir)
	p, err := DraftPath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "mdslides"), filepath.Dir(p))
	require.True(t, strings.HasSuffix(p, ".md"))
}

func TestComposeWithScriptedEditor(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", dir)
	// The "editor" appends a slide to whatever it is given.
	script := filepath.Join(t.TempDir(), "fake-editor")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nprintf '# Added\\n' >> \"$1\"\n"), 0o700))
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", script)

	out, err := Compose("# Start")
	require.NoError(t, err)
	require.Equal(t, "# Start\n# Added", out)

	entries, err := os.ReadDir(filepath.Join(dir, "mdslides"))
	require.NoError(t, err)
	require.Empty(t, entries, "draft is removed after reading")
}

func TestPrepareAtPermissions(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a", "b.md")
	require.NoError(t, PrepareAt(p, []byte("x")))
	st, err := os.Stat(p)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), st.Mode().Perm())
}
