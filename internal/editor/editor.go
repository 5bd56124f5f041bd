// Package editor composes slide markdown in the user's $EDITOR.
package editor

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/mithrel/mdslides/pkg/api"
)

// Guide lines are HTML comments so that markdown headings survive parsing.
const (
	guideOpen  = "<!-- mdslides:"
	guideClose = "-->"
)

var guide = []string{
	guideOpen + " write slide markdown below; each '#' heading starts a slide " + guideClose,
	guideOpen + " lines like these are removed; save empty to cancel " + guideClose,
}

// ComposeContent creates the text presented to the editor.
func ComposeContent(body string) string {
	var b bytes.Buffer
	for _, g := range guide {
		b.WriteString(g)
		b.WriteString("\n")
	}
	if body != "" {
		b.WriteString(strings.TrimRight(body, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

// ParseEdited drops the guide lines and trims surrounding blank space.
func ParseEdited(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := lines[:0]
	for _, line := range lines {
		trim := strings.TrimSpace(line)
		if strings.HasPrefix(trim, guideOpen) && strings.HasSuffix(trim, guideClose) {
			continue
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// PreferredEditor finds a suitable editor from env or common defaults.
func PreferredEditor() (string, error) {
	if v := os.Getenv("VISUAL"); v != "" {
		return v, nil
	}
	if e := os.Getenv("EDITOR"); e != "" {
		return e, nil
	}
	for _, cand := range []string{"nvim", "vim", "vi", "nano"} {
		if p, err := exec.LookPath(cand); err == nil {
			return p, nil
		}
	}
	return "", errors.New("no editor found; set $EDITOR or $VISUAL")
}

// DraftPath returns a fresh path for a markdown draft.
func DraftPath() (string, error) {
	name := "draft-" + api.NewID() + ".md"
	if xdg := os.Getenv("XDG_RUNTIME_DIR"); xdg != "" {
		return filepath.Join(xdg, "mdslides", name), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "mdslides", "drafts", name), nil
}

// PrepareAt writes the initial content to path with owner-only permissions.
func PrepareAt(path string, initial []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, initial, 0o600)
}

// Command builds the editor invocation for path. $VISUAL/$EDITOR go
// through a shell so flags like "--wait" are honored.
func Command(path string) (*exec.Cmd, error) {
	ed := os.Getenv("VISUAL")
	if ed == "" {
		ed = os.Getenv("EDITOR")
	}
	if strings.TrimSpace(ed) != "" {
		cmd := exec.Command("sh", "-c", "$EDITORCMD \"$FILEPATH\"")
		cmd.Env = append(os.Environ(), "EDITORCMD="+ed, "FILEPATH="+path)
		return cmd, nil
	}
	prog, err := PreferredEditor()
	if err != nil {
		return nil, err
	}
	return exec.Command(prog, path), nil
}

// ReadDraft reads path back, removes it and returns the parsed markdown.
func ReadDraft(path string) (string, error) {
	data, err := os.ReadFile(path)
	_ = os.Remove(path)
	if err != nil {
		return "", err
	}
	return ParseEdited(string(data)), nil
}

// Compose runs the editor in the foreground on initial and returns the
// parsed markdown.
func Compose(initial string) (string, error) {
	path, err := DraftPath()
	if err != nil {
		return "", err
	}
	if err := PrepareAt(path, []byte(ComposeContent(initial))); err != nil {
		return "", err
	}
	cmd, err := Command(path)
	if err != nil {
		return "", err
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		_ = os.Remove(path)
		return "", errors.Wrap(err, "editor")
	}
	return ReadDraft(path)
}

// FirstLine returns the first trimmed line, squashed and truncated.
func FirstLine(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > 120 {
		s = s[:120]
	}
	return s
}
