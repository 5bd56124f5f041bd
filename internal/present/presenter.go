// Package present writes command results in the requested output mode.
package present

import (
	"io"
	"os"

	"golang.org/x/term"

	"github.com/mithrel/mdslides/internal/deck"
	"github.com/mithrel/mdslides/internal/present/format"
	"github.com/mithrel/mdslides/internal/render"
	"github.com/mithrel/mdslides/pkg/api"
)

type Mode int

const (
	ModePlain Mode = iota
	ModePretty
	ModeJSON
	ModeNDJSON
)

type Options struct {
	Mode       Mode
	JSONIndent bool
	Headers    bool
	Renderer   *render.Renderer
}

// ParseMode parses "plain", "pretty", "json" or "ndjson".
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "plain":
		return ModePlain, true
	case "pretty":
		return ModePretty, true
	case "json":
		return ModeJSON, true
	case "ndjson":
		return ModeNDJSON, true
	default:
		return ModePlain, false
	}
}

// DefaultMode is pretty on a terminal and plain when piped.
func DefaultMode(w io.Writer) Mode {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return ModePretty
	}
	return ModePlain
}

// TerminalWidth returns the width of w when it is a terminal, else fallback.
func TerminalWidth(w io.Writer, fallback int) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return fallback
}

func (o Options) renderer() *render.Renderer {
	if o.Renderer != nil {
		return o.Renderer
	}
	return render.New("", 0)
}

func RenderThemes(w io.Writer, themes []api.Theme, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSON(w, themes, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSON(w, themes)
	case ModePretty:
		return format.WritePrettyThemes(w, opts.renderer(), themes)
	default:
		return format.WritePlainThemes(w, themes, opts.Headers)
	}
}

func RenderReply(w io.Writer, t api.ChatTurn, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSON(w, t, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSON(w, []api.ChatTurn{t})
	case ModePretty:
		return format.WritePrettyReply(w, opts.renderer(), t)
	default:
		return format.WritePlainReply(w, t)
	}
}

func RenderTurns(w io.Writer, turns []api.ChatTurn, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSON(w, turns, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSON(w, turns)
	default:
		return format.WritePlainTurns(w, turns, opts.Headers)
	}
}

func RenderStatus(w io.Writer, st api.Status, opts Options) error {
	switch opts.Mode {
	case ModeJSON, ModeNDJSON:
		v := any(st)
		if st.Raw != nil {
			v = st.Raw
		}
		return format.WriteJSON(w, v, opts.JSONIndent && opts.Mode == ModeJSON)
	case ModePretty:
		return format.WritePrettyStatus(w, opts.renderer(), st)
	default:
		return format.WritePlainStatus(w, st)
	}
}

// deckReport is the JSON shape of an exported or generated deck.
type deckReport struct {
	Path string `json:"path,omitempty"`
	deck.Info
}

func RenderDeck(w io.Writer, info deck.Info, path string, opts Options) error {
	switch opts.Mode {
	case ModeJSON, ModeNDJSON:
		return format.WriteJSON(w, deckReport{Path: path, Info: info}, opts.JSONIndent && opts.Mode == ModeJSON)
	default:
		return format.WritePlainDeck(w, info, path)
	}
}
