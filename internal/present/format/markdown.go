package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/mithrel/mdslides/internal/render"
	"github.com/mithrel/mdslides/pkg/api"
)

func writeRendered(w io.Writer, r *render.Renderer, md string) error {
	_, err := io.WriteString(w, r.Markdown(md))
	return err
}

// WritePrettyThemes renders the catalog as a markdown table.
func WritePrettyThemes(w io.Writer, r *render.Renderer, themes []api.Theme) error {
	var b strings.Builder
	b.WriteString("| Key | Name | Colors | Description |\n|---|---|---|---|\n")
	for _, t := range themes {
		fmt.Fprintf(&b, "| `%s` | %s | %s / %s | %s |\n",
			t.Key, t.Name, t.PrimaryColor, t.SecondaryColor, t.Description)
	}
	return writeRendered(w, r, b.String())
}

// WritePrettyReply renders an assistant turn the way the chat shows it.
func WritePrettyReply(w io.Writer, r *render.Renderer, t api.ChatTurn) error {
	md := strings.TrimSpace(t.Content)
	if t.ThemeSuggestion != "" {
		md += fmt.Sprintf("\n\n> **Suggested theme:** %s", t.ThemeSuggestion)
	}
	return writeRendered(w, r, md)
}

func WritePrettyStatus(w io.Writer, r *render.Renderer, st api.Status) error {
	ai := "disabled"
	if st.AIEnabled {
		ai = "enabled"
	}
	md := fmt.Sprintf("# Backend %s\n\n%s\n\n> **Mode:** %s | **AI:** %s\n", st.Status, st.Message, st.Mode, ai)
	return writeRendered(w, r, md)
}
