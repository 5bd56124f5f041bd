package format

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mithrel/mdslides/internal/deck"
	"github.com/mithrel/mdslides/pkg/api"
)

const (
	themeHeader = "key\tname\tprimary\tsecondary\tdescription\n"
	turnHeader  = "id\trole\ttime\tdeck\tcontent\n"
)

func esc(field string) string {
	field = strings.ReplaceAll(field, "\t", "\\t")
	field = strings.ReplaceAll(field, "\n", "\\n")
	return field
}

func newTab(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func WritePlainThemes(w io.Writer, themes []api.Theme, headers bool) error {
	tw := newTab(w)
	if headers {
		_, _ = io.WriteString(tw, themeHeader)
	}
	for _, t := range themes {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			esc(t.Key), esc(t.Name), esc(t.PrimaryColor), esc(t.SecondaryColor), esc(t.Description))
	}
	return tw.Flush()
}

func WritePlainTurns(w io.Writer, turns []api.ChatTurn, headers bool) error {
	tw := newTab(w)
	if headers {
		_, _ = io.WriteString(tw, turnHeader)
	}
	for _, t := range turns {
		hasDeck := "-"
		if t.HasDeck() {
			hasDeck = api.ShortDigest(t.SlidesHTML)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			esc(t.ID), t.Role, t.Timestamp.Local().Format(time.RFC3339), hasDeck, esc(t.Content))
	}
	return tw.Flush()
}

// WritePlainReply prints only the assistant text and the theme suggestion,
// which is what a one-shot send wants on stdout.
func WritePlainReply(w io.Writer, t api.ChatTurn) error {
	if _, err := fmt.Fprintln(w, strings.TrimSpace(t.Content)); err != nil {
		return err
	}
	if t.ThemeSuggestion != "" {
		_, err := fmt.Fprintf(w, "theme suggestion: %s\n", t.ThemeSuggestion)
		return err
	}
	return nil
}

func WritePlainStatus(w io.Writer, st api.Status) error {
	tw := newTab(w)
	_, _ = fmt.Fprintf(tw, "status\t%s\n", esc(st.Status))
	_, _ = fmt.Fprintf(tw, "message\t%s\n", esc(st.Message))
	_, _ = fmt.Fprintf(tw, "mode\t%s\n", esc(st.Mode))
	_, _ = fmt.Fprintf(tw, "ai_enabled\t%t\n", st.AIEnabled)
	return tw.Flush()
}

func WritePlainDeck(w io.Writer, info deck.Info, path string) error {
	tw := newTab(w)
	if path != "" {
		_, _ = fmt.Fprintf(tw, "path\t%s\n", esc(path))
	}
	_, _ = fmt.Fprintf(tw, "slides\t%d\n", info.Slides)
	if info.Theme != "" {
		_, _ = fmt.Fprintf(tw, "theme\t%s\n", esc(info.Theme))
	}
	if len(info.Titles) > 0 {
		_, _ = fmt.Fprintf(tw, "titles\t%s\n", esc(strings.Join(info.Titles, ", ")))
	}
	_, _ = fmt.Fprintf(tw, "bytes\t%d\n", info.Bytes)
	return tw.Flush()
}
