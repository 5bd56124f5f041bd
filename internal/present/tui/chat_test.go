package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/mdslides/internal/backendtest"
	"github.com/mithrel/mdslides/internal/gateway"
	"github.com/mithrel/mdslides/internal/notify"
	"github.com/mithrel/mdslides/internal/orchestrator"
	"github.com/mithrel/mdslides/internal/render"
	"github.com/mithrel/mdslides/internal/themes"
	"github.com/mithrel/mdslides/pkg/api"
)

type fixture struct {
	backend *backendtest.Backend
	catalog *themes.Catalog
	session *orchestrator.Session
	rec     *notify.Recorder
	m       model
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	b, srv := backendtest.Start(t)
	gw := gateway.New(srv.URL)
	cat := themes.NewCatalog(gw, zerolog.Nop())
	rec := &notify.Recorder{}
	s := orchestrator.New(gw, orchestrator.WithNotifier(rec), orchestrator.WithThemes(cat), orchestrator.WithWelcome(orchestrator.WelcomeText))
	m := newModel(context.Background(), Deps{
		Session:    s,
		Catalog:    cat,
		Backend:    gw,
		Renderer:   render.New("notty", 60),
		ExportPath: filepath.Join(t.TempDir(), "deck.html"),
	}, nil)
	f := &fixture{backend: b, catalog: cat, session: s, rec: rec, m: m}
	f.step(tea.WindowSizeMsg{Width: 100, Height: 40})
	f.step(loadThemesCmd(context.Background(), cat)())
	return f
}

// step feeds msg to the model and returns the command it produced.
func (f *fixture) step(msg tea.Msg) tea.Cmd {
	next, cmd := f.m.Update(msg)
	f.m = next.(model)
	return cmd
}

// run executes cmd and feeds its result back; inside a batch only the
// request outcome is delivered, spinner ticks are dropped.
func (f *fixture) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c == nil {
				continue
			}
			inner := c()
			switch inner.(type) {
			case sendResultMsg, regenResultMsg:
				f.step(inner)
			}
		}
		return
	}
	f.step(msg)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyCtrlP}
	case "ctrl+l":
		return tea.KeyMsg{Type: tea.KeyCtrlL}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	case "ctrl+b":
		return tea.KeyMsg{Type: tea.KeyCtrlB}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestThemesLoadedOnStart(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, 3, f.catalog.Len())
	require.Equal(t, "3 themes", f.m.status)
	require.Contains(t, f.m.View(), "Professional")
}

func TestThemesLoadReconcilesSelection(t *testing.T) {
	f := newFixture(t)
	f.backend.SetThemes(map[string]api.Theme{
		"dark":    {Name: "Dark"},
		"minimal": {Name: "Minimal"},
	})
	f.step(loadThemesCmd(context.Background(), f.catalog)())

	require.Equal(t, "2 themes", f.m.status)
	require.Equal(t, "dark", f.session.SelectedTheme())
	require.Contains(t, f.m.View(), "theme Dark")
}

func TestInitFetchesBackendStatus(t *testing.T) {
	f := newFixture(t)
	msg := f.m.Init()()
	batch, ok := msg.(tea.BatchMsg)
	require.True(t, ok)
	for _, c := range batch {
		if c == nil {
			continue
		}
		switch inner := c().(type) {
		case statusResultMsg, themesLoadedMsg:
			f.step(inner)
		}
	}

	require.Len(t, f.backend.Requests("/api/"), 1)
	require.Equal(t, "3 themes", f.m.status)
	require.Contains(t, f.m.View(), "AI off")
}

func TestUserTurnShownWhileSending(t *testing.T) {
	f := newFixture(t)
	f.m.input.SetValue("quarterly roadmap")
	cmd := f.step(keyMsg("ctrl+s"))

	require.Len(t, f.session.Snapshot().Turns, 1)
	require.Contains(t, f.m.transcript.View(), "quarterly roadmap")

	f.run(cmd)
	require.Nil(t, f.m.pending)
	require.Len(t, f.session.Snapshot().Turns, 3)
	require.Equal(t, 1, strings.Count(f.m.transcript.View(), "quarterly roadmap"))
}

func TestPreviewTitlesTruncateOnRunes(t *testing.T) {
	f := newFixture(t)
	f.step(tea.WindowSizeMsg{Width: 20, Height: 40})
	f.m.input.SetValue("# Überblick über Änderungen\n# Größenordnung")
	f.run(f.step(keyMsg("ctrl+s")))

	view := f.m.previewView(f.session.Snapshot())
	require.True(t, utf8.ValidString(view))
	require.Contains(t, view, "…")
}

func TestSendShowsDeckAndPreview(t *testing.T) {
	f := newFixture(t)
	f.m.input.SetValue("# Title\n- point1")
	f.run(f.step(keyMsg("ctrl+s")))

	require.Empty(t, f.m.input.Value())
	require.Equal(t, "Deck ready", f.m.status)
	snap := f.session.Snapshot()
	require.Len(t, snap.Turns, 3)
	require.True(t, snap.PreviewVisible)

	view := f.m.View()
	require.Contains(t, view, "1 slides")
	require.Contains(t, view, "Title")

	f.step(keyMsg("ctrl+p"))
	require.False(t, f.session.Snapshot().PreviewVisible)
}

func TestSendBlankIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.m.input.SetValue("   ")
	require.Nil(t, f.step(keyMsg("ctrl+s")))
	require.Equal(t, "Nothing to send", f.m.status)
	require.Empty(t, f.backend.Requests("/chat"))
}

func TestSendFailureReported(t *testing.T) {
	f := newFixture(t)
	f.backend.Fail("/chat", 500)
	f.m.input.SetValue("# Title")
	f.run(f.step(keyMsg("ctrl+s")))

	require.Equal(t, "Send failed: HTTP 500", f.m.status)
	last, ok := f.rec.Last()
	require.True(t, ok)
	require.Equal(t, notify.LevelError, last.Level)
}

func TestThemePickerRegenerates(t *testing.T) {
	f := newFixture(t)

	// no deck yet: the picker does not open
	f.step(keyMsg("ctrl+t"))
	require.Nil(t, f.m.picker)

	f.m.input.SetValue("# Intro\n# Outro")
	f.run(f.step(keyMsg("ctrl+s")))

	f.step(keyMsg("ctrl+t"))
	require.NotNil(t, f.m.picker)
	for _, r := range "mini" {
		f.step(keyMsg(string(r)))
	}
	require.Len(t, f.m.picker.shown, 1)
	require.Contains(t, f.m.View(), "Switch theme")

	f.run(f.step(keyMsg("enter")))
	require.Nil(t, f.m.picker)
	require.Equal(t, "minimal", f.session.SelectedTheme())
	require.Equal(t, "Theme: Minimal", f.m.status)

	reqs := f.backend.Requests("/generate-slides")
	require.Len(t, reqs, 1)
	var body struct{ Markdown, Theme string }
	require.NoError(t, reqs[0].Decode(&body))
	require.Equal(t, "# Intro\n# Outro", body.Markdown)
}

func TestPickerCancel(t *testing.T) {
	f := newFixture(t)
	f.m.input.SetValue("# A")
	f.run(f.step(keyMsg("ctrl+s")))
	f.step(keyMsg("ctrl+t"))
	f.step(keyMsg("esc"))
	require.Nil(t, f.m.picker)
	require.Empty(t, f.backend.Requests("/generate-slides"))
}

func TestDemoFillsInput(t *testing.T) {
	f := newFixture(t)
	f.run(f.step(keyMsg("ctrl+l")))
	require.True(t, strings.HasPrefix(f.m.input.Value(), "# Welcome"))
	require.Equal(t, "Demo loaded", f.m.status)
	require.Len(t, f.session.Snapshot().Turns, 1)
}

func TestBackendStatus(t *testing.T) {
	f := newFixture(t)
	f.run(f.step(keyMsg("ctrl+b")))
	require.Contains(t, f.m.status, "Backend running")
	require.Contains(t, f.m.status, "AI off")
}

func TestExport(t *testing.T) {
	f := newFixture(t)
	f.step(keyMsg("ctrl+o"))
	require.Equal(t, "No deck to export", f.m.status)

	f.m.input.SetValue("# A\n# B")
	f.run(f.step(keyMsg("ctrl+s")))
	f.run(f.step(keyMsg("ctrl+o")))
	require.Contains(t, f.m.status, "Exported 2 slides")

	data, err := os.ReadFile(f.m.deps.ExportPath)
	require.NoError(t, err)
	html, _ := f.session.Deck()
	require.Equal(t, html, string(data))
}

func TestNotificationShownAsToast(t *testing.T) {
	f := newFixture(t)
	ch := make(chan notify.Notification, 1)
	f.m.notes = ch
	ch <- notify.Success("Slides generated successfully!")
	cmd := f.step(waitForNotification(ch)())
	require.NotNil(t, cmd)
	require.Contains(t, f.m.View(), "Slides generated successfully!")
}
