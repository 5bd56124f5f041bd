package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mithrel/mdslides/internal/deck"
	"github.com/mithrel/mdslides/internal/editor"
	"github.com/mithrel/mdslides/internal/notify"
	"github.com/mithrel/mdslides/internal/orchestrator"
	"github.com/mithrel/mdslides/pkg/api"
)

// sendResultMsg conveys the outcome of a Send back to Update.
type sendResultMsg struct {
	turn api.ChatTurn
	err  error
	dur  time.Duration
}

// regenResultMsg conveys the outcome of a Regenerate.
type regenResultMsg struct {
	theme string
	ok    bool
	err   error
	dur   time.Duration
}

type themesLoadedMsg struct {
	err error
	dur time.Duration
}

type statusResultMsg struct {
	status api.Status
	err    error
	dur    time.Duration

	// startup marks the fetch issued on launch rather than by a key press.
	startup bool
}

type demoResultMsg struct {
	markdown string
	err      error
	dur      time.Duration
}

type exportResultMsg struct {
	path string
	info deck.Info
	err  error
}

type editorDoneMsg struct {
	markdown string
	err      error
}

type notificationMsg notify.Notification

func sendCmd(ctx context.Context, s *orchestrator.Session, text string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		turn, err := s.Send(ctx, text)
		return sendResultMsg{turn: turn, err: err, dur: time.Since(start)}
	}
}

func regenerateCmd(ctx context.Context, s *orchestrator.Session, theme string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		ok, err := s.Regenerate(ctx, theme)
		return regenResultMsg{theme: theme, ok: ok, err: err, dur: time.Since(start)}
	}
}

func loadThemesCmd(ctx context.Context, c Catalog) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		err := c.Load(ctx)
		return themesLoadedMsg{err: err, dur: time.Since(start)}
	}
}

func statusCmd(ctx context.Context, b Backend, startup bool) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		st, err := b.FetchStatus(ctx)
		return statusResultMsg{status: st, err: err, dur: time.Since(start), startup: startup}
	}
}

func demoCmd(ctx context.Context, s *orchestrator.Session, b Backend) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		md, err := s.LoadDemo(ctx, b)
		return demoResultMsg{markdown: md, err: err, dur: time.Since(start)}
	}
}

func exportCmd(path, html string) tea.Cmd {
	return func() tea.Msg {
		info, _ := deck.Inspect(html)
		written, err := deck.WriteFile(path, html)
		return exportResultMsg{path: written, info: info, err: err}
	}
}

// editorCmd suspends the program while $EDITOR edits a draft of initial.
func editorCmd(initial string) tea.Cmd {
	path, err := editor.DraftPath()
	if err == nil {
		err = editor.PrepareAt(path, []byte(editor.ComposeContent(initial)))
	}
	if err != nil {
		return func() tea.Msg { return editorDoneMsg{err: err} }
	}
	c, err := editor.Command(path)
	if err != nil {
		return func() tea.Msg { return editorDoneMsg{err: err} }
	}
	return tea.ExecProcess(c, func(err error) tea.Msg {
		if err != nil {
			return editorDoneMsg{err: err}
		}
		md, err := editor.ReadDraft(path)
		return editorDoneMsg{markdown: md, err: err}
	})
}

// waitForNotification blocks on the bus subscription; Update re-arms it
// after every delivery.
func waitForNotification(ch <-chan notify.Notification) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return notificationMsg(n)
	}
}
