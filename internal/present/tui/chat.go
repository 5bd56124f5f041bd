// Package tui is the interactive chat surface: a transcript, a markdown
// input box, a deck preview panel and a theme picker.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"

	"github.com/mithrel/mdslides/internal/deck"
	"github.com/mithrel/mdslides/internal/gateway"
	"github.com/mithrel/mdslides/internal/notify"
	"github.com/mithrel/mdslides/internal/orchestrator"
	"github.com/mithrel/mdslides/internal/render"
	"github.com/mithrel/mdslides/pkg/api"
)

// Catalog is what the chat needs from the theme cache.
type Catalog interface {
	Load(ctx context.Context) error
	Loaded() bool
	Len() int
	Name(key string) string
	Match(input string, n int) []api.Theme
}

// Backend serves the read-only requests that bypass the busy flag.
type Backend interface {
	FetchStatus(ctx context.Context) (api.Status, error)
	FetchDemo(ctx context.Context) (api.DemoContent, error)
}

type Deps struct {
	Session    *orchestrator.Session
	Catalog    Catalog
	Backend    Backend
	Bus        *notify.Bus
	Renderer   *render.Renderer
	ExportPath string
	Log        zerolog.Logger
}

// Run opens the chat in the alternate screen until the user quits.
func Run(ctx context.Context, deps Deps) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var notes <-chan notify.Notification
	if deps.Bus != nil {
		ch, err := deps.Bus.Subscribe(ctx)
		if err != nil {
			return err
		}
		notes = ch
	}
	m := newModel(ctx, deps, notes)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

var (
	userLabel      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Render("You")
	assistantLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170")).Render("Assistant")
	deckStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	faint          = lipgloss.NewStyle().Faint(true)
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	previewBox     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
	toastStyles    = map[notify.Level]lipgloss.Style{
		notify.LevelInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		notify.LevelSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		notify.LevelError:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

type model struct {
	ctx  context.Context
	deps Deps
	keys keyMap

	input      textarea.Model
	transcript viewport.Model
	spinner    spinner.Model
	help       help.Model
	picker     *themePicker

	notes    <-chan notify.Notification
	toast    *notify.Notification
	rendered map[string]string
	backend  *api.Status

	// pending is the user turn shown while its Send is in flight; it is
	// hidden once the log holds more than pendingAt turns.
	pending   *api.ChatTurn
	pendingAt int

	width        int
	height       int
	status       string
	lastDuration time.Duration
}

func newModel(ctx context.Context, deps Deps, notes <-chan notify.Notification) model {
	if deps.Renderer == nil {
		deps.Renderer = render.New("", 0)
	}
	m := model{
		ctx:      ctx,
		deps:     deps,
		keys:     defaultKeyMap,
		notes:    notes,
		rendered: make(map[string]string),
		help:     help.New(),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	m.input = textarea.New()
	m.input.Placeholder = "Paste markdown here; ctrl+s sends it"
	m.input.ShowLineNumbers = false
	m.input.CharLimit = 0
	m.input.SetHeight(5)
	m.input.Focus()
	m.transcript = viewport.New(80, 10)
	m.status = "Loading themes…"
	m.refreshTranscript()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		loadThemesCmd(m.ctx, m.deps.Catalog),
		statusCmd(m.ctx, m.deps.Backend, true),
		waitForNotification(m.notes),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.applyLayout()
		m.rendered = make(map[string]string)
		m.refreshTranscript()
		if m.picker != nil {
			m.picker.update(msg)
		}
		return m, nil

	case notificationMsg:
		n := notify.Notification(msg)
		m.toast = &n
		return m, waitForNotification(m.notes)

	case sendResultMsg:
		m.lastDuration = msg.dur
		m.pending = nil
		m.refreshTranscript()
		switch {
		case errors.Is(msg.err, orchestrator.ErrBusy):
			m.status = "Still working on the previous request"
		case msg.err != nil:
			m.status = "Send failed: " + errText(msg.err)
		case msg.turn.HasDeck():
			m.status = "Deck ready"
		default:
			m.status = "Reply received"
		}
		return m, nil

	case regenResultMsg:
		m.lastDuration = msg.dur
		m.refreshTranscript()
		switch {
		case errors.Is(msg.err, orchestrator.ErrBusy):
			m.status = "Still working on the previous request"
		case msg.err != nil:
			m.status = "Regenerate failed: " + errText(msg.err)
		case !msg.ok:
			m.status = "Nothing to regenerate yet"
		default:
			m.status = "Theme: " + m.deps.Catalog.Name(msg.theme)
		}
		return m, nil

	case themesLoadedMsg:
		m.lastDuration = msg.dur
		if msg.err != nil {
			m.status = "Themes unavailable"
			return m, nil
		}
		m.deps.Session.ReconcileTheme()
		m.status = fmt.Sprintf("%d themes", m.deps.Catalog.Len())
		return m, nil

	case statusResultMsg:
		if msg.err != nil {
			m.deps.Log.Warn().Err(msg.err).Msg("backend status unavailable")
			if !msg.startup {
				m.lastDuration = msg.dur
				m.status = "Backend unreachable: " + errText(msg.err)
			}
			return m, nil
		}
		st := msg.status
		m.backend = &st
		if !msg.startup {
			m.lastDuration = msg.dur
			m.status = fmt.Sprintf("Backend %s • mode %s • AI %s", st.Status, st.Mode, aiLabel(st))
		}
		return m, nil

	case demoResultMsg:
		m.lastDuration = msg.dur
		if msg.err != nil {
			m.status = "Demo unavailable"
			return m, nil
		}
		m.input.SetValue(msg.markdown)
		m.status = "Demo loaded"
		return m, nil

	case exportResultMsg:
		if msg.err != nil {
			m.deps.Log.Warn().Err(msg.err).Msg("export failed")
			m.status = "Export failed: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("Exported %d slides to %s", msg.info.Slides, msg.path)
		return m, nil

	case editorDoneMsg:
		if msg.err != nil {
			m.deps.Log.Warn().Err(msg.err).Msg("editor failed")
			m.status = "Editor failed: " + msg.err.Error()
			return m, nil
		}
		m.input.SetValue(msg.markdown)
		m.status = "Draft updated"
		return m, m.input.Focus()

	case spinner.TickMsg:
		if !m.deps.Session.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.picker != nil {
			return m.updatePicker(msg)
		}
		return m.updateKeys(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.deps.Session
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Send):
		text := m.input.Value()
		if strings.TrimSpace(text) == "" {
			m.status = "Nothing to send"
			return m, nil
		}
		if s.Busy() {
			m.status = "Still working on the previous request"
			return m, nil
		}
		m.input.Reset()
		m.toast = nil
		m.pending = &api.ChatTurn{ID: "pending", Role: api.RoleUser, Content: text, Timestamp: time.Now()}
		m.pendingAt = len(s.Snapshot().Turns)
		m.refreshTranscript()
		m.status = "Generating…"
		return m, tea.Batch(sendCmd(m.ctx, s, text), m.spinner.Tick)

	case key.Matches(msg, m.keys.Themes):
		if _, ok := s.Deck(); !ok {
			m.status = "Send some markdown first"
			return m, nil
		}
		m.picker = newThemePicker(m.deps.Catalog, s.SelectedTheme(), m.width, m.height)
		return m, nil

	case key.Matches(msg, m.keys.Preview):
		s.TogglePreview()
		m.applyLayout()
		return m, nil

	case key.Matches(msg, m.keys.Demo):
		m.status = "Loading demo…"
		return m, demoCmd(m.ctx, s, m.deps.Backend)

	case key.Matches(msg, m.keys.Status):
		m.status = "Checking backend…"
		return m, statusCmd(m.ctx, m.deps.Backend, false)

	case key.Matches(msg, m.keys.Export):
		html, ok := s.Deck()
		if !ok {
			m.status = "No deck to export"
			return m, nil
		}
		return m, exportCmd(m.deps.ExportPath, html)

	case key.Matches(msg, m.keys.Editor):
		return m, editorCmd(m.input.Value())

	case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDown):
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, theme, cmd := m.picker.update(msg)
	switch action {
	case pickerCancel:
		m.picker = nil
		return m, nil
	case pickerChoose:
		m.picker = nil
		if m.deps.Session.Busy() {
			m.status = "Still working on the previous request"
			return m, nil
		}
		m.status = "Applying " + m.deps.Catalog.Name(theme) + "…"
		return m, tea.Batch(regenerateCmd(m.ctx, m.deps.Session, theme), m.spinner.Tick)
	}
	return m, cmd
}

func errText(err error) string {
	var gw *gateway.Error
	if errors.As(err, &gw) && gw.StatusCode != 0 {
		return fmt.Sprintf("HTTP %d", gw.StatusCode)
	}
	return err.Error()
}

// applyLayout splits the screen between transcript, preview and input.
func (m *model) applyLayout() {
	w, h := m.width, m.height
	if w <= 0 || h <= 0 {
		w, h = 80, 24
	}
	m.input.SetWidth(w)
	m.help.Width = w
	used := 1 + m.input.Height() + 2 // header, input, footer and toast
	if snap := m.deps.Session.Snapshot(); snap.PreviewVisible && snap.HasDeck() {
		used += lipgloss.Height(m.previewView(snap))
	}
	m.transcript.Width = w
	m.transcript.Height = max(3, h-used)
}

func (m *model) refreshTranscript() {
	snap := m.deps.Session.Snapshot()
	var b strings.Builder
	for _, t := range snap.Turns {
		out, ok := m.rendered[t.ID]
		if !ok {
			out = m.renderTurn(t)
			m.rendered[t.ID] = out
		}
		b.WriteString(out)
	}
	if m.pending != nil && len(snap.Turns) <= m.pendingAt {
		b.WriteString(m.renderTurn(*m.pending))
	}
	m.transcript.SetContent(b.String())
	m.transcript.GotoBottom()
	m.applyLayout()
}

func (m model) renderTurn(t api.ChatTurn) string {
	label := assistantLabel
	if t.Role == api.RoleUser {
		label = userLabel
	}
	var b strings.Builder
	b.WriteString(label + " " + faint.Render(t.Timestamp.Local().Format("15:04")) + "\n")
	b.WriteString(m.deps.Renderer.Markdown(t.Content))
	if t.HasDeck() {
		info, _ := deck.Inspect(t.SlidesHTML)
		b.WriteString(deckStyle.Render(fmt.Sprintf("  ▸ deck %s • %d slides", api.ShortDigest(t.SlidesHTML), info.Slides)))
		b.WriteString("\n")
	}
	if t.ThemeSuggestion != "" {
		b.WriteString(faint.Render("  suggested theme: "+m.deps.Catalog.Name(t.ThemeSuggestion)) + "\n")
	}
	b.WriteString("\n")
	return b.String()
}

func (m model) previewView(snap orchestrator.Snapshot) string {
	info, _ := deck.Inspect(snap.Deck)
	lines := []string{
		fmt.Sprintf("Deck %s • %s • %d slides", api.ShortDigest(snap.Deck), m.deps.Catalog.Name(snap.SelectedTheme), info.Slides),
	}
	if len(info.Titles) > 0 {
		titles := strings.Join(info.Titles, " | ")
		titles = ansi.Truncate(titles, max(10, m.width-8), "…")
		lines = append(lines, faint.Render(titles))
	}
	return previewBox.Render(strings.Join(lines, "\n"))
}

func (m model) headerView(snap orchestrator.Snapshot) string {
	conv := snap.ConversationID
	if conv == "" {
		conv = "new"
	}
	line := fmt.Sprintf(" theme %s • conversation %s", m.deps.Catalog.Name(snap.SelectedTheme), conv)
	if m.backend != nil {
		line += " • AI " + aiLabel(*m.backend)
	}
	return headerStyle.Render("mdslides") + faint.Render(line)
}

func aiLabel(st api.Status) string {
	if st.AIEnabled {
		return "on"
	}
	return "off"
}

func (m model) footerView(snap orchestrator.Snapshot) string {
	left := m.help.ShortHelpView(m.keys.short())
	right := m.status
	if snap.Phase == orchestrator.Busy {
		right = m.spinner.View() + " " + right
	} else if m.lastDuration > 0 && right != "" {
		right = fmt.Sprintf("%s (%s)", right, m.lastDuration.Round(time.Millisecond))
	}
	width := max(m.width, 80)
	space := max(1, width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", space) + right
}

func (m model) toastView() string {
	if m.toast == nil {
		return ""
	}
	return toastStyles[m.toast.Level].Render(m.toast.Text)
}

func (m model) View() string {
	snap := m.deps.Session.Snapshot()
	parts := []string{m.headerView(snap), m.transcript.View()}
	if snap.PreviewVisible && snap.HasDeck() {
		parts = append(parts, m.previewView(snap))
	}
	parts = append(parts, m.input.View(), m.toastView(), m.footerView(snap))
	base := strings.Join(parts, "\n")
	if m.picker == nil {
		return base
	}
	return m.renderOverlay(base, m.picker.view(), m.picker.width+2, m.picker.height+2)
}
