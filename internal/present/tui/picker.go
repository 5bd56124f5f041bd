package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	lipglossv2 "github.com/charmbracelet/lipgloss/v2"

	"github.com/mithrel/mdslides/pkg/api"
)

type pickerAction int

const (
	pickerNone pickerAction = iota
	pickerChoose
	pickerCancel
)

// themePicker is a modal listing the catalog, narrowed by a fuzzy filter.
type themePicker struct {
	catalog  Catalog
	filter   textinput.Model
	table    table.Model
	shown    []api.Theme
	selected string
	width    int
	height   int
	box      lipglossv2.Style
}

func newThemePicker(c Catalog, selected string, termW, termH int) *themePicker {
	p := &themePicker{catalog: c, selected: selected}
	p.filter = textinput.New()
	p.filter.Prompt = "filter: "
	p.filter.Placeholder = "minimal, dark..."
	p.filter.Focus()
	p.table = table.New(table.WithFocused(true))
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	p.table.SetStyles(s)
	p.resizeForTerm(termW, termH)
	p.refilter()
	return p
}

func (p *themePicker) resizeForTerm(termW, termH int) {
	if termW <= 0 || termH <= 0 {
		termW, termH = 80, 24
	}
	w := min(max(int(float64(termW)*0.6), 44), 90, termW-2)
	h := min(max(int(float64(termH)*0.5), 10), 22, termH-1)
	p.width, p.height = w, h
	p.box = lipglossv2.NewStyle().
		Width(w).
		Height(h).
		Padding(1, 2).
		Border(lipglossv2.RoundedBorder()).
		BorderForeground(lipglossv2.Color("63"))

	inner := max(20, w-2-4)
	p.filter.Width = max(12, inner-lipgloss.Width(p.filter.Prompt))
	keyW := 14
	p.table.SetColumns([]table.Column{
		{Title: "Key", Width: keyW},
		{Title: "Name", Width: max(8, inner-keyW-4)},
	})
	p.table.SetWidth(inner)
	p.table.SetHeight(max(3, h-8))
}

// refilter rebuilds rows from the catalog, keeping the current theme
// under the cursor when it is still listed.
func (p *themePicker) refilter() {
	p.shown = p.catalog.Match(strings.TrimSpace(p.filter.Value()), 0)
	rows := make([]table.Row, 0, len(p.shown))
	cursor := 0
	for i, t := range p.shown {
		name := t.Name
		if t.Key == p.selected {
			name += " ✓"
			cursor = i
		}
		rows = append(rows, table.Row{t.Key, name})
	}
	p.table.SetRows(rows)
	p.table.SetCursor(cursor)
}

// current returns the theme key under the cursor.
func (p *themePicker) current() (string, bool) {
	i := p.table.Cursor()
	if i < 0 || i >= len(p.shown) {
		return "", false
	}
	return p.shown[i].Key, true
}

func (p *themePicker) update(msg tea.Msg) (pickerAction, string, tea.Cmd) {
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		p.resizeForTerm(x.Width, x.Height)
		return pickerNone, "", nil
	case tea.KeyMsg:
		switch x.String() {
		case "esc", "ctrl+q":
			return pickerCancel, "", nil
		case "enter":
			if k, ok := p.current(); ok {
				return pickerChoose, k, nil
			}
			return pickerNone, "", nil
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			p.table, cmd = p.table.Update(msg)
			return pickerNone, "", cmd
		}
	}
	before := p.filter.Value()
	var cmd tea.Cmd
	p.filter, cmd = p.filter.Update(msg)
	if p.filter.Value() != before {
		p.refilter()
	}
	return pickerNone, "", cmd
}

func (p *themePicker) view() string {
	header := lipgloss.NewStyle().Bold(true).Render("Switch theme")
	help := lipgloss.NewStyle().Faint(true).Render("enter=apply • esc=cancel • ↑/↓=move")
	var list string
	if len(p.shown) == 0 {
		list = lipgloss.NewStyle().Faint(true).Render("(no themes)")
	} else {
		list = p.table.View()
	}
	var desc string
	if k, ok := p.current(); ok {
		for _, t := range p.shown {
			if t.Key == k {
				desc = lipgloss.NewStyle().Faint(true).Render(t.Description)
				break
			}
		}
	}
	body := strings.Join([]string{header, "", p.filter.View(), "", list, desc, help}, "\n")
	return p.box.Render(body)
}
