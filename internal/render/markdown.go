// Package render turns chat markdown into terminal output.
package render

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

const (
	DefaultStyle = "dracula"
	DefaultWidth = 80
)

// Renderer caches one glamour renderer per style and width.
type Renderer struct {
	style string
	width int

	once sync.Once
	tr   *glamour.TermRenderer
	err  error
}

func New(style string, width int) *Renderer {
	if style == "" {
		style = DefaultStyle
	}
	if width <= 0 {
		width = DefaultWidth
	}
	return &Renderer{style: style, width: width}
}

func (r *Renderer) Width() int { return r.width }

// Render styles s with glamour. When glamour cannot be built or fails on
// the input, the normalised plain text is returned with the error.
func (r *Renderer) Render(s string) (string, error) {
	r.once.Do(func() {
		r.tr, r.err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(r.style),
			glamour.WithWordWrap(r.width),
		)
	})
	if r.err != nil {
		return Plain(s), r.err
	}
	out, err := r.tr.Render(s)
	if err != nil {
		return Plain(s), err
	}
	return out, nil
}

// Markdown is Render without the error.
func (r *Renderer) Markdown(s string) string {
	out, _ := r.Render(s)
	return out
}

// Plain normalises line endings and trims surrounding blank space.
func Plain(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.TrimSpace(s)
}
