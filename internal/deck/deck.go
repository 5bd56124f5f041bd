// Package deck reads facts out of a rendered slide deck and writes it to disk.
package deck

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

// DefaultExportPath is the file name used when none is configured.
const DefaultExportPath = "slides.html"

// Info summarises a deck for status lines and CLI output.
type Info struct {
	Title  string   `json:"title"`
	Theme  string   `json:"theme,omitempty"`
	Slides int      `json:"slides"`
	Titles []string `json:"titles,omitempty"`
	Bytes  int      `json:"bytes"`
}

// Inspect counts the slide containers of html and collects their titles.
// Markup without slide containers counts as one slide when non-empty.
func Inspect(html string) (Info, error) {
	info := Info{Bytes: len(html)}
	if strings.TrimSpace(html) == "" {
		return info, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return info, errors.Wrap(err, "parse deck")
	}

	info.Title = strings.TrimSpace(doc.Find("title").First().Text())
	info.Theme, _ = doc.Find("body").Attr("data-theme")

	slides := doc.Find(".slide-container")
	info.Slides = slides.Length()
	slides.Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Find(".slide-title, h1, h2").First().Text()); t != "" {
			info.Titles = append(info.Titles, t)
		}
	})
	if info.Slides == 0 {
		info.Slides = 1
	}
	return info, nil
}

// WriteFile exports html to path, creating parent directories. An empty
// path means DefaultExportPath.
func WriteFile(path, html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", errors.New("no deck to export")
	}
	if path == "" {
		path = DefaultExportPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", errors.Wrap(err, "create export dir")
		}
	}
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return "", errors.Wrap(err, "write deck")
	}
	return path, nil
}
