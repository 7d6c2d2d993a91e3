package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"time"
)

const (
	pageTemplate = "index.html"
	tileTemplate = "tile"
)

// ReferenceRow describes one widget's data source in the page's API
// reference panel.
type ReferenceRow struct {
	Widget      string `json:"widget"`
	Method      string `json:"method"`
	Endpoint    string `json:"endpoint"`
	Description string `json:"description"`
	Example     string `json:"example"`
}

// Page is the data for the full dashboard page.
type Page struct {
	Title     string
	Tiles     []Tile
	Reference []ReferenceRow
}

// HTML renders pages and tile fragments from html/template assets.
//
// The asset filesystem must contain assets/index.html and a template named
// "tile". Output is escaped by html/template, so titles and payload text are
// safe to embed.
type HTML struct {
	tmpl *template.Template
}

// NewHTML parses every template under assets/. Tiles fade in one after
// another, each delayed by revealStagger times its index.
func NewHTML(assets fs.FS, revealStagger time.Duration) (*HTML, error) {
	funcs := template.FuncMap{
		"revealDelay": func(index int) string {
			return fmt.Sprintf("%dms", (time.Duration(index) * revealStagger).Milliseconds())
		},
		"seq": func(n int) []int {
			out := make([]int, max(n, 0))
			for i := range out {
				out[i] = i
			}
			return out
		},
	}

	tmpl, err := template.New("").Funcs(funcs).ParseFS(assets, "assets/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing dashboard templates: %w", err)
	}
	if tmpl.Lookup(pageTemplate) == nil {
		return nil, fmt.Errorf("dashboard template %q not found", pageTemplate)
	}
	if tmpl.Lookup(tileTemplate) == nil {
		return nil, fmt.Errorf("dashboard template %q not found", tileTemplate)
	}

	return &HTML{tmpl: tmpl}, nil
}

// Page writes the full dashboard page.
func (h *HTML) Page(w io.Writer, page Page) error {
	return h.tmpl.ExecuteTemplate(w, pageTemplate, page)
}

// Tile renders the body of a single tile, as pushed to browsers on update.
func (h *HTML) Tile(tile Tile) (string, error) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, tileTemplate, tile); err != nil {
		return "", err
	}
	return buf.String(), nil
}
