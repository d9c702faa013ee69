package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/crudapp/crudapp/internal/item"
	"github.com/gin-gonic/gin/render"
)

//go:embed templates static
var content embed.FS

// Page names accepted by Render and gin's c.HTML.
const (
	Index = "index.html"
	Add   = "add.html"
	Edit  = "edit.html"
)

var pages = []string{Index, Add, Edit}

// Page is the data every template receives.
type Page struct {
	Title string
	Items []*item.Item
	Item  *item.Item
}

// Templates holds one parsed set per page, each combined with the layout.
// It implements gin's render.HTMLRender.
type Templates struct {
	templates map[string]*template.Template
}

// Load parses all page templates with the layout.
func Load() (*Templates, error) {
	tfs, err := fs.Sub(content, "templates")
	if err != nil {
		return nil, err
	}

	ts := &Templates{templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		tmpl, err := template.New(page).ParseFS(tfs, "layout.html", page)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		ts.templates[page] = tmpl
	}
	return ts, nil
}

// StaticFS returns the embedded stylesheet directory.
func StaticFS() fs.FS {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Render writes page to w.
func (ts *Templates) Render(w io.Writer, page string, data Page) error {
	tmpl, ok := ts.templates[page]
	if !ok {
		return fmt.Errorf("template %s not found", page)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

// Instance lets gin render pages through c.HTML.
func (ts *Templates) Instance(page string, data any) render.Render {
	return render.HTML{Template: ts.templates[page], Name: "layout", Data: data}
}
